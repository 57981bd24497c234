package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/username/billfolio/backend/src/models"
)

// LoadAccountRules reads the ordered account mapping file. The file is a
// JSON array, not an object: rule order decides match priority and must
// survive the round trip.
//
//	[
//	  {"match": "招商银行储蓄卡(1234)", "account": "Assets:Bank:CMB"},
//	  {"match": "储蓄卡", "account": "Assets:Bank:Unknown"}
//	]
func LoadAccountRules(path string) ([]models.AccountRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read account mapping file %s: %w", path, err)
	}
	var rules []models.AccountRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse account mapping file %s: %w", path, err)
	}
	for i, rule := range rules {
		if rule.Match == "" || rule.Account == "" {
			return nil, fmt.Errorf("account mapping file %s: rule %d is missing match or account", path, i)
		}
	}
	return rules, nil
}
