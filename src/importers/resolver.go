// src/importers/resolver.go
package importers

import (
	"strings"

	"github.com/username/billfolio/backend/src/models"
)

// FallbackAccount is assigned when no rule matches the payment source. The
// emitted transaction carries the review flag so a human can fix it later.
const FallbackAccount = "Assets:FIXME"

// resolveAccount walks the rules in insertion order and returns the account
// of the first rule whose match token is a substring of paySource. This is a
// first-match policy, not best-match: callers order specific tokens before
// generic ones.
func resolveAccount(paySource string, rules []models.AccountRule, fallback string) models.ResolvedAccount {
	for _, rule := range rules {
		if strings.Contains(paySource, rule.Match) {
			return models.ResolvedAccount{Account: rule.Account, Matched: true}
		}
	}
	return models.ResolvedAccount{Account: fallback, Matched: false}
}
