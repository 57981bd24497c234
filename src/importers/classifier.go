// src/importers/classifier.go
package importers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/billfolio/backend/src/models"
)

// errSkipRow marks rows dropped without failing the file. The exports are
// known to contain malformed trailing rows; those are tolerated losses, not
// pipeline failures.
var errSkipRow = errors.New("skip statement row")

// narrationRuneLimit bounds the description used for narration. The limit
// counts runes, not bytes; source text is multi-byte.
const narrationRuneLimit = 15

// classifyRow turns a decoded row into a BillRecord. A row whose trade time
// or amount cannot be parsed is reported as errSkipRow.
func classifyRow(p *Profile, row RawRow) (models.BillRecord, error) {
	tradeTime, err := parseTradeTime(p, row[p.TimeColumn])
	if err != nil {
		return models.BillRecord{}, errSkipRow
	}

	rawAmount := row[p.AmountColumn]
	for _, glyph := range p.CurrencyGlyphs {
		rawAmount = strings.TrimPrefix(rawAmount, glyph)
	}
	value, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return models.BillRecord{}, errSkipRow
	}
	value = value.Abs()

	isOutflow := false
	for _, label := range p.OutflowLabels {
		if row[p.DirectionColumn] == label {
			isOutflow = true
			break
		}
	}

	description := row[p.DescriptionColumn]
	for _, prefix := range p.DescriptionPrefixes {
		description = strings.TrimPrefix(description, prefix)
	}
	description = truncateDescription(description)

	return models.BillRecord{
		TradeTime:       tradeTime,
		TradeType:       row[p.TypeColumn],
		Counterparty:    row[p.CounterpartyColumn],
		Description:     description,
		IsOutflow:       isOutflow,
		Amount:          models.Amount{Value: value, Currency: p.Currency},
		PaySource:       row[p.PaySourceColumn],
		Status:          row[p.StatusColumn],
		TransactionID:   row[p.TransactionIDColumn],
		MerchantOrderID: row[p.MerchantOrderIDColumn],
		Category:        row[p.CategoryColumn],
	}, nil
}

func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= narrationRuneLimit {
		return s
	}
	return string(runes[:narrationRuneLimit]) + "..."
}

func parseTradeTime(p *Profile, value string) (time.Time, error) {
	for _, layout := range p.TimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized trade time %q", value)
}
