// src/importers/synthesizer.go
package importers

import (
	"strings"

	"github.com/username/billfolio/backend/src/models"
)

// synthesized is the outcome of posting synthesis for one record: the final
// narration and payee, the confidence flag, and one or two posting legs.
type synthesized struct {
	payee     *string
	narration string
	flag      string
	postings  []models.Posting
}

// synthesizePostings derives the posting legs for a classified record.
//
// The defaults are the record's description and counterparty with a single
// leg against the resolved account, amount negated when funds flow out.
// Special trade types and refund-suffixed types rewrite the narration and
// suppress the payee. Cash withdrawals and completed top-ups are
// self-transfers and expand into two legs that sum to zero: the wallet leg
// takes the negated signed amount, the external leg the signed amount.
func synthesizePostings(p *Profile, rec models.BillRecord, resolved models.ResolvedAccount, ownerAccount string) synthesized {
	out := synthesized{
		narration: rec.Description,
		flag:      models.FlagReview,
	}
	if resolved.Matched {
		out.flag = models.FlagCleared
	}
	payee := rec.Counterparty
	out.payee = &payee

	signed := rec.Amount
	if rec.IsOutflow {
		signed = signed.Neg()
	}

	if p.SpecialTradeTypes[rec.TradeType] {
		out.narration = rec.TradeType
		if rec.Counterparty != "" {
			out.narration = rec.TradeType + "-" + rec.Counterparty
		}
		out.payee = nil
	}
	if p.RefundSuffix != "" && strings.HasSuffix(rec.TradeType, p.RefundSuffix) {
		out.narration = rec.TradeType
		out.payee = nil
	}

	switch {
	case p.WithdrawalTradeType != "" && rec.TradeType == p.WithdrawalTradeType:
		out.narration = p.WithdrawalNarration
		out.payee = nil
		out.postings = selfTransferLegs(ownerAccount, resolved.Account, signed)
	case p.TopUpStatus != "" && rec.Status == p.TopUpStatus:
		out.narration = p.TopUpNarration
		out.payee = nil
		out.postings = selfTransferLegs(ownerAccount, resolved.Account, signed)
	default:
		out.postings = []models.Posting{{Account: resolved.Account, Amount: signed}}
	}
	return out
}

func selfTransferLegs(ownerAccount, externalAccount string, signed models.Amount) []models.Posting {
	return []models.Posting{
		{Account: ownerAccount, Amount: signed.Neg()},
		{Account: externalAccount, Amount: signed},
	}
}
