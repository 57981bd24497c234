// src/importers/importer.go
package importers

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/username/billfolio/backend/src/logger"
	"github.com/username/billfolio/backend/src/models"
)

const statementDateLayout = "20060102"

// Config carries the caller-supplied pieces an Importer needs beyond its
// platform profile. AccountRules and the tag are read-only for the lifetime
// of the importer.
type Config struct {
	// OwnerAccount is the ledger account owning the platform wallet.
	OwnerAccount string
	// AccountRules map payment-source substrings to ledger accounts, in
	// priority order. The profile's wallet label is seeded ahead of them.
	AccountRules []models.AccountRule
	// FallbackAccount overrides the placeholder used when no rule matches.
	FallbackAccount string
	// Tag, when set, is attached to every extracted transaction.
	Tag string
	// IncludeTime attaches the time of day as transaction metadata.
	IncludeTime bool
}

// Importer normalizes one platform's statement exports into balanced
// transactions. An Importer holds no mutable state, so independent instances
// may process files concurrently.
type Importer struct {
	profile     *Profile
	owner       string
	rules       []models.AccountRule
	fallback    string
	tags        []string
	includeTime bool
}

// NewImporter builds an importer for the given profile. The platform's own
// wallet label is seeded as the first account rule, resolving to the owning
// account; a caller rule with the same match token replaces the seeded
// target without losing its first position.
func NewImporter(profile *Profile, cfg Config) *Importer {
	rules := make([]models.AccountRule, 0, len(cfg.AccountRules)+1)
	if profile.WalletLabel != "" {
		rules = append(rules, models.AccountRule{Match: profile.WalletLabel, Account: cfg.OwnerAccount})
	}
	for _, rule := range cfg.AccountRules {
		if profile.WalletLabel != "" && rule.Match == profile.WalletLabel {
			rules[0].Account = rule.Account
			continue
		}
		rules = append(rules, rule)
	}

	fallback := cfg.FallbackAccount
	if fallback == "" {
		fallback = FallbackAccount
	}

	var tags []string
	if cfg.Tag != "" {
		tags = []string{cfg.Tag}
	}

	return &Importer{
		profile:     profile,
		owner:       cfg.OwnerAccount,
		rules:       rules,
		fallback:    fallback,
		tags:        tags,
		includeTime: cfg.IncludeTime,
	}
}

// Source returns the platform name this importer handles.
func (imp *Importer) Source() string { return imp.profile.Source }

// Identify reports whether this importer can handle the named statement
// file, judged by the platform's filename pattern alone.
func (imp *Importer) Identify(filename string) bool {
	return imp.profile.FileNameRegex.MatchString(filepath.Base(filename))
}

// StatementDate extracts the statement date embedded in the file name.
func (imp *Importer) StatementDate(filename string) (time.Time, error) {
	match := imp.profile.FileNameRegex.FindStringSubmatch(filepath.Base(filename))
	if match == nil {
		return time.Time{}, fmt.Errorf("%s importer: file name %q does not match the statement pattern",
			imp.profile.Source, filepath.Base(filename))
	}
	return time.Parse(statementDateLayout, match[imp.profile.StatementDateGroup])
}

// Extract reads a statement stream and returns its normalized transactions
// in source row order. Malformed rows are dropped and the extraction
// continues; a schema or decode failure aborts the whole file.
func (imp *Importer) Extract(r io.Reader, sourcePath string) ([]models.NormalizedTransaction, error) {
	rr, err := newRowReader(r, imp.profile)
	if err != nil {
		return nil, err
	}

	var txns []models.NormalizedTransaction
	for {
		row, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s importer: reading statement rows: %w", imp.profile.Source, err)
		}

		rec, err := classifyRow(imp.profile, row)
		if err != nil {
			if errors.Is(err, errSkipRow) {
				logger.L.Debug("Skipping malformed statement row",
					"source", imp.profile.Source, "file", sourcePath)
				continue
			}
			return nil, err
		}

		resolved := resolveAccount(rec.PaySource, imp.rules, imp.fallback)
		syn := synthesizePostings(imp.profile, rec, resolved, imp.owner)

		var meta map[string]string
		if imp.includeTime {
			meta = map[string]string{"time": rec.TradeTime.Format("15:04:05")}
		}

		y, m, d := rec.TradeTime.Date()
		txns = append(txns, models.NormalizedTransaction{
			Date:            time.Date(y, m, d, 0, 0, 0, 0, rec.TradeTime.Location()),
			Payee:           syn.payee,
			Narration:       syn.narration,
			Tags:            imp.tags,
			Postings:        syn.postings,
			Flag:            syn.flag,
			SourceFile:      sourcePath,
			SourceLine:      len(txns),
			TransactionID:   rec.TransactionID,
			MerchantOrderID: rec.MerchantOrderID,
			Metadata:        meta,
		})
	}
	return txns, nil
}
