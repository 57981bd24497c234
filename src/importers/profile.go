package importers

import (
	"regexp"

	"golang.org/x/text/encoding"
)

// Profile holds the format constants of one platform export: preamble length,
// column schema, text encoding and the platform's special-case trade tables.
// Importer behavior is driven entirely by this data; adding a platform means
// writing a new Profile, not a new parser.
type Profile struct {
	Source   string
	Currency string

	// FileNameRegex matches the platform's statement file names. The capture
	// group at StatementDateGroup holds a yyyymmdd statement date.
	FileNameRegex      *regexp.Regexp
	StatementDateGroup int

	// Encoding decodes the raw byte stream; nil means UTF-8.
	Encoding encoding.Encoding

	// SkipLines is the fixed number of preamble lines before tabular data.
	SkipLines int

	// Columns, when set, names every field of a row in order; the file is
	// assumed to carry no usable header (some exports pad or duplicate header
	// labels). When nil the first row after the preamble is the header.
	Columns []string

	TimeColumn            string
	TypeColumn            string
	CounterpartyColumn    string
	DescriptionColumn     string
	DirectionColumn       string
	AmountColumn          string
	PaySourceColumn       string
	StatusColumn          string
	TransactionIDColumn   string
	MerchantOrderIDColumn string
	CategoryColumn        string

	// OutflowLabels are the direction values, compared exactly, that mean
	// funds leave the account. Anything else is treated as inflow or neutral.
	OutflowLabels []string

	// CurrencyGlyphs are stripped from the front of the amount field.
	CurrencyGlyphs []string

	// DescriptionPrefixes are boilerplate markers stripped from the
	// description before it is truncated for narration use.
	DescriptionPrefixes []string

	// SpecialTradeTypes, compared exactly, rewrite the narration to
	// "type-counterparty" and suppress the payee.
	SpecialTradeTypes map[string]bool

	// RefundSuffix marks trade types whose narration collapses to the type
	// label itself, with the payee suppressed.
	RefundSuffix string

	// WithdrawalTradeType and TopUpStatus identify self-transfers between the
	// platform wallet and an external account. These expand into two balanced
	// posting legs with the matching narration forced.
	WithdrawalTradeType string
	WithdrawalNarration string
	TopUpStatus         string
	TopUpNarration      string

	// WalletLabel is the platform's own balance label. It is seeded into the
	// account mapping ahead of caller rules so it always resolves to the
	// owning account.
	WalletLabel string

	// TimeLayouts are tried in order when parsing the trade time field.
	TimeLayouts []string
}
