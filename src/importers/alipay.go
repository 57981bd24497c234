// src/importers/alipay.go
package importers

import (
	"regexp"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// AlipayProfile describes Alipay statement exports: GBK-encoded, two preamble
// lines, no usable header row. The exports pad and duplicate header labels,
// so the column list is fixed here instead of read from the file.
//
// The direction column doubles as the trade-type label. The degenerate "/"
// direction is treated as an outflow; the source format does not document
// why, so the rule is kept as explicit profile data rather than generalized.
var AlipayProfile = &Profile{
	Source:   "alipay",
	Currency: "CNY",

	FileNameRegex:      regexp.MustCompile(`^alipay_record_(\d{8})_(\d{6})\.csv$`),
	StatementDateGroup: 1,

	Encoding:  simplifiedchinese.GBK,
	SkipLines: 2,

	Columns: []string{
		"收/支", "交易对方", "对方账号", "商品说明", "收/付款方式", "金额",
		"交易状态", "交易分类", "交易订单号", "商家订单号", "交易时间",
	},

	TimeColumn:            "交易时间",
	TypeColumn:            "收/支",
	CounterpartyColumn:    "交易对方",
	DescriptionColumn:     "商品说明",
	DirectionColumn:       "收/支",
	AmountColumn:          "金额",
	PaySourceColumn:       "收/付款方式",
	StatusColumn:          "交易状态",
	TransactionIDColumn:   "交易订单号",
	MerchantOrderIDColumn: "商家订单号",
	CategoryColumn:        "交易分类",

	OutflowLabels: []string{"支出", "/"},

	WalletLabel: "余额",

	TimeLayouts: []string{"2006-01-02 15:04:05"},
}

// NewAlipayImporter creates an importer for Alipay statement files.
func NewAlipayImporter(cfg Config) *Importer {
	return NewImporter(AlipayProfile, cfg)
}
