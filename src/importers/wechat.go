// src/importers/wechat.go
package importers

import "regexp"

// WeChatProfile describes WeChat Pay statement exports: UTF-8, sixteen
// preamble lines, then a headed CSV table.
//
// Red envelopes, group collections and wallet withdrawals get their trade
// type as narration instead of the goods description; withdrawals and
// completed top-ups are wallet self-transfers and expand into two legs.
var WeChatProfile = &Profile{
	Source:   "wechat",
	Currency: "CNY",

	FileNameRegex:      regexp.MustCompile(`^微信支付账单\((\d{8})-(\d{8})\)\.csv$`),
	StatementDateGroup: 2,

	SkipLines: 16,

	TimeColumn:            "交易时间",
	TypeColumn:            "交易类型",
	CounterpartyColumn:    "交易对方",
	DescriptionColumn:     "商品",
	DirectionColumn:       "收/支",
	AmountColumn:          "金额(元)",
	PaySourceColumn:       "支付方式",
	StatusColumn:          "当前状态",
	TransactionIDColumn:   "交易单号",
	MerchantOrderIDColumn: "商户单号",

	OutflowLabels:  []string{"支出"},
	CurrencyGlyphs: []string{"¥", "￥"},

	DescriptionPrefixes: []string{"/", "转账备注:", "收款方备注:"},

	SpecialTradeTypes: map[string]bool{
		"微信红包-发出": true,
		"微信红包-收到": true,
		"微信红包-退款": true,
		"群收款":      true,
		"零钱提现":     true,
	},
	RefundSuffix: "退款",

	WithdrawalTradeType: "零钱提现",
	WithdrawalNarration: "零钱提现",
	TopUpStatus:         "充值完成",
	TopUpNarration:      "零钱充值",

	WalletLabel: "零钱",

	TimeLayouts: []string{"2006-01-02 15:04:05", "2006/1/2 15:04"},
}

// NewWeChatImporter creates an importer for WeChat Pay statement files.
func NewWeChatImporter(cfg Config) *Importer {
	return NewImporter(WeChatProfile, cfg)
}
