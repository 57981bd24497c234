package importers

import (
	"errors"
	"strings"
	"testing"
)

func TestClassifyRowAmountParsing(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		want      string
		wantSkip  bool
		direction string
	}{
		{name: "plain decimal", amount: "12.50", want: "12.5"},
		{name: "currency glyph stripped", amount: "¥12.50", want: "12.5"},
		{name: "fullwidth glyph stripped", amount: "￥0.01", want: "0.01"},
		{name: "empty amount skipped", amount: "", wantSkip: true},
		{name: "non-numeric amount skipped", amount: "已全额退款", wantSkip: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row := RawRow{
				"交易时间":  "2022-08-01 12:30:01",
				"收/支":   tc.direction,
				"金额(元)": tc.amount,
			}
			rec, err := classifyRow(WeChatProfile, row)
			if tc.wantSkip {
				if !errors.Is(err, errSkipRow) {
					t.Fatalf("expected errSkipRow, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("classifyRow failed: %v", err)
			}
			if rec.Amount.Value.String() != tc.want {
				t.Errorf("amount = %s, want %s", rec.Amount.Value.String(), tc.want)
			}
			if rec.Amount.Currency != "CNY" {
				t.Errorf("currency = %s, want CNY", rec.Amount.Currency)
			}
		})
	}
}

func TestClassifyRowDirection(t *testing.T) {
	row := RawRow{
		"交易时间":  "2022-08-01 12:30:01",
		"收/支":   "支出",
		"金额(元)": "1.00",
	}
	rec, err := classifyRow(WeChatProfile, row)
	if err != nil {
		t.Fatalf("classifyRow failed: %v", err)
	}
	if !rec.IsOutflow {
		t.Error("expected 支出 to classify as outflow")
	}

	row["收/支"] = "收入"
	rec, err = classifyRow(WeChatProfile, row)
	if err != nil {
		t.Fatalf("classifyRow failed: %v", err)
	}
	if rec.IsOutflow {
		t.Error("expected 收入 to classify as inflow")
	}
}

// The Alipay export marks some rows with a bare "/" direction; those are
// treated as outflows on that profile only.
func TestClassifyRowPlaceholderDirection(t *testing.T) {
	aliRow := RawRow{
		"交易时间": "2022-08-01 12:30:01",
		"收/支":  "/",
		"金额":   "1.00",
	}
	rec, err := classifyRow(AlipayProfile, aliRow)
	if err != nil {
		t.Fatalf("classifyRow failed: %v", err)
	}
	if !rec.IsOutflow {
		t.Error("expected the / placeholder to classify as outflow on the alipay profile")
	}

	wxRow := RawRow{
		"交易时间":  "2022-08-01 12:30:01",
		"收/支":   "/",
		"金额(元)": "1.00",
	}
	rec, err = classifyRow(WeChatProfile, wxRow)
	if err != nil {
		t.Fatalf("classifyRow failed: %v", err)
	}
	if rec.IsOutflow {
		t.Error("expected the / placeholder to stay neutral on the wechat profile")
	}
}

func TestClassifyRowDescriptionPrefixes(t *testing.T) {
	tests := []struct {
		name, goods, want string
	}{
		{name: "leading slash stripped", goods: "/", want: ""},
		{name: "transfer memo stripped", goods: "转账备注:还钱", want: "还钱"},
		{name: "payee memo stripped", goods: "收款方备注:二维码收款", want: "二维码收款"},
		{name: "plain goods kept", goods: "拿铁咖啡", want: "拿铁咖啡"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row := RawRow{
				"交易时间":  "2022-08-01 12:30:01",
				"商品":    tc.goods,
				"金额(元)": "1.00",
			}
			rec, err := classifyRow(WeChatProfile, row)
			if err != nil {
				t.Fatalf("classifyRow failed: %v", err)
			}
			if rec.Description != tc.want {
				t.Errorf("description = %q, want %q", rec.Description, tc.want)
			}
		})
	}
}

func TestTruncateDescription(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{name: "short left unmodified", in: "0123456789", want: "0123456789"},
		{name: "boundary left unmodified", in: "012345678901234", want: "012345678901234"},
		{name: "long truncated with ellipsis", in: "01234567890123456789", want: "012345678901234..."},
		{name: "multibyte counted by rune", in: strings.Repeat("饭", 20), want: strings.Repeat("饭", 15) + "..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncateDescription(tc.in); got != tc.want {
				t.Errorf("truncateDescription(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestClassifyRowBadTimeSkipped(t *testing.T) {
	row := RawRow{
		"交易时间":  "not a time",
		"金额(元)": "1.00",
	}
	if _, err := classifyRow(WeChatProfile, row); !errors.Is(err, errSkipRow) {
		t.Fatalf("expected errSkipRow for unparsable time, got %v", err)
	}
}
