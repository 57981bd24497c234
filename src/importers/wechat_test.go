package importers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/username/billfolio/backend/src/models"
)

func wechatStatement(rows ...string) string {
	var b strings.Builder
	for i := 0; i < 16; i++ {
		fmt.Fprintf(&b, "微信支付账单明细,第%d行\n", i+1)
	}
	b.WriteString("交易时间,交易类型,交易对方,商品,收/支,金额(元),支付方式,当前状态,交易单号,商户单号,备注\n")
	for _, row := range rows {
		b.WriteString(row + "\n")
	}
	return b.String()
}

func TestWeChatIdentify(t *testing.T) {
	imp := NewWeChatImporter(Config{OwnerAccount: "Assets:TPP:WeChat"})

	if !imp.Identify("微信支付账单(20220801-20220825).csv") {
		t.Error("expected the statement file name to be identified")
	}
	if !imp.Identify("/tmp/exports/微信支付账单(20220801-20220825).csv") {
		t.Error("expected identification to use the base name")
	}
	if imp.Identify("alipay_record_20220825_150818.csv") {
		t.Error("expected a foreign statement to be rejected")
	}

	date, err := imp.StatementDate("微信支付账单(20220801-20220825).csv")
	if err != nil {
		t.Fatalf("StatementDate failed: %v", err)
	}
	if got := date.Format("2006-01-02"); got != "2022-08-25" {
		t.Errorf("statement date = %s, want 2022-08-25", got)
	}
}

func TestWeChatExtract(t *testing.T) {
	stmt := wechatStatement(
		`2022-08-01 12:30:01,商户消费,某某餐厅,午餐,支出,¥12.50,招商银行(1234),支付成功,1000001,M0001,/`,
		`2022-08-01 13:00:00,微信红包-发出,Alice,/,支出,¥6.66,零钱,支付成功,1000002,M0002,/`,
		`2022-08-02 09:00:00,零钱提现,/,/,/,¥100.00,招商银行(1234),提现已到账,1000003,M0003,/`,
		`2022-08-02 10:00:00,二维码收款,Bob,收款方备注:二维码收款,收入,¥20.00,零钱,已存入零钱,1000004,M0004,/`,
		`2022-08-03 08:00:00,商户消费,某某便利店,矿泉水,支出,已全额退款,工商银行(9999),对方已退还,1000005,M0005,/`,
	)

	imp := NewWeChatImporter(Config{
		OwnerAccount: "Assets:TPP:WeChat",
		AccountRules: []models.AccountRule{
			{Match: "招商银行(1234)", Account: "Assets:Bank:CMB"},
		},
		Tag: "wechat-import",
	})

	txns, err := imp.Extract(strings.NewReader(stmt), "微信支付账单(20220801-20220825).csv")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(txns) != 4 {
		t.Fatalf("expected 4 transactions (malformed row dropped), got %d", len(txns))
	}

	// Plain purchase against a mapped bank card.
	lunch := txns[0]
	if got := lunch.Date.Format("2006-01-02"); got != "2022-08-01" {
		t.Errorf("date = %s, want 2022-08-01", got)
	}
	if lunch.Payee == nil || *lunch.Payee != "某某餐厅" {
		t.Errorf("payee = %v, want 某某餐厅", lunch.Payee)
	}
	if lunch.Narration != "午餐" {
		t.Errorf("narration = %q, want 午餐", lunch.Narration)
	}
	if lunch.Flag != models.FlagCleared {
		t.Errorf("flag = %s, want %s", lunch.Flag, models.FlagCleared)
	}
	if len(lunch.Postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(lunch.Postings))
	}
	if p := lunch.Postings[0]; p.Account != "Assets:Bank:CMB" || p.Amount.Value.String() != "-12.5" {
		t.Errorf("posting = %+v, want (Assets:Bank:CMB, -12.5)", p)
	}
	if len(lunch.Tags) != 1 || lunch.Tags[0] != "wechat-import" {
		t.Errorf("tags = %v, want [wechat-import]", lunch.Tags)
	}
	if lunch.TransactionID != "1000001" || lunch.MerchantOrderID != "M0001" {
		t.Errorf("order ids = %s/%s, want 1000001/M0001", lunch.TransactionID, lunch.MerchantOrderID)
	}

	// Red envelope: narration rewritten, payee suppressed, wallet leg.
	envelope := txns[1]
	if envelope.Narration != "微信红包-发出-Alice" {
		t.Errorf("narration = %q, want 微信红包-发出-Alice", envelope.Narration)
	}
	if envelope.Payee != nil {
		t.Errorf("expected nil payee, got %q", *envelope.Payee)
	}
	if p := envelope.Postings[0]; p.Account != "Assets:TPP:WeChat" || p.Amount.Value.String() != "-6.66" {
		t.Errorf("posting = %+v, want (Assets:TPP:WeChat, -6.66)", p)
	}

	// Withdrawal: a self transfer from the wallet to the mapped card.
	withdrawal := txns[2]
	if withdrawal.Narration != "零钱提现" {
		t.Errorf("narration = %q, want 零钱提现", withdrawal.Narration)
	}
	if len(withdrawal.Postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(withdrawal.Postings))
	}
	if p := withdrawal.Postings[0]; p.Account != "Assets:TPP:WeChat" || p.Amount.Value.String() != "-100" {
		t.Errorf("wallet leg = %+v, want (Assets:TPP:WeChat, -100)", p)
	}
	if p := withdrawal.Postings[1]; p.Account != "Assets:Bank:CMB" || p.Amount.Value.String() != "100" {
		t.Errorf("external leg = %+v, want (Assets:Bank:CMB, 100)", p)
	}

	// Inflow into the wallet keeps its positive sign.
	inflow := txns[3]
	if p := inflow.Postings[0]; p.Account != "Assets:TPP:WeChat" || p.Amount.Value.String() != "20" {
		t.Errorf("posting = %+v, want (Assets:TPP:WeChat, 20)", p)
	}
	if inflow.Narration != "二维码收款" {
		t.Errorf("narration = %q, want prefix-stripped 二维码收款", inflow.Narration)
	}

	for i, tx := range txns {
		if tx.SourceLine != i {
			t.Errorf("txns[%d].SourceLine = %d, want %d", i, tx.SourceLine, i)
		}
		if tx.SourceFile != "微信支付账单(20220801-20220825).csv" {
			t.Errorf("txns[%d].SourceFile = %q", i, tx.SourceFile)
		}
		if tx.Metadata != nil {
			t.Errorf("txns[%d] carries metadata without IncludeTime", i)
		}
	}
}

func TestWeChatExtractUnmappedCardFlagsReview(t *testing.T) {
	stmt := wechatStatement(
		`2022-08-01 12:30:01,商户消费,某某餐厅,午餐,支出,¥12.50,工商银行(9999),支付成功,1000001,M0001,/`,
	)

	imp := NewWeChatImporter(Config{OwnerAccount: "Assets:TPP:WeChat"})
	txns, err := imp.Extract(strings.NewReader(stmt), "微信支付账单(20220801-20220825).csv")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Flag != models.FlagReview {
		t.Errorf("flag = %s, want %s", txns[0].Flag, models.FlagReview)
	}
	if txns[0].Postings[0].Account != FallbackAccount {
		t.Errorf("account = %s, want %s", txns[0].Postings[0].Account, FallbackAccount)
	}
}

func TestWeChatExtractIncludeTimeMetadata(t *testing.T) {
	stmt := wechatStatement(
		`2022-08-01 12:30:01,商户消费,某某餐厅,午餐,支出,¥12.50,零钱,支付成功,1000001,M0001,/`,
	)

	imp := NewWeChatImporter(Config{OwnerAccount: "Assets:TPP:WeChat", IncludeTime: true})
	txns, err := imp.Extract(strings.NewReader(stmt), "微信支付账单(20220801-20220825).csv")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got := txns[0].Metadata["time"]; got != "12:30:01" {
		t.Errorf(`metadata["time"] = %q, want 12:30:01`, got)
	}
}

func TestWeChatExtractSchemaMismatch(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 16; i++ {
		b.WriteString("preamble\n")
	}
	b.WriteString("时间,类型,对方\n2022-08-01 12:30:01,消费,店家\n")

	imp := NewWeChatImporter(Config{OwnerAccount: "Assets:TPP:WeChat"})
	if _, err := imp.Extract(strings.NewReader(b.String()), "bad.csv"); err == nil {
		t.Fatal("expected an error for a statement with a foreign header")
	}
}
