package importers

import (
	"errors"
	"io"
	"strings"
	"testing"
)

var readerTestProfile = &Profile{
	Source:          "test",
	Currency:        "CNY",
	SkipLines:       2,
	TimeColumn:      "time",
	DirectionColumn: "direction",
	AmountColumn:    "amount",
	TimeLayouts:     []string{"2006-01-02 15:04:05"},
}

func TestRowReaderSkipsPreambleAndTrims(t *testing.T) {
	input := "preamble line one\n" +
		"preamble line two\n" +
		"time,direction,amount\n" +
		" 2022-08-01 12:30:01 , expense ,  12.50 \n"

	rr, err := newRowReader(strings.NewReader(input), readerTestProfile)
	if err != nil {
		t.Fatalf("newRowReader failed: %v", err)
	}

	row, err := rr.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if row["time"] != "2022-08-01 12:30:01" {
		t.Errorf("time = %q, want trimmed value", row["time"])
	}
	if row["direction"] != "expense" || row["amount"] != "12.50" {
		t.Errorf("fields not trimmed: %+v", row)
	}

	if _, err := rr.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last row, got %v", err)
	}
}

func TestRowReaderSkipsEmptyTimeRows(t *testing.T) {
	input := "p1\np2\n" +
		"time,direction,amount\n" +
		"2022-08-01 12:30:01,expense,1.00\n" +
		",summary row,99.99\n" +
		"2022-08-02 08:00:00,income,2.00\n"

	rr, err := newRowReader(strings.NewReader(input), readerTestProfile)
	if err != nil {
		t.Fatalf("newRowReader failed: %v", err)
	}

	var rows []RawRow
	for {
		row, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		rows = append(rows, row)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1]["amount"] != "2.00" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestRowReaderDropsSurplusFields(t *testing.T) {
	input := "p1\np2\n" +
		"time,direction,amount\n" +
		"2022-08-01 12:30:01,expense,1.00,unexpected,extra\n" +
		"2022-08-02 08:00:00,income\n"

	rr, err := newRowReader(strings.NewReader(input), readerTestProfile)
	if err != nil {
		t.Fatalf("newRowReader failed: %v", err)
	}

	row, err := rr.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if len(row) != 3 {
		t.Errorf("expected surplus fields to be dropped, got %+v", row)
	}

	// Short row: missing columns stay empty instead of erroring.
	row, err = rr.Next()
	if err != nil {
		t.Fatalf("Next failed on short row: %v", err)
	}
	if row["amount"] != "" {
		t.Errorf("expected empty amount on short row, got %q", row["amount"])
	}
}

func TestRowReaderSchemaMismatch(t *testing.T) {
	input := "p1\np2\n" +
		"when,direction,amount\n" +
		"2022-08-01 12:30:01,expense,1.00\n"

	_, err := newRowReader(strings.NewReader(input), readerTestProfile)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestRowReaderTruncatedPreamble(t *testing.T) {
	if _, err := newRowReader(strings.NewReader("only one line\n"), readerTestProfile); err == nil {
		t.Fatal("expected an error for a statement shorter than its preamble")
	}
}

func TestRowReaderFixedColumns(t *testing.T) {
	profile := &Profile{
		Source:       "test-fixed",
		Currency:     "CNY",
		SkipLines:    1,
		Columns:      []string{"direction", "payee", "amount", "time"},
		TimeColumn:   "time",
		AmountColumn: "amount",
		TimeLayouts:  []string{"2006-01-02 15:04:05"},
	}
	input := "preamble\n" +
		"expense,shop,3.00,2022-08-01 12:30:01\n"

	rr, err := newRowReader(strings.NewReader(input), profile)
	if err != nil {
		t.Fatalf("newRowReader failed: %v", err)
	}
	row, err := rr.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if row["payee"] != "shop" || row["amount"] != "3.00" {
		t.Errorf("unexpected row: %+v", row)
	}
}
