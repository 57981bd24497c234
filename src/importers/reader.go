// src/importers/reader.go
package importers

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/transform"
)

// ErrSchemaMismatch is returned when a statement file does not carry the
// columns the profile depends on. Once the schema itself cannot be trusted
// the whole file is rejected; there is no partial recovery.
var ErrSchemaMismatch = errors.New("statement schema mismatch")

// RawRow is one decoded statement line, keyed by column name. Values are
// whitespace-trimmed; the exports are known to pad cells with spaces.
type RawRow map[string]string

// rowReader streams RawRows out of a statement file in a single forward
// pass. Rows whose mandatory time field is empty are section separators or
// trailing summary rows in the source format and are skipped, not yielded.
type rowReader struct {
	profile *Profile
	csv     *csv.Reader
	columns []string
}

func newRowReader(r io.Reader, profile *Profile) (*rowReader, error) {
	if profile.Encoding != nil {
		r = transform.NewReader(r, profile.Encoding.NewDecoder())
	}
	br := bufio.NewReader(r)
	for i := 0; i < profile.SkipLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			return nil, fmt.Errorf("%s reader: statement shorter than its %d preamble lines: %w",
				profile.Source, profile.SkipLines, err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	rr := &rowReader{profile: profile, csv: cr}
	if profile.Columns != nil {
		rr.columns = profile.Columns
		return rr, nil
	}

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s reader: failed to read header row: %w", profile.Source, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	rr.columns = header
	if err := rr.checkSchema(); err != nil {
		return nil, err
	}
	return rr, nil
}

// checkSchema verifies the embedded header carries every column the profile
// reads. Fixed-column profiles define their own schema and skip this.
func (rr *rowReader) checkSchema() error {
	have := make(map[string]bool, len(rr.columns))
	for _, c := range rr.columns {
		have[c] = true
	}
	p := rr.profile
	for _, c := range []string{
		p.TimeColumn, p.TypeColumn, p.CounterpartyColumn, p.DescriptionColumn,
		p.DirectionColumn, p.AmountColumn, p.PaySourceColumn, p.StatusColumn,
	} {
		if c != "" && !have[c] {
			return fmt.Errorf("%w: %s file is missing column %q", ErrSchemaMismatch, p.Source, c)
		}
	}
	return nil
}

// Next returns the next transaction row, or io.EOF when the file is
// exhausted. Fields beyond the declared schema are dropped; a row shorter
// than the schema leaves the remaining columns empty.
func (rr *rowReader) Next() (RawRow, error) {
	for {
		record, err := rr.csv.Read()
		if err != nil {
			return nil, err
		}
		row := make(RawRow, len(rr.columns))
		for i, name := range rr.columns {
			if i >= len(record) {
				break
			}
			row[name] = strings.TrimSpace(record[i])
		}
		if row[rr.profile.TimeColumn] == "" {
			continue
		}
		return row, nil
	}
}
