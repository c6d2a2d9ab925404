// Package chart reads and writes chart-of-accounts CSV files.
package chart

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/accountpro/bookkeeper/internal/domain"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// Header is the CSV header of a chart file.
const Header = "number,name,class,description"

const (
	colNumber = iota
	colName
	colClass
	colDescription
	numFields
)

// ErrBadHeader is returned when the first row is not Header.
var ErrBadHeader = errors.New("chart: unexpected CSV header")

// Read parses a chart CSV. The class column may be empty, in which case it
// is derived from the account number during import.
func Read(r io.Reader) ([]usecase.CreateAccountInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chart CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	if strings.Join(records[0], ",") != Header {
		return nil, fmt.Errorf("%w: %q", ErrBadHeader, strings.Join(records[0], ","))
	}

	inputs := make([]usecase.CreateAccountInput, 0, len(records)-1)
	for _, rec := range records[1:] {
		inputs = append(inputs, usecase.CreateAccountInput{
			Number:      strings.TrimSpace(rec[colNumber]),
			Name:        strings.TrimSpace(rec[colName]),
			Class:       domain.AccountClass(strings.TrimSpace(rec[colClass])),
			Description: strings.TrimSpace(rec[colDescription]),
		})
	}

	return inputs, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) ([]usecase.CreateAccountInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Write writes accounts as a chart CSV including the header.
func Write(w io.Writer, accounts []*domain.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, a := range accounts {
		if err := cw.Write([]string{a.Number, a.Name, string(a.Class), a.Description}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
