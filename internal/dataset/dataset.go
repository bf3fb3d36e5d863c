package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNoFile is returned when no CSV path was supplied.
	ErrNoFile = errors.New("no file selected")
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing column")
)

// Options controls loading and assembly of a compound table.
type Options struct {
	// Delimiter for CSV fields. Defaults to ';'.
	Delimiter rune
	// SMILESColumn and TargetColumn name the required columns.
	SMILESColumn string
	TargetColumn string
	// Numeric parsing locale for the target. If DecimalSeparator is 0,
	// auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// DefaultOptions returns the ChEMBL export layout.
func DefaultOptions() Options {
	return Options{
		Delimiter:    ';',
		SMILESColumn: "Smiles",
		TargetColumn: "Standard Value",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Delimiter == 0 {
		o.Delimiter = d.Delimiter
	}
	if o.SMILESColumn == "" {
		o.SMILESColumn = d.SMILESColumn
	}
	if o.TargetColumn == "" {
		o.TargetColumn = d.TargetColumn
	}
	return o
}

// Table is a loaded compound CSV. Rows are padded to the header width.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string

	smilesIdx int
	targetIdx int
}

// Column returns the index of the named column or -1.
func (t *Table) Column(name string) int {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// SMILES returns the SMILES cell of row i. Missing cells are empty strings.
func (t *Table) SMILES(i int) string { return t.Rows[i][t.smilesIdx] }

// Target returns the raw target cell of row i.
func (t *Table) Target(i int) string { return t.Rows[i][t.targetIdx] }

// Load reads a delimited compound file and checks the required columns.
func Load(path string, opt Options) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoFile
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	t, err := Read(f, opt)
	if err != nil {
		return nil, err
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// Read parses a compound table from r.
func Read(r io.Reader, opt Options) (*Table, error) {
	opt = opt.withDefaults()
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.Comma = opt.Delimiter

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %q (empty file)", ErrMissingColumn, opt.SMILESColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := &Table{Header: make([]string, len(header))}
	for i, h := range header {
		t.Header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if t.smilesIdx = t.Column(opt.SMILESColumn); t.smilesIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opt.SMILESColumn)
	}
	if t.targetIdx = t.Column(opt.TargetColumn); t.targetIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, opt.TargetColumn)
	}

	ncol := len(t.Header)
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		row := make([]string, max(ncol, len(rec)))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
