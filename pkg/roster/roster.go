// Package roster decodes uploaded student rosters (delimited text or
// spreadsheets) into raw rows keyed by normalized header names.
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/errs"

	"github.com/inbtp/appariteur/pkg/student"
)

// Error is the class of all decode errors.
var Error = errs.Class("roster")

// MaxFileSize is the advisory upload limit. The reader does not enforce it.
const MaxFileSize = 5 << 20

type Kind int

const (
	Delimited Kind = iota
	Spreadsheet
)

func (k Kind) String() string {
	switch k {
	case Delimited:
		return "csv"
	case Spreadsheet:
		return "xlsx"
	default:
		return "unknown"
	}
}

// KindFromFilename picks the decoder from the file extension.
func KindFromFilename(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return Delimited, nil
	case ".xlsx", ".xlsm", ".xls":
		return Spreadsheet, nil
	default:
		return 0, Error.New("unsupported file type %q", filepath.Ext(name))
	}
}

func Load(path string) ([]student.RawRow, error) {
	kind, err := KindFromFilename(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return Parse(data, kind)
}

func Parse(data []byte, kind Kind) ([]student.RawRow, error) {
	switch kind {
	case Delimited:
		return parseDelimited(data)
	case Spreadsheet:
		return parseSpreadsheet(data)
	default:
		return nil, Error.New("unsupported kind %d", kind)
	}
}

// NormalizeKey strips every character other than ASCII letters, digits and
// underscores, then lower-cases the first character.
func NormalizeKey(header string) string {
	b := make([]byte, 0, len(header))
	for i := 0; i < len(header); i++ {
		switch c := header[i]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b = append(b, c)
		}
	}
	if len(b) > 0 && b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}

func parseDelimited(data []byte) ([]student.RawRow, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var keys []string
	var rows []student.RawRow
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Error.Wrap(err)
		}
		line, _ := r.FieldPos(0)

		if keys == nil {
			keys = make([]string, len(record))
			for i, header := range record {
				keys[i] = NormalizeKey(strings.TrimSpace(header))
			}
			continue
		}

		// skip blank lines
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		rows = append(rows, student.RawRow{
			Line:   line,
			Fields: zipRow(keys, record),
		})
	}
	return rows, nil
}

// zipRow pairs keys with values, padding missing trailing values with ""
// and dropping values past the last key.
func zipRow(keys, values []string) map[string]string {
	fields := make(map[string]string, len(keys))
	for i, key := range keys {
		var value string
		if i < len(values) {
			value = strings.TrimSpace(values[i])
		}
		fields[key] = value
	}
	return fields
}
