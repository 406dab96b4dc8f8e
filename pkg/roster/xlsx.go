package roster

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/zeebo/errs"

	"github.com/inbtp/appariteur/pkg/student"
)

func parseSpreadsheet(data []byte) (_ []student.RawRow, err error) {
	if len(data) == 0 {
		return nil, nil
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, Error.New("unable to open spreadsheet: %v", err)
	}
	defer func() {
		err = errs.Combine(err, Error.Wrap(f.Close()))
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	sheet := sheets[0]

	// Raw values so date cells come back as serial numbers and can be
	// formatted here rather than with the workbook's number format.
	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	keys := make([]string, len(records[0]))
	for i, header := range records[0] {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column%d", i+1)
		}
		keys[i] = NormalizeKey(header)
	}

	dates := dateStyleCache{file: f}

	var rows []student.RawRow
	for i, record := range records[1:] {
		rowNum := i + 2
		values := make([]string, len(record))
		nonEmpty := false
		for col, value := range record {
			if col >= len(keys) {
				break
			}
			if value != "" {
				nonEmpty = true
				values[col] = dates.format(sheet, col+1, rowNum, value)
			}
		}
		if !nonEmpty {
			continue
		}
		rows = append(rows, student.RawRow{
			Line:   rowNum,
			Fields: zipRow(keys, values),
		})
	}
	return rows, nil
}

// dateStyleCache renders date cells as dd/mm/yyyy: numeric cells carrying
// a date number format, and ISO 8601 cells of the date type. Style lookups
// are memoized by style id.
type dateStyleCache struct {
	file   *excelize.File
	styles map[int]bool
}

func (d *dateStyleCache) format(sheet string, col, row int, value string) string {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return value
	}
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		if !looksLikeISODate(value) {
			return value
		}
		if typ, err := d.file.GetCellType(sheet, cell); err != nil || typ != excelize.CellTypeDate {
			return value
		}
		return student.DisplayDate(value[:len(isoDateLayout)])
	}
	styleID, err := d.file.GetCellStyle(sheet, cell)
	if err != nil || !d.isDate(styleID) {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Format(student.DisplayDateLayout)
}

const isoDateLayout = "2006-01-02"

// looksLikeISODate reports whether value starts with a yyyy-mm-dd date, as
// date typed cells store it with or without a time part.
func looksLikeISODate(value string) bool {
	if len(value) < len(isoDateLayout) {
		return false
	}
	_, err := time.Parse(isoDateLayout, value[:len(isoDateLayout)])
	return err == nil && (len(value) == len(isoDateLayout) || value[len(isoDateLayout)] == 'T')
}

func (d *dateStyleCache) isDate(styleID int) bool {
	if isDate, ok := d.styles[styleID]; ok {
		return isDate
	}
	if d.styles == nil {
		d.styles = make(map[int]bool)
	}
	var isDate bool
	if style, err := d.file.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	d.styles[styleID] = isDate
	return isDate
}

// isDateNumFmt reports whether a built-in or custom number format displays
// a calendar date. Time-only formats are not dates.
func isDateNumFmt(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return customFormatHasDate(*custom)
	}
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

func customFormatHasDate(format string) bool {
	var quoted, bracketed bool
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracketed = true
		case r == ']':
			bracketed = false
		case bracketed:
		case r == 'd' || r == 'y':
			return true
		}
	}
	return false
}
