package roster

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/inbtp/appariteur/pkg/student"
)

func buildWorkbook(t *testing.T, fill func(f *excelize.File, sheet string)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { require.NoError(t, f.Close()) }()

	sheet := f.GetSheetName(0)
	fill(f, sheet)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseSpreadsheet(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Nom", "Post Nom", "", "dateNaissance", "pourcentage"}))
		require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Mbala", "Mubiala", "x", time.Date(2000, 5, 15, 0, 0, 0, 0, time.UTC), 75}))
		// row 3 left entirely empty
		require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Kabasele"}))
		require.NoError(t, f.SetCellRichText(sheet, "B4", []excelize.RichTextRun{
			{Text: "Tshi", Font: &excelize.Font{Bold: true}},
			{Text: "manga"},
		}))

		// a second sheet is never read
		_, err := f.NewSheet("Other")
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"ignored"}))
	})

	rows, err := Parse(data, Spreadsheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, student.RawRow{Line: 2, Fields: map[string]string{
		"nom":           "Mbala",
		"postNom":       "Mubiala",
		"column3":       "x",
		"dateNaissance": "15/05/2000",
		"pourcentage":   "75",
	}}, rows[0])

	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "Kabasele", rows[1].Get("nom"))
	assert.Equal(t, "Tshimanga", rows[1].Get("postNom"))
	assert.Equal(t, "", rows[1].Get("dateNaissance"))
}

func TestParseSpreadsheetCustomDateFormat(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File, sheet string) {
		require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"dateNaissance", "telephone"}))
		require.NoError(t, f.SetCellValue(sheet, "A2", 36661))
		require.NoError(t, f.SetCellValue(sheet, "B2", 243123456789))

		format := "dd.mm.yyyy"
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
		require.NoError(t, err)
		require.NoError(t, f.SetCellStyle(sheet, "A2", "A2", style))
	})

	rows, err := Parse(data, Spreadsheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "15/05/2000", rows[0].Get("dateNaissance"))
	assert.Equal(t, "243123456789", rows[0].Get("telephone"))
}

// dateCellWorkbook is a minimal workbook whose data cells use the ISO 8601
// date cell type, which excelize reads but does not write.
func dateCellWorkbook(t *testing.T) []byte {
	t.Helper()
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>
<Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>
</Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>
</Relationships>`,
		"xl/workbook.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Sheet1" sheetId="1" r:id="rId1"/></sheets>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData>
<row r="1">
<c r="A1" t="inlineStr"><is><t>nom</t></is></c>
<c r="B1" t="inlineStr"><is><t>dateNaissance</t></is></c>
<c r="C1" t="inlineStr"><is><t>adresse</t></is></c>
</row>
<row r="2">
<c r="A2" t="inlineStr"><is><t>Mbala</t></is></c>
<c r="B2" t="d"><v>2000-05-15T00:00:00Z</v></c>
<c r="C2" t="inlineStr"><is><t>2001-01-02</t></is></c>
</row>
<row r="3">
<c r="A3" t="inlineStr"><is><t>Kabasele</t></is></c>
<c r="B3" t="d"><v>1999-12-31</v></c>
</row>
</sheetData>
</worksheet>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseSpreadsheetISODateCells(t *testing.T) {
	rows, err := Parse(dateCellWorkbook(t), Spreadsheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "15/05/2000", rows[0].Get("dateNaissance"))
	// text that merely looks like a date is left alone
	assert.Equal(t, "2001-01-02", rows[0].Get("adresse"))
	assert.Equal(t, "31/12/1999", rows[1].Get("dateNaissance"))
}

func TestLooksLikeISODate(t *testing.T) {
	assert.True(t, looksLikeISODate("2000-05-15"))
	assert.True(t, looksLikeISODate("2000-05-15T10:00:00"))
	assert.False(t, looksLikeISODate("2000-05-15 10:00"))
	assert.False(t, looksLikeISODate("15/05/2000"))
	assert.False(t, looksLikeISODate("2000-13-01"))
	assert.False(t, looksLikeISODate("Mbala"))
}

func TestParseSpreadsheetEmpty(t *testing.T) {
	rows, err := Parse(nil, Spreadsheet)
	require.NoError(t, err)
	assert.Empty(t, rows)

	data := buildWorkbook(t, func(*excelize.File, string) {})
	rows, err = Parse(data, Spreadsheet)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseSpreadsheetMalformed(t *testing.T) {
	_, err := Parse([]byte("definitely not a zip container"), Spreadsheet)
	require.Error(t, err)
	assert.True(t, Error.Has(err))
}

func TestIsDateNumFmt(t *testing.T) {
	str := func(s string) *string { return &s }

	assert.True(t, isDateNumFmt(14, nil))
	assert.True(t, isDateNumFmt(22, nil))
	assert.True(t, isDateNumFmt(57, nil))
	assert.False(t, isDateNumFmt(0, nil))
	assert.False(t, isDateNumFmt(2, nil))
	assert.False(t, isDateNumFmt(20, nil), "time only")

	assert.True(t, isDateNumFmt(164, str("yyyy-mm-dd")))
	assert.False(t, isDateNumFmt(164, str(`0.00"d"`)))
	assert.False(t, isDateNumFmt(164, str("[Red]0.00")))
	assert.False(t, isDateNumFmt(164, str("hh:mm")))
}
