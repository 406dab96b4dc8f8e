package report

import (
	"github.com/xuri/excelize/v2"
	"github.com/zeebo/errs"
)

// Letterhead is the institutional block printed at the top of every
// generated document.
var Letterhead = []string{
	"République Démocratique du Congo",
	"Ministère de l'Enseignement Supérieur et Universitaire",
	"Institut National du Bâtiment et des Travaux Publics",
	"INBTP/KINSHASA",
}

const (
	colorHeader      = "4472C4"
	colorWhite       = "FFFFFF"
	colorExample     = "808080"
	colorInstruction = "0000FF"
	colorSuccess     = "C6EFCE"
	colorFailure     = "FFC7CE"
	colorSkipped     = "FFEB9C"
)

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// sheetWriter appends rows to one sheet. The first error sticks and turns
// every later call into a no-op.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	cols  int
	row   int
	err   error

	styles map[string]int
}

func newSheetWriter(f *excelize.File, sheet string, cols int) *sheetWriter {
	return &sheetWriter{
		f:      f,
		sheet:  sheet,
		cols:   cols,
		row:    1,
		styles: make(map[string]int),
	}
}

func (w *sheetWriter) style(name string) int {
	if w.err != nil {
		return 0
	}
	if id, ok := w.styles[name]; ok {
		return id
	}
	def, ok := styleDefs[name]
	if !ok {
		w.err = errs.New("unknown style %q", name)
		return 0
	}
	id, err := w.f.NewStyle(def)
	if err != nil {
		w.err = errs.Wrap(err)
		return 0
	}
	w.styles[name] = id
	return id
}

func (w *sheetWriter) cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil && w.err == nil {
		w.err = errs.Wrap(err)
	}
	return name
}

// banner writes text merged across every column.
func (w *sheetWriter) banner(text, style string, height float64) {
	if w.err != nil {
		return
	}
	first, last := w.cell(1, w.row), w.cell(w.cols, w.row)
	w.do(w.f.SetCellValue(w.sheet, first, text))
	w.do(w.f.MergeCell(w.sheet, first, last))
	w.do(w.f.SetCellStyle(w.sheet, first, last, w.style(style)))
	if height > 0 {
		w.do(w.f.SetRowHeight(w.sheet, w.row, height))
	}
	w.row++
}

func (w *sheetWriter) letterhead() {
	w.banner(Letterhead[0], "letterhead", 25)
	w.banner(Letterhead[1], "letterhead-small", 22)
	w.banner(Letterhead[2], "letterhead", 25)
	w.banner(Letterhead[3], "letterhead-large", 30)
	w.blank()
}

func (w *sheetWriter) blank() {
	w.row++
}

// values writes one row of cells starting at column A and styles the full
// width of the row when style is set.
func (w *sheetWriter) values(values []any, style string, height float64) {
	if w.err != nil {
		return
	}
	first := w.cell(1, w.row)
	w.do(w.f.SetSheetRow(w.sheet, first, &values))
	if style != "" {
		w.do(w.f.SetCellStyle(w.sheet, first, w.cell(w.cols, w.row), w.style(style)))
	}
	if height > 0 {
		w.do(w.f.SetRowHeight(w.sheet, w.row, height))
	}
	w.row++
}

func (w *sheetWriter) styleCell(col, row int, style string) {
	if w.err != nil {
		return
	}
	c := w.cell(col, row)
	w.do(w.f.SetCellStyle(w.sheet, c, c, w.style(style)))
}

func (w *sheetWriter) widths(widths ...float64) {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.do(err)
			return
		}
		w.do(w.f.SetColWidth(w.sheet, col, col, width))
	}
}

func (w *sheetWriter) uniformWidth(width float64) {
	last, err := excelize.ColumnNumberToName(w.cols)
	if err != nil {
		w.do(err)
		return
	}
	w.do(w.f.SetColWidth(w.sheet, "A", last, width))
}

func (w *sheetWriter) do(err error) {
	if err != nil && w.err == nil {
		w.err = errs.Wrap(err)
	}
}

var styleDefs = map[string]*excelize.Style{
	"letterhead": {
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	},
	"letterhead-small": {
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	},
	"letterhead-large": {
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	},
	"title": {
		Font:      &excelize.Font{Bold: true, Size: 16, Underline: "single"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	},
	"info": {
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	},
	"note": {
		Font:      &excelize.Font{Italic: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	},
	"instruction": {
		Font:      &excelize.Font{Italic: true, Size: 11, Color: colorInstruction},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
	},
	"header": {
		Font:      &excelize.Font{Bold: true, Color: colorWhite},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorHeader}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	},
	"cell": {
		Border:    thinBorder,
		Alignment: &excelize.Alignment{Horizontal: "left"},
	},
	"cell-center": {
		Border:    thinBorder,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	},
	"success": {
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorSuccess}},
		Border: thinBorder,
	},
	"failure": {
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorFailure}},
		Border: thinBorder,
	},
	"not-attempted": {
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorSkipped}},
		Border: thinBorder,
	},
	"example": {
		Font: &excelize.Font{Italic: true, Color: colorExample},
	},
	"footer": {
		Font:      &excelize.Font{Italic: true, Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	},
}
