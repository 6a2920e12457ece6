package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/glyphpack/glyphpack/internal/model"
	"github.com/glyphpack/glyphpack/internal/shape"
)

// xlsxSheet is the worksheet name used by the placement report.
const xlsxSheet = "Placements"

// ExportXLSX writes the layout as a spreadsheet: one row per placed shape
// with its pose, plus a header block with viewport and coverage figures.
func ExportXLSX(path string, layout model.Layout, analyzer *shape.Analyzer) error {
	if len(layout.Shapes) == 0 {
		return fmt.Errorf("no shapes to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	meta := [][]interface{}{
		{"Viewport width", layout.Viewport.Width},
		{"Viewport height", layout.Viewport.Height},
		{"Shapes", len(layout.Shapes)},
		{"Coverage %", Coverage(layout, analyzer)},
	}
	for i, row := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write metadata row: %w", err)
		}
	}

	headerRow := len(meta) + 2
	header := []interface{}{"#", "ID", "Glyph", "X", "Y", "Rotation", "Scale", "Confirmed"}
	cell, _ := excelize.CoordinatesToCellName(1, headerRow)
	if err := f.SetSheetRow(xlsxSheet, cell, &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, sh := range layout.Shapes {
		row := []interface{}{i + 1, sh.ID, sh.Glyph, sh.X, sh.Y, sh.Rotation, sh.Scale, sh.Confirmed}
		cell, _ := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write shape row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	return nil
}
