// Package export writes packed glyph layouts to PDF, XLSX, and DXF files,
// plus QR-coded placement labels.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/glyphpack/glyphpack/internal/geom"
	"github.com/glyphpack/glyphpack/internal/model"
	"github.com/glyphpack/glyphpack/internal/shape"
)

// shapeColor is an RGB fill color for a placed glyph hull.
type shapeColor struct {
	R, G, B int
}

var shapeColors = []shapeColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders the layout as a PDF: a diagram page with every glyph
// hull drawn to scale inside the viewport rectangle, followed by a summary
// page with layout statistics.
func ExportPDF(path string, layout model.Layout, analyzer *shape.Analyzer) error {
	if len(layout.Shapes) == 0 {
		return fmt.Errorf("no shapes to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, layout, analyzer)

	pdf.AddPage()
	renderSummaryPage(pdf, layout, analyzer)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the viewport and every placed hull on the current page.
func renderLayoutPage(pdf *fpdf.Fpdf, layout model.Layout, analyzer *shape.Analyzer) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Glyph layout (%.0f x %.0f)", layout.Viewport.Width, layout.Viewport.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Shapes: %d | Coverage: %.1f%%", len(layout.Shapes), Coverage(layout, analyzer))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom

	scale := math.Min(drawWidth/layout.Viewport.Width, drawHeight/layout.Viewport.Height)
	canvasW := layout.Viewport.Width * scale
	canvasH := layout.Viewport.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Viewport background.
	pdf.SetFillColor(250, 250, 250)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, sh := range layout.Shapes {
		col := shapeColors[i%len(shapeColors)]
		world := worldHull(sh, analyzer)
		if len(world) < 3 {
			continue
		}

		points := make([]fpdf.PointType, len(world))
		for j, p := range world {
			points[j] = fpdf.PointType{X: offsetX + p.X*scale, Y: offsetY + p.Y*scale}
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Polygon(points, "FD")

		// Glyph label at the shape center, when it is large enough to carry one.
		if sh.Scale*scale > 8 {
			pdf.SetFont("Helvetica", "B", labelFontSize(sh.Scale*scale))
			pdf.SetTextColor(0, 0, 0)
			labelW := pdf.GetStringWidth(sh.Glyph)
			pdf.SetXY(offsetX+sh.X*scale-labelW/2, offsetY+sh.Y*scale-2)
			pdf.CellFormat(labelW, 4, sh.Glyph, "", 0, "C", false, 0, "")
		}
	}
}

// renderSummaryPage draws layout statistics and a per-shape table.
func renderSummaryPage(pdf *fpdf.Fpdf, layout model.Layout, analyzer *shape.Analyzer) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Layout Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	minScale, maxScale := scaleRange(layout.Shapes)
	summaryItems := []struct {
		label string
		value string
	}{
		{"Shapes placed", fmt.Sprintf("%d", len(layout.Shapes))},
		{"Viewport", fmt.Sprintf("%.0f x %.0f", layout.Viewport.Width, layout.Viewport.Height)},
		{"Coverage", fmt.Sprintf("%.1f%%", Coverage(layout, analyzer))},
		{"Smallest shape", fmt.Sprintf("%.1f", minScale)},
		{"Largest shape", fmt.Sprintf("%.1f", maxScale)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	colWidths := []float64{25, 30, 30, 30, 30, 30}
	headers := []string{"#", "Glyph", "X", "Y", "Rotation", "Scale"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, sh := range layout.Shapes {
		if y > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			sh.Glyph,
			fmt.Sprintf("%.1f", sh.X),
			fmt.Sprintf("%.1f", sh.Y),
			fmt.Sprintf("%.0f", sh.Rotation),
			fmt.Sprintf("%.1f", sh.Scale),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
}

// Coverage returns the share of the viewport area covered by placed hulls,
// as a percentage. Overlaps are not possible by construction, so summing per
// shape is exact up to the hull approximation.
func Coverage(layout model.Layout, analyzer *shape.Analyzer) float64 {
	total := layout.Viewport.Width * layout.Viewport.Height
	if total == 0 {
		return 0
	}
	var used float64
	for _, sh := range layout.Shapes {
		world := worldHull(sh, analyzer)
		used += world.Area()
	}
	return used / total * 100
}

// worldHull returns the shape's hull transformed to its recorded pose. When
// the glyph cannot be analyzed, a rectangular stand-in of the estimated
// character proportions is used so the export still shows the shape.
func worldHull(sh model.PlacedShape, analyzer *shape.Analyzer) geom.Polygon {
	analysis, err := analyzer.Analyze(sh.Glyph)
	var hull geom.Polygon
	if err != nil {
		hull = geom.RectangularHull(0.7, 1, geom.Point{})
	} else {
		hull = analysis.Hull
	}
	return sh.Pose().Apply(hull)
}

func scaleRange(shapes []model.PlacedShape) (float64, float64) {
	if len(shapes) == 0 {
		return 0, 0
	}
	minS, maxS := shapes[0].Scale, shapes[0].Scale
	for _, sh := range shapes[1:] {
		minS = math.Min(minS, sh.Scale)
		maxS = math.Max(maxS, sh.Scale)
	}
	return minS, maxS
}

// labelFontSize picks a font size proportional to the rendered shape size.
func labelFontSize(renderedScale float64) float64 {
	switch {
	case renderedScale > 40:
		return 10
	case renderedScale > 20:
		return 8
	default:
		return 6
	}
}
