package export

import (
	"fmt"

	"github.com/yofu/dxf"

	"github.com/glyphpack/glyphpack/internal/model"
	"github.com/glyphpack/glyphpack/internal/shape"
)

// ExportDXF writes the placed hull outlines as DXF line entities, one closed
// loop per shape, for plotters and engraving workflows. Coordinates are in
// viewport units with the Y axis flipped so the drawing reads the same way
// up as the layout.
func ExportDXF(path string, layout model.Layout, analyzer *shape.Analyzer) error {
	if len(layout.Shapes) == 0 {
		return fmt.Errorf("no shapes to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer("GLYPHS", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("add layer: %w", err)
	}

	for _, sh := range layout.Shapes {
		hull := worldHull(sh, analyzer)
		n := len(hull)
		if n < 3 {
			continue
		}
		for i := 0; i < n; i++ {
			a := hull[i]
			b := hull[(i+1)%n]
			ay := layout.Viewport.Height - a.Y
			by := layout.Viewport.Height - b.Y
			if _, err := d.Line(a.X, ay, 0, b.X, by, 0); err != nil {
				return fmt.Errorf("draw outline for %q: %w", sh.Glyph, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("save drawing: %w", err)
	}
	return nil
}
