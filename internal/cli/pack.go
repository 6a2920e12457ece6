package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/glyphpack/glyphpack/internal/config"
	"github.com/glyphpack/glyphpack/internal/engine"
	"github.com/glyphpack/glyphpack/internal/export"
	"github.com/glyphpack/glyphpack/internal/model"
	"github.com/glyphpack/glyphpack/internal/shape"
)

// packOptions collects the pack command's flag values.
type packOptions struct {
	configPath string
	fontPath   string
	viewport   string
	seed       int64

	pdfPath    string
	xlsxPath   string
	dxfPath    string
	labelsPath string
	asJSON     bool
}

func newPackCmd() *cobra.Command {
	opts := &packOptions{}

	cmd := &cobra.Command{
		Use:   "pack TEXT",
		Short: "Pack the characters of TEXT into the viewport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&opts.fontPath, "font", "", "TTF/OTF font file (default: bundled Go Regular)")
	cmd.Flags().StringVar(&opts.viewport, "viewport", "", "viewport size as WxH, e.g. 1000x800")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().StringVar(&opts.pdfPath, "pdf", "", "write a layout diagram PDF")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "write a placement report spreadsheet")
	cmd.Flags().StringVar(&opts.dxfPath, "dxf", "", "write hull outlines as DXF")
	cmd.Flags().StringVar(&opts.labelsPath, "labels", "", "write QR-coded placement labels PDF")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the layout as JSON")

	return cmd
}

func runPack(cmd *cobra.Command, text string, opts *packOptions) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.fontPath != "" {
		cfg.FontPath = opts.fontPath
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if opts.viewport != "" {
		w, h, err := parseViewport(opts.viewport)
		if err != nil {
			return err
		}
		cfg.ViewportWidth = w
		cfg.ViewportHeight = h
	}

	analyzer, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}

	vp := cfg.Viewport()
	eng := engine.New(cfg.SearchSettings(), analyzer)

	var shapes []model.PlacedShape
	for i, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		glyph := string(r)

		resp := eng.Place(model.Request{
			CharacterID:    fmt.Sprintf("char-%d", i),
			ExistingShapes: shapes,
			NewGlyph:       glyph,
			Viewport:       vp,
		})
		shapes = append(shapes, model.NewPlacedShape(glyph, resp.Placement))

		logger.Debug("placed glyph",
			"glyph", glyph,
			"x", fmt.Sprintf("%.1f", resp.Placement.X),
			"y", fmt.Sprintf("%.1f", resp.Placement.Y),
			"rotation", fmt.Sprintf("%.0f", resp.Placement.Rotation),
			"scale", fmt.Sprintf("%.1f", resp.Placement.Scale),
		)
	}

	layout := model.Layout{Viewport: vp, Shapes: shapes}

	if opts.asJSON {
		data, err := json.MarshalIndent(layout, "", "  ")
		if err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Packed %d glyphs into %.0fx%.0f (coverage %.1f%%)\n",
			len(shapes), vp.Width, vp.Height, export.Coverage(layout, analyzer))
	}

	return writeExports(layout, analyzer, opts, logger)
}

func buildAnalyzer(cfg config.Config) (*shape.Analyzer, error) {
	if cfg.FontPath != "" {
		return shape.NewAnalyzerFromFile(cfg.FontPath, cfg.ReferenceSize)
	}
	return shape.DefaultAnalyzer()
}

func writeExports(layout model.Layout, analyzer *shape.Analyzer, opts *packOptions, logger *charmlog.Logger) error {
	if opts.pdfPath != "" {
		if err := export.ExportPDF(opts.pdfPath, layout, analyzer); err != nil {
			return err
		}
		logger.Info("wrote layout PDF", "path", opts.pdfPath)
	}
	if opts.xlsxPath != "" {
		if err := export.ExportXLSX(opts.xlsxPath, layout, analyzer); err != nil {
			return err
		}
		logger.Info("wrote placement report", "path", opts.xlsxPath)
	}
	if opts.dxfPath != "" {
		if err := export.ExportDXF(opts.dxfPath, layout, analyzer); err != nil {
			return err
		}
		logger.Info("wrote DXF outlines", "path", opts.dxfPath)
	}
	if opts.labelsPath != "" {
		if err := export.ExportLabels(opts.labelsPath, layout); err != nil {
			return err
		}
		logger.Info("wrote placement labels", "path", opts.labelsPath)
	}
	return nil
}

// parseViewport parses a WxH dimension string.
func parseViewport(s string) (float64, float64, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid viewport %q, expected WxH", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid viewport width %q", parts[0])
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid viewport height %q", parts[1])
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("viewport dimensions must be positive")
	}
	return w, h, nil
}
