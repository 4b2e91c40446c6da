package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/CakeCut/internal/sim"
)

// DXF layer names written by ExportDXF.
const (
	LayerCake   = "CAKE"
	LayerCuts   = "CUTS"
	LayerPieces = "PIECES"
	LayerLabels = "LABELS"
)

// ExportDXF writes the cake outline and knife strokes as LINE entities and
// every resulting piece as a closed LWPOLYLINE, one layer each. Coordinates
// are in cake centimeters.
func ExportDXF(path string, rec *sim.Record) error {
	if rec == nil {
		return fmt.Errorf("no game to export")
	}
	surface := rec.Game.Surface
	if err := surface.Validate(); err != nil {
		return err
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerCake, color.White},
		{LayerCuts, color.Red},
		{LayerPieces, color.Green},
		{LayerLabels, color.Yellow},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("adding layer %s: %w", l.name, err)
		}
	}

	if err := d.ChangeLayer(LayerCake); err != nil {
		return err
	}
	corners := surface.Corners()
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			return fmt.Errorf("writing cake outline: %w", err)
		}
	}

	if err := d.ChangeLayer(LayerCuts); err != nil {
		return err
	}
	knife := rec.Path()
	for i := 1; i < len(knife); i++ {
		a, b := knife[i-1], knife[i]
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			return fmt.Errorf("writing cut %d: %w", i, err)
		}
	}

	if err := d.ChangeLayer(LayerPieces); err != nil {
		return err
	}
	for i, piece := range rec.Pieces {
		if len(piece.Outline) < 3 {
			continue
		}
		vertices := make([][]float64, len(piece.Outline))
		for j, p := range piece.Outline {
			vertices[j] = []float64{p.X, p.Y}
		}
		if _, err := d.LwPolyline(true, vertices...); err != nil {
			return fmt.Errorf("writing piece %d: %w", i, err)
		}
	}

	if err := d.ChangeLayer(LayerLabels); err != nil {
		return err
	}
	for i, piece := range rec.Pieces {
		if len(piece.Outline) < 3 {
			continue
		}
		c := piece.Outline.Centroid()
		if _, err := d.Text(fmt.Sprintf("%d", i), c.X, c.Y, 0, 0.5); err != nil {
			return fmt.Errorf("writing label %d: %w", i, err)
		}
	}

	return d.SaveAs(path)
}
