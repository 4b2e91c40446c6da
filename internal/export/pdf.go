// Package export writes played games to PDF reports, label sheets, DXF
// drawings and penalty charts.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/CakeCut/internal/engine"
	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/piwi3910/CakeCut/internal/plate"
	"github.com/piwi3910/CakeCut/internal/sim"
)

// pieceColor represents an RGB color for an assigned piece.
type pieceColor struct {
	R, G, B int
}

// pieceColors are cycled by request index.
var pieceColors = []pieceColor{
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
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// cakeView maps cake coordinates (cm, origin bottom left) to page
// coordinates (mm, origin top left).
type cakeView struct {
	scale   float64
	offsetX float64
	offsetY float64
	canvasH float64
}

func (v cakeView) point(p model.Point) (float64, float64) {
	return v.offsetX + p.X*v.scale, v.offsetY + v.canvasH - p.Y*v.scale
}

// ExportPDF writes a report of a played game: a plan page with the cut path
// and the pieces colored by the request they serve, followed by a summary
// page with the assignment table. comparison may be nil.
func ExportPDF(path string, rec *sim.Record, cfg model.PlayerConfig, comparison []engine.ComparisonResult) error {
	if rec == nil {
		return fmt.Errorf("no game to export")
	}
	if err := rec.Game.Surface.Validate(); err != nil {
		return err
	}
	cfg.Normalize()

	infos := CollectLabelInfos(rec, cfg.PlateRadius)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderPlanPage(pdf, rec, infos, cfg.PlateRadius)

	pdf.AddPage()
	renderSummaryPage(pdf, rec, infos, cfg, comparison)

	return pdf.OutputFileAndClose(path)
}

// renderPlanPage draws the cake, its pieces and the knife path.
func renderPlanPage(pdf *fpdf.Fpdf, rec *sim.Record, infos []LabelInfo, plateRadius float64) {
	surface := rec.Game.Surface

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Game %s: %s (%.2f x %.2f cm)", rec.Game.ID, rec.Game.Behavior, surface.Width, surface.Length)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Requests: %d | Pieces: %d | Cuts: %d | Penalty: %.2f | Tolerance: %.1f%%",
		len(rec.Game.Requests), len(rec.Pieces), countCuts(rec), rec.Penalty, rec.Tolerance)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/surface.Width, drawHeight/surface.Length)
	canvasW := surface.Width * scale
	canvasH := surface.Length * scale
	view := cakeView{
		scale:   scale,
		offsetX: marginLeft + (drawWidth-canvasW)/2,
		offsetY: drawAreaTop,
		canvasH: canvasH,
	}

	// Cake background (sponge color)
	pdf.SetFillColor(245, 222, 179)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(view.offsetX, view.offsetY, canvasW, canvasH, "FD")

	servedBy := make(map[int]int, len(infos))
	for _, info := range infos {
		if info.Piece != model.Unassigned {
			servedBy[info.Piece] = info.Request - 1
		}
	}
	fits := plate.FeasibleSet(rec.Pieces, plateRadius)

	for i, piece := range rec.Pieces {
		drawPiece(pdf, view, piece, i, servedBy, fits[i])
	}

	drawCutPath(pdf, view, rec.Path())
	drawDimensionAnnotations(pdf, surface, view.offsetX, view.offsetY, canvasW, canvasH)
	drawRequestLegend(pdf, infos, view.offsetY+canvasH+5)
}

// drawPiece fills a piece with the color of the request it serves, or grey
// when it is left over. Pieces that do not fit on a plate get a red border.
func drawPiece(pdf *fpdf.Fpdf, view cakeView, piece model.Piece, index int, servedBy map[int]int, fits bool) {
	if len(piece.Outline) < 3 {
		return
	}
	pts := make([]fpdf.PointType, len(piece.Outline))
	for i, p := range piece.Outline {
		x, y := view.point(p)
		pts[i] = fpdf.PointType{X: x, Y: y}
	}

	if req, ok := servedBy[index]; ok {
		col := pieceColors[req%len(pieceColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
	} else {
		pdf.SetFillColor(220, 220, 220)
	}
	if fits {
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
	} else {
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.6)
	}
	pdf.Polygon(pts, "FD")

	min, max := piece.Outline.BoundingBox()
	pw := (max.X - min.X) * view.scale
	ph := (max.Y - min.Y) * view.scale
	if pw > 12 && ph > 6 {
		label := fmt.Sprintf("#%d %.1f", index, piece.Area())
		if req, ok := servedBy[index]; ok {
			label = fmt.Sprintf("R%d %.1f", req+1, piece.Area())
		}
		pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
		pdf.SetTextColor(0, 0, 0)
		cx, cy := view.point(piece.Outline.Centroid())
		w := pdf.GetStringWidth(label)
		if w < pw-2 {
			pdf.SetXY(cx-w/2, cy-2)
			pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
		}
	}
}

// drawCutPath draws every knife stroke and numbers it at its midpoint.
func drawCutPath(pdf *fpdf.Fpdf, view cakeView, path []model.Point) {
	if len(path) < 2 {
		return
	}
	pdf.SetDrawColor(180, 0, 0)
	pdf.SetLineWidth(0.4)
	pdf.SetFont("Helvetica", "B", 6)
	pdf.SetTextColor(180, 0, 0)

	for i := 1; i < len(path); i++ {
		x1, y1 := view.point(path[i-1])
		x2, y2 := view.point(path[i])
		pdf.Line(x1, y1, x2, y2)

		num := fmt.Sprintf("%d", i)
		w := pdf.GetStringWidth(num)
		pdf.SetXY((x1+x2)/2-w/2, (y1+y2)/2-3)
		pdf.CellFormat(w, 3, num, "", 0, "C", false, 0, "")
	}

	// Starting position
	x, y := view.point(path[0])
	pdf.SetFillColor(180, 0, 0)
	pdf.Circle(x, y, 1, "F")

	pdf.SetTextColor(0, 0, 0)
}

// drawDimensionAnnotations adds width and length labels outside the cake rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, surface model.Surface, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.2f cm", surface.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	lengthLabel := fmt.Sprintf("%.2f cm", surface.Length)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawRequestLegend renders one swatch per request below the cake.
func drawRequestLegend(pdf *fpdf.Fpdf, infos []LabelInfo, startY float64) {
	if len(infos) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Requests:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, info := range infos {
		col := pieceColors[(info.Request-1)%len(pieceColors)]
		label := fmt.Sprintf("R%d %.1f cm2", info.Request, info.RequestedArea)
		if info.Piece == model.Unassigned {
			label += " (none)"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the assignment table, the optional strategy
// comparison and the player configuration.
func renderSummaryPage(pdf *fpdf.Fpdf, rec *sim.Record, infos []LabelInfo, cfg model.PlayerConfig, comparison []engine.ComparisonResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Game Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Assignment", "", 0, "L", false, 0, "")
	y += 9

	headers := []string{"Request", "Requested", "Piece", "Piece Area", "Deviation", "Fits Plate", "Penalty"}
	colWidths := []float64{25, 35, 25, 35, 35, 30, 30}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		piece, area, dev, fits := "-", "-", "-", "-"
		if info.Piece != model.Unassigned {
			piece = fmt.Sprintf("%d", info.Piece)
			area = fmt.Sprintf("%.2f", info.PieceArea)
			dev = fmt.Sprintf("%.1f%%", info.Deviation)
			fits = yesNo(info.Fits)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", info.Request),
			fmt.Sprintf("%.2f", info.RequestedArea),
			piece, area, dev, fits,
			fmt.Sprintf("%.2f", info.Penalty),
		})
	}
	y = drawTable(pdf, y, headers, colWidths, rows)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y+2)
	pdf.CellFormat(100, 6, fmt.Sprintf("Total penalty: %.2f", rec.Penalty), "", 0, "L", false, 0, "")
	y += 10

	if len(comparison) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Assignment Strategies", "", 0, "L", false, 0, "")
		y += 9

		rows = rows[:0]
		for _, r := range comparison {
			rows = append(rows, []string{
				r.Scenario.Name,
				fmt.Sprintf("%d", r.AssignedCount),
				fmt.Sprintf("%d", r.InfeasibleCount),
				fmt.Sprintf("%.2f", r.Penalty),
			})
		}
		y = drawTable(pdf, y, []string{"Strategy", "Assigned", "Infeasible", "Penalty"}, []float64{60, 30, 30, 30}, rows)
		y += 4
	}

	y += 4
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Player Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Behavior", rec.Game.Behavior},
		{"Tolerance", fmt.Sprintf("%.1f%%", rec.Tolerance)},
		{"Plate Radius", fmt.Sprintf("%.2f cm", cfg.PlateRadius)},
		{"Exact Match Limit", fmt.Sprintf("%d pieces", cfg.ExactMatchLimit)},
		{"Played At", rec.PlayedAt.Format("2006-01-02 15:04:05 MST")},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by CakeCut - Cake Cutting Planner", "", 0, "C", false, 0, "")
}

// drawTable renders a bordered table with a shaded header and alternating
// row backgrounds. It returns the y position below the last row. Rows that
// would run into the footer are dropped.
func drawTable(pdf *fpdf.Fpdf, y float64, headers []string, colWidths []float64, rows [][]string) float64 {
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
	for i, row := range rows {
		if y > pageHeight-marginBottom-20 {
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(100, 6, fmt.Sprintf("... %d more rows", len(rows)-i), "", 0, "L", false, 0, "")
			return y + 6
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}
	return y
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// countCuts returns the number of knife strokes in a record.
func countCuts(rec *sim.Record) int {
	total := 0
	for _, mv := range rec.Moves {
		if mv.Kind == model.MoveCut {
			total++
		}
	}
	return total
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
