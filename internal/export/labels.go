package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/CakeCut/internal/engine"
	"github.com/piwi3910/CakeCut/internal/model"
	"github.com/piwi3910/CakeCut/internal/sim"
)

// LabelInfo holds the data encoded into each plate label's QR code.
type LabelInfo struct {
	GameID        string  `json:"game"`
	Request       int     `json:"request"` // 1-based
	RequestedArea float64 `json:"requested_cm2"`
	Piece         int     `json:"piece"` // model.Unassigned when the request got nothing
	PieceArea     float64 `json:"piece_cm2"`
	Deviation     float64 `json:"deviation_pct"`
	Fits          bool    `json:"fits_plate"`
	Penalty       float64 `json:"penalty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF with one QR-coded plate label per request.
// Labels are laid out on a standard label sheet format (Avery 5160 / 3
// columns x 10 rows on US Letter).
func ExportLabels(path string, rec *sim.Record, plateRadius float64) error {
	if rec == nil {
		return fmt.Errorf("no game to generate labels for")
	}
	labels := CollectLabelInfos(rec, plateRadius)
	if len(labels) == 0 {
		return fmt.Errorf("no requests to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for request %d: %w", label.Request, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.GameID, info.Request)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fmt.Sprintf("Request %d", info.Request), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("Wanted %.2f cm2", info.RequestedArea), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	got := "No piece"
	if info.Piece != model.Unassigned {
		got = fmt.Sprintf("Piece %d: %.2f cm2 (%.1f%%)", info.Piece, info.PieceArea, info.Deviation)
	}
	pdf.CellFormat(textW, 3, got, "", 1, "L", false, 0, "")

	if info.Piece != model.Unassigned && !info.Fits {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(textW, 3, "Too large for the plate", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos lists every request of a record with the piece it
// received and the penalty it contributes.
func CollectLabelInfos(rec *sim.Record, plateRadius float64) []LabelInfo {
	requests := rec.Game.Requests
	scorer := engine.NewScorer(rec.Pieces, requests, rec.Tolerance, plateRadius)

	labels := make([]LabelInfo, 0, len(requests))
	for i, want := range requests {
		piece := model.Unassigned
		if i < len(rec.Assignment) {
			piece = rec.Assignment[i]
		}
		info := LabelInfo{
			GameID:        rec.Game.ID,
			Request:       i + 1,
			RequestedArea: want,
			Piece:         model.Unassigned,
			Penalty:       scorer.Cost(i, piece),
		}
		if piece >= 0 && piece < len(rec.Pieces) {
			info.Piece = piece
			info.PieceArea = scorer.Area(piece)
			info.Fits = scorer.Feasible(piece)
			if dev, err := engine.Deviation(info.PieceArea, want); err == nil {
				info.Deviation = dev
			}
		}
		labels = append(labels, info)
	}
	return labels
}
