package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/plateforge/plateforge/internal/model"
)

// LabelInfo holds the data encoded into each item label's QR code.
type LabelInfo struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Width  float64 `json:"width_mm"`
	Length float64 `json:"length_mm"`
	X      float64 `json:"x_mm"`
	Y      float64 `json:"y_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns,
// 10 rows per page on US Letter).
const (
	labelPageWidth  = 215.9
	labelPageHeight = 279.4
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// ExportLabels generates a PDF of QR-coded labels for all placed items.
// Each label carries the item name, footprint dimensions, plate
// position and a QR code encoding the same data as JSON.
func ExportLabels(path string, layout model.Layout) error {
	labels := CollectLabelInfos(layout)
	if len(labels) == 0 {
		return fmt.Errorf("no placed items to generate labels for")
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
			return fmt.Errorf("failed to render label for %q: %w", label.Label, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide.
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

	imgName := fmt.Sprintf("qr_%s", info.ID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	itemLabel := info.Label
	if pdf.GetStringWidth(itemLabel) > textW {
		for len(itemLabel) > 0 && pdf.GetStringWidth(itemLabel+"...") > textW {
			itemLabel = itemLabel[:len(itemLabel)-1]
		}
		itemLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, itemLabel, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f mm", info.Width, info.Length)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pos := fmt.Sprintf("Plate @ (%.0f, %.0f)", info.X, info.Y)
	pdf.CellFormat(textW, 3, pos, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label data for every placed item.
func CollectLabelInfos(layout model.Layout) []LabelInfo {
	var labels []LabelInfo
	for _, it := range layout.Items {
		if !it.Placed {
			continue
		}
		labels = append(labels, LabelInfo{
			ID:     it.ID,
			Label:  it.Label,
			Width:  it.Width,
			Length: it.Length,
			X:      it.X,
			Y:      it.Y,
		})
	}
	return labels
}
