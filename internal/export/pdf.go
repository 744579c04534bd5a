// Package export renders arranged build plate layouts to PDF, including
// QR-coded item labels.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/plateforge/plateforge/internal/model"
)

// itemColor is an RGB color for a placed item.
type itemColor struct {
	R, G, B int
}

var itemColors = []itemColor{
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
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders the arranged layout to a single-page PDF: the build
// plate with every placed footprint, the computed bin outline, and a
// stats line.
func ExportPDF(path string, layout model.Layout, profileName string) error {
	if layout.PlacedCount() == 0 {
		return fmt.Errorf("no placed items to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()
	renderPlatePage(pdf, layout, profileName)

	return pdf.OutputFileAndClose(path)
}

func renderPlatePage(pdf *fpdf.Fpdf, layout model.Layout, profileName string) {
	plateW, plateL := layout.PlateWidth, layout.PlateLength
	if plateW <= 0 || plateL <= 0 {
		// Unbounded arrangement: draw the bin itself as the canvas.
		plateW = layout.OffsetX + layout.BinWidth
		plateL = layout.OffsetY + layout.BinLength
	}

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Build plate: %s (%.0f x %.0f mm)", profileName, plateW, plateL)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Objects: %d | Bin: %.0f x %.0f mm | Used area: %.0f mm² | Bin efficiency: %.1f%%",
		layout.PlacedCount(), layout.BinWidth, layout.BinLength, layout.UsedArea(), layout.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Scale the plate into the drawing area.
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/plateW, drawHeight/plateL)

	canvasW := plateW * scale
	canvasH := plateL * scale
	originX := marginLeft + (drawWidth-canvasW)/2
	originY := drawAreaTop

	// Plate background
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(originX, originY, canvasW, canvasH, "FD")

	// Bin outline
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.2)
	pdf.Rect(originX+layout.OffsetX*scale, originY+layout.OffsetY*scale,
		layout.BinWidth*scale, layout.BinLength*scale, "D")

	// Placed items
	colorIdx := 0
	for _, it := range layout.Items {
		if !it.Placed {
			continue
		}
		col := itemColors[colorIdx%len(itemColors)]
		colorIdx++

		ix := originX + it.X*scale
		iy := originY + it.Y*scale
		iw := it.Width * scale
		il := it.Length * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(ix, iy, iw, il, "FD")

		if iw > 15 && il > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(iw, il))
			pdf.SetTextColor(0, 0, 0)

			label := it.Label
			dims := fmt.Sprintf("%.0fx%.0f", it.Width, it.Length)

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < iw-2 {
				pdf.SetXY(ix+(iw-labelW)/2, iy+il/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if il > 14 && dimsW < iw-2 {
				pdf.SetXY(ix+(iw-dimsW)/2, iy+il/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, plateW, plateL, scale, originX, originY, canvasW, canvasH)
	drawItemLegend(pdf, layout, originY+canvasH+5)

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4,
		"Generated by PlateForge - Build Plate Arranger", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawDimensionAnnotations adds width and length labels outside the
// plate rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, plateW, plateL, scale, originX, originY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", plateW)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(originX+(canvasW-wLabelW)/2, originY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	lengthLabel := fmt.Sprintf("%.0f mm", plateL)
	pdf.TransformBegin()
	pdf.TransformRotate(90, originX-3, originY+canvasH/2)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(originX-3-lLabelW/2, originY+canvasH/2-2)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawItemLegend renders a compact legend of placed items below the
// plate drawing.
func drawItemLegend(pdf *fpdf.Fpdf, layout model.Layout, startY float64) {
	if layout.PlacedCount() == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Objects placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	colorIdx := 0
	for _, it := range layout.Items {
		if !it.Placed {
			continue
		}
		col := itemColors[colorIdx%len(itemColors)]
		colorIdx++

		label := fmt.Sprintf("%s (%.0fx%.0f)", it.Label, it.Width, it.Length)
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

// labelFontSize returns a font size appropriate for the rectangle.
func labelFontSize(w, l float64) float64 {
	minDim := math.Min(w, l)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
