// Package export provides functionality for exporting planning pass results
// to various file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/GangSheet/internal/model"
)

// taskColor represents an RGB color for a placed task.
type taskColor struct {
	R, G, B int
}

// taskColors is the rotation of fill colors used in the layout diagrams.
var taskColors = []taskColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 portrait in mm). The transfer sheet is taller
// than wide, so portrait pages waste less space than landscape.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 24.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document for a planning pass. Each committed
// gang is rendered on its own page with a visual layout diagram, followed by
// a summary page with pass statistics.
func ExportPDF(path string, result model.PassResult) error {
	if len(result.Gangs) == 0 {
		return fmt.Errorf("no gangs to export")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, gang := range result.Gangs {
		pdf.AddPage()
		renderGangPage(pdf, gang, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderGangPage draws a single gang layout on the current PDF page.
func renderGangPage(pdf *fpdf.Fpdf, gang model.Gang, gangNum int) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Gang %d: %s  [%s]", gangNum, gang.Column, gang.Pattern)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Tasks: %d | Utilization: %.2f%% | Waste: %.0f mm² | Screens: %d",
		len(gang.Tasks), gang.Utilization()*100, gang.WasteArea(), gang.ScreenCount())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Calculate drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	// Scale the transfer sheet to fit the drawing area
	scaleX := drawWidth / model.SheetWidthMM
	scaleY := drawHeight / model.SheetHeightMM
	scale := math.Min(scaleX, scaleY)

	canvasW := model.SheetWidthMM * scale
	canvasH := model.SheetHeightMM * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Sheet background
	pdf.SetFillColor(250, 250, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	labels := taskLabels(gang.Tasks)

	for i, p := range gang.Placements {
		col := taskColors[i%len(taskColors)]
		pw := p.Width * scale
		ph := p.Height * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := labels[p.TaskID]
			dims := fmt.Sprintf("%.0fx%.0f", p.Width, p.Height)

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, scale, offsetX, offsetY, canvasW, canvasH)
	drawTaskLegend(pdf, gang, offsetY+canvasH+5)
}

// taskLabels maps task IDs to their display labels.
func taskLabels(tasks []model.Task) map[string]string {
	labels := make(map[string]string, len(tasks))
	for _, t := range tasks {
		labels[t.ID] = t.Label
	}
	return labels
}

// drawDimensionAnnotations adds width and height labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, scale, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", model.SheetWidthMM)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f mm", model.SheetHeightMM)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawTaskLegend renders a compact legend of the gang's tasks below the diagram.
func drawTaskLegend(pdf *fpdf.Fpdf, gang model.Gang, startY float64) {
	if len(gang.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Tasks ganged:", "", 0, "L", false, 0, "")

	labels := taskLabels(gang.Tasks)
	quantities := make(map[string]int, len(gang.Tasks))
	for _, t := range gang.Tasks {
		quantities[t.ID] = t.Quantity
	}

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range gang.Placements {
		col := taskColors[i%len(taskColors)]
		label := fmt.Sprintf("%s (%.0fx%.0f, run %d)", labels[p.TaskID], p.Width, p.Height, quantities[p.TaskID])
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

// renderSummaryPage draws the final summary page with pass statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PassResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Ganging Pass Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Gangs Committed", fmt.Sprintf("%d", len(result.Gangs))},
		{"Tasks Ganged", fmt.Sprintf("%d", result.GangedCount())},
		{"Tasks Unplanned", fmt.Sprintf("%d", result.UnplannedCount())},
		{"Average Utilization", fmt.Sprintf("%.2f%%", averageUtilization(result)*100)},
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

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Gang Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{15, 25, 50, 18, 28, 22, 22}
	headers := []string{"Gang", "Column", "Pattern", "Tasks", "Utilization", "Waste", "Screens"}

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
	for i, gang := range result.Gangs {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			gang.Column,
			gang.Pattern,
			fmt.Sprintf("%d", len(gang.Tasks)),
			fmt.Sprintf("%.2f%%", gang.Utilization()*100),
			fmt.Sprintf("%.0f", gang.WasteArea()),
			fmt.Sprintf("%d", gang.ScreenCount()),
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

	// Unplanned task warning
	unplanned := unplannedTasks(result)
	if len(unplanned) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(180, 7, "Tasks left unplanned", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)

		for _, task := range unplanned {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %s %s (run %d)", task.Label, task.Product, task.Size, task.Quantity)
			pdf.CellFormat(180, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by GangSheet - Transfer Ganging Planner", "", 0, "C", false, 0, "")
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

// averageUtilization returns the mean utilization across committed gangs.
func averageUtilization(result model.PassResult) float64 {
	if len(result.Gangs) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range result.Gangs {
		sum += g.Utilization()
	}
	return sum / float64(len(result.Gangs))
}

// unplannedTasks returns the tasks still unplanned after the pass.
func unplannedTasks(result model.PassResult) []model.Task {
	var out []model.Task
	for _, t := range result.Tasks {
		if t.State == model.StateUnplanned {
			out = append(out, t)
		}
	}
	return out
}
