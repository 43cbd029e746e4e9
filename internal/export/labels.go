package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/GangSheet/internal/model"
)

// LabelInfo holds the data encoded into each task label's QR code.
type LabelInfo struct {
	TaskID    string  `json:"task_id"`
	TaskLabel string  `json:"label"`
	Product   string  `json:"product"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Column    string  `json:"column"`
	GangIndex int     `json:"gang"`
	Pattern   string  `json:"pattern"`
	X         float64 `json:"x_mm"`
	Y         float64 `json:"y_mm"`
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

// ExportLabels generates a PDF of QR-coded labels for all ganged tasks.
// Each label carries the task name, run details, and a QR code encoding the
// task's gang assignment as JSON. Labels are laid out on a standard label
// sheet format (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, result model.PassResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no ganged tasks to generate labels for")
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
			return fmt.Errorf("failed to render label for %q: %w", label.TaskLabel, err)
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

	imgName := fmt.Sprintf("qr_%s_%d", info.TaskID, info.GangIndex)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area (left side of label)
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	taskLabel := info.TaskLabel
	if pdf.GetStringWidth(taskLabel) > textW {
		for len(taskLabel) > 0 && pdf.GetStringWidth(taskLabel+"...") > textW {
			taskLabel = taskLabel[:len(taskLabel)-1]
		}
		taskLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, taskLabel, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	run := fmt.Sprintf("%s %s, run %d", info.Product, info.Size, info.Quantity)
	pdf.CellFormat(textW, 3.5, run, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	gangInfo := fmt.Sprintf("%s @ (%.0f, %.0f)", info.Column, info.X, info.Y)
	pdf.CellFormat(textW, 3, gangInfo, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, info.Pattern, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos extracts label information from a pass result for use in
// testing or alternative export formats.
func CollectLabelInfos(result model.PassResult) []LabelInfo {
	byID := make(map[string]model.Task, len(result.Tasks))
	for _, t := range result.Tasks {
		byID[t.ID] = t
	}

	var labels []LabelInfo
	for gangIdx, gang := range result.Gangs {
		for _, p := range gang.Placements {
			task, ok := byID[p.TaskID]
			if !ok {
				continue
			}
			labels = append(labels, LabelInfo{
				TaskID:    task.ID,
				TaskLabel: task.Label,
				Product:   string(task.Product),
				Size:      string(task.Size),
				Quantity:  task.Quantity,
				Column:    gang.Column,
				GangIndex: gangIdx + 1,
				Pattern:   gang.Pattern,
				X:         p.X,
				Y:         p.Y,
			})
		}
	}
	return labels
}
