package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/GangSheet/internal/engine"
	"github.com/piwi3910/GangSheet/internal/model"
)

// ExportAnalysisXLSX writes the combination analysis to an Excel workbook:
// one sheet for the size catalog summary, one for the ranked candidate
// combinations of the current pending pool.
func ExportAnalysisXLSX(path string, report engine.CatalogReport, scored []model.ScoredCombination) error {
	f := excelize.NewFile()
	defer f.Close()

	sizeSheet := f.GetSheetName(0)
	if err := f.SetSheetName(sizeSheet, "Sizes"); err != nil {
		return fmt.Errorf("failed to name size sheet: %w", err)
	}

	sizeHeader := []interface{}{"Size", "Crop W (mm)", "Crop H (mm)", "Max/Sheet", "Layout", "Item Area (mm²)", "Full Sheet Util", "Patterns"}
	if err := f.SetSheetRow("Sizes", "A1", &sizeHeader); err != nil {
		return fmt.Errorf("failed to write size header: %w", err)
	}
	for i, s := range report.Sizes {
		row := []interface{}{
			s.Display,
			s.CropWidth,
			s.CropHeight,
			s.MaxPerSheet,
			s.Layout,
			s.ItemArea,
			fmt.Sprintf("%.2f%%", s.FullUtilization*100),
			s.PatternCount,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow("Sizes", cell, &row); err != nil {
			return fmt.Errorf("failed to write size row: %w", err)
		}
	}

	if _, err := f.NewSheet("Combinations"); err != nil {
		return fmt.Errorf("failed to create combination sheet: %w", err)
	}
	comboHeader := []interface{}{"Rank", "Pattern", "Tasks", "Utilization", "Waste Cost", "Screen Cost", "Cost Effective", "Critical", "Urgency"}
	if err := f.SetSheetRow("Combinations", "A1", &comboHeader); err != nil {
		return fmt.Errorf("failed to write combination header: %w", err)
	}
	for i, s := range scored {
		row := []interface{}{
			i + 1,
			s.Pattern,
			len(s.Tasks),
			fmt.Sprintf("%.2f%%", s.Utilization()*100),
			s.WasteCost,
			s.ScreenCost,
			s.CostEffective,
			s.Critical,
			s.UrgencySum,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow("Combinations", cell, &row); err != nil {
			return fmt.Errorf("failed to write combination row: %w", err)
		}
	}

	return f.SaveAs(path)
}
