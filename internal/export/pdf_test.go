package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/GangSheet/internal/engine"
	"github.com/piwi3910/GangSheet/internal/model"
)

// buildTestResult runs a real planning pass so exports render production-shaped data.
func buildTestResult(t *testing.T) model.PassResult {
	t.Helper()

	e, err := engine.New(engine.Config{})
	if err != nil {
		t.Fatalf("engine.New returned error: %v", err)
	}

	a6 := func(label string) model.Task {
		task := model.NewTask(label, model.ProductFullColour, model.SizeA6, "", 30)
		return task
	}
	tasks := []model.Task{
		model.NewTask("Shirt front", model.ProductFullColour, model.SizeA4, "", 100),
		a6("Crest L"), a6("Crest R"), a6("Sponsor"), a6("Number patch"),
		model.NewTask("Odd red", model.ProductSingleColour, model.SizeA4, "red", 10),
	}

	result, err := e.Run(tasks, time.Now())
	if err != nil {
		t.Fatalf("engine.Run returned error: %v", err)
	}
	if len(result.Gangs) == 0 {
		t.Fatal("expected at least one committed gang")
	}
	return *result
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pass.pdf")

	result := buildTestResult(t)
	if err := ExportPDF(path, result); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportPDF(path, model.PassResult{})
	if err == nil {
		t.Fatal("expected error for a pass with no gangs, got nil")
	}
}

func TestExportAnalysisXLSX_CreatesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.xlsx")

	e, err := engine.New(engine.Config{})
	if err != nil {
		t.Fatalf("engine.New returned error: %v", err)
	}

	tasks := []model.Task{
		model.NewTask("Front", model.ProductFullColour, model.SizeA4, "", 10),
		model.NewTask("Back", model.ProductFullColour, model.SizeA4, "", 10),
	}
	scored := e.Analyze(tasks, time.Now())
	if len(scored) == 0 {
		t.Fatal("expected at least one scored combination")
	}

	if err := ExportAnalysisXLSX(path, e.AnalyzeCatalog(), scored); err != nil {
		t.Fatalf("ExportAnalysisXLSX returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("workbook was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("workbook is empty")
	}
}
