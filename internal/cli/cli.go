// Package cli wires the ganging engine, persistence, and exports into the
// gangsheet command line tool.
//
// Commands:
//
//	gangsheet run      execute one planning pass over the pending task pool
//	gangsheet import   import tasks from a CSV or Excel order sheet
//	gangsheet analyze  rank candidate combinations without committing
//	gangsheet report   export the size catalog analysis workbook
//	gangsheet watch    run passes on a schedule, with optional metrics
package cli

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/GangSheet/internal/engine"
	"github.com/piwi3910/GangSheet/internal/export"
	"github.com/piwi3910/GangSheet/internal/importer"
	"github.com/piwi3910/GangSheet/internal/metrics"
	"github.com/piwi3910/GangSheet/internal/model"
	"github.com/piwi3910/GangSheet/internal/project"
)

var (
	configFile string
	logger     = log.New(os.Stderr, "[gangsheet] ", log.LstdFlags)
)

// BuildCLI assembles the root command and its subcommands.
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gangsheet",
		Short: "GangSheet: transfer print ganging planner",
		Long: `GangSheet assigns pending transfer print tasks onto shared production
sheets, minimizing wasted sheet area and screen setups, and routes each
committed gang to a LAY production column.`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", project.DefaultConfigPath(), "config file path")

	rootCmd.AddCommand(buildRunCommand())
	rootCmd.AddCommand(buildImportCommand())
	rootCmd.AddCommand(buildAnalyzeCommand())
	rootCmd.AddCommand(buildReportCommand())
	rootCmd.AddCommand(buildWatchCommand())

	return rootCmd
}

// workspace bundles everything a pass needs from disk.
type workspace struct {
	cfg     project.AppConfig
	eng     *engine.Engine
	tasks   []model.Task
	columns []model.LayColumn
}

func (w *workspace) tasksPath() string {
	return filepath.Join(w.cfg.DataDir, "tasks.json")
}

func (w *workspace) layStatePath() string {
	return filepath.Join(w.cfg.DataDir, "laystate.json")
}

// loadWorkspace reads the config, the task pool, and the LAY occupancy, and
// builds an engine from them.
func loadWorkspace() (*workspace, error) {
	cfg, err := project.LoadAppConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	settings := cfg.Settings()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	w := &workspace{cfg: cfg}

	w.tasks, err = project.LoadTasks(w.tasksPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load task pool: %w", err)
	}
	w.columns, err = project.LoadColumns(w.layStatePath(), settings.ColumnCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to load LAY state: %w", err)
	}

	w.eng, err = engine.New(engine.Config{
		Settings: settings,
		Columns:  w.columns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}
	return w, nil
}

func buildRunCommand() *cobra.Command {
	var pdfPath string
	var labelsPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one planning pass over the pending task pool",
		Long:  "Load the task pool, gang what is cost effective or critical, commit to LAY columns, and persist the outcome.",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkspace()
			if err != nil {
				return err
			}
			result, err := executePass(w, nil)
			if err != nil {
				return err
			}
			if pdfPath != "" {
				if err := export.ExportPDF(pdfPath, *result); err != nil {
					return fmt.Errorf("failed to export layout PDF: %w", err)
				}
				logger.Printf("Layout PDF written to %s", pdfPath)
			}
			if labelsPath != "" {
				if err := export.ExportLabels(labelsPath, *result); err != nil {
					return fmt.Errorf("failed to export labels: %w", err)
				}
				logger.Printf("Labels written to %s", labelsPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Write the gang layout PDF to this path")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "Write QR task labels to this path")

	return cmd
}

// executePass runs one pass against the workspace and persists the outcome.
// Task and LAY state are only written after the pass completes, so an
// aborted pass leaves no partial state behind.
func executePass(w *workspace, collector *metrics.Collector) (*model.PassResult, error) {
	result, err := w.eng.Run(w.tasks, time.Now())
	if err != nil {
		return nil, fmt.Errorf("planning pass failed: %w", err)
	}

	if err := project.SaveTasks(w.tasksPath(), result.Tasks); err != nil {
		return nil, fmt.Errorf("failed to persist task pool: %w", err)
	}
	if err := project.SaveColumns(w.layStatePath(), result.Columns); err != nil {
		return nil, fmt.Errorf("failed to persist LAY state: %w", err)
	}

	historyPath := filepath.Join(w.cfg.DataDir, "history",
		fmt.Sprintf("pass-%s.json", time.Now().UTC().Format("20060102-150405")))
	if err := project.ExportPass(historyPath, *result); err != nil {
		return nil, fmt.Errorf("failed to record pass history: %w", err)
	}

	if collector != nil {
		collector.RecordPass(*result)
	}

	logger.Printf("Pass complete: %d gangs committed, %d tasks ganged, %d unplanned",
		len(result.Gangs), result.GangedCount(), result.UnplannedCount())
	for i, gang := range result.Gangs {
		logger.Printf("  gang %d: %s  %s  %.2f%%", i+1, gang.Column, gang.Pattern, gang.Utilization()*100)
	}

	// The next pass must see the committed state.
	w.tasks = result.Tasks
	w.columns = result.Columns
	return result, nil
}

func buildImportCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import tasks from a CSV or Excel order sheet",
		Long:  "Parse an order sheet, validate each row, and merge the resulting tasks into the pending pool.",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkspace()
			if err != nil {
				return err
			}

			catalog := model.DefaultCatalog()
			var result importer.ImportResult
			if strings.HasSuffix(strings.ToLower(file), ".xlsx") {
				result = importer.ImportExcel(file, catalog)
			} else {
				result = importer.ImportCSV(file, catalog)
			}

			for _, warning := range result.Warnings {
				logger.Printf("warning: %s", warning)
			}
			for _, errMsg := range result.Errors {
				logger.Printf("error: %s", errMsg)
			}
			if len(result.Tasks) == 0 {
				return fmt.Errorf("no importable tasks in %s", file)
			}

			w.tasks = append(w.tasks, result.Tasks...)
			if err := project.SaveTasks(w.tasksPath(), w.tasks); err != nil {
				return fmt.Errorf("failed to persist task pool: %w", err)
			}

			logger.Printf("Imported %d tasks (%d rows rejected), pool now holds %d",
				len(result.Tasks), len(result.Errors), len(w.tasks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV or XLSX file containing task definitions")
	cmd.MarkFlagRequired("file")

	return cmd
}

func buildAnalyzeCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank candidate combinations without committing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkspace()
			if err != nil {
				return err
			}

			scored := w.eng.Analyze(w.tasks, time.Now())
			if len(scored) == 0 {
				logger.Printf("No candidate combinations for the current pool")
				return nil
			}

			fmt.Printf("%-4s %-24s %-6s %-8s %-10s %-10s %-5s\n",
				"Rank", "Pattern", "Tasks", "Util", "Waste", "Screens", "Go?")
			for i, s := range scored {
				accept := "no"
				if s.CostEffective || s.Critical {
					accept = "yes"
				}
				fmt.Printf("%-4d %-24s %-6d %-8s %-10.4f %-10.2f %-5s\n",
					i+1, s.Pattern, len(s.Tasks),
					fmt.Sprintf("%.2f%%", s.Utilization()*100),
					s.WasteCost, s.ScreenCost, accept)
			}

			if outPath != "" {
				if err := export.ExportAnalysisXLSX(outPath, w.eng.AnalyzeCatalog(), scored); err != nil {
					return fmt.Errorf("failed to export analysis workbook: %w", err)
				}
				logger.Printf("Analysis workbook written to %s", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Also write the analysis to an XLSX workbook")

	return cmd
}

func buildReportCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the size catalog and pattern analysis workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkspace()
			if err != nil {
				return err
			}

			report := w.eng.AnalyzeCatalog()
			logger.Printf("Sheet %s: %d viable patterns, best %s at %.2f%%",
				report.Sheet, report.PatternCount, report.BestPattern, report.BestUtilization*100)

			if err := export.ExportAnalysisXLSX(outPath, report, w.eng.Analyze(w.tasks, time.Now())); err != nil {
				return fmt.Errorf("failed to export report: %w", err)
			}
			logger.Printf("Report written to %s", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "gangsheet-report.xlsx", "Report workbook path")

	return cmd
}

func buildWatchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run planning passes on a schedule",
		Long:  "Trigger a planning pass at a fixed interval. Passes are mutually exclusive; a tick that arrives while a pass is still running is skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkspace()
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = time.Duration(w.cfg.Watch.IntervalSeconds) * time.Second
			}
			if interval <= 0 {
				return fmt.Errorf("watch interval must be positive")
			}
			return watchLoop(w, interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Pass interval (default from config)")

	return cmd
}

// watchLoop triggers passes until interrupted. The running channel is the
// single active-run guard: a tick that cannot acquire it is dropped rather
// than queued, so passes never overlap.
func watchLoop(w *workspace, interval time.Duration) error {
	var collector *metrics.Collector
	if w.cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		addr := fmt.Sprintf(":%d", w.cfg.Metrics.Port)
		go func() {
			logger.Printf("Metrics server listening on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	logger.Printf("Watching: pass every %s", interval)

	running := make(chan struct{}, 1)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			select {
			case running <- struct{}{}:
			default:
				logger.Printf("Previous pass still running, skipping tick")
				continue
			}
			go func() {
				defer func() { <-running }()
				if _, err := executePass(w, collector); err != nil {
					logger.Printf("Pass error: %v", err)
				}
			}()
		case <-sigChan:
			logger.Printf("Received shutdown signal, stopping")
			return nil
		}
	}
}
