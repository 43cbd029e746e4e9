package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/piwi3910/GangSheet/internal/model"
)

// ErrDoubleCommit signals that a planning pass tried to gang a task that was
// no longer pending. It should never fire; if it does the pass aborts loudly
// rather than silently double-booking a column.
var ErrDoubleCommit = fmt.Errorf("task already committed")

// Config carries everything a planning engine needs. Zero-value fields fall
// back to production defaults.
type Config struct {
	Catalog  model.SizeCatalog
	Settings model.GangSettings
	Columns  []model.LayColumn
}

// Engine runs ganging passes over a pool of print tasks. It is built once
// per configuration; the pattern catalog is derived at construction so every
// pass shares the same layout vocabulary.
type Engine struct {
	catalog   model.SizeCatalog
	settings  model.GangSettings
	columns   []model.LayColumn
	patterns  []Pattern
	generator *Generator
}

func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		cfg.Catalog = model.DefaultCatalog()
	}
	if err := cfg.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("size catalog: %w", err)
	}
	if cfg.Settings == (model.GangSettings{}) {
		cfg.Settings = model.DefaultSettings()
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if cfg.Columns == nil {
		cfg.Columns = model.LayColumns(cfg.Settings.ColumnCapacity)
	}
	patterns := BuildPatternCatalog(cfg.Catalog, cfg.Settings.MinUtilization)
	return &Engine{
		catalog:   cfg.Catalog,
		settings:  cfg.Settings,
		columns:   cfg.Columns,
		patterns:  patterns,
		generator: NewGenerator(cfg.Catalog, patterns),
	}, nil
}

// Patterns exposes the derived layout catalog, best first.
func (e *Engine) Patterns() []Pattern {
	return e.patterns
}

// Run executes one planning pass: repeatedly generate candidates over the
// unplanned pool, commit the best acceptable combination that fits a LAY
// column, and regenerate until nothing acceptable fits. Input tasks are not
// mutated; the result carries updated copies.
func (e *Engine) Run(tasks []model.Task, now time.Time) (*model.PassResult, error) {
	pool := make([]model.Task, len(tasks))
	copy(pool, tasks)
	for i := range pool {
		if err := pool[i].Validate(e.catalog); err != nil {
			return nil, err
		}
	}
	alloc := NewAllocator(e.columns)
	var gangs []model.Gang

	for {
		committed := false
		for _, best := range e.rankedCandidates(pool, now) {
			// A gang occupies one column slot per member task. When no
			// column has enough free slots the combination is deferred,
			// not the whole pass: a smaller candidate may still fit.
			column := alloc.NextAvailable(len(best.Tasks))
			if column == "" {
				continue
			}
			if err := alloc.Commit(column, len(best.Tasks)); err != nil {
				return nil, err
			}
			for _, id := range best.TaskIDs() {
				idx, err := pendingIndex(pool, id)
				if err != nil {
					return nil, err
				}
				pool[idx].State = model.StateGanged
				pool[idx].LayColumn = column
			}
			gangs = append(gangs, model.Gang{Column: column, ScoredCombination: best})
			committed = true
			break
		}
		if !committed {
			break
		}
	}

	return &model.PassResult{Tasks: pool, Gangs: gangs, Columns: alloc.Columns()}, nil
}

// rankedCandidates scores every candidate over the pending pool and returns
// the acceptable ones in commit order. Critical combinations outrank
// everything; among peers the fuller sheet wins, then the more urgent one.
func (e *Engine) rankedCandidates(pool []model.Task, now time.Time) []model.ScoredCombination {
	var pending []model.Task
	for _, t := range pool {
		if t.State == model.StateUnplanned {
			pending = append(pending, t)
		}
	}
	var scored []model.ScoredCombination
	for _, group := range GroupCompatible(pending) {
		for _, c := range e.generator.Candidates(group, now) {
			s := Score(c, e.settings, now)
			if s.CostEffective || s.Critical {
				scored = append(scored, s)
			}
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Critical != scored[j].Critical {
			return scored[i].Critical
		}
		ui, uj := scored[i].Utilization(), scored[j].Utilization()
		if ui != uj {
			return ui > uj
		}
		return scored[i].UrgencySum > scored[j].UrgencySum
	})
	return scored
}

func pendingIndex(pool []model.Task, id string) (int, error) {
	for i := range pool {
		if pool[i].ID == id {
			if pool[i].State != model.StateUnplanned {
				return 0, fmt.Errorf("%w: %s", ErrDoubleCommit, id)
			}
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s not in pool", ErrDoubleCommit, id)
}
