// Package generate drives entity generation: it reads every table from a
// metadata provider, builds its model, renders it and writes the result.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/entitygen/internal/emit"
	"github.com/JonMunkholm/entitygen/internal/model"
	"github.com/JonMunkholm/entitygen/internal/schema"
)

// Generator generates one entity file per table, plus a key file for tables
// with a composite primary key.
type Generator struct {
	provider schema.Provider
	emitter  emit.Emitter
	writer   Writer
	workers  int
	strict   bool
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithWorkers sets the number of tables processed concurrently.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithStrict makes inconsistent table metadata fail the run instead of
// logging a warning.
func WithStrict(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

// WithLogger sets the progress logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Generator. The writer may be nil when only Render or Describe
// are used.
func New(p schema.Provider, e emit.Emitter, w Writer, opts ...Option) *Generator {
	g := &Generator{
		provider: p,
		emitter:  e,
		writer:   w,
		workers:  runtime.GOMAXPROCS(0),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Artifact is one rendered source file.
type Artifact struct {
	Table  string
	Class  string
	File   string
	Source string
}

// Result summarizes a completed run.
type Result struct {
	Tables   int
	Files    []string
	Warnings int
}

// Run generates every table. The first failure cancels the remaining work and
// is returned; files already written are left in place.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	tables, err := g.provider.ListTables(ctx)
	if err != nil {
		return nil, &TableError{Stage: StageList, Err: err}
	}

	var (
		mu     sync.Mutex
		result = &Result{Tables: len(tables)}
		owners = make(map[string]string)
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for _, table := range tables {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			artifacts, warned, err := g.render(ctx, table)
			if err != nil {
				return err
			}

			mu.Lock()
			if warned {
				result.Warnings++
			}
			for _, a := range artifacts {
				if owner, ok := owners[a.File]; ok {
					mu.Unlock()
					return &TableError{
						Table: table,
						Stage: StageWrite,
						Err:   fmt.Errorf("output file %s already generated for table %q", a.File, owner),
					}
				}
				owners[a.File] = table
			}
			mu.Unlock()

			for _, a := range artifacts {
				if err := g.writer.WriteFile(a.File, a.Source); err != nil {
					return &TableError{Table: table, Stage: StageWrite, Err: err}
				}
				g.logger.Debug("wrote file", "table", table, "file", a.File)
			}

			mu.Lock()
			for _, a := range artifacts {
				result.Files = append(result.Files, a.File)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slices.Sort(result.Files)
	return result, nil
}

// Render returns the artifacts of a single table without writing them. The
// key artifact, if any, comes first.
func (g *Generator) Render(ctx context.Context, table string) ([]Artifact, error) {
	tables, err := g.provider.ListTables(ctx)
	if err != nil {
		return nil, &TableError{Stage: StageList, Err: err}
	}
	if !slices.Contains(tables, table) {
		return nil, &TableError{Table: table, Stage: StageLoad, Err: ErrTableNotFound}
	}

	artifacts, _, err := g.render(ctx, table)
	return artifacts, err
}

func (g *Generator) render(ctx context.Context, table string) ([]Artifact, bool, error) {
	entity, key, warned, err := g.build(ctx, table)
	if err != nil {
		return nil, false, err
	}

	var artifacts []Artifact
	if key != nil {
		src, err := g.emitter.EmitKey(key)
		if err != nil {
			return nil, false, &TableError{Table: table, Stage: StageEmit, Err: err}
		}
		artifacts = append(artifacts, Artifact{
			Table:  table,
			Class:  key.ClassName,
			File:   g.emitter.KeyFile(key),
			Source: src,
		})
	}

	src, err := g.emitter.Emit(entity)
	if err != nil {
		return nil, false, &TableError{Table: table, Stage: StageEmit, Err: err}
	}
	artifacts = append(artifacts, Artifact{
		Table:  table,
		Class:  entity.ClassName,
		File:   g.emitter.EntityFile(entity),
		Source: src,
	})
	return artifacts, warned, nil
}

// build loads and validates table and derives its model. warned reports that
// inconsistent metadata was tolerated.
func (g *Generator) build(ctx context.Context, table string) (entity *model.Entity, key *model.Key, warned bool, err error) {
	g.logger.Debug("reading table", "table", table)

	t, err := schema.Load(ctx, g.provider, table)
	if err != nil {
		return nil, nil, false, &TableError{Table: table, Stage: StageLoad, Err: err}
	}

	if err := t.Validate(); err != nil {
		if g.strict {
			return nil, nil, false, &TableError{Table: table, Stage: StageValidate, Err: err}
		}
		g.logger.Warn("inconsistent table metadata", "table", table, "error", err)
		warned = true
	}

	entity, key = model.Build(t)
	g.logger.Debug("built entity",
		"table", table,
		"class", entity.ClassName,
		"fields", len(entity.Fields),
		"composite_key", entity.CompositeKey,
	)
	return entity, key, warned, nil
}

// TableSummary describes the types generated for one table.
type TableSummary struct {
	Table     string
	Class     string
	KeyClass  string
	Fields    int
	Relations int
}

// Describe summarizes every table in provider order without rendering.
func (g *Generator) Describe(ctx context.Context) ([]TableSummary, error) {
	tables, err := g.provider.ListTables(ctx)
	if err != nil {
		return nil, &TableError{Stage: StageList, Err: err}
	}

	summaries := make([]TableSummary, 0, len(tables))
	for _, table := range tables {
		entity, key, _, err := g.build(ctx, table)
		if err != nil {
			return nil, err
		}
		s := TableSummary{
			Table:     table,
			Class:     entity.ClassName,
			Fields:    len(entity.Fields),
			Relations: len(entity.Relations()),
		}
		if key != nil {
			s.KeyClass = key.ClassName
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
