package generator

import (
	"fmt"

	"github.com/crateworks/typegen/internal"
	"github.com/shopmonkeyus/go-common/logger"
)

const defaultTypeName = "ApiCollections"

// Generator turns a schema snapshot into TypeScript type declarations. The
// pipeline is a pure, single pass transformation: normalize the raw metadata,
// resolve display key collisions, render the text. Mapping gaps degrade the
// affected field and are collected as warnings; only internal invariant
// violations (a key collision that survives resolution) abort the run.
type Generator struct {
	logger   logger.Logger
	opts     Options
	typeMap  map[string]string
	warnings []string
}

// New creates a generator with the given options.
func New(log logger.Logger, opts Options) *Generator {
	if opts.TypeName == "" {
		opts.TypeName = defaultTypeName
	}
	typeMap := make(map[string]string, len(baseTypes)+len(opts.TypeOverrides))
	for k, v := range baseTypes {
		typeMap[k] = v
	}
	for k, v := range opts.TypeOverrides {
		typeMap[k] = v
	}
	return &Generator{
		logger:  log.WithPrefix("[generator]"),
		opts:    opts,
		typeMap: typeMap,
	}
}

// Generate runs the pipeline over a single schema snapshot. Running it twice
// on the same snapshot yields byte identical output.
func (g *Generator) Generate(snapshot *internal.Snapshot) (*Result, error) {
	g.warnings = nil
	m := g.normalize(snapshot)
	if err := g.resolve(m); err != nil {
		return nil, err
	}
	output := g.render(m)
	g.logger.Debug("generated %d collection types (%d warnings)", len(m.order), len(g.warnings))
	return &Result{
		Output:      output,
		Collections: len(m.order),
		Warnings:    g.warnings,
	}, nil
}

func (g *Generator) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	g.warnings = append(g.warnings, msg)
	g.logger.Warn("%s", msg)
}
