// Package gallery holds the chart examples. Each example loads one sample
// dataset, reduces it and writes one or more figures.
package gallery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Example is one gallery entry.
type Example struct {
	Name     string
	Desc     string
	Datasets []string
	Run      func(ctx context.Context, env *Env) ([]string, error)
}

// examples is the help text for list as well as the registry.
var examples = []Example{
	{"bar", "Darwin Southern Oscillation Index as signed bars", []string{soiFile}, runBar},
	{"conlev", "Surface temperature anomaly, explicit levels, cyclic point", []string{tsFile}, runConLev},
	{"conwomap", "Filled contours of cone amplitude without a map", []string{coneFile}, runConwomap},
	{"legend", "Zonal-mean U and V with a legend", []string{uvFile}, runLegend},
	{"mask", "Surface temperature masked to ocean and to land", []string{atmosFile}, runMask},
	{"polygons", "Zonal wind contours with boxes, text and hatched polygons", []string{uvFile}, runPolygons},
	{"scatter", "Smoothed surface temperature with a regression line", []string{tsFile}, runScatter},
	{"vectors", "Global 300 mb wind vectors", []string{uvFile}, runVectors},
	{"ticks", "Explicit tick spacing and labels on random data", nil, runTicks},
}

// Examples returns the registered examples in display order.
func Examples() []Example {
	return append([]Example(nil), examples...)
}

// Lookup finds an example by name.
func Lookup(name string) (Example, error) {
	for _, ex := range examples {
		if ex.Name == name {
			return ex, nil
		}
	}
	var names []string
	for _, ex := range examples {
		names = append(names, ex.Name)
	}
	return Example{}, fmt.Errorf("unknown example %q (have %s)", name, strings.Join(names, ", "))
}

// Datasets returns every sample file the gallery uses, once each.
func Datasets() []string {
	seen := map[string]bool{}
	var out []string
	for _, ex := range examples {
		for _, d := range ex.Datasets {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}

// Result is the outcome of one example run.
type Result struct {
	Name    string
	Files   []string
	Err     error
	Elapsed time.Duration
}

// RunAll runs the named examples concurrently, at most Config.Concurrency
// at a time. Failures are collected per example rather than cancelling the
// others; results keep the order of names.
func RunAll(ctx context.Context, env *Env, names []string) ([]Result, error) {
	exs := make([]Example, len(names))
	for i, n := range names {
		ex, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		exs[i] = ex
	}

	results := make([]Result, len(exs))
	var g errgroup.Group
	g.SetLimit(max(env.Config.Concurrency, 1))
	for i, ex := range exs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Name: ex.Name, Err: err}
				return nil
			}
			start := time.Now()
			files, err := ex.Run(ctx, env)
			r := Result{Name: ex.Name, Files: files, Err: err, Elapsed: time.Since(start)}
			if err != nil {
				env.Log.Error("example failed", zap.String("example", ex.Name), zap.Error(err))
			} else {
				env.Log.Info("example done", zap.String("example", ex.Name), zap.Duration("elapsed", r.Elapsed))
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Names returns every registered example name.
func Names() []string {
	out := make([]string, len(examples))
	for i, ex := range examples {
		out[i] = ex.Name
	}
	return out
}
