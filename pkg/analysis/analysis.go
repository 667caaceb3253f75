// Package analysis wires the frontend, the solvers and the dead code
// detector into one pipeline and renders the results as reports.
package analysis

import (
	"errors"
	"fmt"
	"os"

	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/constprop"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/deadcode"
	"github.com/l3aro/go-dataflow/pkg/livevars"
)

// Runner drives the pipeline over method CFGs. The zero value runs
// every solver to its fixed point.
type Runner struct {
	// MaxSolverVisits caps the worklist visits of each solver pass.
	// Zero means no cap.
	MaxSolverVisits int
}

// AnalyzeFile runs the full pipeline on one method of a Java file.
func (r *Runner) AnalyzeFile(filePath, methodName string) (*Report, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", filePath, err)
	}
	rep, err := r.AnalyzeSource(content, methodName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	rep.File = filePath
	return rep, nil
}

// AnalyzeSource runs the full pipeline on one method of in-memory Java
// source.
func (r *Runner) AnalyzeSource(content []byte, methodName string) (*Report, error) {
	g, err := cfg.ExtractJavaCFGSource(content, methodName)
	if err != nil {
		return nil, err
	}
	return r.AnalyzeCFG(g), nil
}

// AnalyzeCFG runs the solvers and the detector over an already built
// graph.
func (r *Runner) AnalyzeCFG(g *cfg.CFG) *Report {
	cp := dataflow.SolveBounded[*constprop.Fact](g, constprop.New(), r.MaxSolverVisits)
	live := dataflow.SolveBounded[*livevars.Fact](g, livevars.New(), r.MaxSolverVisits)

	reach := deadcode.Reachable(g, cp)
	dead := deadcode.Find(g, cp, live)

	return &Report{
		Method:    g.Method().Name,
		Graph:     cfg.Summarize(g),
		Constants: constantsView(g, cp),
		Liveness:  livenessView(g, live),
		Dead:      findings(dead, reach),
	}
}

// AnalyzeFileAll runs the pipeline on every method of a Java file.
// Methods without a body, abstract or native ones, are skipped.
func (r *Runner) AnalyzeFileAll(filePath string) ([]*Report, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", filePath, err)
	}
	methods := cfg.ListJavaMethodsSource(content)
	reports := make([]*Report, 0, len(methods))
	seen := make(map[string]bool, len(methods))
	for _, m := range methods {
		// overloads share a name; extraction finds the first declaration,
		// so analyze each name once
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		rep, err := r.AnalyzeSource(content, m.Name)
		if errors.Is(err, cfg.ErrNoBody) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s method %s: %w", filePath, m.Name, err)
		}
		rep.File = filePath
		reports = append(reports, rep)
	}
	return reports, nil
}

// AnalyzeFile runs the pipeline on one method with default settings.
func AnalyzeFile(filePath, methodName string) (*Report, error) {
	var r Runner
	return r.AnalyzeFile(filePath, methodName)
}

// AnalyzeSource runs the pipeline on in-memory source with default
// settings.
func AnalyzeSource(content []byte, methodName string) (*Report, error) {
	var r Runner
	return r.AnalyzeSource(content, methodName)
}

// AnalyzeCFG runs the pipeline on a built graph with default settings.
func AnalyzeCFG(g *cfg.CFG) *Report {
	var r Runner
	return r.AnalyzeCFG(g)
}

// AnalyzeFileAll runs the pipeline on every method of a file with
// default settings.
func AnalyzeFileAll(filePath string) ([]*Report, error) {
	var r Runner
	return r.AnalyzeFileAll(filePath)
}
