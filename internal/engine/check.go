package engine

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/jasmin/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultCheckParallelism bounds the number of files read at once by Check.
const DefaultCheckParallelism = 8

// Check reads every file of every module and reports unreadable locations and
// minimized representations that are larger than their normal ones.
func (e *Engine) Check(ctx context.Context, parallelism int) ([]domain.CheckProblem, error) {
	ctx, span := e.deps.Tracer.Start(ctx, "engine.check")
	defer span.End()

	if parallelism <= 0 {
		parallelism = DefaultCheckParallelism
	}

	var (
		mu       sync.Mutex
		problems []domain.CheckProblem
	)
	report := func(p domain.CheckProblem) {
		mu.Lock()
		defer mu.Unlock()
		problems = append(problems, p)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for m := range e.app.Repository.Modules() {
		for _, f := range m.Files() {
			g.Go(func() error {
				return e.checkFile(ctx, m.Name(), f, report)
			})
		}
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	domain.SortProblems(problems)
	span.SetAttribute("problems", len(problems))
	return problems, nil
}

// checkFile reports problems of one file. Only cancellation is returned as an error.
func (e *Engine) checkFile(ctx context.Context, module string, f domain.File, report func(domain.CheckProblem)) error {
	normal, err := e.deps.Storage.Read(ctx, f.Normal)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		report(domain.CheckProblem{Module: module, Location: f.Normal, Problem: "unreadable: " + err.Error()})
	}
	if f.Minimized == "" {
		return nil
	}

	minimized, err := e.deps.Storage.Read(ctx, f.Minimized)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		report(domain.CheckProblem{Module: module, Location: f.Minimized, Problem: "unreadable: " + err.Error()})
		return nil
	}
	if normal != nil && len(minimized) > len(normal) {
		report(domain.CheckProblem{
			Module:   module,
			Location: f.Minimized,
			Problem:  fmt.Sprintf("minimized is larger than normal (%d > %d bytes)", len(minimized), len(normal)),
		})
	}
	return nil
}
