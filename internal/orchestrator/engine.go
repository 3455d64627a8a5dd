// Package orchestrator wires the synthesis pipeline together:
// enumerate the algorithm space, prune it through the filter chain,
// fan the survivors out to a pool of verifier workers over disjoint
// index ranges, and aggregate the verdicts into a report.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xdefago/synth-light/internal/filter"
	"github.com/xdefago/synth-light/internal/promela"
	"github.com/xdefago/synth-light/internal/resultstore"
	"github.com/xdefago/synth-light/internal/verifier"
	"github.com/xdefago/synth-light/internal/workspace"
	"github.com/xdefago/synth-light/pkg/lights"
)

// ModelParams selects the robot model to search.
type ModelParams struct {
	Kind      lights.ModelKind
	NumColors int
	ClassL    bool
	Scheduler lights.Scheduler
	Rigid     bool
	QuasiSS   bool
}

// Validate rejects unusable model parameters before any work starts.
func (p ModelParams) Validate() error {
	if p.NumColors < 1 || p.NumColors > lights.MaxColors {
		return fmt.Errorf("number of colors out of range: %d (supported: 1..%d)", p.NumColors, lights.MaxColors)
	}
	if !p.Scheduler.Valid() {
		return fmt.Errorf("unknown scheduler: %q", p.Scheduler)
	}
	return nil
}

// RunFlags selects how the search executes.
type RunFlags struct {
	Sequential    bool
	Workers       int // 0 = all cores; ignored when Sequential
	RetainRule    bool
	WeakFilter    bool
	StrictMoves   bool
	Workspace     string // caller-designated scratch root, empty = allocate
	Ramdisk       bool
	KeepTrails    bool
	Deterministic bool          // stable-sort the report by canonical code
	Timeout       time.Duration // per-checker ceiling, 0 = none
	Compiler      string        // C compiler for pan.c, "" = cc

	// Sink receives results as they are produced; nil keeps them only
	// in the report.
	Sink resultstore.Sink
	// Progress, when non-nil, is called with (scanned, verified)
	// totals after every enumerated algorithm; throttling is left to
	// the callback.
	Progress func(scanned, verified uint64)
}

// Timing breaks the run duration into its phases.
type Timing struct {
	Prepare time.Duration // workspace and toolchain setup
	Verify  time.Duration // enumeration, filtering and checking
	Cleanup time.Duration // workspace release
}

// Report aggregates the outcome of one run.
type Report struct {
	Results []resultstore.Result // surviving algorithms with verdicts

	Total      uint64 // syntactic space cardinality
	Scanned    uint64 // algorithms enumerated (equals Total unless cancelled)
	Candidates uint64 // algorithms that reached the verifier
	Gathers    uint64
	Fails      uint64
	Incomplete uint64
	Errors     uint64
	Cancelled  bool

	Timing Timing
}

// Engine runs searches for one model configuration.
type Engine struct {
	params ModelParams
	flags  RunFlags

	mu      sync.Mutex
	results []resultstore.Result

	scanned  atomic.Uint64
	verified atomic.Uint64
}

// New validates the parameters and builds an engine.
func New(params ModelParams, flags RunFlags) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: params, flags: flags}, nil
}

// workerCount resolves the parallelism of the run.
func (e *Engine) workerCount() int {
	if e.flags.Sequential {
		return 1
	}
	if e.flags.Workers > 0 {
		return e.flags.Workers
	}
	return runtime.NumCPU()
}

// Run executes the search. Cancelling the context stops workers after
// their current checker invocation; the partial report is returned
// with Cancelled set. Per-algorithm tool failures never abort the run.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	started := time.Now()

	if err := verifier.CheckToolchain(e.flags.Compiler); err != nil {
		return nil, err
	}

	domain, err := lights.NewDomain(e.params.Kind, e.params.NumColors, e.params.ClassL)
	if err != nil {
		return nil, err
	}
	space, err := lights.NewSpace(domain)
	if err != nil {
		return nil, err
	}

	ws, err := workspace.Create(workspace.Options{Path: e.flags.Workspace, Ramdisk: e.flags.Ramdisk})
	if err != nil {
		return nil, err
	}

	report := &Report{Total: space.Size()}
	report.Timing.Prepare = time.Since(started)

	workers := e.workerCount()
	ranges := space.Partition(workers)
	log.Printf("[Orchestrator] searching %d algorithms with %d workers", space.Size(), workers)

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range ranges {
		r := r
		g.Go(func() error {
			return e.runWorker(gctx, ws, space, r)
		})
	}
	runErr := g.Wait()
	report.Timing.Verify = time.Since(started) - report.Timing.Prepare

	if err := ws.Release(); err != nil {
		// the report is still valid; surface the leak as a warning
		log.Printf("[Orchestrator] workspace release failed: %v", err)
	}
	report.Timing.Cleanup = time.Since(started) - report.Timing.Prepare - report.Timing.Verify

	e.mu.Lock()
	report.Results = e.results
	e.mu.Unlock()
	report.Scanned = e.scanned.Load()

	report.Cancelled = ctx.Err() != nil
	if runErr != nil && !report.Cancelled {
		return nil, runErr
	}

	for _, res := range report.Results {
		report.Candidates++
		switch res.Verdict {
		case verifier.Gathers.String():
			report.Gathers++
		case verifier.Counterexample.String():
			report.Fails++
		case verifier.Incomplete.String():
			report.Incomplete++
		default:
			report.Errors++
		}
	}

	if e.flags.Deterministic {
		sort.SliceStable(report.Results, func(i, j int) bool {
			return report.Results[i].Code < report.Results[j].Code
		})
	}
	return report, nil
}

// runWorker drains one index range: filter, canonicalize, verify.
// Within a worker, verdicts are produced in enumerator order.
func (e *Engine) runWorker(ctx context.Context, ws *workspace.Workspace, space *lights.Space, r lights.Range) error {
	if r.Len() == 0 {
		return nil
	}

	enclosure, err := ws.NewEnclosure()
	if err != nil {
		return err
	}
	if err := promela.InstallTemplates(enclosure); err != nil {
		return err
	}

	driver := verifier.NewDriver(enclosure, verifier.ModelOptions{
		Scheduler: e.params.Scheduler,
		Rigid:     e.params.Rigid,
		QuasiSS:   e.params.QuasiSS,
	})
	driver.Timeout = e.flags.Timeout
	driver.KeepTrails = e.flags.KeepTrails
	if e.flags.Compiler != "" {
		driver.Compiler = e.flags.Compiler
	}

	chain := filter.Standard(filter.Options{
		RetainRule:  e.flags.RetainRule,
		WeakFilter:  e.flags.WeakFilter,
		StrictMoves: e.flags.StrictMoves,
	})

	cursor := space.Cursor(r)
	for {
		// cancellation is honored between verifier invocations only;
		// the driver never sees this context, so a running checker
		// child always finishes (or hits its own timeout)
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		index := cursor.Index()
		algo, ok := cursor.Next()
		if !ok {
			return nil
		}
		e.noteScanned()
		if !chain.Keep(algo) {
			continue
		}

		outcome, err := driver.Verify(algo)
		if err != nil {
			return fmt.Errorf("enclosure %s unusable: %w", enclosure, err)
		}
		res := resultstore.Result{
			Index:   index,
			Code:    algo.Code(),
			Verdict: outcome.Verdict.String(),
			Trail:   outcome.TrailPath,
		}
		if outcome.Verdict == verifier.ToolError || outcome.Verdict == verifier.Timeout {
			log.Printf("[Orchestrator] tool failure on %s: %s", algo.Code(), outcome.Detail)
		}
		e.record(res)
	}
}

// noteScanned bumps the scan counter and feeds the progress callback.
// The counters are atomic so the enumeration hot path never takes a
// lock; the callback itself throttles terminal output.
func (e *Engine) noteScanned() {
	scanned := e.scanned.Add(1)
	if e.flags.Progress != nil {
		e.flags.Progress(scanned, e.verified.Load())
	}
}

// record appends a result and forwards it to the sink.
func (e *Engine) record(res resultstore.Result) {
	e.verified.Add(1)
	e.mu.Lock()
	e.results = append(e.results, res)
	e.mu.Unlock()
	if e.flags.Sink != nil {
		if err := e.flags.Sink.Record(res); err != nil {
			log.Printf("[Orchestrator] result sink failed: %v", err)
		}
	}
}
