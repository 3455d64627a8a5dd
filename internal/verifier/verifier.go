// Package verifier drives the Spin toolchain over one candidate
// algorithm at a time: install the fragment, translate the model with
// spin, compile the generated pan.c, run pan with the gathering
// liveness claim, and classify what came back. Every invocation is
// independent; the only state shared between calls is the immutable
// template set installed in the enclosure.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/xdefago/synth-light/internal/promela"
	"github.com/xdefago/synth-light/pkg/lights"
)

// Verdict classifies the outcome of one verification.
type Verdict int

const (
	// Gathers: the liveness claim holds; the algorithm solves
	// rendezvous under the model.
	Gathers Verdict = iota
	// Counterexample: the checker produced an error trail; the
	// algorithm does not gather.
	Counterexample
	// Incomplete: the search was cut short (depth or state bound);
	// the claim is neither proved nor refuted.
	Incomplete
	// ToolError: some child process failed for reasons unrelated to
	// the property.
	ToolError
	// Timeout: the per-invocation wall-clock ceiling expired.
	Timeout
)

func (v Verdict) String() string {
	switch v {
	case Gathers:
		return "PASS"
	case Counterexample:
		return "fail"
	case Incomplete:
		return "Incomplete"
	case ToolError:
		return "error"
	case Timeout:
		return "timeout"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// IsFail reports whether the verdict refutes gathering.
func (v Verdict) IsFail() bool { return v == Counterexample }

// ModelOptions are the model parameters forwarded to the checker as
// preprocessor symbols. The synthesizer never interprets them.
type ModelOptions struct {
	Scheduler lights.Scheduler
	Rigid     bool
	QuasiSS   bool
}

// defines renders the spin command-line symbols for the options.
func (o ModelOptions) defines() []string {
	args := []string{"-DSCHEDULER=" + o.Scheduler.Symbol()}
	if o.Rigid {
		args = append(args, "-DMOVEMENT=RIGID")
	}
	if o.QuasiSS {
		args = append(args, "-DQUASISS")
	}
	return args
}

// Driver runs verifications inside one enclosure. A driver belongs to
// a single worker; drivers never share mutable state.
type Driver struct {
	enclosure string
	opts      ModelOptions

	// Compiler is the C compiler used on pan.c; "cc" by default.
	Compiler string
	// Timeout bounds one full verification (spin + compile + pan).
	// Zero means no ceiling.
	Timeout time.Duration
	// KeepTrails preserves counterexample trails under a fresh name
	// instead of deleting them with the enclosure contents.
	KeepTrails bool
}

// NewDriver prepares a driver over an enclosure that already holds the
// model templates.
func NewDriver(enclosure string, opts ModelOptions) *Driver {
	return &Driver{enclosure: enclosure, opts: opts, Compiler: "cc"}
}

// CheckToolchain verifies that the checker toolchain is reachable on
// the executable search path. Absence is a fatal startup error.
func CheckToolchain(compiler string) error {
	if compiler == "" {
		compiler = "cc"
	}
	for _, tool := range []string{"spin", compiler} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("required tool not found on PATH: %s", tool)
		}
	}
	return nil
}

// Outcome is the result of verifying one algorithm.
type Outcome struct {
	Verdict Verdict
	// TrailPath points at the preserved counterexample trail when
	// KeepTrails is set and the checker produced one.
	TrailPath string
	// Detail carries tool output for ToolError and Timeout verdicts.
	Detail string
}

// Verify runs the full toolchain over one algorithm. Per-algorithm
// failures are reported in the outcome, never as an error; an error
// return means the enclosure itself is unusable.
//
// A launched child always runs to completion: the only thing that can
// kill it is the driver's own per-call Timeout, so callers cancelling
// a run must poll between invocations rather than interrupt one.
// Killing a checker mid-run would leave stale artifacts in the
// enclosure.
func (d *Driver) Verify(algo *lights.Algorithm) (Outcome, error) {
	trail := filepath.Join(d.enclosure, promela.TrailFile)
	if err := os.Remove(trail); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Outcome{}, fmt.Errorf("failed to clear stale trail: %w", err)
	}

	if err := promela.InstallAlgorithm(d.enclosure, algo); err != nil {
		return Outcome{Verdict: ToolError, Detail: err.Error()}, nil
	}

	ctx := context.Background()
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	spinArgs := append([]string{"-a", "-DALGO=SYNTH"}, d.opts.defines()...)
	spinArgs = append(spinArgs, promela.MainFile)
	if out, err := d.run(ctx, "spin", spinArgs...); err != nil {
		return d.failure(ctx, "spin", out, err), nil
	}

	ccArgs := []string{"-DMEMLIM=16384", "-DXUSAFE", "-DNOREDUCE", "-O2", "-w", "-o", "pan", "pan.c"}
	if out, err := d.run(ctx, d.Compiler, ccArgs...); err != nil {
		return d.failure(ctx, d.Compiler, out, err), nil
	}

	pan := filepath.Join(d.enclosure, "pan")
	panOut, panErr := d.run(ctx, pan, "-m100000", "-a", "-f", "-E", "-n", "gathering")

	// a trail refutes the claim regardless of pan's exit status
	if _, err := os.Stat(trail); err == nil {
		outcome := Outcome{Verdict: Counterexample}
		if d.KeepTrails {
			kept, err := d.preserveTrail(trail, algo)
			if err != nil {
				return Outcome{Verdict: ToolError, Detail: err.Error()}, nil
			}
			outcome.TrailPath = kept
		}
		return outcome, nil
	}
	if panErr != nil {
		return d.failure(ctx, "pan", panOut, panErr), nil
	}
	if searchIncomplete(panOut) {
		return Outcome{Verdict: Incomplete}, nil
	}
	return Outcome{Verdict: Gathers}, nil
}

// run executes one child in the enclosure and returns its combined
// output. The child runs to completion unless the context deadline
// kills it.
func (d *Driver) run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = d.enclosure
	// a killed child's own children can keep the output pipe open;
	// stop waiting on them shortly after the child itself is gone
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// failure classifies a child-process error as Timeout or ToolError.
func (d *Driver) failure(ctx context.Context, tool, output string, err error) Outcome {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Outcome{Verdict: Timeout, Detail: fmt.Sprintf("%s exceeded %s", tool, d.Timeout)}
	}
	detail := fmt.Sprintf("%s: %v", tool, err)
	if trimmed := strings.TrimSpace(output); trimmed != "" {
		detail += "\n" + trimmed
	}
	return Outcome{Verdict: ToolError, Detail: detail}
}

// searchIncomplete detects pan's incomplete-search warning.
func searchIncomplete(output string) bool {
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "Warning: Search not completed") {
			return true
		}
	}
	return false
}

// preserveTrail moves the trail artifact to a name derived from the
// algorithm so later invocations in the enclosure cannot clobber it.
func (d *Driver) preserveTrail(trail string, algo *lights.Algorithm) (string, error) {
	kept := filepath.Join(d.enclosure, algo.Suffix()+".trail")
	if err := os.Rename(trail, kept); err != nil {
		return "", fmt.Errorf("failed to preserve trail: %w", err)
	}
	return kept, nil
}
