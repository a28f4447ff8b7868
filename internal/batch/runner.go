// Package batch applies a backend operation to every selected item and
// collects one result per item.
//
// Encryption requests are independent of each other and are all issued at
// once. Shredding is destructive and is issued one item at a time, the next
// request only after the previous one has settled. A failed item never stops
// the rest of the batch.
package batch

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"albumview/internal/errors"
	"albumview/internal/log"
	"albumview/pkg/types"
)

// Remote performs a single operation on the backend. A response with any
// status is a result, not an error; an error means no response arrived.
type Remote interface {
	Apply(ctx context.Context, op types.Operation, identity string) (types.BatchResult, error)
}

// Confirmer asks the user to approve an operation before anything is sent.
type Confirmer interface {
	Confirm(op types.Operation, identities []string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(op types.Operation, identities []string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(op types.Operation, identities []string) bool {
	return f(op, identities)
}

// Policy is how the requests of one batch are scheduled.
type Policy int

const (
	// Concurrent issues every request before waiting for any response.
	Concurrent Policy = iota
	// Sequential issues a request only after the previous one settled.
	Sequential
)

func (p Policy) String() string {
	if p == Concurrent {
		return "concurrent"
	}
	return "sequential"
}

// PolicyFor returns the scheduling policy of op. Unknown operations are
// treated like destructive ones.
func PolicyFor(op types.Operation) Policy {
	if op == types.OpEncrypt {
		return Concurrent
	}
	return Sequential
}

// RequiresConfirmation reports whether op must be approved first.
func RequiresConfirmation(op types.Operation) bool {
	return op != types.OpEncrypt
}

// Runner executes batches against a Remote. At most one batch per
// operation runs at a time.
type Runner struct {
	remote Remote

	mu       sync.Mutex
	inFlight map[types.Operation]bool
}

// NewRunner creates a runner that sends requests to remote.
func NewRunner(remote Remote) *Runner {
	return &Runner{
		remote:   remote,
		inFlight: make(map[types.Operation]bool),
	}
}

// InFlight reports whether a batch of op is running.
func (r *Runner) InFlight(op types.Operation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight[op]
}

func (r *Runner) acquire(op types.Operation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight[op] {
		return false
	}
	r.inFlight[op] = true
	return true
}

func (r *Runner) release(op types.Operation) {
	r.mu.Lock()
	delete(r.inFlight, op)
	r.mu.Unlock()
}

// Run applies op to every identity and returns a report whose results are
// in the order the identities were given. Identities must already be origin
// paths; they reach the remote unchanged. Callers holding display paths
// convert them with paths.NormalizeSourceIdentity.
//
// Run returns an error without sending anything when identities is empty,
// when a batch of the same operation is still running, or when confirm
// refuses an operation that requires confirmation.
func (r *Runner) Run(ctx context.Context, op types.Operation, identities []string, confirm Confirmer) (types.Report, error) {
	if len(identities) == 0 {
		return types.Report{}, errors.ErrNothingSelected.WithOperation(string(op))
	}
	if !r.acquire(op) {
		return types.Report{}, errors.ErrOperationInFlight.WithOperation(string(op))
	}
	defer r.release(op)

	ids := slices.Clone(identities)

	if RequiresConfirmation(op) && (confirm == nil || !confirm.Confirm(op, ids)) {
		return types.Report{}, errors.ErrNotConfirmed.WithOperation(string(op))
	}

	report := types.Report{
		ID:        uuid.NewString(),
		Operation: op,
		Started:   time.Now(),
	}
	policy := PolicyFor(op)
	entry := log.LogWithFields(
		log.F("report", report.ID),
		log.F("operation", string(op)),
		log.F("policy", policy.String()),
	)
	entry.Infof("Starting batch of %d items", len(ids))

	if policy == Concurrent {
		report.Results = r.runConcurrent(ctx, op, ids)
	} else {
		report.Results = r.runSequential(ctx, op, ids)
	}

	report.Finished = time.Now()
	entry.With(log.F("failed", report.Failed())).
		Infof("Finished batch in %s", report.Finished.Sub(report.Started))
	return report, nil
}

func (r *Runner) runConcurrent(ctx context.Context, op types.Operation, ids []string) []types.BatchResult {
	results := make([]types.BatchResult, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			results[i] = r.apply(ctx, op, id)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Runner) runSequential(ctx context.Context, op types.Operation, ids []string) []types.BatchResult {
	results := make([]types.BatchResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, r.apply(ctx, op, id))
	}
	return results
}

func (r *Runner) apply(ctx context.Context, op types.Operation, id string) types.BatchResult {
	res, err := r.remote.Apply(ctx, op, id)
	if err != nil {
		log.LogWithError(err).Warnf("%s %s: no response", op, id)
		return types.BatchResult{
			Identity:   id,
			StatusCode: http.StatusInternalServerError,
			Message:    err.Error(),
		}
	}
	res.Identity = id
	log.Debugf("%s %s: %d", op, id, res.StatusCode)
	return res
}
