package batch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albumview/internal/errors"
	"albumview/pkg/types"
)

// gatedRemote blocks every request until the test releases it and records
// how requests overlap.
type gatedRemote struct {
	mu          sync.Mutex
	calls       []string
	inFlight    int
	maxInFlight int

	started chan string
	gates   map[string]chan struct{}
	status  map[string]int
	fail    map[string]error
}

func newGatedRemote(ids ...string) *gatedRemote {
	r := &gatedRemote{
		started: make(chan string, 16),
		gates:   make(map[string]chan struct{}),
		status:  make(map[string]int),
		fail:    make(map[string]error),
	}
	for _, id := range ids {
		r.gates[id] = make(chan struct{})
	}
	return r
}

func (r *gatedRemote) Apply(ctx context.Context, op types.Operation, id string) (types.BatchResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, id)
	r.inFlight++
	if r.inFlight > r.maxInFlight {
		r.maxInFlight = r.inFlight
	}
	gate := r.gates[id]
	r.mu.Unlock()

	r.started <- id
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	r.inFlight--
	status, ok := r.status[id]
	err := r.fail[id]
	r.mu.Unlock()

	if err != nil {
		return types.BatchResult{}, err
	}
	if !ok {
		status = 200
	}
	return types.BatchResult{StatusCode: status, Message: fmt.Sprintf("%s %s", op, id)}, nil
}

func (r *gatedRemote) release(id string) { close(r.gates[id]) }

func (r *gatedRemote) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func expectStart(t *testing.T, r *gatedRemote) string {
	t.Helper()
	select {
	case id := <-r.started:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for a request to start")
		return ""
	}
}

func expectNoStart(t *testing.T, r *gatedRemote) {
	t.Helper()
	select {
	case id := <-r.started:
		t.Fatalf("request %s started too early", id)
	case <-time.After(50 * time.Millisecond):
	}
}

var yes = ConfirmFunc(func(types.Operation, []string) bool { return true })

type runResult struct {
	report types.Report
	err    error
}

func runAsync(r *Runner, op types.Operation, ids []string, c Confirmer) <-chan runResult {
	done := make(chan runResult, 1)
	go func() {
		rep, err := r.Run(context.Background(), op, ids, c)
		done <- runResult{rep, err}
	}()
	return done
}

func TestEncryptIssuesAllRequestsBeforeAnyResponse(t *testing.T) {
	remote := newGatedRemote("A", "B")
	runner := NewRunner(remote)

	done := runAsync(runner, types.OpEncrypt, []string{"A", "B"}, nil)

	got := []string{expectStart(t, remote), expectStart(t, remote)}
	assert.ElementsMatch(t, []string{"A", "B"}, got)

	remote.release("B")
	remote.release("A")

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 2, remote.maxInFlight)
	require.Len(t, res.report.Results, 2)
	assert.Equal(t, "A", res.report.Results[0].Identity)
	assert.Equal(t, "B", res.report.Results[1].Identity)
	assert.Equal(t, types.OpEncrypt, res.report.Operation)
	assert.NotEmpty(t, res.report.ID)
}

func TestShredWaitsForEachResponse(t *testing.T) {
	remote := newGatedRemote("A", "B", "C")
	runner := NewRunner(remote)

	done := runAsync(runner, types.OpShred, []string{"A", "B", "C"}, yes)

	assert.Equal(t, "A", expectStart(t, remote))
	expectNoStart(t, remote)
	remote.release("A")

	assert.Equal(t, "B", expectStart(t, remote))
	expectNoStart(t, remote)
	remote.release("B")

	assert.Equal(t, "C", expectStart(t, remote))
	remote.release("C")

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 1, remote.maxInFlight)
	assert.Equal(t, []string{"A", "B", "C"}, remote.calls)
}

func TestShredReportKeepsFailures(t *testing.T) {
	remote := newGatedRemote()
	remote.status["A"] = 409
	runner := NewRunner(remote)

	report, err := runner.Run(context.Background(), types.OpShred, []string{"A", "B"}, yes)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, "A", report.Results[0].Identity)
	assert.Equal(t, 409, report.Results[0].StatusCode)
	assert.Equal(t, "B", report.Results[1].Identity)
	assert.Equal(t, 200, report.Results[1].StatusCode)
	assert.Equal(t, 1, report.Failed())
	assert.False(t, report.Finished.Before(report.Started))
}

func TestTransportFailureBecomesStatus500(t *testing.T) {
	for _, op := range []types.Operation{types.OpEncrypt, types.OpShred} {
		t.Run(string(op), func(t *testing.T) {
			remote := newGatedRemote()
			remote.fail["A"] = fmt.Errorf("connection refused")
			runner := NewRunner(remote)

			report, err := runner.Run(context.Background(), op, []string{"A", "B"}, yes)
			require.NoError(t, err)
			require.Len(t, report.Results, 2)
			assert.Equal(t, 500, report.Results[0].StatusCode)
			assert.Equal(t, "connection refused", report.Results[0].Message)
			assert.Equal(t, 200, report.Results[1].StatusCode)
		})
	}
}

func TestEmptySelectionIssuesNothing(t *testing.T) {
	remote := newGatedRemote()
	runner := NewRunner(remote)

	for _, op := range []types.Operation{types.OpEncrypt, types.OpShred} {
		_, err := runner.Run(context.Background(), op, nil, yes)
		require.Error(t, err)
		assert.True(t, errors.IsNothingSelected(err))
		assert.Equal(t, "no files selected", errors.ErrNothingSelected.Error())
	}
	assert.Equal(t, 0, remote.callCount())
}

func TestShredRequiresConfirmation(t *testing.T) {
	remote := newGatedRemote()
	runner := NewRunner(remote)

	var asked []string
	no := ConfirmFunc(func(op types.Operation, ids []string) bool {
		asked = ids
		return false
	})

	_, err := runner.Run(context.Background(), types.OpShred, []string{"A"}, no)
	assert.True(t, errors.IsNotConfirmed(err))
	assert.Equal(t, []string{"A"}, asked)

	_, err = runner.Run(context.Background(), types.OpShred, []string{"A"}, nil)
	assert.True(t, errors.IsNotConfirmed(err))

	assert.Equal(t, 0, remote.callCount())
	assert.False(t, runner.InFlight(types.OpShred))
}

func TestSecondRunOfSameOperationIsRefused(t *testing.T) {
	remote := newGatedRemote("A", "S")
	runner := NewRunner(remote)

	done := runAsync(runner, types.OpEncrypt, []string{"A"}, nil)
	expectStart(t, remote)
	assert.True(t, runner.InFlight(types.OpEncrypt))

	_, err := runner.Run(context.Background(), types.OpEncrypt, []string{"B"}, nil)
	assert.True(t, errors.IsInFlight(err))

	// A different operation is not blocked.
	shred := runAsync(runner, types.OpShred, []string{"S"}, yes)
	assert.Equal(t, "S", expectStart(t, remote))
	remote.release("S")
	require.NoError(t, (<-shred).err)

	remote.release("A")
	require.NoError(t, (<-done).err)
	assert.False(t, runner.InFlight(types.OpEncrypt))
	assert.Equal(t, 2, remote.callCount())
}

func TestOriginIdentitiesReachRemoteUnchanged(t *testing.T) {
	ids := []string{"t/cat.jpg", "thumbs/dog.jpg", "e/t/x.jpg", "trips/t/a.jpg"}
	remote := newGatedRemote()
	runner := NewRunner(remote)

	var confirmed []string
	confirm := ConfirmFunc(func(_ types.Operation, got []string) bool {
		confirmed = got
		return true
	})
	report, err := runner.Run(context.Background(), types.OpShred, ids, confirm)
	require.NoError(t, err)

	assert.Equal(t, ids, confirmed)
	remote.mu.Lock()
	assert.Equal(t, ids, remote.calls)
	remote.mu.Unlock()
	require.Len(t, report.Results, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, report.Results[i].Identity)
	}
}

func TestPolicy(t *testing.T) {
	assert.Equal(t, Concurrent, PolicyFor(types.OpEncrypt))
	assert.Equal(t, Sequential, PolicyFor(types.OpShred))
	assert.Equal(t, Sequential, PolicyFor("unknown"))
	assert.True(t, RequiresConfirmation(types.OpShred))
	assert.False(t, RequiresConfirmation(types.OpEncrypt))
}
