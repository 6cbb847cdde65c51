package cleanup

import (
	"context"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

const (
	sweepLockName    = "retention_sweep_lock"
	maxBatchAttempts = 3
)

// executionTotals accumulates batch results over a single run. The projected
// counters are only filled by dry runs and describe what a real run would have
// archived or deleted; archived and deleted stay at zero in that case so the
// ledger never reports mutations that did not happen.
type executionTotals struct {
	processed         int
	archived          int
	deleted           int
	projectedArchived int
	projectedDeleted  int
	byType            map[string]int
	byRisk            map[string]int
	errors            []string
	cancelled         bool
}

func newExecutionTotals() *executionTotals {
	return &executionTotals{
		byType: map[string]int{},
		byRisk: map[string]int{},
		errors: []string{},
	}
}

func (t *executionTotals) status() view.RunStatus {
	if t.cancelled {
		return view.StatusCancelled
	}
	if len(t.errors) == 0 {
		return view.StatusSuccess
	}
	if t.archived > 0 || t.deleted > 0 {
		return view.StatusPartial
	}
	return view.StatusFailed
}

func runContext(ctx context.Context, runType view.RunType, runId string) context.Context {
	ctx = context.WithValue(ctx, "runType", string(runType))
	ctx = context.WithValue(ctx, "runId", runId)
	return ctx
}
