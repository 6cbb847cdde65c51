// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cleanup

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/exception"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/metrics"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/repository"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/service"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/service/cleanup/logger"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/utils"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const sweepLockTtl = 2 * time.Hour

type CleanupService interface {
	PreviewPolicy(policyId string) (*view.PolicyPreview, error)

	EvaluatePolicy(policyId string, dryRun bool, executor string) (*view.CleanupResult, error)
	ExecuteAllPolicies(dryRun bool, executor string) (*view.CleanupResult, error)
	ManualCleanup(req view.ManualCleanupReq, executor string) (*view.CleanupResult, error)

	StartPolicyCleanup(policyId string, dryRun bool, executor string) (string, error)
	StartAllPoliciesCleanup(dryRun bool, executor string) (string, error)
	StartManualCleanup(req view.ManualCleanupReq, executor string) (string, error)

	CreateRetentionSweepJob(schedule string) error
}

func NewCleanupService(
	activityLogRepository repository.ActivityLogRepository,
	policyRepository repository.RetentionPolicyRepository,
	runRepository repository.CleanupRunRepository,
	lockService service.LockService,
	instanceId string,
	batchSize int,
) CleanupService {
	return &cleanupServiceImpl{
		activityLogRepository: activityLogRepository,
		policyRepository:      policyRepository,
		runRepository:         runRepository,
		lockService:           lockService,
		instanceId:            instanceId,
		executor:              batchExecutor{activityLogRepository: activityLogRepository, batchSize: batchSize},
		cron:                  cron.New(),
	}
}

type cleanupServiceImpl struct {
	activityLogRepository repository.ActivityLogRepository
	policyRepository      repository.RetentionPolicyRepository
	runRepository         repository.CleanupRunRepository
	lockService           service.LockService
	instanceId            string
	executor              batchExecutor
	cron                  *cron.Cron
}

func (c *cleanupServiceImpl) PreviewPolicy(policyId string) (*view.PolicyPreview, error) {
	policy, allPolicies, err := c.getPolicyWithSiblings(policyId)
	if err != nil {
		return nil, err
	}
	filter := BuildPolicyFilter(*policy, allPolicies, time.Now())

	totalRecords, err := c.activityLogRepository.Count(filter)
	if err != nil {
		return nil, err
	}
	estimatedSize, err := c.activityLogRepository.EstimateSize(filter)
	if err != nil {
		return nil, err
	}
	dateRange, err := c.activityLogRepository.GetDateRange(filter)
	if err != nil {
		return nil, err
	}
	byType, err := c.activityLogRepository.GetBreakdownByType(filter)
	if err != nil {
		return nil, err
	}
	byRisk, err := c.activityLogRepository.GetBreakdownByRisk(filter)
	if err != nil {
		return nil, err
	}

	return &view.PolicyPreview{
		PolicyId:           policyId,
		TotalRecords:       totalRecords,
		EstimatedSizeBytes: estimatedSize,
		DateRange:          dateRange,
		BreakdownByType:    byType,
		BreakdownByRisk:    byRisk,
	}, nil
}

func (c *cleanupServiceImpl) EvaluatePolicy(policyId string, dryRun bool, executor string) (*view.CleanupResult, error) {
	run, filter, action, err := c.preparePolicyRun(policyId, dryRun, executor)
	if err != nil {
		return nil, err
	}
	return c.executeRun(context.Background(), *run, filter, action, policyId, dryRun)
}

func (c *cleanupServiceImpl) StartPolicyCleanup(policyId string, dryRun bool, executor string) (string, error) {
	run, filter, action, err := c.preparePolicyRun(policyId, dryRun, executor)
	if err != nil {
		return "", err
	}
	utils.SafeAsync(func() {
		_, execErr := c.executeRun(context.Background(), *run, filter, action, policyId, dryRun)
		if execErr != nil {
			log.Errorf("Policy cleanup run %s failed: %v", run.RunId, execErr)
		}
	})
	return run.RunId, nil
}

func (c *cleanupServiceImpl) ExecuteAllPolicies(dryRun bool, executor string) (*view.CleanupResult, error) {
	run, err := c.storeRun(view.RunTypePolicy, "", "", dryRun, executor)
	if err != nil {
		return nil, err
	}
	return c.executeSweep(context.Background(), *run, dryRun)
}

func (c *cleanupServiceImpl) StartAllPoliciesCleanup(dryRun bool, executor string) (string, error) {
	run, err := c.storeRun(view.RunTypePolicy, "", "", dryRun, executor)
	if err != nil {
		return "", err
	}
	utils.SafeAsync(func() {
		_, execErr := c.executeSweep(context.Background(), *run, dryRun)
		if execErr != nil {
			log.Errorf("Retention sweep run %s failed: %v", run.RunId, execErr)
		}
	})
	return run.RunId, nil
}

func (c *cleanupServiceImpl) ManualCleanup(req view.ManualCleanupReq, executor string) (*view.CleanupResult, error) {
	run, filter, action, err := c.prepareManualRun(req, executor)
	if err != nil {
		return nil, err
	}
	return c.executeRun(context.Background(), *run, filter, action, view.ManualPolicyId, req.DryRun)
}

func (c *cleanupServiceImpl) StartManualCleanup(req view.ManualCleanupReq, executor string) (string, error) {
	run, filter, action, err := c.prepareManualRun(req, executor)
	if err != nil {
		return "", err
	}
	utils.SafeAsync(func() {
		_, execErr := c.executeRun(context.Background(), *run, filter, action, view.ManualPolicyId, req.DryRun)
		if execErr != nil {
			log.Errorf("Manual cleanup run %s failed: %v", run.RunId, execErr)
		}
	})
	return run.RunId, nil
}

func (c *cleanupServiceImpl) CreateRetentionSweepJob(schedule string) error {
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(cron.FuncJob(func() {
		acquired, err := c.lockService.TryAcquireLock(sweepLockName, sweepLockTtl)
		if err != nil {
			log.Errorf("Retention sweep skipped, failed to acquire lock: %v", err)
			return
		}
		if !acquired {
			log.Info("Retention sweep skipped, lock is held by another instance")
			return
		}
		defer c.lockService.ReleaseLock(sweepLockName)

		result, err := c.ExecuteAllPolicies(false, view.SystemExecutor)
		if err != nil {
			log.Errorf("Scheduled retention sweep failed: %v", err)
			return
		}
		log.Infof("Scheduled retention sweep finished with status '%s': %d archived, %d deleted",
			result.Status, result.RecordsArchived, result.RecordsDeleted)
	}))
	_, err := c.cron.AddJob(schedule, job)
	if err != nil {
		log.Warnf("Retention sweep job wasn't added for schedule - %s. With error - %s", schedule, err)
		return err
	}
	c.cron.Start()
	log.Infof("Retention sweep job was created with schedule - %s", schedule)
	return nil
}

func (c *cleanupServiceImpl) getPolicyWithSiblings(policyId string) (*entity.RetentionPolicyEntity, []entity.RetentionPolicyEntity, error) {
	policy, err := c.policyRepository.GetPolicy(policyId)
	if err != nil {
		return nil, nil, err
	}
	if policy == nil {
		return nil, nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.RetentionPolicyNotFound,
			Message: exception.RetentionPolicyNotFoundMsg,
			Params:  map[string]interface{}{"policyId": policyId},
		}
	}
	allPolicies, err := c.policyRepository.GetActivePolicies()
	if err != nil {
		return nil, nil, err
	}
	return policy, allPolicies, nil
}

func (c *cleanupServiceImpl) preparePolicyRun(policyId string, dryRun bool, executor string) (*entity.CleanupRunEntity, view.RecordFilter, view.RetentionAction, error) {
	policy, allPolicies, err := c.getPolicyWithSiblings(policyId)
	if err != nil {
		return nil, view.RecordFilter{}, "", err
	}
	if !policy.IsActive {
		return nil, view.RecordFilter{}, "", &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RetentionPolicyInactive,
			Message: exception.RetentionPolicyInactiveMsg,
			Params:  map[string]interface{}{"policyId": policyId},
		}
	}
	filter := BuildPolicyFilter(*policy, allPolicies, time.Now())
	run, err := c.storeRun(view.RunTypePolicy, policyId, policy.Action, dryRun, executor)
	if err != nil {
		return nil, view.RecordFilter{}, "", err
	}
	return run, filter, view.RetentionAction(policy.Action), nil
}

func (c *cleanupServiceImpl) prepareManualRun(req view.ManualCleanupReq, executor string) (*entity.CleanupRunEntity, view.RecordFilter, view.RetentionAction, error) {
	if !view.ValidRetentionAction(req.Action) {
		return nil, view.RecordFilter{}, "", &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidRetentionAction,
			Message: exception.InvalidRetentionActionMsg,
			Params:  map[string]interface{}{"action": req.Action},
		}
	}
	if req.DateTo == nil || (req.DateFrom != nil && !req.DateFrom.Before(*req.DateTo)) {
		return nil, view.RecordFilter{}, "", &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidDateRange,
			Message: exception.InvalidDateRangeMsg,
		}
	}
	if err := validateRiskBounds(req.RiskLevelMin, req.RiskLevelMax); err != nil {
		return nil, view.RecordFilter{}, "", err
	}

	filter := view.RecordFilter{
		DateFrom:     req.DateFrom,
		DateTo:       req.DateTo,
		ActivityType: req.ActivityType,
		Module:       req.Module,
		RiskLevelMin: req.RiskLevelMin,
		RiskLevelMax: req.RiskLevelMax,
	}
	run, err := c.storeRun(view.RunTypeManual, view.ManualPolicyId, req.Action, req.DryRun, executor)
	if err != nil {
		return nil, view.RecordFilter{}, "", err
	}
	return run, filter, view.RetentionAction(req.Action), nil
}

func validateRiskBounds(min *int, max *int) error {
	outOfRange := func(value int) bool {
		return value < view.MinRiskLevel || value > view.MaxRiskLevel
	}
	invalid := (min != nil && outOfRange(*min)) ||
		(max != nil && outOfRange(*max)) ||
		(min != nil && max != nil && *min > *max)
	if invalid {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidRiskLevelRange,
			Message: exception.InvalidRiskLevelRangeMsg,
			Params:  map[string]interface{}{"min": view.MinRiskLevel, "max": view.MaxRiskLevel},
		}
	}
	return nil
}

func (c *cleanupServiceImpl) storeRun(runType view.RunType, policyId string, action string, dryRun bool, executor string) (*entity.CleanupRunEntity, error) {
	run := entity.CleanupRunEntity{
		RunId:      uuid.New().String(),
		RunType:    string(runType),
		PolicyId:   policyId,
		Action:     action,
		DryRun:     dryRun,
		StartedAt:  time.Now(),
		Status:     string(view.StatusRunning),
		Executor:   executor,
		Errors:     []string{},
		InstanceId: c.instanceId,
	}
	if err := c.runRepository.StoreRun(context.Background(), run); err != nil {
		return nil, err
	}
	return &run, nil
}

// executeRun drives a single stored run to its terminal state. Exactly one
// ledger entry is produced per run, a failure to finalize it is surfaced as
// the run error.
func (c *cleanupServiceImpl) executeRun(ctx context.Context, run entity.CleanupRunEntity, filter view.RecordFilter, action view.RetentionAction, policyId string, dryRun bool) (*view.CleanupResult, error) {
	ctx = runContext(ctx, view.RunType(run.RunType), run.RunId)
	totals := newExecutionTotals()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Run failed with panic: %v", r)
			totals.errors = append(totals.errors, fmt.Sprintf("run failed with panic: %v", r))
			_ = c.finishRun(ctx, run, totals, start, view.StatusFailed)
		}
	}()

	logger.Infof(ctx, "Starting run, dryRun=%v, action=%s", dryRun, action)

	if dryRun {
		if err := c.countOnly(ctx, filter, action, totals); err != nil {
			totals.errors = append(totals.errors, err.Error())
		}
	} else {
		c.executor.execute(ctx, filter, action, policyId, totals)
	}

	status := totals.status()
	if err := c.finishRun(ctx, run, totals, start, status); err != nil {
		logger.Errorf(ctx, "Failed to save run state: %v", err)
		return nil, err
	}

	if !dryRun && view.RunType(run.RunType) == view.RunTypePolicy && policyId != "" && status != view.StatusFailed {
		if err := c.policyRepository.UpdateLastExecuted(policyId, time.Now()); err != nil {
			logger.Warnf(ctx, "Failed to update lastExecutedAt for policy %s: %v", policyId, err)
		}
	}

	logger.Infof(ctx, "Run finished with status '%s'. Processed %d, archived %d, deleted %d.",
		status, totals.processed, totals.archived, totals.deleted)

	return makeCleanupResult(run.RunId, status, dryRun, totals, time.Since(start)), nil
}

// executeSweep runs every active policy in precedence order under one
// umbrella ledger entry.
func (c *cleanupServiceImpl) executeSweep(ctx context.Context, run entity.CleanupRunEntity, dryRun bool) (*view.CleanupResult, error) {
	ctx = runContext(ctx, view.RunType(run.RunType), run.RunId)
	totals := newExecutionTotals()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Sweep failed with panic: %v", r)
			totals.errors = append(totals.errors, fmt.Sprintf("sweep failed with panic: %v", r))
			_ = c.finishRun(ctx, run, totals, start, view.StatusFailed)
		}
	}()

	policies, err := c.policyRepository.GetActivePolicies()
	if err != nil {
		totals.errors = append(totals.errors, fmt.Sprintf("failed to load active policies: %s", err.Error()))
		if finishErr := c.finishRun(ctx, run, totals, start, view.StatusFailed); finishErr != nil {
			return nil, finishErr
		}
		return nil, err
	}
	SortPoliciesByPrecedence(policies)

	logger.Infof(ctx, "Starting retention sweep over %d active policies, dryRun=%v", len(policies), dryRun)

	now := time.Now()
	for _, policy := range policies {
		select {
		case <-ctx.Done():
			totals.cancelled = true
		default:
		}
		if totals.cancelled {
			break
		}

		filter := BuildPolicyFilter(policy, policies, now)
		if dryRun {
			if err := c.countOnly(ctx, filter, view.RetentionAction(policy.Action), totals); err != nil {
				totals.errors = append(totals.errors, fmt.Sprintf("policy %s: %s", policy.Id, err.Error()))
			}
			continue
		}

		before := len(totals.errors)
		c.executor.execute(ctx, filter, view.RetentionAction(policy.Action), policy.Id, totals)
		if len(totals.errors) == before {
			if err := c.policyRepository.UpdateLastExecuted(policy.Id, time.Now()); err != nil {
				logger.Warnf(ctx, "Failed to update lastExecutedAt for policy %s: %v", policy.Id, err)
			}
		}
	}

	status := totals.status()
	if err := c.finishRun(ctx, run, totals, start, status); err != nil {
		logger.Errorf(ctx, "Failed to save sweep run state: %v", err)
		return nil, err
	}

	logger.Infof(ctx, "Sweep finished with status '%s'. Processed %d, archived %d, deleted %d.",
		status, totals.processed, totals.archived, totals.deleted)

	return makeCleanupResult(run.RunId, status, dryRun, totals, time.Since(start)), nil
}

// countOnly fills the totals from read queries without touching any data. The
// matched count is projected onto the action the real run would take.
func (c *cleanupServiceImpl) countOnly(ctx context.Context, filter view.RecordFilter, action view.RetentionAction, totals *executionTotals) error {
	count, err := c.activityLogRepository.Count(filter)
	if err != nil {
		return err
	}
	byType, err := c.activityLogRepository.GetBreakdownByType(filter)
	if err != nil {
		return err
	}
	byRisk, err := c.activityLogRepository.GetBreakdownByRisk(filter)
	if err != nil {
		return err
	}
	totals.processed += count
	if action == view.ActionArchive {
		totals.projectedArchived += count
	} else {
		totals.projectedDeleted += count
	}
	for key, value := range byType {
		totals.byType[key] += value
	}
	for key, value := range byRisk {
		totals.byRisk[key] += value
	}
	return nil
}

func (c *cleanupServiceImpl) finishRun(ctx context.Context, run entity.CleanupRunEntity, totals *executionTotals, start time.Time, status view.RunStatus) error {
	finishedAt := time.Now()
	run.Status = string(status)
	run.FinishedAt = &finishedAt
	run.RecordsProcessed = totals.processed
	run.RecordsArchived = totals.archived
	run.RecordsDeleted = totals.deleted
	run.ExecutionTimeMs = time.Since(start).Milliseconds()
	run.Errors = totals.errors
	run.Breakdown = &entity.RunBreakdown{ByType: totals.byType, ByRisk: totals.byRisk}

	if err := c.runRepository.FinishRun(ctx, run); err != nil {
		return err
	}

	metrics.RetentionRunsTotal.WithLabelValues(run.RunType, string(status)).Inc()
	metrics.RetentionRunDuration.WithLabelValues(run.RunType).Observe(time.Since(start).Seconds())
	if totals.archived > 0 {
		metrics.RecordsArchivedTotal.WithLabelValues().Add(float64(totals.archived))
	}
	if totals.deleted > 0 {
		metrics.RecordsDeletedTotal.WithLabelValues().Add(float64(totals.deleted))
	}
	return nil
}

func makeCleanupResult(runId string, status view.RunStatus, dryRun bool, totals *executionTotals, elapsed time.Duration) *view.CleanupResult {
	archived, deleted := totals.archived, totals.deleted
	if dryRun {
		// projected counts for the caller; the ledger entry keeps zeros
		archived, deleted = totals.projectedArchived, totals.projectedDeleted
	}
	return &view.CleanupResult{
		RunId:            runId,
		Status:           status,
		DryRun:           dryRun,
		RecordsProcessed: totals.processed,
		RecordsArchived:  archived,
		RecordsDeleted:   deleted,
		ExecutionTimeMs:  elapsed.Milliseconds(),
		BreakdownByType:  totals.byType,
		BreakdownByRisk:  totals.byRisk,
		Errors:           totals.errors,
	}
}
