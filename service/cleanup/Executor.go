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
	"strconv"
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/repository"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/service/cleanup/logger"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

const batchRetryDelay = 500 * time.Millisecond

type batchExecutor struct {
	activityLogRepository repository.ActivityLogRepository
	batchSize             int
}

// execute streams matching records in keyset batches and applies the policy
// action to each batch. The cursor always moves past a fetched batch, even
// when the batch fails after its retries, so one broken batch cannot stall
// the run. Records of a failed batch stay in place and are picked up again
// by a later run.
func (e batchExecutor) execute(ctx context.Context, filter view.RecordFilter, action view.RetentionAction, policyId string, totals *executionTotals) {
	var cursor *repository.RecordCursor
	batchNumber := 0

	for {
		select {
		case <-ctx.Done():
			totals.cancelled = true
			totals.errors = append(totals.errors, fmt.Sprintf("run interrupted after %d batches", batchNumber))
			logger.Warnf(ctx, "Run interrupted after %d batches", batchNumber)
			return
		default:
		}

		batch, err := e.activityLogRepository.GetBatch(ctx, filter, cursor, e.batchSize)
		if err != nil {
			totals.errors = append(totals.errors, fmt.Sprintf("failed to fetch batch %d: %s", batchNumber+1, err.Error()))
			logger.Errorf(ctx, "Failed to fetch batch %d: %v", batchNumber+1, err)
			return
		}
		if len(batch) == 0 {
			return
		}
		batchNumber++

		last := batch[len(batch)-1]
		cursor = &repository.RecordCursor{CreatedAt: last.CreatedAt, Id: last.Id}

		count, err := e.applyWithRetry(ctx, batch, action, policyId)
		if err != nil {
			totals.errors = append(totals.errors, fmt.Sprintf("batch %d: %s", batchNumber, err.Error()))
			logger.Warnf(ctx, "Batch %d failed after %d attempts: %v", batchNumber, maxBatchAttempts, err)
			continue
		}

		// processed, like the breakdowns, only covers batches that went through
		totals.processed += len(batch)
		if action == view.ActionArchive {
			totals.archived += count
		} else {
			totals.deleted += count
		}
		for _, record := range batch {
			totals.byType[record.ActivityType]++
			totals.byRisk[strconv.Itoa(record.RiskLevel)]++
		}
		logger.Debugf(ctx, "Batch %d done, %d records", batchNumber, count)
	}
}

func (e batchExecutor) applyWithRetry(ctx context.Context, batch []entity.ActivityLogEntity, action view.RetentionAction, policyId string) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= maxBatchAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return 0, lastErr
			case <-time.After(time.Duration(attempt-1) * batchRetryDelay):
			}
		}

		var count int
		var err error
		if action == view.ActionArchive {
			count, err = e.activityLogRepository.ArchiveAndDeleteBatch(ctx, batch, policyId)
		} else {
			ids := make([]string, 0, len(batch))
			for _, record := range batch {
				ids = append(ids, record.Id)
			}
			count, err = e.activityLogRepository.DeleteBatch(ctx, ids)
		}
		if err == nil {
			return count, nil
		}
		lastErr = err
	}
	return 0, lastErr
}
