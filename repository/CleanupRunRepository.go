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

package repository

import (
	"context"
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/db"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/utils"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
	"github.com/go-pg/pg/v10"
)

type CleanupRunRepository interface {
	StoreRun(ctx context.Context, ent entity.CleanupRunEntity) error
	// FinishRun records the terminal state of a run. The row is only touched
	// while it is still in 'running' status, a finished run is never edited.
	FinishRun(ctx context.Context, ent entity.CleanupRunEntity) error
	GetRun(runId string) (*entity.CleanupRunEntity, error)
	GetRuns(filter view.CleanupRunFilter, limit int, page int) ([]entity.CleanupRunEntity, error)
	GetRunsSince(since time.Time) ([]entity.CleanupRunEntity, error)
}

func NewCleanupRunRepository(cp db.ConnectionProvider) CleanupRunRepository {
	return &cleanupRunRepositoryImpl{cp: cp}
}

type cleanupRunRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (c cleanupRunRepositoryImpl) StoreRun(ctx context.Context, ent entity.CleanupRunEntity) error {
	_, err := c.cp.GetConnection().ModelContext(ctx, &ent).Insert()
	return err
}

func (c cleanupRunRepositoryImpl) FinishRun(ctx context.Context, ent entity.CleanupRunEntity) error {
	_, err := c.cp.GetConnection().ModelContext(ctx, &ent).
		Column("status", "finished_at", "records_processed", "records_archived",
			"records_deleted", "execution_time_ms", "errors", "breakdown").
		Where("run_id = ?", ent.RunId).
		Where("status = ?", string(view.StatusRunning)).
		Update()
	return err
}

func (c cleanupRunRepositoryImpl) GetRun(runId string) (*entity.CleanupRunEntity, error) {
	result := new(entity.CleanupRunEntity)
	err := c.cp.GetConnection().Model(result).
		Where("run_id = ?", runId).
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (c cleanupRunRepositoryImpl) GetRuns(filter view.CleanupRunFilter, limit int, page int) ([]entity.CleanupRunEntity, error) {
	var result []entity.CleanupRunEntity
	query := c.cp.GetConnection().Model(&result)
	if filter.RunType != "" {
		query = query.Where("run_type = ?", string(filter.RunType))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.PolicyId != "" {
		query = query.Where("policy_id = ?", filter.PolicyId)
	}
	if filter.Since != nil {
		query = query.Where("started_at >= ?", *filter.Since)
	}
	limit, offset := utils.PaginateOffset(limit, page)
	err := query.Order("started_at DESC").
		Limit(limit).
		Offset(offset).
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c cleanupRunRepositoryImpl) GetRunsSince(since time.Time) ([]entity.CleanupRunEntity, error) {
	var result []entity.CleanupRunEntity
	err := c.cp.GetConnection().Model(&result).
		Where("started_at >= ?", since).
		Order("started_at DESC").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}
