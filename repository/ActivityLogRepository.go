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
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
	"github.com/pkg/errors"
)

// RecordCursor is a keyset pagination cursor over (created_at, id). Batch reads
// ordered by this pair stay stable while earlier rows are being deleted.
type RecordCursor struct {
	CreatedAt time.Time
	Id        string
}

type ActivityLogRepository interface {
	GetBatch(ctx context.Context, filter view.RecordFilter, after *RecordCursor, limit int) ([]entity.ActivityLogEntity, error)
	Count(filter view.RecordFilter) (int, error)
	EstimateSize(filter view.RecordFilter) (int64, error)
	GetDateRange(filter view.RecordFilter) (*view.DateRange, error)
	GetBreakdownByType(filter view.RecordFilter) (map[string]int, error)
	GetBreakdownByRisk(filter view.RecordFilter) (map[string]int, error)

	// ArchiveAndDeleteBatch copies the records into the archive table and removes
	// them from the activity log in one transaction. The copy is committed before
	// the delete, never the other way around.
	ArchiveAndDeleteBatch(ctx context.Context, records []entity.ActivityLogEntity, policyId string) (int, error)
	DeleteBatch(ctx context.Context, ids []string) (int, error)

	ImportBatch(ctx context.Context, records []entity.ActivityLogEntity, replaceExisting bool) (imported int, skipped int, err error)
}

func NewActivityLogRepository(cp db.ConnectionProvider) ActivityLogRepository {
	return &activityLogRepositoryImpl{cp: cp}
}

type activityLogRepositoryImpl struct {
	cp db.ConnectionProvider
}

func applyRecordFilter(query *orm.Query, filter view.RecordFilter) *orm.Query {
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at < ?", *filter.DateTo)
	}
	if filter.ActivityType != "" {
		query = query.Where("activity_type = ?", filter.ActivityType)
	}
	if filter.Module != "" {
		query = query.Where("module = ?", filter.Module)
	}
	if filter.RiskLevelMin != nil {
		query = query.Where("risk_level >= ?", *filter.RiskLevelMin)
	}
	if filter.RiskLevelMax != nil {
		query = query.Where("risk_level <= ?", *filter.RiskLevelMax)
	}
	for _, scope := range filter.ExcludeScopes {
		switch {
		case scope.ActivityType != "" && scope.Module != "":
			query = query.Where("NOT (activity_type = ? AND module = ?)", scope.ActivityType, scope.Module)
		case scope.ActivityType != "":
			query = query.Where("activity_type != ?", scope.ActivityType)
		case scope.Module != "":
			query = query.Where("module != ?", scope.Module)
		default:
			// a full wildcard scope shadows everything below it
			query = query.Where("false")
		}
	}
	return query
}

func (a activityLogRepositoryImpl) GetBatch(ctx context.Context, filter view.RecordFilter, after *RecordCursor, limit int) ([]entity.ActivityLogEntity, error) {
	var result []entity.ActivityLogEntity
	query := a.cp.GetConnection().ModelContext(ctx, &result)
	query = applyRecordFilter(query, filter)
	if after != nil {
		query = query.Where("(created_at, id) > (?, ?)", after.CreatedAt, after.Id)
	}
	err := query.Order("created_at ASC", "id ASC").Limit(limit).Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (a activityLogRepositoryImpl) Count(filter view.RecordFilter) (int, error) {
	query := a.cp.GetConnection().Model(&entity.ActivityLogEntity{})
	return applyRecordFilter(query, filter).Count()
}

func (a activityLogRepositoryImpl) EstimateSize(filter view.RecordFilter) (int64, error) {
	var size int64
	query := a.cp.GetConnection().Model(&entity.ActivityLogEntity{}).
		ColumnExpr("coalesce(sum(pg_column_size(activity_log.*)), 0)")
	err := applyRecordFilter(query, filter).Select(&size)
	if err != nil {
		return 0, err
	}
	return size, nil
}

func (a activityLogRepositoryImpl) GetDateRange(filter view.RecordFilter) (*view.DateRange, error) {
	var bounds struct {
		From *time.Time
		To   *time.Time
	}
	query := a.cp.GetConnection().Model(&entity.ActivityLogEntity{}).
		ColumnExpr("min(created_at) AS from, max(created_at) AS to")
	err := applyRecordFilter(query, filter).Select(&bounds)
	if err != nil {
		return nil, err
	}
	if bounds.From == nil || bounds.To == nil {
		return nil, nil
	}
	return &view.DateRange{From: *bounds.From, To: *bounds.To}, nil
}

func (a activityLogRepositoryImpl) GetBreakdownByType(filter view.RecordFilter) (map[string]int, error) {
	var rows []struct {
		Key string
		Cnt int
	}
	query := a.cp.GetConnection().Model(&entity.ActivityLogEntity{}).
		ColumnExpr("activity_type AS key, count(*) AS cnt").
		Group("activity_type")
	err := applyRecordFilter(query, filter).Select(&rows)
	if err != nil {
		return nil, err
	}
	breakdown := make(map[string]int, len(rows))
	for _, row := range rows {
		breakdown[row.Key] = row.Cnt
	}
	return breakdown, nil
}

func (a activityLogRepositoryImpl) GetBreakdownByRisk(filter view.RecordFilter) (map[string]int, error) {
	var rows []struct {
		Key string
		Cnt int
	}
	query := a.cp.GetConnection().Model(&entity.ActivityLogEntity{}).
		ColumnExpr("cast(risk_level AS varchar) AS key, count(*) AS cnt").
		Group("risk_level")
	err := applyRecordFilter(query, filter).Select(&rows)
	if err != nil {
		return nil, err
	}
	breakdown := make(map[string]int, len(rows))
	for _, row := range rows {
		breakdown[row.Key] = row.Cnt
	}
	return breakdown, nil
}

func (a activityLogRepositoryImpl) ArchiveAndDeleteBatch(ctx context.Context, records []entity.ActivityLogEntity, policyId string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	archivedAt := time.Now()
	archived := make([]entity.ArchivedActivityEntity, 0, len(records))
	ids := make([]string, 0, len(records))
	for _, record := range records {
		archived = append(archived, entity.MakeArchivedActivityEntity(record, policyId, archivedAt))
		ids = append(ids, record.Id)
	}

	var deleted int
	err := a.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		// re-archiving an already archived id is a no-op, not an error
		_, err := tx.ModelContext(ctx, &archived).OnConflict("(id) DO NOTHING").Insert()
		if err != nil {
			return errors.Wrap(err, "failed to copy records into archive")
		}
		result, err := tx.ModelContext(ctx, &entity.ActivityLogEntity{}).
			Where("id IN (?)", pg.In(ids)).
			Delete()
		if err != nil {
			return errors.Wrap(err, "failed to delete archived records")
		}
		deleted = result.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (a activityLogRepositoryImpl) DeleteBatch(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := a.cp.GetConnection().ModelContext(ctx, &entity.ActivityLogEntity{}).
		Where("id IN (?)", pg.In(ids)).
		Delete()
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (a activityLogRepositoryImpl) ImportBatch(ctx context.Context, records []entity.ActivityLogEntity, replaceExisting bool) (int, int, error) {
	if len(records) == 0 {
		return 0, 0, nil
	}
	var imported int
	err := a.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		query := tx.ModelContext(ctx, &records)
		if replaceExisting {
			query = query.OnConflict("(id) DO UPDATE").
				Set("created_at = EXCLUDED.created_at").
				Set("activity_type = EXCLUDED.activity_type").
				Set("module = EXCLUDED.module").
				Set("risk_level = EXCLUDED.risk_level").
				Set("is_security_event = EXCLUDED.is_security_event").
				Set("user_id = EXCLUDED.user_id").
				Set("properties = EXCLUDED.properties")
		} else {
			query = query.OnConflict("(id) DO NOTHING")
		}
		result, err := query.Insert()
		if err != nil {
			return err
		}
		imported = result.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	if replaceExisting {
		return len(records), 0, nil
	}
	return imported, len(records) - imported, nil
}
