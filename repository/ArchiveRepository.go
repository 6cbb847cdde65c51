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

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/db"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/utils"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

type ArchiveRepository interface {
	// StoreBatch inserts archived records, silently skipping ids that are
	// already present. Returns the number of rows actually written.
	StoreBatch(ctx context.Context, records []entity.ArchivedActivityEntity) (int, error)
	GetBatch(ctx context.Context, filter view.RecordFilter, after *RecordCursor, limit int) ([]entity.ArchivedActivityEntity, error)
	GetArchivedRecords(filter view.RecordFilter, limit int, page int) ([]entity.ArchivedActivityEntity, error)
	Count(filter view.RecordFilter) (int, error)
}

func NewArchiveRepository(cp db.ConnectionProvider) ArchiveRepository {
	return &archiveRepositoryImpl{cp: cp}
}

type archiveRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (a archiveRepositoryImpl) StoreBatch(ctx context.Context, records []entity.ArchivedActivityEntity) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	result, err := a.cp.GetConnection().ModelContext(ctx, &records).
		OnConflict("(id) DO NOTHING").
		Insert()
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (a archiveRepositoryImpl) GetBatch(ctx context.Context, filter view.RecordFilter, after *RecordCursor, limit int) ([]entity.ArchivedActivityEntity, error) {
	var result []entity.ArchivedActivityEntity
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

func (a archiveRepositoryImpl) GetArchivedRecords(filter view.RecordFilter, limit int, page int) ([]entity.ArchivedActivityEntity, error) {
	var result []entity.ArchivedActivityEntity
	query := a.cp.GetConnection().Model(&result)
	query = applyRecordFilter(query, filter)
	limit, offset := utils.PaginateOffset(limit, page)
	err := query.Order("created_at DESC", "id ASC").
		Limit(limit).
		Offset(offset).
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (a archiveRepositoryImpl) Count(filter view.RecordFilter) (int, error) {
	query := a.cp.GetConnection().Model(&entity.ArchivedActivityEntity{})
	return applyRecordFilter(query, filter).Count()
}
