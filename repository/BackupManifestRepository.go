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
	"github.com/go-pg/pg/v10"
)

type BackupManifestRepository interface {
	StoreManifest(ctx context.Context, ent entity.BackupManifestEntity) error
	GetManifest(filename string) (*entity.BackupManifestEntity, error)
	GetManifests() ([]entity.BackupManifestEntity, error)
	GetManifestsOlderThan(cutoff time.Time) ([]entity.BackupManifestEntity, error)
	DeleteManifest(ctx context.Context, filename string) error
}

func NewBackupManifestRepository(cp db.ConnectionProvider) BackupManifestRepository {
	return &backupManifestRepositoryImpl{cp: cp}
}

type backupManifestRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (b backupManifestRepositoryImpl) StoreManifest(ctx context.Context, ent entity.BackupManifestEntity) error {
	_, err := b.cp.GetConnection().ModelContext(ctx, &ent).Insert()
	return err
}

func (b backupManifestRepositoryImpl) GetManifest(filename string) (*entity.BackupManifestEntity, error) {
	result := new(entity.BackupManifestEntity)
	err := b.cp.GetConnection().Model(result).
		Where("filename = ?", filename).
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (b backupManifestRepositoryImpl) GetManifests() ([]entity.BackupManifestEntity, error) {
	var result []entity.BackupManifestEntity
	err := b.cp.GetConnection().Model(&result).
		Order("created_at DESC").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (b backupManifestRepositoryImpl) GetManifestsOlderThan(cutoff time.Time) ([]entity.BackupManifestEntity, error) {
	var result []entity.BackupManifestEntity
	err := b.cp.GetConnection().Model(&result).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (b backupManifestRepositoryImpl) DeleteManifest(ctx context.Context, filename string) error {
	_, err := b.cp.GetConnection().ModelContext(ctx, &entity.BackupManifestEntity{}).
		Where("filename = ?", filename).
		Delete()
	return err
}
