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
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/db"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/go-pg/pg/v10"
)

type RetentionPolicyRepository interface {
	CreatePolicy(ent *entity.RetentionPolicyEntity) error
	UpdatePolicy(ent *entity.RetentionPolicyEntity) error
	DeletePolicy(id string) (bool, error)
	GetPolicy(id string) (*entity.RetentionPolicyEntity, error)
	GetPolicies() ([]entity.RetentionPolicyEntity, error)
	GetActivePolicies() ([]entity.RetentionPolicyEntity, error)
	UpdateLastExecuted(id string, executedAt time.Time) error
}

func NewRetentionPolicyRepository(cp db.ConnectionProvider) RetentionPolicyRepository {
	return &retentionPolicyRepositoryImpl{cp: cp}
}

type retentionPolicyRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r retentionPolicyRepositoryImpl) CreatePolicy(ent *entity.RetentionPolicyEntity) error {
	_, err := r.cp.GetConnection().Model(ent).Insert()
	return err
}

func (r retentionPolicyRepositoryImpl) UpdatePolicy(ent *entity.RetentionPolicyEntity) error {
	_, err := r.cp.GetConnection().Model(ent).WherePK().Update()
	return err
}

func (r retentionPolicyRepositoryImpl) DeletePolicy(id string) (bool, error) {
	result, err := r.cp.GetConnection().Model(&entity.RetentionPolicyEntity{}).
		Where("id = ?", id).
		Delete()
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r retentionPolicyRepositoryImpl) GetPolicy(id string) (*entity.RetentionPolicyEntity, error) {
	result := new(entity.RetentionPolicyEntity)
	err := r.cp.GetConnection().Model(result).
		Where("id = ?", id).
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (r retentionPolicyRepositoryImpl) GetPolicies() ([]entity.RetentionPolicyEntity, error) {
	var result []entity.RetentionPolicyEntity
	err := r.cp.GetConnection().Model(&result).
		Order("priority DESC", "created_at DESC").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r retentionPolicyRepositoryImpl) GetActivePolicies() ([]entity.RetentionPolicyEntity, error) {
	var result []entity.RetentionPolicyEntity
	err := r.cp.GetConnection().Model(&result).
		Where("is_active = ?", true).
		Order("priority DESC", "created_at DESC").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r retentionPolicyRepositoryImpl) UpdateLastExecuted(id string, executedAt time.Time) error {
	_, err := r.cp.GetConnection().Model(&entity.RetentionPolicyEntity{}).
		Set("last_executed_at = ?", executedAt).
		Where("id = ?", id).
		Update()
	return err
}
