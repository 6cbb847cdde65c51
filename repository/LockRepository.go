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
)

type LockRepository interface {
	// TryAcquireLock takes the named lock for this instance if it is free or
	// expired. Returns false when another instance still holds it.
	TryAcquireLock(name string, instanceId string, ttl time.Duration) (bool, error)
	ReleaseLock(name string, instanceId string) error
}

func NewLockRepository(cp db.ConnectionProvider) LockRepository {
	return &lockRepositoryImpl{cp: cp}
}

type lockRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (l lockRepositoryImpl) TryAcquireLock(name string, instanceId string, ttl time.Duration) (bool, error) {
	now := time.Now()
	ent := entity.LockEntity{
		Name:       name,
		InstanceId: instanceId,
		AcquiredAt: now,
		ExpiresAt:  now.Add(ttl),
	}
	result, err := l.cp.GetConnection().Model(&ent).
		OnConflict("(name) DO UPDATE").
		Set("instance_id = EXCLUDED.instance_id").
		Set("acquired_at = EXCLUDED.acquired_at").
		Set("expires_at = EXCLUDED.expires_at").
		Where("locks.expires_at < ? OR locks.instance_id = EXCLUDED.instance_id", now).
		Insert()
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (l lockRepositoryImpl) ReleaseLock(name string, instanceId string) error {
	_, err := l.cp.GetConnection().Model(&entity.LockEntity{}).
		Where("name = ?", name).
		Where("instance_id = ?", instanceId).
		Delete()
	return err
}
