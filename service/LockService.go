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

package service

import (
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/repository"
	log "github.com/sirupsen/logrus"
)

// LockService provides run exclusivity across service instances through a
// shared lock table. A lock not released in time expires on its own, so a
// crashed instance cannot block scheduled jobs forever.
type LockService interface {
	TryAcquireLock(name string, ttl time.Duration) (bool, error)
	ReleaseLock(name string)
}

func NewLockService(lockRepository repository.LockRepository, instanceId string) LockService {
	return &lockServiceImpl{
		lockRepository: lockRepository,
		instanceId:     instanceId,
	}
}

type lockServiceImpl struct {
	lockRepository repository.LockRepository
	instanceId     string
}

func (l lockServiceImpl) TryAcquireLock(name string, ttl time.Duration) (bool, error) {
	return l.lockRepository.TryAcquireLock(name, l.instanceId, ttl)
}

func (l lockServiceImpl) ReleaseLock(name string) {
	if err := l.lockRepository.ReleaseLock(name, l.instanceId); err != nil {
		log.Errorf("Failed to release lock %s: %v", name, err)
	}
}
