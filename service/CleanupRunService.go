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
	"net/http"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/exception"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/repository"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

type CleanupRunService interface {
	GetRun(runId string) (*view.CleanupRun, error)
	GetRuns(filter view.CleanupRunFilter, limit int, page int) (*view.CleanupRuns, error)
}

func NewCleanupRunService(runRepository repository.CleanupRunRepository) CleanupRunService {
	return &cleanupRunServiceImpl{runRepository: runRepository}
}

type cleanupRunServiceImpl struct {
	runRepository repository.CleanupRunRepository
}

func (c cleanupRunServiceImpl) GetRun(runId string) (*view.CleanupRun, error) {
	ent, err := c.runRepository.GetRun(runId)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.CleanupRunNotFound,
			Message: exception.CleanupRunNotFoundMsg,
			Params:  map[string]interface{}{"runId": runId},
		}
	}
	result := entity.MakeCleanupRunView(*ent)
	return &result, nil
}

func (c cleanupRunServiceImpl) GetRuns(filter view.CleanupRunFilter, limit int, page int) (*view.CleanupRuns, error) {
	entities, err := c.runRepository.GetRuns(filter, limit, page)
	if err != nil {
		return nil, err
	}
	runs := make([]view.CleanupRun, 0, len(entities))
	for _, ent := range entities {
		runs = append(runs, entity.MakeCleanupRunView(ent))
	}
	return &view.CleanupRuns{Runs: runs}, nil
}
