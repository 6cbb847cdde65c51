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
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/repository"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

type ArchiveService interface {
	GetArchivedRecords(filter view.RecordFilter, limit int, page int) (*view.ArchivedRecords, error)
}

func NewArchiveService(archiveRepository repository.ArchiveRepository) ArchiveService {
	return &archiveServiceImpl{archiveRepository: archiveRepository}
}

type archiveServiceImpl struct {
	archiveRepository repository.ArchiveRepository
}

func (a archiveServiceImpl) GetArchivedRecords(filter view.RecordFilter, limit int, page int) (*view.ArchivedRecords, error) {
	entities, err := a.archiveRepository.GetArchivedRecords(filter, limit, page)
	if err != nil {
		return nil, err
	}
	records := make([]view.ArchivedRecord, 0, len(entities))
	for _, ent := range entities {
		records = append(records, entity.MakeArchivedRecordView(ent))
	}
	return &view.ArchivedRecords{Records: records}, nil
}
