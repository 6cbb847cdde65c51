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
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

const statisticsWindowDays = 30

// StatisticsService is a read-only reporting surface over the policy table,
// the activity log and the run ledger. It keeps no state of its own.
type StatisticsService interface {
	GetStatistics() (*view.RetentionStatistics, error)
}

func NewStatisticsService(
	activityLogRepository repository.ActivityLogRepository,
	policyRepository repository.RetentionPolicyRepository,
	runRepository repository.CleanupRunRepository,
) StatisticsService {
	return &statisticsServiceImpl{
		activityLogRepository: activityLogRepository,
		policyRepository:      policyRepository,
		runRepository:         runRepository,
	}
}

type statisticsServiceImpl struct {
	activityLogRepository repository.ActivityLogRepository
	policyRepository      repository.RetentionPolicyRepository
	runRepository         repository.CleanupRunRepository
}

func (s statisticsServiceImpl) GetStatistics() (*view.RetentionStatistics, error) {
	policies, err := s.policyRepository.GetPolicies()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	policyStats := make([]view.PolicyStatistics, 0, len(policies))
	for _, policy := range policies {
		cutoff := now.AddDate(0, 0, -policy.RetentionDays)
		filter := view.RecordFilter{
			DateTo:       &cutoff,
			ActivityType: policy.ActivityType,
			Module:       policy.Module,
		}
		count, err := s.activityLogRepository.Count(filter)
		if err != nil {
			return nil, err
		}
		size, err := s.activityLogRepository.EstimateSize(filter)
		if err != nil {
			return nil, err
		}
		policyStats = append(policyStats, view.PolicyStatistics{
			PolicyId:           policy.Id,
			Name:               policy.Name,
			IsActive:           policy.IsActive,
			ApplicableRecords:  count,
			EstimatedSizeBytes: size,
		})
	}

	runs, err := s.runRepository.GetRunsSince(now.AddDate(0, 0, -statisticsWindowDays))
	if err != nil {
		return nil, err
	}
	aggregates := view.RunAggregates{}
	for _, run := range runs {
		switch view.RunType(run.RunType) {
		case view.RunTypePolicy, view.RunTypeManual:
			aggregates.CleanupRuns++
		case view.RunTypeBackup, view.RunTypeBackupCleanup:
			aggregates.BackupRuns++
		case view.RunTypeRestore:
			aggregates.RestoreRuns++
		}
		if view.RunStatus(run.Status) == view.StatusFailed {
			aggregates.FailedRuns++
		}
		aggregates.RecordsArchived += run.RecordsArchived
		aggregates.RecordsDeleted += run.RecordsDeleted
	}

	return &view.RetentionStatistics{
		Policies:   policyStats,
		Last30Days: aggregates,
	}, nil
}
