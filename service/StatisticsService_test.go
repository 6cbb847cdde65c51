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
	"context"
	"testing"
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatistics(t *testing.T) {
	activityLogRepo := &fakeActivityLogRepository{records: []entity.ActivityLogEntity{
		{Id: "old-1", CreatedAt: time.Now().AddDate(0, 0, -60), ActivityType: "login", Module: "auth"},
		{Id: "old-2", CreatedAt: time.Now().AddDate(0, 0, -45), ActivityType: "login", Module: "auth"},
		{Id: "recent", CreatedAt: time.Now().AddDate(0, 0, -5), ActivityType: "login", Module: "auth"},
	}}
	policyRepo := &fakePolicyRepository{policies: []entity.RetentionPolicyEntity{
		{Id: "p1", Name: "auth logins", ActivityType: "login", Module: "auth", RetentionDays: 30, IsActive: true},
	}}
	runRepo := &fakeRunRepository{}
	ctx := context.Background()
	require.NoError(t, runRepo.StoreRun(ctx, entity.CleanupRunEntity{
		RunId: "r1", RunType: string(view.RunTypePolicy), Status: string(view.StatusSuccess),
		RecordsArchived: 10, RecordsDeleted: 3,
	}))
	require.NoError(t, runRepo.StoreRun(ctx, entity.CleanupRunEntity{
		RunId: "r2", RunType: string(view.RunTypeBackup), Status: string(view.StatusFailed),
	}))
	require.NoError(t, runRepo.StoreRun(ctx, entity.CleanupRunEntity{
		RunId: "r3", RunType: string(view.RunTypeRestore), Status: string(view.StatusSuccess),
	}))

	statisticsService := NewStatisticsService(activityLogRepo, policyRepo, runRepo)
	statistics, err := statisticsService.GetStatistics()
	require.NoError(t, err)

	require.Len(t, statistics.Policies, 1)
	policyStats := statistics.Policies[0]
	assert.Equal(t, "p1", policyStats.PolicyId)
	assert.True(t, policyStats.IsActive)
	assert.Equal(t, 2, policyStats.ApplicableRecords)
	assert.Equal(t, int64(200), policyStats.EstimatedSizeBytes)

	assert.Equal(t, 1, statistics.Last30Days.CleanupRuns)
	assert.Equal(t, 1, statistics.Last30Days.BackupRuns)
	assert.Equal(t, 1, statistics.Last30Days.RestoreRuns)
	assert.Equal(t, 1, statistics.Last30Days.FailedRuns)
	assert.Equal(t, 10, statistics.Last30Days.RecordsArchived)
	assert.Equal(t, 3, statistics.Last30Days.RecordsDeleted)
}
