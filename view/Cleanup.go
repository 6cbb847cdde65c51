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

package view

import "time"

type RunType string
type RunStatus string

const (
	RunTypePolicy        RunType = "policy"
	RunTypeManual        RunType = "manual"
	RunTypeBackup        RunType = "backup"
	RunTypeRestore       RunType = "restore"
	RunTypeBackupCleanup RunType = "backup_cleanup"

	StatusRunning   RunStatus = "running"
	StatusSuccess   RunStatus = "success"
	StatusPartial   RunStatus = "partial"
	StatusFailed    RunStatus = "failed"
	StatusCancelled RunStatus = "cancelled"
)

// SystemExecutor is recorded for runs triggered by the scheduler rather than an operator.
const SystemExecutor = "system"

type CleanupResult struct {
	RunId            string         `json:"runId"`
	Status           RunStatus      `json:"status"`
	DryRun           bool           `json:"dryRun"`
	RecordsProcessed int            `json:"recordsProcessed"`
	RecordsArchived  int            `json:"recordsArchived"`
	RecordsDeleted   int            `json:"recordsDeleted"`
	ExecutionTimeMs  int64          `json:"executionTimeMs"`
	BreakdownByType  map[string]int `json:"breakdownByType"`
	BreakdownByRisk  map[string]int `json:"breakdownByRisk"`
	Errors           []string       `json:"errors"`
}

type ManualCleanupReq struct {
	DateFrom     *time.Time `json:"dateFrom"`
	DateTo       *time.Time `json:"dateTo" validate:"required"`
	ActivityType string     `json:"activityType"`
	Module       string     `json:"module"`
	RiskLevelMin *int       `json:"riskLevelMin"`
	RiskLevelMax *int       `json:"riskLevelMax"`
	Action       string     `json:"action" validate:"required,oneof=archive delete"`
	DryRun       bool       `json:"dryRun"`
}

type CleanupRun struct {
	RunId            string     `json:"runId"`
	RunType          RunType    `json:"runType"`
	PolicyId         string     `json:"policyId,omitempty"`
	Action           string     `json:"action,omitempty"`
	DryRun           bool       `json:"dryRun"`
	StartedAt        time.Time  `json:"startedAt"`
	FinishedAt       *time.Time `json:"finishedAt,omitempty"`
	Status           RunStatus  `json:"status"`
	Executor         string     `json:"executor"`
	RecordsProcessed int        `json:"recordsProcessed"`
	RecordsArchived  int        `json:"recordsArchived"`
	RecordsDeleted   int        `json:"recordsDeleted"`
	ExecutionTimeMs  int64      `json:"executionTimeMs"`
	Errors           []string   `json:"errors,omitempty"`
}

type CleanupRuns struct {
	Runs []CleanupRun `json:"runs"`
}

type CleanupRunFilter struct {
	RunType  RunType
	Status   RunStatus
	PolicyId string
	Since    *time.Time
}

type AsyncRunStartedResponse struct {
	RunId string `json:"runId"`
}
