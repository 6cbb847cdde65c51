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

package entity

import (
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

// CleanupRunEntity is the append-only execution ledger. Rows transition from
// 'running' to a terminal status exactly once and are never edited afterwards.
type CleanupRunEntity struct {
	tableName struct{} `pg:"retention_run, alias:retention_run"`

	RunId            string        `pg:"run_id, pk, type:uuid"`
	RunType          string        `pg:"run_type, type:varchar"`
	PolicyId         string        `pg:"policy_id, type:varchar"`
	Action           string        `pg:"action, type:varchar"`
	DryRun           bool          `pg:"dry_run, type:bool, use_zero"`
	StartedAt        time.Time     `pg:"started_at, type:timestamp without time zone"`
	FinishedAt       *time.Time    `pg:"finished_at, type:timestamp without time zone"`
	Status           string        `pg:"status, type:varchar"`
	Executor         string        `pg:"executor, type:varchar"`
	RecordsProcessed int           `pg:"records_processed, type:integer, use_zero"`
	RecordsArchived  int           `pg:"records_archived, type:integer, use_zero"`
	RecordsDeleted   int           `pg:"records_deleted, type:integer, use_zero"`
	ExecutionTimeMs  int64         `pg:"execution_time_ms, type:bigint, use_zero"`
	Errors           []string      `pg:"errors, type:jsonb"`
	Breakdown        *RunBreakdown `pg:"breakdown, type:jsonb"`
	InstanceId       string        `pg:"instance_id, type:varchar"`
}

type RunBreakdown struct {
	ByType map[string]int `json:"byType"`
	ByRisk map[string]int `json:"byRisk"`
}

func MakeCleanupRunView(ent CleanupRunEntity) view.CleanupRun {
	return view.CleanupRun{
		RunId:            ent.RunId,
		RunType:          view.RunType(ent.RunType),
		PolicyId:         ent.PolicyId,
		Action:           ent.Action,
		DryRun:           ent.DryRun,
		StartedAt:        ent.StartedAt,
		FinishedAt:       ent.FinishedAt,
		Status:           view.RunStatus(ent.Status),
		Executor:         ent.Executor,
		RecordsProcessed: ent.RecordsProcessed,
		RecordsArchived:  ent.RecordsArchived,
		RecordsDeleted:   ent.RecordsDeleted,
		ExecutionTimeMs:  ent.ExecutionTimeMs,
		Errors:           ent.Errors,
	}
}
