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

// ArchivedActivityEntity is a write-once copy of an activity log record.
// Rows are never updated; purging archived data is a separate deliberate operation
// that is not exposed through the repositories.
type ArchivedActivityEntity struct {
	tableName struct{} `pg:"archived_activity_log, alias:archived_activity_log"`

	Id              string                 `pg:"id, pk, type:varchar"`
	CreatedAt       time.Time              `pg:"created_at, type:timestamp without time zone"`
	ActivityType    string                 `pg:"activity_type, type:varchar"`
	Module          string                 `pg:"module, type:varchar"`
	RiskLevel       int                    `pg:"risk_level, type:integer, use_zero"`
	IsSecurityEvent bool                   `pg:"is_security_event, type:bool, use_zero"`
	UserId          string                 `pg:"user_id, type:varchar"`
	Properties      map[string]interface{} `pg:"properties, type:jsonb"`
	ArchivedAt      time.Time              `pg:"archived_at, type:timestamp without time zone"`
	PolicyId        string                 `pg:"policy_id, type:varchar"`
}

func MakeArchivedActivityEntity(record ActivityLogEntity, policyId string, archivedAt time.Time) ArchivedActivityEntity {
	return ArchivedActivityEntity{
		Id:              record.Id,
		CreatedAt:       record.CreatedAt,
		ActivityType:    record.ActivityType,
		Module:          record.Module,
		RiskLevel:       record.RiskLevel,
		IsSecurityEvent: record.IsSecurityEvent,
		UserId:          record.UserId,
		Properties:      record.Properties,
		ArchivedAt:      archivedAt,
		PolicyId:        policyId,
	}
}

func MakeArchivedRecordView(ent ArchivedActivityEntity) view.ArchivedRecord {
	return view.ArchivedRecord{
		ActivityLogRecord: view.ActivityLogRecord{
			Id:              ent.Id,
			CreatedAt:       ent.CreatedAt,
			ActivityType:    ent.ActivityType,
			Module:          ent.Module,
			RiskLevel:       ent.RiskLevel,
			IsSecurityEvent: ent.IsSecurityEvent,
			UserId:          ent.UserId,
			Properties:      ent.Properties,
		},
		ArchivedAt: ent.ArchivedAt,
		PolicyId:   ent.PolicyId,
	}
}
