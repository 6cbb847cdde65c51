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
	"github.com/google/uuid"
)

type RetentionPolicyEntity struct {
	tableName struct{} `pg:"retention_policy, alias:retention_policy"`

	Id             string     `pg:"id, pk, type:varchar"`
	Name           string     `pg:"name, type:varchar"`
	ActivityType   string     `pg:"activity_type, type:varchar"` // empty = wildcard
	Module         string     `pg:"module, type:varchar"`        // empty = wildcard
	RetentionDays  int        `pg:"retention_days, type:integer"`
	Action         string     `pg:"action, type:varchar"`
	Priority       int        `pg:"priority, type:integer, use_zero"`
	IsActive       bool       `pg:"is_active, type:bool, use_zero"`
	CreatedAt      time.Time  `pg:"created_at, type:timestamp without time zone"`
	LastExecutedAt *time.Time `pg:"last_executed_at, type:timestamp without time zone"`
}

func MakeRetentionPolicyEntity(req view.RetentionPolicyReq) RetentionPolicyEntity {
	return RetentionPolicyEntity{
		Id:            uuid.New().String(),
		Name:          req.Name,
		ActivityType:  req.ActivityType,
		Module:        req.Module,
		RetentionDays: req.RetentionDays,
		Action:        req.Action,
		Priority:      req.Priority,
		IsActive:      req.IsActive,
		CreatedAt:     time.Now(),
	}
}

func MakeRetentionPolicyView(ent RetentionPolicyEntity) view.RetentionPolicy {
	return view.RetentionPolicy{
		Id:             ent.Id,
		Name:           ent.Name,
		ActivityType:   ent.ActivityType,
		Module:         ent.Module,
		RetentionDays:  ent.RetentionDays,
		Action:         view.RetentionAction(ent.Action),
		Priority:       ent.Priority,
		IsActive:       ent.IsActive,
		CreatedAt:      ent.CreatedAt,
		LastExecutedAt: ent.LastExecutedAt,
	}
}
