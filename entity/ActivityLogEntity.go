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
)

type ActivityLogEntity struct {
	tableName struct{} `pg:"activity_log, alias:activity_log"`

	Id              string                 `pg:"id, pk, type:varchar"`
	CreatedAt       time.Time              `pg:"created_at, type:timestamp without time zone"`
	ActivityType    string                 `pg:"activity_type, type:varchar"`
	Module          string                 `pg:"module, type:varchar"`
	RiskLevel       int                    `pg:"risk_level, type:integer, use_zero"`
	IsSecurityEvent bool                   `pg:"is_security_event, type:bool, use_zero"`
	UserId          string                 `pg:"user_id, type:varchar"`
	Properties      map[string]interface{} `pg:"properties, type:jsonb"`
}
