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

const (
	MinRiskLevel = 0
	MaxRiskLevel = 10
)

type ActivityLogRecord struct {
	Id              string                 `json:"id"`
	CreatedAt       time.Time              `json:"createdAt"`
	ActivityType    string                 `json:"activityType"`
	Module          string                 `json:"module"`
	RiskLevel       int                    `json:"riskLevel"`
	IsSecurityEvent bool                   `json:"isSecurityEvent"`
	UserId          string                 `json:"userId"`
	Properties      map[string]interface{} `json:"properties,omitempty"`
}

// RecordFilter narrows the activity log population for cleanup, preview and backup queries.
// Empty string fields and nil bounds act as wildcards.
type RecordFilter struct {
	DateFrom     *time.Time
	DateTo       *time.Time
	ActivityType string
	Module       string
	RiskLevelMin *int
	RiskLevelMax *int
	// ExcludeScopes removes records claimed by higher precedence policies.
	ExcludeScopes []RecordScope
}

// RecordScope is a (type, module) matching pattern, empty fields match anything.
type RecordScope struct {
	ActivityType string
	Module       string
}

type ArchivedRecord struct {
	ActivityLogRecord
	ArchivedAt time.Time `json:"archivedAt"`
	PolicyId   string    `json:"policyId"`
}

type ArchivedRecords struct {
	Records []ArchivedRecord `json:"records"`
}
