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

type RetentionAction string

const (
	ActionArchive RetentionAction = "archive"
	ActionDelete  RetentionAction = "delete"
)

const (
	MinRetentionDays = 1
	MaxRetentionDays = 3650
)

// ManualPolicyId marks archived records produced by ad-hoc cleanup rather than a stored policy.
const ManualPolicyId = "manual"

func ValidRetentionAction(action string) bool {
	switch RetentionAction(action) {
	case ActionArchive, ActionDelete:
		return true
	}
	return false
}

type RetentionPolicy struct {
	Id             string          `json:"id"`
	Name           string          `json:"name"`
	ActivityType   string          `json:"activityType,omitempty"`
	Module         string          `json:"module,omitempty"`
	RetentionDays  int             `json:"retentionDays"`
	Action         RetentionAction `json:"action"`
	Priority       int             `json:"priority"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	LastExecutedAt *time.Time      `json:"lastExecutedAt,omitempty"`
}

type RetentionPolicies struct {
	Policies []RetentionPolicy `json:"policies"`
}

type RetentionPolicyReq struct {
	Name          string `json:"name" validate:"required"`
	ActivityType  string `json:"activityType"`
	Module        string `json:"module"`
	RetentionDays int    `json:"retentionDays" validate:"gte=1,lte=3650"`
	Action        string `json:"action" validate:"required,oneof=archive delete"`
	Priority      int    `json:"priority"`
	IsActive      bool   `json:"isActive"`
}

type PolicyPreview struct {
	PolicyId           string         `json:"policyId"`
	TotalRecords       int            `json:"totalRecords"`
	EstimatedSizeBytes int64          `json:"estimatedSizeBytes"`
	DateRange          *DateRange     `json:"dateRange,omitempty"`
	BreakdownByType    map[string]int `json:"breakdownByType"`
	BreakdownByRisk    map[string]int `json:"breakdownByRisk"`
}

type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}
