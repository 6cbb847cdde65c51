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

type PolicyStatistics struct {
	PolicyId           string `json:"policyId"`
	Name               string `json:"name"`
	IsActive           bool   `json:"isActive"`
	ApplicableRecords  int    `json:"applicableRecords"`
	EstimatedSizeBytes int64  `json:"estimatedSizeBytes"`
}

type RunAggregates struct {
	CleanupRuns     int `json:"cleanupRuns"`
	BackupRuns      int `json:"backupRuns"`
	RestoreRuns     int `json:"restoreRuns"`
	FailedRuns      int `json:"failedRuns"`
	RecordsArchived int `json:"recordsArchived"`
	RecordsDeleted  int `json:"recordsDeleted"`
}

type RetentionStatistics struct {
	Policies   []PolicyStatistics `json:"policies"`
	Last30Days RunAggregates      `json:"last30Days"`
}
