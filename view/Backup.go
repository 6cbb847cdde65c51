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

// BackupArtifactExtension is the file extension convention for encrypted backup artifacts.
const BackupArtifactExtension = ".encrypted"

type BackupManifest struct {
	Filename            string    `json:"filename"`
	CreatedAt           time.Time `json:"createdAt"`
	CreatedBy           string    `json:"createdBy"`
	Checksum            string    `json:"checksum"`
	SizeBytes           int64     `json:"sizeBytes"`
	RecordCount         int       `json:"recordCount"`
	DateFrom            time.Time `json:"dateFrom"`
	DateTo              time.Time `json:"dateTo"`
	EncryptionAlgorithm string    `json:"encryptionAlgorithm"`
	CompressionRatio    float64   `json:"compressionRatio"`
}

type BackupManifests struct {
	Backups []BackupManifest `json:"backups"`
}

// BackupResult is the outcome of a backup run. An empty range yields
// NothingToBackup with a nil Manifest; no artifact is produced in that case.
type BackupResult struct {
	NothingToBackup bool            `json:"nothingToBackup"`
	RecordCount     int             `json:"recordCount"`
	Manifest        *BackupManifest `json:"manifest,omitempty"`
}

type CreateBackupReq struct {
	DateFrom        time.Time `json:"dateFrom" validate:"required"`
	DateTo          time.Time `json:"dateTo" validate:"required"`
	IncludeArchived bool      `json:"includeArchived"`
}

type BackupEstimate struct {
	RecordCount        int        `json:"recordCount"`
	EstimatedSizeBytes int64      `json:"estimatedSizeBytes"`
	DateRange          *DateRange `json:"dateRange,omitempty"`
}

type BackupVerification struct {
	Filename           string `json:"filename"`
	Valid              bool   `json:"valid"`
	ManifestChecksum   string `json:"manifestChecksum"`
	RecomputedChecksum string `json:"recomputedChecksum"`
}

type RestoreReq struct {
	Filename          string `json:"filename" validate:"required"`
	ReplaceExisting   bool   `json:"replaceExisting"`
	ValidateIntegrity bool   `json:"validateIntegrity"`
}

type RestoreResult struct {
	RunId         string    `json:"runId"`
	Status        RunStatus `json:"status"`
	TotalRecords  int       `json:"totalRecords"`
	ImportedCount int       `json:"importedCount"`
	SkippedCount  int       `json:"skippedCount"`
	Errors        []string  `json:"errors"`
}

type BackupsCleanupResult struct {
	DeletedCount     int      `json:"deletedCount"`
	DeletedSizeBytes int64    `json:"deletedSizeBytes"`
	Errors           []string `json:"errors"`
}
