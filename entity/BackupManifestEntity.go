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

// BackupManifestEntity is immutable once written: the checksum is computed over the
// plaintext canonical payload before compression and encryption.
type BackupManifestEntity struct {
	tableName struct{} `pg:"backup_manifest, alias:backup_manifest"`

	Filename            string    `pg:"filename, pk, type:varchar"`
	CreatedAt           time.Time `pg:"created_at, type:timestamp without time zone"`
	CreatedBy           string    `pg:"created_by, type:varchar"`
	Checksum            string    `pg:"checksum, type:varchar"`
	SizeBytes           int64     `pg:"size_bytes, type:bigint, use_zero"`
	RecordCount         int       `pg:"record_count, type:integer, use_zero"`
	DateFrom            time.Time `pg:"date_from, type:timestamp without time zone"`
	DateTo              time.Time `pg:"date_to, type:timestamp without time zone"`
	EncryptionAlgorithm string    `pg:"encryption_algorithm, type:varchar"`
	CompressionRatio    float64   `pg:"compression_ratio, type:double precision, use_zero"`
}

func MakeBackupManifestView(ent BackupManifestEntity) view.BackupManifest {
	return view.BackupManifest{
		Filename:            ent.Filename,
		CreatedAt:           ent.CreatedAt,
		CreatedBy:           ent.CreatedBy,
		Checksum:            ent.Checksum,
		SizeBytes:           ent.SizeBytes,
		RecordCount:         ent.RecordCount,
		DateFrom:            ent.DateFrom,
		DateTo:              ent.DateTo,
		EncryptionAlgorithm: ent.EncryptionAlgorithm,
		CompressionRatio:    ent.CompressionRatio,
	}
}
