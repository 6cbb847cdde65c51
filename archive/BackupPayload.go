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

package archive

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/crypto"
)

// maxRecordLineSize bounds a single serialized record, not the whole payload.
const maxRecordLineSize = 16 * 1024 * 1024

// BackupRecord is the canonical wire form of one activity log record inside a
// backup payload. Field order is fixed and map keys are sorted by the JSON
// encoder, so serializing the same record always produces the same bytes.
type BackupRecord struct {
	Id              string                 `json:"id"`
	CreatedAt       time.Time              `json:"createdAt"`
	ActivityType    string                 `json:"activityType"`
	Module          string                 `json:"module"`
	RiskLevel       int                    `json:"riskLevel"`
	IsSecurityEvent bool                   `json:"isSecurityEvent"`
	UserId          string                 `json:"userId"`
	Properties      map[string]interface{} `json:"properties,omitempty"`
	Archived        bool                   `json:"archived,omitempty"`
	PolicyId        string                 `json:"policyId,omitempty"`
	ArchivedAt      *time.Time             `json:"archivedAt,omitempty"`
}

// PayloadWriter serializes records as newline-delimited JSON, hashing the
// plaintext stream while compressing it. The checksum therefore describes the
// canonical payload regardless of compression or encryption applied downstream.
type PayloadWriter struct {
	buf          bytes.Buffer
	gz           *gzip.Writer
	hash         hash.Hash
	plaintext    io.Writer
	originalSize int64
	recordCount  int
	closed       bool
}

func NewPayloadWriter() *PayloadWriter {
	w := &PayloadWriter{hash: crypto.NewChecksumHash()}
	w.gz = gzip.NewWriter(&w.buf)
	w.plaintext = io.MultiWriter(w.hash, w.gz)
	return w
}

func (w *PayloadWriter) WriteRecord(record BackupRecord) error {
	if w.closed {
		return fmt.Errorf("payload writer is already closed")
	}
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize record %s: %w", record.Id, err)
	}
	line = append(line, '\n')
	if _, err := w.plaintext.Write(line); err != nil {
		return err
	}
	w.originalSize += int64(len(line))
	w.recordCount++
	return nil
}

func (w *PayloadWriter) RecordCount() int {
	return w.recordCount
}

// Close finishes compression and returns the compressed payload together with
// the plaintext checksum and the uncompressed size.
func (w *PayloadWriter) Close() (compressed []byte, checksum string, originalSize int64, err error) {
	if w.closed {
		return nil, "", 0, fmt.Errorf("payload writer is already closed")
	}
	w.closed = true
	if err := w.gz.Close(); err != nil {
		return nil, "", 0, fmt.Errorf("failed to finish compression: %w", err)
	}
	return w.buf.Bytes(), crypto.EncodeChecksum(w.hash), w.originalSize, nil
}

// ComputeChecksum decompresses a payload and recomputes the plaintext checksum,
// returning the contained record count as well. Nothing is deserialized.
func ComputeChecksum(compressed []byte) (string, int, error) {
	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open compressed payload: %w", err)
	}
	defer gz.Close()

	h := crypto.NewChecksumHash()
	recordCount := 0
	scanner := bufio.NewScanner(io.TeeReader(gz, h))
	scanner.Buffer(make([]byte, 64*1024), maxRecordLineSize)
	for scanner.Scan() {
		recordCount++
	}
	if err := scanner.Err(); err != nil {
		return "", 0, fmt.Errorf("failed to read payload: %w", err)
	}
	return crypto.EncodeChecksum(h), recordCount, nil
}

// ReadRecords streams a decompressed payload in batches of batchSize. The
// handler is invoked for every full batch and once more for the remainder.
func ReadRecords(compressed []byte, batchSize int, handler func(batch []BackupRecord) error) error {
	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("failed to open compressed payload: %w", err)
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), maxRecordLineSize)

	batch := make([]BackupRecord, 0, batchSize)
	for scanner.Scan() {
		var record BackupRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return fmt.Errorf("failed to deserialize record: %w", err)
		}
		batch = append(batch, record)
		if len(batch) == batchSize {
			if err := handler(batch); err != nil {
				return err
			}
			batch = make([]BackupRecord, 0, batchSize)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}
	if len(batch) > 0 {
		return handler(batch)
	}
	return nil
}
