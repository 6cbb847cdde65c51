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
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestRecords(count int) []BackupRecord {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	records := make([]BackupRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, BackupRecord{
			Id:              fmt.Sprintf("record-%03d", i),
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
			ActivityType:    "login",
			Module:          "auth",
			RiskLevel:       i % 5,
			IsSecurityEvent: i%2 == 0,
			UserId:          fmt.Sprintf("user-%d", i),
			Properties:      map[string]interface{}{"ip": "10.0.0.1", "session": fmt.Sprintf("s-%d", i)},
		})
	}
	return records
}

func writePayload(t *testing.T, records []BackupRecord) (compressed []byte, checksum string, originalSize int64) {
	writer := NewPayloadWriter()
	for _, record := range records {
		require.NoError(t, writer.WriteRecord(record))
	}
	compressed, checksum, originalSize, err := writer.Close()
	require.NoError(t, err)
	return compressed, checksum, originalSize
}

func TestPayloadChecksumIsStable(t *testing.T) {
	records := makeTestRecords(10)

	_, first, firstSize := writePayload(t, records)
	_, second, secondSize := writePayload(t, records)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSize, secondSize)
}

func TestComputeChecksumMatchesWriter(t *testing.T) {
	records := makeTestRecords(25)
	compressed, checksum, originalSize := writePayload(t, records)

	assert.Less(t, int64(len(compressed)), originalSize)

	recomputed, recordCount, err := ComputeChecksum(compressed)
	require.NoError(t, err)
	assert.Equal(t, checksum, recomputed)
	assert.Equal(t, len(records), recordCount)
}

func TestReadRecordsBatches(t *testing.T) {
	records := makeTestRecords(7)
	compressed, _, _ := writePayload(t, records)

	var batchSizes []int
	var restored []BackupRecord
	err := ReadRecords(compressed, 3, func(batch []BackupRecord) error {
		batchSizes = append(batchSizes, len(batch))
		restored = append(restored, batch...)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 3, 1}, batchSizes)
	require.Len(t, restored, len(records))
	for i, record := range records {
		assert.Equal(t, record.Id, restored[i].Id)
		assert.Equal(t, record.ActivityType, restored[i].ActivityType)
		assert.Equal(t, record.RiskLevel, restored[i].RiskLevel)
		assert.True(t, record.CreatedAt.Equal(restored[i].CreatedAt))
	}
}

func TestReadRecordsPropagatesHandlerError(t *testing.T) {
	compressed, _, _ := writePayload(t, makeTestRecords(5))

	calls := 0
	err := ReadRecords(compressed, 2, func(batch []BackupRecord) error {
		calls++
		return fmt.Errorf("import failed")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestReadRecordsRejectsGarbage(t *testing.T) {
	err := ReadRecords([]byte("not a gzip stream"), 10, func(batch []BackupRecord) error {
		return nil
	})
	assert.Error(t, err)
}

func TestWriteAfterCloseFails(t *testing.T) {
	writer := NewPayloadWriter()
	require.NoError(t, writer.WriteRecord(makeTestRecords(1)[0]))
	_, _, _, err := writer.Close()
	require.NoError(t, err)

	assert.Error(t, writer.WriteRecord(makeTestRecords(1)[0]))
	_, _, _, err = writer.Close()
	assert.Error(t, err)
}

func TestRecordCount(t *testing.T) {
	writer := NewPayloadWriter()
	assert.Equal(t, 0, writer.RecordCount())
	for _, record := range makeTestRecords(4) {
		require.NoError(t, writer.WriteRecord(record))
	}
	assert.Equal(t, 4, writer.RecordCount())
}
