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

package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/config"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/crypto"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/exception"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/repository"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordMatches(createdAt time.Time, activityType string, module string, riskLevel int, filter view.RecordFilter) bool {
	if filter.DateFrom != nil && createdAt.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && !createdAt.Before(*filter.DateTo) {
		return false
	}
	if filter.ActivityType != "" && activityType != filter.ActivityType {
		return false
	}
	if filter.Module != "" && module != filter.Module {
		return false
	}
	if filter.RiskLevelMin != nil && riskLevel < *filter.RiskLevelMin {
		return false
	}
	if filter.RiskLevelMax != nil && riskLevel > *filter.RiskLevelMax {
		return false
	}
	for _, scope := range filter.ExcludeScopes {
		typeMatches := scope.ActivityType == "" || scope.ActivityType == activityType
		moduleMatches := scope.Module == "" || scope.Module == module
		if typeMatches && moduleMatches {
			return false
		}
	}
	return true
}

type fakeActivityLogRepository struct {
	mutex   sync.Mutex
	records []entity.ActivityLogEntity
}

func (f *fakeActivityLogRepository) matching(filter view.RecordFilter) []entity.ActivityLogEntity {
	var result []entity.ActivityLogEntity
	for _, record := range f.records {
		if recordMatches(record.CreatedAt, record.ActivityType, record.Module, record.RiskLevel, filter) {
			result = append(result, record)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Id < result[j].Id
	})
	return result
}

func (f *fakeActivityLogRepository) GetBatch(ctx context.Context, filter view.RecordFilter, after *repository.RecordCursor, limit int) ([]entity.ActivityLogEntity, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	var batch []entity.ActivityLogEntity
	for _, record := range f.matching(filter) {
		if after != nil {
			if record.CreatedAt.Before(after.CreatedAt) {
				continue
			}
			if record.CreatedAt.Equal(after.CreatedAt) && record.Id <= after.Id {
				continue
			}
		}
		batch = append(batch, record)
		if len(batch) == limit {
			break
		}
	}
	return batch, nil
}

func (f *fakeActivityLogRepository) Count(filter view.RecordFilter) (int, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.matching(filter)), nil
}

func (f *fakeActivityLogRepository) EstimateSize(filter view.RecordFilter) (int64, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return int64(len(f.matching(filter)) * 100), nil
}

func (f *fakeActivityLogRepository) GetDateRange(filter view.RecordFilter) (*view.DateRange, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	matching := f.matching(filter)
	if len(matching) == 0 {
		return nil, nil
	}
	return &view.DateRange{From: matching[0].CreatedAt, To: matching[len(matching)-1].CreatedAt}, nil
}

func (f *fakeActivityLogRepository) GetBreakdownByType(filter view.RecordFilter) (map[string]int, error) {
	breakdown := map[string]int{}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, record := range f.matching(filter) {
		breakdown[record.ActivityType]++
	}
	return breakdown, nil
}

func (f *fakeActivityLogRepository) GetBreakdownByRisk(filter view.RecordFilter) (map[string]int, error) {
	breakdown := map[string]int{}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, record := range f.matching(filter) {
		breakdown[fmt.Sprintf("%d", record.RiskLevel)]++
	}
	return breakdown, nil
}

func (f *fakeActivityLogRepository) ArchiveAndDeleteBatch(ctx context.Context, records []entity.ActivityLogEntity, policyId string) (int, error) {
	return 0, errors.New("not used in backup tests")
}

func (f *fakeActivityLogRepository) DeleteBatch(ctx context.Context, ids []string) (int, error) {
	return 0, errors.New("not used in backup tests")
}

func (f *fakeActivityLogRepository) ImportBatch(ctx context.Context, records []entity.ActivityLogEntity, replaceExisting bool) (int, int, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	imported := 0
	for _, record := range records {
		exists := false
		for i := range f.records {
			if f.records[i].Id == record.Id {
				exists = true
				if replaceExisting {
					f.records[i] = record
				}
				break
			}
		}
		if exists && !replaceExisting {
			continue
		}
		if !exists {
			f.records = append(f.records, record)
		}
		imported++
	}
	return imported, len(records) - imported, nil
}

type fakeArchiveRepository struct {
	mutex   sync.Mutex
	records []entity.ArchivedActivityEntity
}

func (f *fakeArchiveRepository) matching(filter view.RecordFilter) []entity.ArchivedActivityEntity {
	var result []entity.ArchivedActivityEntity
	for _, record := range f.records {
		if recordMatches(record.CreatedAt, record.ActivityType, record.Module, record.RiskLevel, filter) {
			result = append(result, record)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Id < result[j].Id
	})
	return result
}

func (f *fakeArchiveRepository) StoreBatch(ctx context.Context, records []entity.ArchivedActivityEntity) (int, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	stored := 0
	for _, record := range records {
		exists := false
		for i := range f.records {
			if f.records[i].Id == record.Id {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		f.records = append(f.records, record)
		stored++
	}
	return stored, nil
}

func (f *fakeArchiveRepository) GetBatch(ctx context.Context, filter view.RecordFilter, after *repository.RecordCursor, limit int) ([]entity.ArchivedActivityEntity, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	var batch []entity.ArchivedActivityEntity
	for _, record := range f.matching(filter) {
		if after != nil {
			if record.CreatedAt.Before(after.CreatedAt) {
				continue
			}
			if record.CreatedAt.Equal(after.CreatedAt) && record.Id <= after.Id {
				continue
			}
		}
		batch = append(batch, record)
		if len(batch) == limit {
			break
		}
	}
	return batch, nil
}

func (f *fakeArchiveRepository) GetArchivedRecords(filter view.RecordFilter, limit int, page int) ([]entity.ArchivedActivityEntity, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.matching(filter), nil
}

func (f *fakeArchiveRepository) Count(filter view.RecordFilter) (int, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.matching(filter)), nil
}

type fakeManifestRepository struct {
	mutex             sync.Mutex
	manifests         map[string]entity.BackupManifestEntity
	failListOlderThan bool
}

func (f *fakeManifestRepository) StoreManifest(ctx context.Context, ent entity.BackupManifestEntity) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.manifests == nil {
		f.manifests = map[string]entity.BackupManifestEntity{}
	}
	f.manifests[ent.Filename] = ent
	return nil
}

func (f *fakeManifestRepository) GetManifest(filename string) (*entity.BackupManifestEntity, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	manifest, exists := f.manifests[filename]
	if !exists {
		return nil, nil
	}
	return &manifest, nil
}

func (f *fakeManifestRepository) GetManifests() ([]entity.BackupManifestEntity, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	var result []entity.BackupManifestEntity
	for _, manifest := range f.manifests {
		result = append(result, manifest)
	}
	return result, nil
}

func (f *fakeManifestRepository) GetManifestsOlderThan(cutoff time.Time) ([]entity.BackupManifestEntity, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.failListOlderThan {
		return nil, errors.New("manifest store unavailable")
	}
	var result []entity.BackupManifestEntity
	for _, manifest := range f.manifests {
		if manifest.CreatedAt.Before(cutoff) {
			result = append(result, manifest)
		}
	}
	return result, nil
}

func (f *fakeManifestRepository) DeleteManifest(ctx context.Context, filename string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	delete(f.manifests, filename)
	return nil
}

type fakeRunRepository struct {
	mutex sync.Mutex
	runs  map[string]entity.CleanupRunEntity
}

func (f *fakeRunRepository) StoreRun(ctx context.Context, ent entity.CleanupRunEntity) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.runs == nil {
		f.runs = map[string]entity.CleanupRunEntity{}
	}
	f.runs[ent.RunId] = ent
	return nil
}

func (f *fakeRunRepository) FinishRun(ctx context.Context, ent entity.CleanupRunEntity) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	stored, exists := f.runs[ent.RunId]
	if !exists || stored.Status != string(view.StatusRunning) {
		return nil
	}
	f.runs[ent.RunId] = ent
	return nil
}

func (f *fakeRunRepository) GetRun(runId string) (*entity.CleanupRunEntity, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	run, exists := f.runs[runId]
	if !exists {
		return nil, nil
	}
	return &run, nil
}

func (f *fakeRunRepository) GetRuns(filter view.CleanupRunFilter, limit int, page int) ([]entity.CleanupRunEntity, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	var result []entity.CleanupRunEntity
	for _, run := range f.runs {
		result = append(result, run)
	}
	return result, nil
}

func (f *fakeRunRepository) GetRunsSince(since time.Time) ([]entity.CleanupRunEntity, error) {
	return f.GetRuns(view.CleanupRunFilter{}, 0, 0)
}

func (f *fakeRunRepository) findByType(runType view.RunType) *entity.CleanupRunEntity {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, run := range f.runs {
		if run.RunType == string(runType) {
			result := run
			return &result
		}
	}
	return nil
}

type fakeLockService struct{}

func (f fakeLockService) TryAcquireLock(name string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (f fakeLockService) ReleaseLock(name string) {}

type backupFixture struct {
	activityLogRepo *fakeActivityLogRepository
	archiveRepo     *fakeArchiveRepository
	manifestRepo    *fakeManifestRepository
	runRepo         *fakeRunRepository
	storage         BackupStorageService
	directory       string
	payloadCipher   crypto.PayloadCipher
	backupService   BackupService
	restoreService  RestoreService
}

func makeBackupFixture(t *testing.T) *backupFixture {
	directory := t.TempDir()
	storage, err := NewBackupStorageService(config.BackupConfig{Directory: directory}, config.S3Config{})
	require.NoError(t, err)
	payloadCipher, err := crypto.NewPayloadCipher("test-secret-0123456789")
	require.NoError(t, err)

	fixture := &backupFixture{
		activityLogRepo: &fakeActivityLogRepository{},
		archiveRepo:     &fakeArchiveRepository{},
		manifestRepo:    &fakeManifestRepository{},
		runRepo:         &fakeRunRepository{},
		storage:         storage,
		directory:       directory,
		payloadCipher:   payloadCipher,
	}
	fixture.backupService = NewBackupService(fixture.activityLogRepo, fixture.archiveRepo, fixture.manifestRepo,
		fixture.runRepo, storage, fakeLockService{}, payloadCipher, "test-instance", 2)
	fixture.restoreService = NewRestoreService(fixture.activityLogRepo, fixture.archiveRepo, fixture.manifestRepo,
		fixture.runRepo, storage, payloadCipher, "test-instance", 2)
	return fixture
}

func (f *backupFixture) seedRecords(count int) {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		f.activityLogRepo.records = append(f.activityLogRepo.records, entity.ActivityLogEntity{
			Id:              fmt.Sprintf("record-%03d", i),
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
			ActivityType:    "login",
			Module:          "auth",
			RiskLevel:       i % 5,
			IsSecurityEvent: i%2 == 0,
			UserId:          fmt.Sprintf("user-%d", i),
			Properties:      map[string]interface{}{"ip": "10.0.0.1"},
		})
	}
}

func backupRange() (time.Time, time.Time) {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

func (f *backupFixture) mustCreateBackup(t *testing.T, req view.CreateBackupReq) view.BackupManifest {
	t.Helper()
	result, err := f.backupService.CreateBackup(req, "tester")
	require.NoError(t, err)
	require.False(t, result.NothingToBackup)
	require.NotNil(t, result.Manifest)
	return *result.Manifest
}

func TestCreateBackupStoresEncryptedArtifactAndManifest(t *testing.T) {
	fixture := makeBackupFixture(t)
	fixture.seedRecords(5)
	dateFrom, dateTo := backupRange()

	manifest := fixture.mustCreateBackup(t, view.CreateBackupReq{DateFrom: dateFrom, DateTo: dateTo})

	assert.Equal(t, 5, manifest.RecordCount)
	assert.Equal(t, "tester", manifest.CreatedBy)
	assert.Equal(t, crypto.EncryptionAlgorithm, manifest.EncryptionAlgorithm)
	assert.NotEmpty(t, manifest.Checksum)
	assert.Contains(t, manifest.Filename, view.BackupArtifactExtension)

	data, err := os.ReadFile(filepath.Join(fixture.directory, manifest.Filename))
	require.NoError(t, err)
	assert.Equal(t, manifest.SizeBytes, int64(len(data)))
	// the artifact must not leak record contents
	assert.NotContains(t, string(data), "record-000")
	assert.NotContains(t, string(data), "user-0")

	// the ratio describes compression only, not the encryption framing overhead
	compressed, err := fixture.payloadCipher.Decrypt(data)
	require.NoError(t, err)
	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	plaintext, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.InDelta(t, float64(len(compressed))/float64(len(plaintext)), manifest.CompressionRatio, 1e-9)

	run := fixture.runRepo.findByType(view.RunTypeBackup)
	require.NotNil(t, run)
	assert.Equal(t, string(view.StatusSuccess), run.Status)
	assert.Equal(t, 5, run.RecordsProcessed)
}

func TestCreateBackupRejectsInvalidRange(t *testing.T) {
	fixture := makeBackupFixture(t)
	dateFrom, _ := backupRange()

	_, err := fixture.backupService.CreateBackup(view.CreateBackupReq{DateFrom: dateFrom, DateTo: dateFrom}, "tester")
	var customError *exception.CustomError
	require.True(t, errors.As(err, &customError))
	assert.Equal(t, exception.InvalidDateRange, customError.Code)
}

func TestCreateBackupWithNoMatchingRecords(t *testing.T) {
	fixture := makeBackupFixture(t)
	dateFrom, dateTo := backupRange()

	result, err := fixture.backupService.CreateBackup(view.CreateBackupReq{DateFrom: dateFrom, DateTo: dateTo}, "tester")
	require.NoError(t, err)

	assert.True(t, result.NothingToBackup)
	assert.Equal(t, 0, result.RecordCount)
	assert.Nil(t, result.Manifest)

	// no artifact is published for an empty range
	entries, err := os.ReadDir(fixture.directory)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// an empty range is not a failure in the ledger
	run := fixture.runRepo.findByType(view.RunTypeBackup)
	require.NotNil(t, run)
	assert.Equal(t, string(view.StatusSuccess), run.Status)
	assert.Equal(t, 0, run.RecordsProcessed)
}

func TestVerifyBackup(t *testing.T) {
	fixture := makeBackupFixture(t)
	fixture.seedRecords(3)
	dateFrom, dateTo := backupRange()

	manifest := fixture.mustCreateBackup(t, view.CreateBackupReq{DateFrom: dateFrom, DateTo: dateTo})

	verification, err := fixture.backupService.VerifyBackup(manifest.Filename)
	require.NoError(t, err)
	assert.True(t, verification.Valid)
	assert.Equal(t, manifest.Checksum, verification.ManifestChecksum)
	assert.Equal(t, manifest.Checksum, verification.RecomputedChecksum)
}

func TestVerifyBackupDetectsTampering(t *testing.T) {
	fixture := makeBackupFixture(t)
	fixture.seedRecords(3)
	dateFrom, dateTo := backupRange()

	manifest := fixture.mustCreateBackup(t, view.CreateBackupReq{DateFrom: dateFrom, DateTo: dateTo})

	path := filepath.Join(fixture.directory, manifest.Filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0x01
	require.NoError(t, os.WriteFile(path, data, 0640))

	_, err = fixture.backupService.VerifyBackup(manifest.Filename)
	var customError *exception.CustomError
	require.True(t, errors.As(err, &customError))
	assert.Equal(t, exception.BackupDecryptionFailed, customError.Code)
}

func TestVerifyBackupUnknownFilename(t *testing.T) {
	fixture := makeBackupFixture(t)

	_, err := fixture.backupService.VerifyBackup("missing.encrypted")
	var customError *exception.CustomError
	require.True(t, errors.As(err, &customError))
	assert.Equal(t, exception.BackupNotFound, customError.Code)
}

func TestEstimateBackup(t *testing.T) {
	fixture := makeBackupFixture(t)
	fixture.seedRecords(4)
	fixture.archiveRepo.records = append(fixture.archiveRepo.records, entity.ArchivedActivityEntity{
		Id:        "archived-1",
		CreatedAt: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
	})
	dateFrom, dateTo := backupRange()

	estimate, err := fixture.backupService.EstimateBackup(dateFrom, dateTo, false)
	require.NoError(t, err)
	assert.Equal(t, 4, estimate.RecordCount)
	assert.Equal(t, int64(400), estimate.EstimatedSizeBytes)
	require.NotNil(t, estimate.DateRange)

	estimate, err = fixture.backupService.EstimateBackup(dateFrom, dateTo, true)
	require.NoError(t, err)
	assert.Equal(t, 5, estimate.RecordCount)

	_, err = fixture.backupService.EstimateBackup(dateTo, dateFrom, false)
	var customError *exception.CustomError
	require.True(t, errors.As(err, &customError))
	assert.Equal(t, exception.InvalidDateRange, customError.Code)
}

func TestDeleteBackup(t *testing.T) {
	fixture := makeBackupFixture(t)
	fixture.seedRecords(2)
	dateFrom, dateTo := backupRange()

	manifest := fixture.mustCreateBackup(t, view.CreateBackupReq{DateFrom: dateFrom, DateTo: dateTo})

	require.NoError(t, fixture.backupService.DeleteBackup(manifest.Filename))

	_, err := os.Stat(filepath.Join(fixture.directory, manifest.Filename))
	assert.True(t, os.IsNotExist(err))
	stored, err := fixture.manifestRepo.GetManifest(manifest.Filename)
	require.NoError(t, err)
	assert.Nil(t, stored)

	err = fixture.backupService.DeleteBackup(manifest.Filename)
	var customError *exception.CustomError
	require.True(t, errors.As(err, &customError))
	assert.Equal(t, exception.BackupNotFound, customError.Code)
}

func TestCleanupOldBackupsRemovesExpiredArtifacts(t *testing.T) {
	fixture := makeBackupFixture(t)
	ctx := context.Background()

	oldManifest := entity.BackupManifestEntity{
		Filename:  "auditlog-backup-old.encrypted",
		CreatedAt: time.Now().AddDate(0, 0, -100),
		SizeBytes: 10,
	}
	recentManifest := entity.BackupManifestEntity{
		Filename:  "auditlog-backup-recent.encrypted",
		CreatedAt: time.Now().AddDate(0, 0, -1),
		SizeBytes: 20,
	}
	require.NoError(t, fixture.manifestRepo.StoreManifest(ctx, oldManifest))
	require.NoError(t, fixture.manifestRepo.StoreManifest(ctx, recentManifest))
	require.NoError(t, fixture.storage.StoreArtifact(ctx, oldManifest.Filename, []byte("old-bytes")))
	require.NoError(t, fixture.storage.StoreArtifact(ctx, recentManifest.Filename, []byte("recent-bytes")))

	result, err := fixture.backupService.CleanupOldBackups(30, "tester")
	require.NoError(t, err)

	assert.Equal(t, 1, result.DeletedCount)
	assert.Equal(t, int64(10), result.DeletedSizeBytes)
	assert.Empty(t, result.Errors)

	_, err = os.Stat(filepath.Join(fixture.directory, oldManifest.Filename))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(fixture.directory, recentManifest.Filename))
	assert.NoError(t, err)

	stored, err := fixture.manifestRepo.GetManifest(oldManifest.Filename)
	require.NoError(t, err)
	assert.Nil(t, stored)
	stored, err = fixture.manifestRepo.GetManifest(recentManifest.Filename)
	require.NoError(t, err)
	assert.NotNil(t, stored)

	run := fixture.runRepo.findByType(view.RunTypeBackupCleanup)
	require.NotNil(t, run)
	assert.Equal(t, string(view.StatusSuccess), run.Status)
}

func TestCleanupOldBackupsRecordsFailedRunWhenManifestListingFails(t *testing.T) {
	fixture := makeBackupFixture(t)
	fixture.manifestRepo.failListOlderThan = true

	_, err := fixture.backupService.CleanupOldBackups(30, "tester")
	require.Error(t, err)

	run := fixture.runRepo.findByType(view.RunTypeBackupCleanup)
	require.NotNil(t, run)
	assert.Equal(t, string(view.StatusFailed), run.Status)
	require.Len(t, run.Errors, 1)
	assert.Contains(t, run.Errors[0], "manifest store unavailable")
}
