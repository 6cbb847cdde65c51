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
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/archive"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/crypto"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/exception"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/metrics"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/repository"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/utils"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const (
	backupCleanupLockName = "backup_cleanup_lock"
	backupCleanupLockTtl  = 1 * time.Hour
)

type BackupService interface {
	CreateBackup(req view.CreateBackupReq, executor string) (*view.BackupResult, error)
	StartBackup(req view.CreateBackupReq, executor string) (string, error)
	EstimateBackup(dateFrom time.Time, dateTo time.Time, includeArchived bool) (*view.BackupEstimate, error)
	VerifyBackup(filename string) (*view.BackupVerification, error)
	GetBackups() (*view.BackupManifests, error)
	GetBackup(filename string) (*view.BackupManifest, error)
	DeleteBackup(filename string) error
	CleanupOldBackups(retainDays int, executor string) (*view.BackupsCleanupResult, error)
	CreateBackupCleanupJob(schedule string, retainDays int) error
}

func NewBackupService(
	activityLogRepository repository.ActivityLogRepository,
	archiveRepository repository.ArchiveRepository,
	manifestRepository repository.BackupManifestRepository,
	runRepository repository.CleanupRunRepository,
	storageService BackupStorageService,
	lockService LockService,
	payloadCipher crypto.PayloadCipher,
	instanceId string,
	batchSize int,
) BackupService {
	return &backupServiceImpl{
		activityLogRepository: activityLogRepository,
		archiveRepository:     archiveRepository,
		manifestRepository:    manifestRepository,
		runRepository:         runRepository,
		storageService:        storageService,
		lockService:           lockService,
		payloadCipher:         payloadCipher,
		instanceId:            instanceId,
		batchSize:             batchSize,
		cron:                  cron.New(),
	}
}

type backupServiceImpl struct {
	activityLogRepository repository.ActivityLogRepository
	archiveRepository     repository.ArchiveRepository
	manifestRepository    repository.BackupManifestRepository
	runRepository         repository.CleanupRunRepository
	storageService        BackupStorageService
	lockService           LockService
	payloadCipher         crypto.PayloadCipher
	instanceId            string
	batchSize             int
	cron                  *cron.Cron
}

func (b *backupServiceImpl) CreateBackup(req view.CreateBackupReq, executor string) (*view.BackupResult, error) {
	if !req.DateFrom.Before(req.DateTo) {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidDateRange,
			Message: exception.InvalidDateRangeMsg,
		}
	}

	run, err := b.storeRun(view.RunTypeBackup, "", executor)
	if err != nil {
		return nil, err
	}
	return b.executeBackup(context.Background(), *run, req, executor)
}

func (b *backupServiceImpl) StartBackup(req view.CreateBackupReq, executor string) (string, error) {
	if !req.DateFrom.Before(req.DateTo) {
		return "", &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidDateRange,
			Message: exception.InvalidDateRangeMsg,
		}
	}
	run, err := b.storeRun(view.RunTypeBackup, "", executor)
	if err != nil {
		return "", err
	}
	utils.SafeAsync(func() {
		result, execErr := b.executeBackup(context.Background(), *run, req, executor)
		if execErr != nil {
			log.Errorf("Backup run %s failed: %v", run.RunId, execErr)
			return
		}
		if result.NothingToBackup {
			log.Infof("Backup run %s finished: no records in the requested range", run.RunId)
		}
	})
	return run.RunId, nil
}

func (b *backupServiceImpl) executeBackup(ctx context.Context, run entity.CleanupRunEntity, req view.CreateBackupReq, executor string) (*view.BackupResult, error) {
	start := time.Now()
	writer := archive.NewPayloadWriter()

	writeErr := b.writeRecords(ctx, writer, req)
	if writeErr != nil {
		b.finishRun(ctx, run, view.StatusFailed, 0, start, []string{writeErr.Error()})
		return nil, writeErr
	}

	// an empty range is a valid zero-record outcome, not a failure
	if writer.RecordCount() == 0 {
		b.finishRun(ctx, run, view.StatusSuccess, 0, start, nil)
		log.Infof("Backup skipped, no records between %s and %s", req.DateFrom, req.DateTo)
		return &view.BackupResult{NothingToBackup: true}, nil
	}

	recordCount := writer.RecordCount()
	compressed, checksum, originalSize, err := writer.Close()
	if err != nil {
		b.finishRun(ctx, run, view.StatusFailed, recordCount, start, []string{err.Error()})
		return nil, err
	}

	encrypted, err := b.payloadCipher.Encrypt(compressed)
	if err != nil {
		b.finishRun(ctx, run, view.StatusFailed, recordCount, start, []string{err.Error()})
		return nil, err
	}

	createdAt := time.Now()
	filename := makeBackupFilename(createdAt)

	if err := b.storageService.StoreArtifact(ctx, filename, encrypted); err != nil {
		b.finishRun(ctx, run, view.StatusFailed, recordCount, start, []string{err.Error()})
		return nil, &exception.CustomError{
			Status:  http.StatusServiceUnavailable,
			Code:    exception.BackupStorageUnavailable,
			Message: exception.BackupStorageUnavailableMsg,
			Debug:   err.Error(),
		}
	}

	compressionRatio := float64(0)
	if originalSize > 0 {
		compressionRatio = float64(len(compressed)) / float64(originalSize)
	}
	manifest := entity.BackupManifestEntity{
		Filename:            filename,
		CreatedAt:           createdAt,
		CreatedBy:           executor,
		Checksum:            checksum,
		SizeBytes:           int64(len(encrypted)),
		RecordCount:         recordCount,
		DateFrom:            req.DateFrom,
		DateTo:              req.DateTo,
		EncryptionAlgorithm: b.payloadCipher.Algorithm(),
		CompressionRatio:    compressionRatio,
	}
	if err := b.manifestRepository.StoreManifest(ctx, manifest); err != nil {
		// the artifact must not outlive a failed manifest write
		if removeErr := b.storageService.DeleteArtifact(ctx, filename); removeErr != nil {
			log.Errorf("Failed to remove unpublished artifact %s: %v", filename, removeErr)
		}
		b.finishRun(ctx, run, view.StatusFailed, recordCount, start, []string{err.Error()})
		return nil, err
	}

	b.finishRun(ctx, run, view.StatusSuccess, recordCount, start, nil)
	metrics.BackupSizeBytes.WithLabelValues().Set(float64(len(encrypted)))
	b.updateStoredBackupsMetric()

	log.Infof("Backup %s created: %d records, %d bytes", filename, recordCount, len(encrypted))
	manifestView := entity.MakeBackupManifestView(manifest)
	return &view.BackupResult{RecordCount: recordCount, Manifest: &manifestView}, nil
}

func (b *backupServiceImpl) writeRecords(ctx context.Context, writer *archive.PayloadWriter, req view.CreateBackupReq) error {
	filter := view.RecordFilter{DateFrom: &req.DateFrom, DateTo: &req.DateTo}

	var cursor *repository.RecordCursor
	for {
		batch, err := b.activityLogRepository.GetBatch(ctx, filter, cursor, b.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}
		for _, record := range batch {
			if err := writer.WriteRecord(makeBackupRecord(record)); err != nil {
				return err
			}
		}
		last := batch[len(batch)-1]
		cursor = &repository.RecordCursor{CreatedAt: last.CreatedAt, Id: last.Id}
	}

	if !req.IncludeArchived {
		return nil
	}

	cursor = nil
	for {
		batch, err := b.archiveRepository.GetBatch(ctx, filter, cursor, b.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		for _, record := range batch {
			if err := writer.WriteRecord(makeArchivedBackupRecord(record)); err != nil {
				return err
			}
		}
		last := batch[len(batch)-1]
		cursor = &repository.RecordCursor{CreatedAt: last.CreatedAt, Id: last.Id}
	}
}

func (b *backupServiceImpl) EstimateBackup(dateFrom time.Time, dateTo time.Time, includeArchived bool) (*view.BackupEstimate, error) {
	if !dateFrom.Before(dateTo) {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidDateRange,
			Message: exception.InvalidDateRangeMsg,
		}
	}
	filter := view.RecordFilter{DateFrom: &dateFrom, DateTo: &dateTo}

	recordCount, err := b.activityLogRepository.Count(filter)
	if err != nil {
		return nil, err
	}
	estimatedSize, err := b.activityLogRepository.EstimateSize(filter)
	if err != nil {
		return nil, err
	}
	dateRange, err := b.activityLogRepository.GetDateRange(filter)
	if err != nil {
		return nil, err
	}
	if includeArchived {
		archivedCount, err := b.archiveRepository.Count(filter)
		if err != nil {
			return nil, err
		}
		recordCount += archivedCount
	}

	return &view.BackupEstimate{
		RecordCount:        recordCount,
		EstimatedSizeBytes: estimatedSize,
		DateRange:          dateRange,
	}, nil
}

func (b *backupServiceImpl) VerifyBackup(filename string) (*view.BackupVerification, error) {
	manifest, err := b.getManifest(filename)
	if err != nil {
		return nil, err
	}

	encrypted, err := b.storageService.GetArtifact(context.Background(), filename)
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusServiceUnavailable,
			Code:    exception.BackupStorageUnavailable,
			Message: exception.BackupStorageUnavailableMsg,
			Debug:   err.Error(),
		}
	}
	compressed, err := b.payloadCipher.Decrypt(encrypted)
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusUnprocessableEntity,
			Code:    exception.BackupDecryptionFailed,
			Message: exception.BackupDecryptionFailedMsg,
			Params:  map[string]interface{}{"filename": filename},
			Debug:   err.Error(),
		}
	}
	recomputed, _, err := archive.ComputeChecksum(compressed)
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusUnprocessableEntity,
			Code:    exception.InvalidBackupArtifact,
			Message: exception.InvalidBackupArtifactMsg,
			Params:  map[string]interface{}{"filename": filename},
			Debug:   err.Error(),
		}
	}

	return &view.BackupVerification{
		Filename:           filename,
		Valid:              recomputed == manifest.Checksum,
		ManifestChecksum:   manifest.Checksum,
		RecomputedChecksum: recomputed,
	}, nil
}

func (b *backupServiceImpl) GetBackups() (*view.BackupManifests, error) {
	entities, err := b.manifestRepository.GetManifests()
	if err != nil {
		return nil, err
	}
	backups := make([]view.BackupManifest, 0, len(entities))
	for _, ent := range entities {
		backups = append(backups, entity.MakeBackupManifestView(ent))
	}
	return &view.BackupManifests{Backups: backups}, nil
}

func (b *backupServiceImpl) GetBackup(filename string) (*view.BackupManifest, error) {
	manifest, err := b.getManifest(filename)
	if err != nil {
		return nil, err
	}
	result := entity.MakeBackupManifestView(*manifest)
	return &result, nil
}

func (b *backupServiceImpl) DeleteBackup(filename string) error {
	if _, err := b.getManifest(filename); err != nil {
		return err
	}
	if err := b.storageService.DeleteArtifact(context.Background(), filename); err != nil {
		return err
	}
	if err := b.manifestRepository.DeleteManifest(context.Background(), filename); err != nil {
		return err
	}
	b.updateStoredBackupsMetric()
	return nil
}

func (b *backupServiceImpl) CleanupOldBackups(retainDays int, executor string) (*view.BackupsCleanupResult, error) {
	run, err := b.storeRun(view.RunTypeBackupCleanup, "", executor)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	ctx := context.Background()

	cutoff := time.Now().AddDate(0, 0, -retainDays)
	expired, err := b.manifestRepository.GetManifestsOlderThan(cutoff)
	if err != nil {
		b.finishRun(ctx, *run, view.StatusFailed, 0, start, []string{err.Error()})
		return nil, err
	}

	result := view.BackupsCleanupResult{Errors: []string{}}
	for _, manifest := range expired {
		if err := b.storageService.DeleteArtifact(ctx, manifest.Filename); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", manifest.Filename, err.Error()))
			continue
		}
		if err := b.manifestRepository.DeleteManifest(ctx, manifest.Filename); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", manifest.Filename, err.Error()))
			continue
		}
		result.DeletedCount++
		result.DeletedSizeBytes += manifest.SizeBytes
	}

	status := view.StatusSuccess
	if len(result.Errors) > 0 {
		if result.DeletedCount > 0 {
			status = view.StatusPartial
		} else {
			status = view.StatusFailed
		}
	}
	b.finishRun(ctx, *run, status, result.DeletedCount, start, result.Errors)
	b.updateStoredBackupsMetric()

	log.Infof("Backup cleanup finished: deleted %d artifacts older than %d days", result.DeletedCount, retainDays)
	return &result, nil
}

func (b *backupServiceImpl) CreateBackupCleanupJob(schedule string, retainDays int) error {
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(cron.FuncJob(func() {
		acquired, err := b.lockService.TryAcquireLock(backupCleanupLockName, backupCleanupLockTtl)
		if err != nil {
			log.Errorf("Backup cleanup skipped, failed to acquire lock: %v", err)
			return
		}
		if !acquired {
			log.Info("Backup cleanup skipped, lock is held by another instance")
			return
		}
		defer b.lockService.ReleaseLock(backupCleanupLockName)

		if _, err := b.CleanupOldBackups(retainDays, view.SystemExecutor); err != nil {
			log.Errorf("Scheduled backup cleanup failed: %v", err)
		}
	}))
	_, err := b.cron.AddJob(schedule, job)
	if err != nil {
		log.Warnf("Backup cleanup job wasn't added for schedule - %s. With error - %s", schedule, err)
		return err
	}
	b.cron.Start()
	log.Infof("Backup cleanup job was created with schedule - %s", schedule)
	return nil
}

func (b *backupServiceImpl) getManifest(filename string) (*entity.BackupManifestEntity, error) {
	manifest, err := b.manifestRepository.GetManifest(filename)
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.BackupNotFound,
			Message: exception.BackupNotFoundMsg,
			Params:  map[string]interface{}{"filename": filename},
		}
	}
	return manifest, nil
}

func (b *backupServiceImpl) storeRun(runType view.RunType, action string, executor string) (*entity.CleanupRunEntity, error) {
	run := entity.CleanupRunEntity{
		RunId:      uuid.New().String(),
		RunType:    string(runType),
		Action:     action,
		StartedAt:  time.Now(),
		Status:     string(view.StatusRunning),
		Executor:   executor,
		Errors:     []string{},
		InstanceId: b.instanceId,
	}
	if err := b.runRepository.StoreRun(context.Background(), run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (b *backupServiceImpl) finishRun(ctx context.Context, run entity.CleanupRunEntity, status view.RunStatus, processed int, start time.Time, errs []string) {
	finishedAt := time.Now()
	run.Status = string(status)
	run.FinishedAt = &finishedAt
	run.RecordsProcessed = processed
	run.ExecutionTimeMs = time.Since(start).Milliseconds()
	if errs == nil {
		errs = []string{}
	}
	run.Errors = errs

	if err := b.runRepository.FinishRun(ctx, run); err != nil {
		log.Errorf("Failed to save backup run %s state: %v", run.RunId, err)
		return
	}
	metrics.RetentionRunsTotal.WithLabelValues(run.RunType, string(status)).Inc()
	metrics.RetentionRunDuration.WithLabelValues(run.RunType).Observe(time.Since(start).Seconds())
}

func (b *backupServiceImpl) updateStoredBackupsMetric() {
	manifests, err := b.manifestRepository.GetManifests()
	if err != nil {
		return
	}
	metrics.BackupsStoredCount.WithLabelValues().Set(float64(len(manifests)))
}

func makeBackupFilename(createdAt time.Time) string {
	return fmt.Sprintf("auditlog-backup-%s-%s%s",
		createdAt.UTC().Format("20060102-150405"),
		uuid.New().String()[:8],
		view.BackupArtifactExtension)
}

func makeBackupRecord(ent entity.ActivityLogEntity) archive.BackupRecord {
	return archive.BackupRecord{
		Id:              ent.Id,
		CreatedAt:       ent.CreatedAt,
		ActivityType:    ent.ActivityType,
		Module:          ent.Module,
		RiskLevel:       ent.RiskLevel,
		IsSecurityEvent: ent.IsSecurityEvent,
		UserId:          ent.UserId,
		Properties:      ent.Properties,
	}
}

func makeArchivedBackupRecord(ent entity.ArchivedActivityEntity) archive.BackupRecord {
	archivedAt := ent.ArchivedAt
	return archive.BackupRecord{
		Id:              ent.Id,
		CreatedAt:       ent.CreatedAt,
		ActivityType:    ent.ActivityType,
		Module:          ent.Module,
		RiskLevel:       ent.RiskLevel,
		IsSecurityEvent: ent.IsSecurityEvent,
		UserId:          ent.UserId,
		Properties:      ent.Properties,
		Archived:        true,
		PolicyId:        ent.PolicyId,
		ArchivedAt:      &archivedAt,
	}
}
