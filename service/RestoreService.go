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
	log "github.com/sirupsen/logrus"
)

type RestoreService interface {
	Restore(req view.RestoreReq, executor string) (*view.RestoreResult, error)
	StartRestore(req view.RestoreReq, executor string) (string, error)
	// RestoreFromUpload imports a backup artifact supplied by the caller instead
	// of one registered in the manifest table. No checksum reference exists for
	// uploads, integrity is covered by the authenticated cipher alone.
	RestoreFromUpload(data []byte, replaceExisting bool, executor string) (*view.RestoreResult, error)
}

func NewRestoreService(
	activityLogRepository repository.ActivityLogRepository,
	archiveRepository repository.ArchiveRepository,
	manifestRepository repository.BackupManifestRepository,
	runRepository repository.CleanupRunRepository,
	storageService BackupStorageService,
	payloadCipher crypto.PayloadCipher,
	instanceId string,
	batchSize int,
) RestoreService {
	return &restoreServiceImpl{
		activityLogRepository: activityLogRepository,
		archiveRepository:     archiveRepository,
		manifestRepository:    manifestRepository,
		runRepository:         runRepository,
		storageService:        storageService,
		payloadCipher:         payloadCipher,
		instanceId:            instanceId,
		batchSize:             batchSize,
	}
}

type restoreServiceImpl struct {
	activityLogRepository repository.ActivityLogRepository
	archiveRepository     repository.ArchiveRepository
	manifestRepository    repository.BackupManifestRepository
	runRepository         repository.CleanupRunRepository
	storageService        BackupStorageService
	payloadCipher         crypto.PayloadCipher
	instanceId            string
	batchSize             int
}

func (r *restoreServiceImpl) Restore(req view.RestoreReq, executor string) (*view.RestoreResult, error) {
	compressed, err := r.loadPayload(req)
	if err != nil {
		return nil, err
	}
	run, err := r.storeRun(executor)
	if err != nil {
		return nil, err
	}
	return r.importPayload(context.Background(), *run, compressed, req.ReplaceExisting)
}

func (r *restoreServiceImpl) StartRestore(req view.RestoreReq, executor string) (string, error) {
	// decrypt and verify before acknowledging, a corrupt artifact must fail fast
	compressed, err := r.loadPayload(req)
	if err != nil {
		return "", err
	}
	run, err := r.storeRun(executor)
	if err != nil {
		return "", err
	}
	utils.SafeAsync(func() {
		if _, execErr := r.importPayload(context.Background(), *run, compressed, req.ReplaceExisting); execErr != nil {
			log.Errorf("Restore run %s failed: %v", run.RunId, execErr)
		}
	})
	return run.RunId, nil
}

func (r *restoreServiceImpl) RestoreFromUpload(data []byte, replaceExisting bool, executor string) (*view.RestoreResult, error) {
	compressed, err := r.payloadCipher.Decrypt(data)
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusUnprocessableEntity,
			Code:    exception.InvalidBackupArtifact,
			Message: exception.InvalidBackupArtifactMsg,
			Params:  map[string]interface{}{"filename": "upload"},
			Debug:   err.Error(),
		}
	}
	run, err := r.storeRun(executor)
	if err != nil {
		return nil, err
	}
	return r.importPayload(context.Background(), *run, compressed, replaceExisting)
}

// loadPayload fetches, decrypts and optionally verifies the named artifact.
// A checksum mismatch aborts the restore before any record is written.
func (r *restoreServiceImpl) loadPayload(req view.RestoreReq) ([]byte, error) {
	manifest, err := r.manifestRepository.GetManifest(req.Filename)
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.BackupNotFound,
			Message: exception.BackupNotFoundMsg,
			Params:  map[string]interface{}{"filename": req.Filename},
		}
	}

	encrypted, err := r.storageService.GetArtifact(context.Background(), req.Filename)
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusServiceUnavailable,
			Code:    exception.BackupStorageUnavailable,
			Message: exception.BackupStorageUnavailableMsg,
			Debug:   err.Error(),
		}
	}
	compressed, err := r.payloadCipher.Decrypt(encrypted)
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusUnprocessableEntity,
			Code:    exception.BackupDecryptionFailed,
			Message: exception.BackupDecryptionFailedMsg,
			Params:  map[string]interface{}{"filename": req.Filename},
			Debug:   err.Error(),
		}
	}

	if req.ValidateIntegrity {
		recomputed, _, err := archive.ComputeChecksum(compressed)
		if err != nil {
			return nil, &exception.CustomError{
				Status:  http.StatusUnprocessableEntity,
				Code:    exception.InvalidBackupArtifact,
				Message: exception.InvalidBackupArtifactMsg,
				Params:  map[string]interface{}{"filename": req.Filename},
				Debug:   err.Error(),
			}
		}
		if recomputed != manifest.Checksum {
			return nil, &exception.CustomError{
				Status:  http.StatusConflict,
				Code:    exception.BackupChecksumMismatch,
				Message: exception.BackupChecksumMismatchMsg,
				Params:  map[string]interface{}{"filename": req.Filename},
			}
		}
	}
	return compressed, nil
}

func (r *restoreServiceImpl) importPayload(ctx context.Context, run entity.CleanupRunEntity, compressed []byte, replaceExisting bool) (*view.RestoreResult, error) {
	start := time.Now()
	result := view.RestoreResult{
		RunId:  run.RunId,
		Errors: []string{},
	}

	batchNumber := 0
	err := archive.ReadRecords(compressed, r.batchSize, func(batch []archive.BackupRecord) error {
		batchNumber++
		result.TotalRecords += len(batch)

		active, archived := splitRestoreBatch(batch)

		if len(active) > 0 {
			imported, skipped, err := r.activityLogRepository.ImportBatch(ctx, active, replaceExisting)
			if err != nil {
				// keep importing, a failed batch only dents the result
				result.Errors = append(result.Errors, fmt.Sprintf("batch %d: %s", batchNumber, err.Error()))
				return nil
			}
			result.ImportedCount += imported
			result.SkippedCount += skipped
		}
		if len(archived) > 0 {
			stored, err := r.archiveRepository.StoreBatch(ctx, archived)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("batch %d (archived): %s", batchNumber, err.Error()))
				return nil
			}
			result.ImportedCount += stored
			result.SkippedCount += len(archived) - stored
		}
		return nil
	})
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
	}

	switch {
	case len(result.Errors) == 0:
		result.Status = view.StatusSuccess
	case result.ImportedCount > 0 || result.SkippedCount > 0:
		result.Status = view.StatusPartial
	default:
		result.Status = view.StatusFailed
	}

	r.finishRun(ctx, run, result, start)
	log.Infof("Restore run %s finished with status '%s': %d imported, %d skipped of %d",
		run.RunId, result.Status, result.ImportedCount, result.SkippedCount, result.TotalRecords)
	return &result, nil
}

func splitRestoreBatch(batch []archive.BackupRecord) ([]entity.ActivityLogEntity, []entity.ArchivedActivityEntity) {
	var active []entity.ActivityLogEntity
	var archived []entity.ArchivedActivityEntity
	for _, record := range batch {
		if record.Archived {
			archivedAt := time.Now()
			if record.ArchivedAt != nil {
				archivedAt = *record.ArchivedAt
			}
			archived = append(archived, entity.ArchivedActivityEntity{
				Id:              record.Id,
				CreatedAt:       record.CreatedAt,
				ActivityType:    record.ActivityType,
				Module:          record.Module,
				RiskLevel:       record.RiskLevel,
				IsSecurityEvent: record.IsSecurityEvent,
				UserId:          record.UserId,
				Properties:      record.Properties,
				ArchivedAt:      archivedAt,
				PolicyId:        record.PolicyId,
			})
		} else {
			active = append(active, entity.ActivityLogEntity{
				Id:              record.Id,
				CreatedAt:       record.CreatedAt,
				ActivityType:    record.ActivityType,
				Module:          record.Module,
				RiskLevel:       record.RiskLevel,
				IsSecurityEvent: record.IsSecurityEvent,
				UserId:          record.UserId,
				Properties:      record.Properties,
			})
		}
	}
	return active, archived
}

func (r *restoreServiceImpl) storeRun(executor string) (*entity.CleanupRunEntity, error) {
	run := entity.CleanupRunEntity{
		RunId:      uuid.New().String(),
		RunType:    string(view.RunTypeRestore),
		StartedAt:  time.Now(),
		Status:     string(view.StatusRunning),
		Executor:   executor,
		Errors:     []string{},
		InstanceId: r.instanceId,
	}
	if err := r.runRepository.StoreRun(context.Background(), run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *restoreServiceImpl) finishRun(ctx context.Context, run entity.CleanupRunEntity, result view.RestoreResult, start time.Time) {
	finishedAt := time.Now()
	run.Status = string(result.Status)
	run.FinishedAt = &finishedAt
	run.RecordsProcessed = result.TotalRecords
	run.ExecutionTimeMs = time.Since(start).Milliseconds()
	run.Errors = result.Errors

	if err := r.runRepository.FinishRun(ctx, run); err != nil {
		log.Errorf("Failed to save restore run %s state: %v", run.RunId, err)
		return
	}
	metrics.RetentionRunsTotal.WithLabelValues(run.RunType, string(result.Status)).Inc()
	metrics.RetentionRunDuration.WithLabelValues(run.RunType).Observe(time.Since(start).Seconds())
}
