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

package main

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/config"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/controller"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/crypto"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/db"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/metrics"
	midldleware "github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/middleware"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/repository"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/service"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/service/cleanup"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/utils"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

func init() {
	log.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})
	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   "logs/auditlog-service.log",
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}))
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
}

func main() {
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	utils.PrintConfig(*cfg)

	instanceId := cfg.TechnicalParameters.InstanceId
	if instanceId == "" {
		instanceId = uuid.New().String()
	}

	readyChan := make(chan bool)
	healthController := controller.NewHealthController(readyChan)

	creds := view.DbCredentials{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Name,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	}
	cp := db.NewConnectionProvider(&creds)

	activityLogRepository := repository.NewActivityLogRepository(cp)
	policyRepository := repository.NewRetentionPolicyRepository(cp)
	archiveRepository := repository.NewArchiveRepository(cp)
	runRepository := repository.NewCleanupRunRepository(cp)
	manifestRepository := repository.NewBackupManifestRepository(cp)
	lockRepository := repository.NewLockRepository(cp)

	payloadCipher, err := crypto.NewPayloadCipher(cfg.Backup.EncryptionSecret)
	if err != nil {
		log.Fatalf("Failed to initialize backup encryption: %v", err)
	}
	storageService, err := service.NewBackupStorageService(cfg.Backup, cfg.S3Storage)
	if err != nil {
		log.Fatalf("Failed to initialize backup storage: %v", err)
	}

	lockService := service.NewLockService(lockRepository, instanceId)
	policyService := service.NewRetentionPolicyService(policyRepository)
	cleanupService := cleanup.NewCleanupService(activityLogRepository, policyRepository, runRepository,
		lockService, instanceId, cfg.Retention.BatchSize)
	runService := service.NewCleanupRunService(runRepository)
	archiveService := service.NewArchiveService(archiveRepository)
	backupService := service.NewBackupService(activityLogRepository, archiveRepository, manifestRepository,
		runRepository, storageService, lockService, payloadCipher, instanceId, cfg.Retention.BatchSize)
	restoreService := service.NewRestoreService(activityLogRepository, archiveRepository, manifestRepository,
		runRepository, storageService, payloadCipher, instanceId, cfg.Retention.BatchSize)
	statisticsService := service.NewStatisticsService(activityLogRepository, policyRepository, runRepository)

	if cfg.Retention.SweepEnabled {
		if err := cleanupService.CreateRetentionSweepJob(cfg.Retention.SweepSchedule); err != nil {
			log.Fatalf("Failed to schedule retention sweep: %v", err)
		}
	}
	if cfg.Backup.CleanupSchedule != "" {
		if err := backupService.CreateBackupCleanupJob(cfg.Backup.CleanupSchedule, cfg.Backup.RetainDays); err != nil {
			log.Fatalf("Failed to schedule backup cleanup: %v", err)
		}
	}

	policyController := controller.NewRetentionPolicyController(policyService, cleanupService)
	cleanupController := controller.NewCleanupController(cleanupService, runService)
	backupController := controller.NewBackupController(backupService, restoreService, cfg.Backup.RetainDays)
	statisticsController := controller.NewStatisticsController(statisticsService, archiveService)

	r := mux.NewRouter()
	r.Use(midldleware.PrometheusMiddleware)

	r.HandleFunc("/api/v1/retention/policies", policyController.CreatePolicy).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/retention/policies", policyController.GetPolicies).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/retention/policies/{policyId}", policyController.GetPolicy).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/retention/policies/{policyId}", policyController.UpdatePolicy).Methods(http.MethodPut)
	r.HandleFunc("/api/v1/retention/policies/{policyId}", policyController.DeletePolicy).Methods(http.MethodDelete)
	r.HandleFunc("/api/v1/retention/policies/{policyId}/activate", policyController.ActivatePolicy).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/retention/policies/{policyId}/deactivate", policyController.DeactivatePolicy).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/retention/policies/{policyId}/preview", policyController.PreviewPolicy).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/retention/statistics", statisticsController.GetStatistics).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/cleanup/policies", cleanupController.RunAllPoliciesCleanup).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/cleanup/policies/{policyId}", cleanupController.RunPolicyCleanup).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/cleanup/manual", cleanupController.RunManualCleanup).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/cleanup/runs", cleanupController.GetRuns).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/cleanup/runs/{runId}", cleanupController.GetRun).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/archive/records", statisticsController.GetArchivedRecords).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/backups", backupController.CreateBackup).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/backups", backupController.GetBackups).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/backups/estimate", backupController.EstimateBackup).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/backups/cleanup", backupController.CleanupOldBackups).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/backups/restore", backupController.RestoreFromUpload).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/backups/{filename}", backupController.GetBackup).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/backups/{filename}", backupController.DeleteBackup).Methods(http.MethodDelete)
	r.HandleFunc("/api/v1/backups/{filename}/verify", backupController.VerifyBackup).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/backups/{filename}/restore", backupController.RestoreBackup).Methods(http.MethodPost)

	r.HandleFunc("/live", healthController.HandleLiveRequest).Methods(http.MethodGet)
	r.HandleFunc("/ready", healthController.HandleReadyRequest).Methods(http.MethodGet)
	if cfg.Monitoring.Enabled {
		metrics.RegisterAllPrometheusApplicationMetrics()
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	srv := &http.Server{
		Handler:      handlers.CompressHandler(r),
		Addr:         cfg.TechnicalParameters.ListenAddress,
		WriteTimeout: 300 * time.Second,
		ReadTimeout:  30 * time.Second,
	}

	readyChan <- true
	close(readyChan)

	log.Infof("Starting auditlog service on %s", cfg.TechnicalParameters.ListenAddress)
	log.Fatalf("%v", srv.ListenAndServe())
}
