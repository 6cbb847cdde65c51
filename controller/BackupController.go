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

package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/exception"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/service"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/utils"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

// uploadSizeLimit bounds uploaded backup artifacts, not regular request bodies.
const uploadSizeLimit = 1 << 30

type BackupController interface {
	CreateBackup(w http.ResponseWriter, r *http.Request)
	EstimateBackup(w http.ResponseWriter, r *http.Request)
	GetBackups(w http.ResponseWriter, r *http.Request)
	GetBackup(w http.ResponseWriter, r *http.Request)
	VerifyBackup(w http.ResponseWriter, r *http.Request)
	DeleteBackup(w http.ResponseWriter, r *http.Request)
	RestoreBackup(w http.ResponseWriter, r *http.Request)
	RestoreFromUpload(w http.ResponseWriter, r *http.Request)
	CleanupOldBackups(w http.ResponseWriter, r *http.Request)
}

func NewBackupController(backupService service.BackupService, restoreService service.RestoreService, defaultRetainDays int) BackupController {
	return &backupControllerImpl{
		backupService:     backupService,
		restoreService:    restoreService,
		defaultRetainDays: defaultRetainDays,
	}
}

type backupControllerImpl struct {
	backupService     service.BackupService
	restoreService    service.RestoreService
	defaultRetainDays int
}

func (c backupControllerImpl) CreateBackup(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithBadBody(w, err)
		return
	}
	var req view.CreateBackupReq
	if err := json.Unmarshal(body, &req); err != nil {
		respondWithBadBody(w, err)
		return
	}
	if validationErr := utils.ValidateObject(req); validationErr != nil {
		var customError *exception.CustomError
		if errors.As(validationErr, &customError) {
			utils.RespondWithCustomError(w, customError)
			return
		}
	}

	runId, err := c.backupService.StartBackup(req, getExecutor(r))
	if err != nil {
		utils.RespondWithError(w, "Failed to start backup", err)
		return
	}
	utils.RespondWithJson(w, http.StatusAccepted, view.AsyncRunStartedResponse{RunId: runId})
}

func (c backupControllerImpl) EstimateBackup(w http.ResponseWriter, r *http.Request) {
	dateFrom, customErr := getTimeQueryParam(r, "dateFrom")
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	dateTo, customErr := getTimeQueryParam(r, "dateTo")
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	if dateFrom == nil || dateTo == nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "dateFrom, dateTo"},
		})
		return
	}
	includeArchived, customErr := getBoolQueryParam(r, "includeArchived")
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}

	result, err := c.backupService.EstimateBackup(*dateFrom, *dateTo, includeArchived)
	if err != nil {
		utils.RespondWithError(w, "Failed to estimate backup", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (c backupControllerImpl) GetBackups(w http.ResponseWriter, r *http.Request) {
	result, err := c.backupService.GetBackups()
	if err != nil {
		utils.RespondWithError(w, "Failed to list backups", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (c backupControllerImpl) GetBackup(w http.ResponseWriter, r *http.Request) {
	filename, err := getUnescapedStringParam(r, "filename")
	if err != nil {
		respondWithBadFilename(w, err)
		return
	}
	result, err := c.backupService.GetBackup(filename)
	if err != nil {
		utils.RespondWithError(w, "Failed to get backup", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (c backupControllerImpl) VerifyBackup(w http.ResponseWriter, r *http.Request) {
	filename, err := getUnescapedStringParam(r, "filename")
	if err != nil {
		respondWithBadFilename(w, err)
		return
	}
	result, err := c.backupService.VerifyBackup(filename)
	if err != nil {
		utils.RespondWithError(w, "Failed to verify backup", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (c backupControllerImpl) DeleteBackup(w http.ResponseWriter, r *http.Request) {
	filename, err := getUnescapedStringParam(r, "filename")
	if err != nil {
		respondWithBadFilename(w, err)
		return
	}
	if err := c.backupService.DeleteBackup(filename); err != nil {
		utils.RespondWithError(w, "Failed to delete backup", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c backupControllerImpl) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	filename, err := getUnescapedStringParam(r, "filename")
	if err != nil {
		respondWithBadFilename(w, err)
		return
	}
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithBadBody(w, err)
		return
	}
	req := view.RestoreReq{Filename: filename, ValidateIntegrity: true}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			respondWithBadBody(w, err)
			return
		}
		req.Filename = filename
	}

	runId, err := c.restoreService.StartRestore(req, getExecutor(r))
	if err != nil {
		utils.RespondWithError(w, "Failed to start restore", err)
		return
	}
	utils.RespondWithJson(w, http.StatusAccepted, view.AsyncRunStartedResponse{RunId: runId})
}

func (c backupControllerImpl) RestoreFromUpload(w http.ResponseWriter, r *http.Request) {
	replaceExisting, customErr := getBoolQueryParam(r, "replaceExisting")
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}

	if err := r.ParseMultipartForm(uploadSizeLimit); err != nil {
		respondWithBadBody(w, err)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "file"},
			Debug:   err.Error(),
		})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respondWithBadBody(w, err)
		return
	}

	result, err := c.restoreService.RestoreFromUpload(data, replaceExisting, getExecutor(r))
	if err != nil {
		utils.RespondWithError(w, "Failed to restore from uploaded backup", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (c backupControllerImpl) CleanupOldBackups(w http.ResponseWriter, r *http.Request) {
	retainDays, customErr := getIntQueryParam(r, "retainDays", c.defaultRetainDays)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	if retainDays < 1 {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": "retainDays", "value": retainDays},
		})
		return
	}

	result, err := c.backupService.CleanupOldBackups(retainDays, getExecutor(r))
	if err != nil {
		utils.RespondWithError(w, "Failed to cleanup old backups", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func respondWithBadBody(w http.ResponseWriter, err error) {
	utils.RespondWithCustomError(w, &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.BadRequestBody,
		Message: exception.BadRequestBodyMsg,
		Debug:   err.Error(),
	})
}

func respondWithBadFilename(w http.ResponseWriter, err error) {
	utils.RespondWithCustomError(w, &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.InvalidURLEscape,
		Message: exception.InvalidURLEscapeMsg,
		Params:  map[string]interface{}{"param": "filename"},
		Debug:   err.Error(),
	})
}
