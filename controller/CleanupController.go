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
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/service/cleanup"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/utils"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

type CleanupController interface {
	RunPolicyCleanup(w http.ResponseWriter, r *http.Request)
	RunAllPoliciesCleanup(w http.ResponseWriter, r *http.Request)
	RunManualCleanup(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	GetRuns(w http.ResponseWriter, r *http.Request)
}

func NewCleanupController(cleanupService cleanup.CleanupService, runService service.CleanupRunService) CleanupController {
	return &cleanupControllerImpl{
		cleanupService: cleanupService,
		runService:     runService,
	}
}

type cleanupControllerImpl struct {
	cleanupService cleanup.CleanupService
	runService     service.CleanupRunService
}

// RunPolicyCleanup triggers cleanup for one policy. Dry runs are evaluated
// synchronously, destructive runs are acknowledged with 202 and a run id.
func (c cleanupControllerImpl) RunPolicyCleanup(w http.ResponseWriter, r *http.Request) {
	policyId := getStringParam(r, "policyId")
	dryRun, customErr := getBoolQueryParam(r, "dryRun")
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	executor := getExecutor(r)

	if dryRun {
		result, err := c.cleanupService.EvaluatePolicy(policyId, true, executor)
		if err != nil {
			utils.RespondWithError(w, "Failed to evaluate retention policy", err)
			return
		}
		utils.RespondWithJson(w, http.StatusOK, result)
		return
	}

	runId, err := c.cleanupService.StartPolicyCleanup(policyId, false, executor)
	if err != nil {
		utils.RespondWithError(w, "Failed to start policy cleanup", err)
		return
	}
	utils.RespondWithJson(w, http.StatusAccepted, view.AsyncRunStartedResponse{RunId: runId})
}

func (c cleanupControllerImpl) RunAllPoliciesCleanup(w http.ResponseWriter, r *http.Request) {
	dryRun, customErr := getBoolQueryParam(r, "dryRun")
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	executor := getExecutor(r)

	if dryRun {
		result, err := c.cleanupService.ExecuteAllPolicies(true, executor)
		if err != nil {
			utils.RespondWithError(w, "Failed to evaluate retention policies", err)
			return
		}
		utils.RespondWithJson(w, http.StatusOK, result)
		return
	}

	runId, err := c.cleanupService.StartAllPoliciesCleanup(false, executor)
	if err != nil {
		utils.RespondWithError(w, "Failed to start retention sweep", err)
		return
	}
	utils.RespondWithJson(w, http.StatusAccepted, view.AsyncRunStartedResponse{RunId: runId})
}

func (c cleanupControllerImpl) RunManualCleanup(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	var req view.ManualCleanupReq
	if err := json.Unmarshal(body, &req); err != nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	if validationErr := utils.ValidateObject(req); validationErr != nil {
		var customError *exception.CustomError
		if errors.As(validationErr, &customError) {
			utils.RespondWithCustomError(w, customError)
			return
		}
	}
	executor := getExecutor(r)

	if req.DryRun {
		result, err := c.cleanupService.ManualCleanup(req, executor)
		if err != nil {
			utils.RespondWithError(w, "Failed to evaluate manual cleanup", err)
			return
		}
		utils.RespondWithJson(w, http.StatusOK, result)
		return
	}

	runId, err := c.cleanupService.StartManualCleanup(req, executor)
	if err != nil {
		utils.RespondWithError(w, "Failed to start manual cleanup", err)
		return
	}
	utils.RespondWithJson(w, http.StatusAccepted, view.AsyncRunStartedResponse{RunId: runId})
}

func (c cleanupControllerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	runId := getStringParam(r, "runId")
	result, err := c.runService.GetRun(runId)
	if err != nil {
		utils.RespondWithError(w, "Failed to get cleanup run", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (c cleanupControllerImpl) GetRuns(w http.ResponseWriter, r *http.Request) {
	limit, customErr := getLimitQueryParam(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	page, customErr := getIntQueryParam(r, "page", 0)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	since, customErr := getTimeQueryParam(r, "since")
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}

	filter := view.CleanupRunFilter{
		RunType:  view.RunType(r.URL.Query().Get("runType")),
		Status:   view.RunStatus(r.URL.Query().Get("status")),
		PolicyId: r.URL.Query().Get("policyId"),
		Since:    since,
	}
	result, err := c.runService.GetRuns(filter, limit, page)
	if err != nil {
		utils.RespondWithError(w, "Failed to list cleanup runs", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}
