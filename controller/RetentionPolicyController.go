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

type RetentionPolicyController interface {
	CreatePolicy(w http.ResponseWriter, r *http.Request)
	UpdatePolicy(w http.ResponseWriter, r *http.Request)
	DeletePolicy(w http.ResponseWriter, r *http.Request)
	GetPolicy(w http.ResponseWriter, r *http.Request)
	GetPolicies(w http.ResponseWriter, r *http.Request)
	ActivatePolicy(w http.ResponseWriter, r *http.Request)
	DeactivatePolicy(w http.ResponseWriter, r *http.Request)
	PreviewPolicy(w http.ResponseWriter, r *http.Request)
}

func NewRetentionPolicyController(policyService service.RetentionPolicyService, cleanupService cleanup.CleanupService) RetentionPolicyController {
	return &retentionPolicyControllerImpl{
		policyService:  policyService,
		cleanupService: cleanupService,
	}
}

type retentionPolicyControllerImpl struct {
	policyService  service.RetentionPolicyService
	cleanupService cleanup.CleanupService
}

func (c retentionPolicyControllerImpl) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePolicyReq(w, r)
	if !ok {
		return
	}
	result, err := c.policyService.CreatePolicy(*req)
	if err != nil {
		utils.RespondWithError(w, "Failed to create retention policy", err)
		return
	}
	utils.RespondWithJson(w, http.StatusCreated, result)
}

func (c retentionPolicyControllerImpl) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	policyId := getStringParam(r, "policyId")
	req, ok := decodePolicyReq(w, r)
	if !ok {
		return
	}
	result, err := c.policyService.UpdatePolicy(policyId, *req)
	if err != nil {
		utils.RespondWithError(w, "Failed to update retention policy", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (c retentionPolicyControllerImpl) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	policyId := getStringParam(r, "policyId")
	err := c.policyService.DeletePolicy(policyId)
	if err != nil {
		utils.RespondWithError(w, "Failed to delete retention policy", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c retentionPolicyControllerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	policyId := getStringParam(r, "policyId")
	result, err := c.policyService.GetPolicy(policyId)
	if err != nil {
		utils.RespondWithError(w, "Failed to get retention policy", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (c retentionPolicyControllerImpl) GetPolicies(w http.ResponseWriter, r *http.Request) {
	result, err := c.policyService.GetPolicies()
	if err != nil {
		utils.RespondWithError(w, "Failed to list retention policies", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (c retentionPolicyControllerImpl) ActivatePolicy(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, true)
}

func (c retentionPolicyControllerImpl) DeactivatePolicy(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, false)
}

func (c retentionPolicyControllerImpl) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	policyId := getStringParam(r, "policyId")
	result, err := c.policyService.SetPolicyActive(policyId, active)
	if err != nil {
		utils.RespondWithError(w, "Failed to change retention policy state", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (c retentionPolicyControllerImpl) PreviewPolicy(w http.ResponseWriter, r *http.Request) {
	policyId := getStringParam(r, "policyId")
	result, err := c.cleanupService.PreviewPolicy(policyId)
	if err != nil {
		utils.RespondWithError(w, "Failed to preview retention policy", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func decodePolicyReq(w http.ResponseWriter, r *http.Request) (*view.RetentionPolicyReq, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return nil, false
	}
	var req view.RetentionPolicyReq
	if err := json.Unmarshal(body, &req); err != nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return nil, false
	}
	if validationErr := utils.ValidateObject(req); validationErr != nil {
		var customError *exception.CustomError
		if errors.As(validationErr, &customError) {
			utils.RespondWithCustomError(w, customError)
			return nil, false
		}
	}
	return &req, true
}
