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
	"net/http"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/exception"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/repository"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

type RetentionPolicyService interface {
	CreatePolicy(req view.RetentionPolicyReq) (*view.RetentionPolicy, error)
	UpdatePolicy(id string, req view.RetentionPolicyReq) (*view.RetentionPolicy, error)
	DeletePolicy(id string) error
	GetPolicy(id string) (*view.RetentionPolicy, error)
	GetPolicies() (*view.RetentionPolicies, error)
	SetPolicyActive(id string, active bool) (*view.RetentionPolicy, error)
}

func NewRetentionPolicyService(policyRepository repository.RetentionPolicyRepository) RetentionPolicyService {
	return &retentionPolicyServiceImpl{policyRepository: policyRepository}
}

type retentionPolicyServiceImpl struct {
	policyRepository repository.RetentionPolicyRepository
}

func (r retentionPolicyServiceImpl) CreatePolicy(req view.RetentionPolicyReq) (*view.RetentionPolicy, error) {
	if err := validatePolicyReq(req); err != nil {
		return nil, err
	}
	ent := entity.MakeRetentionPolicyEntity(req)
	if err := r.policyRepository.CreatePolicy(&ent); err != nil {
		return nil, err
	}
	result := entity.MakeRetentionPolicyView(ent)
	return &result, nil
}

func (r retentionPolicyServiceImpl) UpdatePolicy(id string, req view.RetentionPolicyReq) (*view.RetentionPolicy, error) {
	if err := validatePolicyReq(req); err != nil {
		return nil, err
	}
	ent, err := r.getPolicyEntity(id)
	if err != nil {
		return nil, err
	}
	ent.Name = req.Name
	ent.ActivityType = req.ActivityType
	ent.Module = req.Module
	ent.RetentionDays = req.RetentionDays
	ent.Action = req.Action
	ent.Priority = req.Priority
	ent.IsActive = req.IsActive

	if err := r.policyRepository.UpdatePolicy(ent); err != nil {
		return nil, err
	}
	result := entity.MakeRetentionPolicyView(*ent)
	return &result, nil
}

func (r retentionPolicyServiceImpl) DeletePolicy(id string) error {
	deleted, err := r.policyRepository.DeletePolicy(id)
	if err != nil {
		return err
	}
	if !deleted {
		return policyNotFound(id)
	}
	return nil
}

func (r retentionPolicyServiceImpl) GetPolicy(id string) (*view.RetentionPolicy, error) {
	ent, err := r.getPolicyEntity(id)
	if err != nil {
		return nil, err
	}
	result := entity.MakeRetentionPolicyView(*ent)
	return &result, nil
}

func (r retentionPolicyServiceImpl) GetPolicies() (*view.RetentionPolicies, error) {
	entities, err := r.policyRepository.GetPolicies()
	if err != nil {
		return nil, err
	}
	policies := make([]view.RetentionPolicy, 0, len(entities))
	for _, ent := range entities {
		policies = append(policies, entity.MakeRetentionPolicyView(ent))
	}
	return &view.RetentionPolicies{Policies: policies}, nil
}

func (r retentionPolicyServiceImpl) SetPolicyActive(id string, active bool) (*view.RetentionPolicy, error) {
	ent, err := r.getPolicyEntity(id)
	if err != nil {
		return nil, err
	}
	ent.IsActive = active
	if err := r.policyRepository.UpdatePolicy(ent); err != nil {
		return nil, err
	}
	result := entity.MakeRetentionPolicyView(*ent)
	return &result, nil
}

func (r retentionPolicyServiceImpl) getPolicyEntity(id string) (*entity.RetentionPolicyEntity, error) {
	ent, err := r.policyRepository.GetPolicy(id)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, policyNotFound(id)
	}
	return ent, nil
}

func policyNotFound(id string) error {
	return &exception.CustomError{
		Status:  http.StatusNotFound,
		Code:    exception.RetentionPolicyNotFound,
		Message: exception.RetentionPolicyNotFoundMsg,
		Params:  map[string]interface{}{"policyId": id},
	}
}

func validatePolicyReq(req view.RetentionPolicyReq) error {
	if req.RetentionDays < view.MinRetentionDays || req.RetentionDays > view.MaxRetentionDays {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RetentionDaysOutOfRange,
			Message: exception.RetentionDaysOutOfRangeMsg,
			Params: map[string]interface{}{
				"min":   view.MinRetentionDays,
				"max":   view.MaxRetentionDays,
				"value": req.RetentionDays,
			},
		}
	}
	if !view.ValidRetentionAction(req.Action) {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidRetentionAction,
			Message: exception.InvalidRetentionActionMsg,
			Params:  map[string]interface{}{"action": req.Action},
		}
	}
	return nil
}
