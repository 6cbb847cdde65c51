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
	"errors"
	"testing"
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/entity"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/exception"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePolicyRepository struct {
	policies []entity.RetentionPolicyEntity
}

func (f *fakePolicyRepository) CreatePolicy(ent *entity.RetentionPolicyEntity) error {
	f.policies = append(f.policies, *ent)
	return nil
}

func (f *fakePolicyRepository) UpdatePolicy(ent *entity.RetentionPolicyEntity) error {
	for i := range f.policies {
		if f.policies[i].Id == ent.Id {
			f.policies[i] = *ent
			return nil
		}
	}
	return nil
}

func (f *fakePolicyRepository) DeletePolicy(id string) (bool, error) {
	for i := range f.policies {
		if f.policies[i].Id == id {
			f.policies = append(f.policies[:i], f.policies[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePolicyRepository) GetPolicy(id string) (*entity.RetentionPolicyEntity, error) {
	for i := range f.policies {
		if f.policies[i].Id == id {
			policy := f.policies[i]
			return &policy, nil
		}
	}
	return nil, nil
}

func (f *fakePolicyRepository) GetPolicies() ([]entity.RetentionPolicyEntity, error) {
	return f.policies, nil
}

func (f *fakePolicyRepository) GetActivePolicies() ([]entity.RetentionPolicyEntity, error) {
	var active []entity.RetentionPolicyEntity
	for _, policy := range f.policies {
		if policy.IsActive {
			active = append(active, policy)
		}
	}
	return active, nil
}

func (f *fakePolicyRepository) UpdateLastExecuted(id string, executedAt time.Time) error {
	for i := range f.policies {
		if f.policies[i].Id == id {
			f.policies[i].LastExecutedAt = &executedAt
		}
	}
	return nil
}

func validPolicyReq() view.RetentionPolicyReq {
	return view.RetentionPolicyReq{
		Name:          "auth logins",
		ActivityType:  "login",
		Module:        "auth",
		RetentionDays: 90,
		Action:        "archive",
		Priority:      5,
		IsActive:      true,
	}
}

func TestCreatePolicy(t *testing.T) {
	policyRepo := &fakePolicyRepository{}
	policyService := NewRetentionPolicyService(policyRepo)

	policy, err := policyService.CreatePolicy(validPolicyReq())
	require.NoError(t, err)

	assert.NotEmpty(t, policy.Id)
	assert.Equal(t, "auth logins", policy.Name)
	assert.Equal(t, view.ActionArchive, policy.Action)
	assert.False(t, policy.CreatedAt.IsZero())
	assert.Nil(t, policy.LastExecutedAt)
	require.Len(t, policyRepo.policies, 1)
}

func TestCreatePolicyValidation(t *testing.T) {
	policyService := NewRetentionPolicyService(&fakePolicyRepository{})
	var customError *exception.CustomError

	req := validPolicyReq()
	req.RetentionDays = 0
	_, err := policyService.CreatePolicy(req)
	require.True(t, errors.As(err, &customError))
	assert.Equal(t, exception.RetentionDaysOutOfRange, customError.Code)

	req = validPolicyReq()
	req.RetentionDays = 5000
	_, err = policyService.CreatePolicy(req)
	require.True(t, errors.As(err, &customError))
	assert.Equal(t, exception.RetentionDaysOutOfRange, customError.Code)

	req = validPolicyReq()
	req.Action = "truncate"
	_, err = policyService.CreatePolicy(req)
	require.True(t, errors.As(err, &customError))
	assert.Equal(t, exception.InvalidRetentionAction, customError.Code)
}

func TestUpdatePolicy(t *testing.T) {
	policyRepo := &fakePolicyRepository{}
	policyService := NewRetentionPolicyService(policyRepo)
	created, err := policyService.CreatePolicy(validPolicyReq())
	require.NoError(t, err)

	req := validPolicyReq()
	req.Name = "renamed"
	req.RetentionDays = 180
	updated, err := policyService.UpdatePolicy(created.Id, req)
	require.NoError(t, err)

	assert.Equal(t, created.Id, updated.Id)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, 180, updated.RetentionDays)

	_, err = policyService.UpdatePolicy("unknown", validPolicyReq())
	var customError *exception.CustomError
	require.True(t, errors.As(err, &customError))
	assert.Equal(t, exception.RetentionPolicyNotFound, customError.Code)
}

func TestDeletePolicy(t *testing.T) {
	policyRepo := &fakePolicyRepository{}
	policyService := NewRetentionPolicyService(policyRepo)
	created, err := policyService.CreatePolicy(validPolicyReq())
	require.NoError(t, err)

	require.NoError(t, policyService.DeletePolicy(created.Id))
	assert.Empty(t, policyRepo.policies)

	err = policyService.DeletePolicy(created.Id)
	var customError *exception.CustomError
	require.True(t, errors.As(err, &customError))
	assert.Equal(t, exception.RetentionPolicyNotFound, customError.Code)
}

func TestSetPolicyActive(t *testing.T) {
	policyRepo := &fakePolicyRepository{}
	policyService := NewRetentionPolicyService(policyRepo)
	created, err := policyService.CreatePolicy(validPolicyReq())
	require.NoError(t, err)

	deactivated, err := policyService.SetPolicyActive(created.Id, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	activated, err := policyService.SetPolicyActive(created.Id, true)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
}

func TestGetPolicies(t *testing.T) {
	policyRepo := &fakePolicyRepository{}
	policyService := NewRetentionPolicyService(policyRepo)
	_, err := policyService.CreatePolicy(validPolicyReq())
	require.NoError(t, err)

	policies, err := policyService.GetPolicies()
	require.NoError(t, err)
	assert.Len(t, policies.Policies, 1)
}
