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
	"net/http"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/service"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/utils"
	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/view"
)

type StatisticsController interface {
	GetStatistics(w http.ResponseWriter, r *http.Request)
	GetArchivedRecords(w http.ResponseWriter, r *http.Request)
}

func NewStatisticsController(statisticsService service.StatisticsService, archiveService service.ArchiveService) StatisticsController {
	return &statisticsControllerImpl{
		statisticsService: statisticsService,
		archiveService:    archiveService,
	}
}

type statisticsControllerImpl struct {
	statisticsService service.StatisticsService
	archiveService    service.ArchiveService
}

func (c statisticsControllerImpl) GetStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := c.statisticsService.GetStatistics()
	if err != nil {
		utils.RespondWithError(w, "Failed to get retention statistics", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (c statisticsControllerImpl) GetArchivedRecords(w http.ResponseWriter, r *http.Request) {
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

	filter := view.RecordFilter{
		DateFrom:     dateFrom,
		DateTo:       dateTo,
		ActivityType: r.URL.Query().Get("activityType"),
		Module:       r.URL.Query().Get("module"),
	}
	result, err := c.archiveService.GetArchivedRecords(filter, limit, page)
	if err != nil {
		utils.RespondWithError(w, "Failed to list archived records", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}
