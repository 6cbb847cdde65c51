package controller

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Netcracker/qubership-auditlog-backend/qubership-auditlog-service/exception"
	"github.com/gorilla/mux"
)

func getStringParam(r *http.Request, p string) string {
	params := mux.Vars(r)
	return params[p]
}

func getUnescapedStringParam(r *http.Request, p string) (string, error) {
	params := mux.Vars(r)
	return url.QueryUnescape(params[p])
}

func getBoolQueryParam(r *http.Request, p string) (bool, *exception.CustomError) {
	value := r.URL.Query().Get(p)
	if value == "" {
		return false, nil
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return false, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.IncorrectParamType,
			Message: exception.IncorrectParamTypeMsg,
			Params:  map[string]interface{}{"param": p, "type": "bool"},
			Debug:   err.Error(),
		}
	}
	return result, nil
}

func getIntQueryParam(r *http.Request, p string, defaultValue int) (int, *exception.CustomError) {
	value := r.URL.Query().Get(p)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.IncorrectParamType,
			Message: exception.IncorrectParamTypeMsg,
			Params:  map[string]interface{}{"param": p, "type": "int"},
			Debug:   err.Error(),
		}
	}
	return result, nil
}

func getTimeQueryParam(r *http.Request, p string) (*time.Time, *exception.CustomError) {
	value := r.URL.Query().Get(p)
	if value == "" {
		return nil, nil
	}
	result, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.IncorrectParamType,
			Message: exception.IncorrectParamTypeMsg,
			Params:  map[string]interface{}{"param": p, "type": "RFC3339 timestamp"},
			Debug:   err.Error(),
		}
	}
	return &result, nil
}

func getLimitQueryParam(r *http.Request) (int, *exception.CustomError) {
	return getLimitQueryParamBase(r, 100, 1000)
}

func getLimitQueryParamBase(r *http.Request, defaultLimit, maxLimit int) (int, *exception.CustomError) {
	if r.URL.Query().Get("limit") != "" {
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil {
			return 0, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.IncorrectParamType,
				Message: exception.IncorrectParamTypeMsg,
				Params:  map[string]interface{}{"param": "limit", "type": "int"},
				Debug:   err.Error(),
			}
		}
		if limit < 1 || limit > maxLimit {
			return 0, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.InvalidParameterValue,
				Message: exception.InvalidLimitMsg,
				Params:  map[string]interface{}{"value": limit, "maxLimit": maxLimit},
			}
		}
		return limit, nil
	}
	return defaultLimit, nil
}

func getExecutor(r *http.Request) string {
	executor := r.Header.Get("X-Executor")
	if executor == "" {
		return "unknown"
	}
	return executor
}
