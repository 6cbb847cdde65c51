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

package logger

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

func getRunPrefix(ctx context.Context) string {
	runType := ctx.Value("runType")
	runId := ctx.Value("runId")

	if runType != nil && runId != nil {
		return fmt.Sprintf("[%s] [id=%s] ", runType, runId)
	}
	return ""
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	log.Debug(getRunPrefix(ctx) + fmt.Sprintf(format, args...))
}

func Debug(ctx context.Context, args ...interface{}) {
	log.Debug(getRunPrefix(ctx) + fmt.Sprint(args...))
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	log.Info(getRunPrefix(ctx) + fmt.Sprintf(format, args...))
}

func Info(ctx context.Context, args ...interface{}) {
	log.Info(getRunPrefix(ctx) + fmt.Sprint(args...))
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	log.Warn(getRunPrefix(ctx) + fmt.Sprintf(format, args...))
}

func Warn(ctx context.Context, args ...interface{}) {
	log.Warn(getRunPrefix(ctx) + fmt.Sprint(args...))
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	log.Error(getRunPrefix(ctx) + fmt.Sprintf(format, args...))
}

func Error(ctx context.Context, args ...interface{}) {
	log.Error(getRunPrefix(ctx) + fmt.Sprint(args...))
}
