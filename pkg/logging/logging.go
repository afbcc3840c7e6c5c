// Copyright (c) 2025, EduForge Authors.  All rights reserved.
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

package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// logLevelEnvVar selects the log level when no explicit level is given.
const logLevelEnvVar = "LOG_LEVEL"

// ParseLevel maps a textual level to its slog.Level, case-insensitively.
// An empty string maps to INFO.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", value)
}

// NewStructuredLogger returns a JSON logger writing to stderr with module
// and version attributes attached to every record. An empty level falls
// back to the LOG_LEVEL environment variable, then INFO. Source location
// is recorded at debug level.
func NewStructuredLogger(name, version, level string) *slog.Logger {
	if level == "" {
		level = os.Getenv(logLevelEnvVar)
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(handler).With("module", name, "version", version)
}

// SetDefaultStructuredLogger installs the structured logger as the slog
// default, at the level named by LOG_LEVEL (INFO when unset).
func SetDefaultStructuredLogger(name, version string) {
	slog.SetDefault(NewStructuredLogger(name, version, ""))
}

// SetDefaultStructuredLoggerWithLevel installs the structured logger as the
// slog default at an explicit level.
func SetDefaultStructuredLoggerWithLevel(name, version, level string) {
	slog.SetDefault(NewStructuredLogger(name, version, level))
}
