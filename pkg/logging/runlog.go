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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"

	"github.com/eduforge/lmsctl/pkg/defaults"
	apperrors "github.com/eduforge/lmsctl/pkg/errors"
)

// runLogTimestamp is the layout baked into run log file names.
const runLogTimestamp = "20060102-150405"

// RunLogOptions configures the per-invocation run logger.
type RunLogOptions struct {
	// Command names the subcommand in the artifact file name.
	Command string
	// Dir is the artifact directory; empty means the working directory.
	Dir string
	// Level applies to both sinks.
	Level slog.Level
	// Console receives human-readable output; defaults to os.Stderr.
	Console io.Writer
	// NoFile disables the file artifact, leaving console output only.
	NoFile bool
}

// RunLog couples a logger with the per-run artifact it writes. Every run of
// a cluster-facing command gets its own timestamped file so a failed run can
// be reconstructed after the fact.
type RunLog struct {
	Logger *slog.Logger
	// Path of the artifact, empty when the file sink is disabled.
	Path string

	file *os.File
}

// NewRunLogger builds a two-sink logger: colorized console output plus a
// JSON file artifact named lmsctl-<command>-<yyyymmdd-hhmmss>.log. Records
// at WARN level are tagged WARNING in the file.
func NewRunLogger(opts RunLogOptions) (*RunLog, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	consoleHandler := tint.NewHandler(console, &tint.Options{Level: opts.Level})

	if opts.NoFile {
		return &RunLog{Logger: slog.New(consoleHandler)}, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, defaults.LogDirMode); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConfigInvalid, "creating log directory", err)
	}

	name := fmt.Sprintf("lmsctl-%s-%s.log", opts.Command, time.Now().Format(runLogTimestamp))
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, defaults.LogFileMode)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConfigInvalid, "creating run log file", err)
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level:       opts.Level,
		ReplaceAttr: tagWarnings,
	})

	return &RunLog{
		Logger: slog.New(fanout{consoleHandler, fileHandler}),
		Path:   path,
		file:   file,
	}, nil
}

// Close closes the file sink. Safe to call when no file is attached.
func (r *RunLog) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// tagWarnings renames slog's WARN level to WARNING so the file artifact
// greps cleanly for INFO/WARNING/ERROR.
func tagWarnings(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == slog.LevelWarn {
		return slog.String(slog.LevelKey, "WARNING")
	}
	return a
}

// fanout delivers each record to every sink that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, rec slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, rec.Level) {
			continue
		}
		if err := h.Handle(ctx, rec.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}
