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

package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/eduforge/lmsctl/pkg/errors"
)

// StageStatus classifies how a single stage ended.
type StageStatus string

const (
	// StatusSuccess means the stage completed without error.
	StatusSuccess StageStatus = "success"
	// StatusFailed means a critical stage hit a fatal error and aborted the run.
	StatusFailed StageStatus = "failed"
	// StatusWarned means the stage reported a problem the run survived.
	StatusWarned StageStatus = "warned"
	// StatusSkipped means an earlier failure prevented the stage from running.
	StatusSkipped StageStatus = "skipped"
)

// Outcome classifies how the whole run ended.
type Outcome string

const (
	// OutcomeSucceeded means every stage ran; warnings do not change this.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeAborted means a critical stage failed and later stages were skipped.
	OutcomeAborted Outcome = "aborted"
)

// Stage is one step of a run. Critical stages abort the run on a fatal
// error; non-critical stages can only warn, whatever they return.
type Stage struct {
	// Name identifies the stage in results, logs, and metrics.
	Name string
	// FailureMessage is the operator-facing summary logged when the stage
	// fails or warns, e.g. "Storage configuration failed".
	FailureMessage string
	// Critical marks stages whose fatal errors abort the run.
	Critical bool
	// Run does the work.
	Run func(ctx context.Context) error
}

// StageResult records how one stage ended.
type StageResult struct {
	Name     string        `json:"name" yaml:"name"`
	Status   StageStatus   `json:"status" yaml:"status"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Run is the record of one pipeline execution.
type Run struct {
	ID          string        `json:"id" yaml:"id"`
	Command     string        `json:"command" yaml:"command"`
	StartedAt   time.Time     `json:"startedAt" yaml:"startedAt"`
	CompletedAt time.Time     `json:"completedAt" yaml:"completedAt"`
	Outcome     Outcome       `json:"outcome" yaml:"outcome"`
	Stages      []StageResult `json:"stages" yaml:"stages"`

	failure error
}

// Err returns the error that aborted the run, or nil when every critical
// stage succeeded.
func (r *Run) Err() error {
	return r.failure
}

// Duration reports the wall time of the whole run.
func (r *Run) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// FirstFailure returns the stage that aborted the run, or nil when no
// critical stage failed.
func (r *Run) FirstFailure() *StageResult {
	for i := range r.Stages {
		if r.Stages[i].Status == StatusFailed {
			return &r.Stages[i]
		}
	}
	return nil
}

// Execute runs the stages strictly in order and returns the run record.
// It never returns an error: failures are captured on the stage results and
// reflected in the run outcome so the caller can still inspect every stage.
func Execute(ctx context.Context, command string, stages []Stage) *Run {
	run := &Run{
		ID:        uuid.NewString(),
		Command:   command,
		StartedAt: time.Now(),
		Outcome:   OutcomeSucceeded,
	}
	log := slog.With("run", run.ID, "command", command)

	for _, stage := range stages {
		if run.Outcome == OutcomeAborted {
			run.Stages = append(run.Stages, StageResult{Name: stage.Name, Status: StatusSkipped})
			continue
		}

		result, err := executeStage(ctx, log, stage)
		run.Stages = append(run.Stages, result)
		if result.Status == StatusFailed {
			run.Outcome = OutcomeAborted
			run.failure = err
		}
	}

	run.CompletedAt = time.Now()
	runsTotal.WithLabelValues(command, string(run.Outcome)).Inc()
	log.Info("run completed", "outcome", run.Outcome, "duration", run.Duration())
	return run
}

func executeStage(ctx context.Context, log *slog.Logger, stage Stage) (StageResult, error) {
	log.Info("stage started", "stage", stage.Name)
	start := time.Now()
	err := stage.Run(ctx)
	elapsed := time.Since(start)
	stageDuration.WithLabelValues(stage.Name).Observe(elapsed.Seconds())

	result := StageResult{Name: stage.Name, Status: StatusSuccess, Duration: elapsed}
	switch {
	case err == nil:
		log.Info("stage completed", "stage", stage.Name, "duration", elapsed)
	case stage.Critical && apperrors.IsFatal(err):
		result.Status = StatusFailed
		result.Error = err.Error()
		stageFailures.WithLabelValues(stage.Name).Inc()
		log.Error(stage.FailureMessage, "stage", stage.Name, "error", err)
	default:
		result.Status = StatusWarned
		result.Error = err.Error()
		log.Warn(stage.FailureMessage, "stage", stage.Name, "error", err)
	}
	return result, err
}
