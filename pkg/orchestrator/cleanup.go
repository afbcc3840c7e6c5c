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

package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/eduforge/lmsctl/pkg/apply"
)

// CleanupReport records one teardown invocation.
type CleanupReport struct {
	ID          string       `json:"id" yaml:"id"`
	Namespace   string       `json:"namespace" yaml:"namespace"`
	StartedAt   time.Time    `json:"startedAt" yaml:"startedAt"`
	CompletedAt time.Time    `json:"completedAt" yaml:"completedAt"`
	Steps       []apply.Step `json:"steps" yaml:"steps"`
}

// Deleted counts the resources removed across all steps.
func (r *CleanupReport) Deleted() int {
	total := 0
	for _, step := range r.Steps {
		total += step.Deleted
	}
	return total
}

// Failures counts the steps that recorded at least one rejected deletion.
func (r *CleanupReport) Failures() int {
	total := 0
	for _, step := range r.Steps {
		if step.Status == apply.StatusFailed {
			total++
		}
	}
	return total
}

// WriteTable renders the report as an aligned human-readable table.
func (r *CleanupReport) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Namespace: %s\n", r.Namespace)
	fmt.Fprintf(tw, "Completed: %s\n", r.CompletedAt.Format(time.RFC3339))

	fmt.Fprintln(tw, "\nSTEP\tSTATUS\tDELETED\tDETAIL")
	for _, step := range r.Steps {
		detail := step.Error
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", step.Name, step.Status, step.Deleted, detail)
	}

	fmt.Fprintf(tw, "\nResources deleted: %d\n", r.Deleted())
	if failed := r.Failures(); failed > 0 {
		fmt.Fprintf(tw, "Steps with failures: %d\n", failed)
	}
	return tw.Flush()
}

// Clean tears down every workload set in reverse apply order, then removes
// the namespace itself by name. Teardown is best effort: a set whose
// manifests cannot be read is recorded and skipped, a rejected deletion is
// recorded and the remaining steps still run. The report always covers every
// step, so the caller can render it and move on.
func (o *Orchestrator) Clean(ctx context.Context) *CleanupReport {
	report := &CleanupReport{
		ID:        uuid.NewString(),
		Namespace: o.cfg.Namespace,
		StartedAt: time.Now(),
	}
	log := slog.With("run", report.ID, "command", "clean")
	log.Info("tearing down platform resources", "namespace", o.cfg.Namespace)

	for i := len(workloadSets) - 1; i >= 0; i-- {
		report.record(o.cleanStep(ctx, log, workloadSets[i]))
	}
	report.record(o.deleter.DeleteNamespace(ctx, o.cfg.Namespace))

	report.CompletedAt = time.Now()
	log.Info("teardown completed",
		"steps", len(report.Steps),
		"deleted", report.Deleted(),
		"failures", report.Failures())

	if err := o.render(ctx, report); err != nil {
		log.Warn("cleanup report rendering failed", "error", err)
	}
	return report
}

// record appends one step and counts it in the teardown metrics.
func (r *CleanupReport) record(step apply.Step) {
	r.Steps = append(r.Steps, step)
	cleanupSteps.WithLabelValues(step.Name, string(step.Status)).Inc()
}

// cleanStep deletes one workload set. Unreadable manifests leave nothing to
// address deletions at, so the step is recorded as skipped.
func (o *Orchestrator) cleanStep(ctx context.Context, log *slog.Logger, set resourceSet) apply.Step {
	loaded, err := o.loader.Load(set.name, o.setPath(set))
	if err != nil {
		log.Warn("manifests unavailable, skipping teardown step", "step", set.name, "error", err)
		return apply.Step{Name: set.name, Status: apply.StatusSkipped, Error: err.Error()}
	}
	return o.deleter.DeleteSet(ctx, loaded)
}
