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
	"io"
	"log/slog"
	"os"
	"time"

	"k8s.io/client-go/kubernetes"

	"github.com/eduforge/lmsctl/pkg/apply"
	"github.com/eduforge/lmsctl/pkg/config"
	apperrors "github.com/eduforge/lmsctl/pkg/errors"
	"github.com/eduforge/lmsctl/pkg/health"
	"github.com/eduforge/lmsctl/pkg/manifest"
	"github.com/eduforge/lmsctl/pkg/pipeline"
	"github.com/eduforge/lmsctl/pkg/preflight"
	"github.com/eduforge/lmsctl/pkg/serializer"
	"github.com/eduforge/lmsctl/pkg/verify"
)

// Checker gates a deploy run on cluster preconditions.
type Checker interface {
	Check(ctx context.Context) error
}

// Verifier reads the deployed state of the namespace back.
type Verifier interface {
	Snapshot(ctx context.Context) *verify.Report
}

// Prober checks the public entry point of the platform.
type Prober interface {
	Probe(ctx context.Context) error
}

// tableReport is a report that knows how to render itself as a table.
// Non-table formats go through the serializer instead.
type tableReport interface {
	WriteTable(w io.Writer) error
}

// resourceSet binds one manifest location to its position in the pipeline
// and the operator-facing message logged when applying it fails.
type resourceSet struct {
	name     string
	location string
	override func(*config.SetPaths) string
	failure  string
}

// namespaceSet is applied before everything else and torn down last, by
// configured name rather than by manifest.
var namespaceSet = resourceSet{
	name:     "namespace",
	location: "namespace.yaml",
	override: func(s *config.SetPaths) string { return s.Namespace },
	failure:  "Namespace creation failed",
}

// workloadSets are applied in this exact order after the namespace exists,
// and deleted in reverse order during teardown.
var workloadSets = []resourceSet{
	{
		name:     "storage",
		location: "storage",
		override: func(s *config.SetPaths) string { return s.Storage },
		failure:  "Storage configuration failed",
	},
	{
		name:     "configmaps",
		location: "config",
		override: func(s *config.SetPaths) string { return s.Config },
		failure:  "ConfigMap application failed",
	},
	{
		name:     "lms-deployment",
		location: "lms/deployment.yaml",
		override: func(s *config.SetPaths) string { return s.LMSDeployment },
		failure:  "LMS deployment failed",
	},
	{
		name:     "lms-service",
		location: "lms/service.yaml",
		override: func(s *config.SetPaths) string { return s.LMSService },
		failure:  "LMS service creation failed",
	},
	{
		name:     "cms-deployment",
		location: "cms/deployment.yaml",
		override: func(s *config.SetPaths) string { return s.CMSDeployment },
		failure:  "CMS deployment failed",
	},
	{
		name:     "cms-service",
		location: "cms/service.yaml",
		override: func(s *config.SetPaths) string { return s.CMSService },
		failure:  "CMS service creation failed",
	},
	{
		name:     "hpa",
		location: "hpa",
		override: func(s *config.SetPaths) string { return s.HPA },
		failure:  "Autoscaling configuration failed",
	},
	{
		name:     "ingress",
		location: "ingress",
		override: func(s *config.SetPaths) string { return s.Ingress },
		failure:  "Ingress configuration failed",
	},
}

// Orchestrator assembles the components of the platform lifecycle into runs:
// deploy, verify, and clean. One Orchestrator serves one run configuration
// against one cluster connection.
type Orchestrator struct {
	cfg      *config.Config
	loader   *manifest.Loader
	applier  *apply.Applier
	deleter  *apply.Deleter
	checker  Checker
	verifier Verifier
	prober   Prober
	out      io.Writer
}

// Option adjusts how the Orchestrator is assembled.
type Option func(*Orchestrator)

// WithChecker replaces the preflight checker.
func WithChecker(c Checker) Option {
	return func(o *Orchestrator) { o.checker = c }
}

// WithVerifier replaces the state verifier.
func WithVerifier(v Verifier) Option {
	return func(o *Orchestrator) { o.verifier = v }
}

// WithProber replaces the health prober.
func WithProber(p Prober) Option {
	return func(o *Orchestrator) { o.prober = p }
}

// WithOutput redirects report output away from stdout.
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// New assembles an Orchestrator from a validated configuration and an
// established cluster connection.
func New(cfg *config.Config, client kubernetes.Interface, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		loader:   manifest.NewLoader(cfg.Namespace),
		applier:  apply.NewApplier(client, cfg.ApplyQPS, cfg.ApplyBurst),
		deleter:  apply.NewDeleter(client),
		checker:  preflight.NewChecker(client, cfg.Namespace),
		verifier: verify.NewVerifier(client, cfg.Namespace),
		prober:   health.NewProber(client, cfg.Namespace, cfg.ProbeTimeout.Std()),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Deploy runs the full pipeline: preflight, the ordered resource sets, the
// settle wait, then the non-critical verification and health stages. The
// returned run records every stage; the error is the failure that aborted
// the run, nil when it succeeded.
func (o *Orchestrator) Deploy(ctx context.Context) (*pipeline.Run, error) {
	stages := make([]pipeline.Stage, 0, len(workloadSets)+5)
	stages = append(stages, pipeline.Stage{
		Name:           "preflight",
		FailureMessage: "Preflight checks failed",
		Critical:       true,
		Run:            o.checker.Check,
	})
	stages = append(stages, o.applyStage(namespaceSet))
	for _, set := range workloadSets {
		stages = append(stages, o.applyStage(set))
	}
	stages = append(stages,
		pipeline.Stage{
			Name:           "settle",
			FailureMessage: "Settle wait interrupted",
			Critical:       true,
			Run:            o.settle,
		},
		pipeline.Stage{
			Name:           "verify",
			FailureMessage: "Verification incomplete",
			Critical:       false,
			Run:            o.verifyStage,
		},
		pipeline.Stage{
			Name:           "healthcheck",
			FailureMessage: "Health probe failed",
			Critical:       false,
			Run:            o.prober.Probe,
		},
	)

	run := pipeline.Execute(ctx, "deploy", stages)
	return run, run.Err()
}

// Verify snapshots the namespace outside a deploy run and renders the
// report. Listing problems surface as report warnings, never as an error.
func (o *Orchestrator) Verify(ctx context.Context) *verify.Report {
	report := o.verifier.Snapshot(ctx)
	if err := o.render(ctx, report); err != nil {
		slog.Warn("verification report rendering failed", "error", err)
	}
	return report
}

// applyStage builds the pipeline stage that loads one resource set and
// applies it.
func (o *Orchestrator) applyStage(set resourceSet) pipeline.Stage {
	return pipeline.Stage{
		Name:           set.name,
		FailureMessage: set.failure,
		Critical:       true,
		Run: func(ctx context.Context) error {
			loaded, err := o.loader.Load(set.name, o.setPath(set))
			if err != nil {
				return err
			}
			return o.applier.Apply(ctx, loaded)
		},
	}
}

// setPath resolves where one resource set loads its manifests from.
func (o *Orchestrator) setPath(set resourceSet) string {
	return o.cfg.SetPath(set.override(&o.cfg.Sets), set.location)
}

// settle gives controllers time to reconcile the applied state before it is
// read back. Cancellation aborts the run: state after an interrupted wait
// is unverified.
func (o *Orchestrator) settle(ctx context.Context) error {
	delay := o.cfg.SettleDelay.Std()
	if delay <= 0 {
		return nil
	}
	slog.Info("waiting for the cluster to settle", "delay", delay.String())
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return apperrors.Wrap(apperrors.ErrCodeInternal, "settle wait interrupted", ctx.Err())
	}
}

// verifyStage renders the post-deploy state listing. Incomplete listings
// degrade the stage to a warning through the returned error.
func (o *Orchestrator) verifyStage(ctx context.Context) error {
	report := o.verifier.Snapshot(ctx)
	if err := o.render(ctx, report); err != nil {
		return err
	}
	if n := len(report.Warnings); n > 0 {
		return apperrors.Warnf(apperrors.ErrCodeInternal, "%d of the state listings failed", n)
	}
	return nil
}

// render writes a report in the configured format. Table output uses the
// report's own layout; json and yaml go through the serializer.
func (o *Orchestrator) render(ctx context.Context, report tableReport) error {
	format := serializer.Format(o.cfg.Format)
	if format.IsUnknown() || format == serializer.FormatTable {
		return report.WriteTable(o.out)
	}
	return serializer.NewWriter(format, o.out).Serialize(ctx, report)
}
