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

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
)

func deployCmd() *cli.Command {
	return &cli.Command{
		Name:                  "deploy",
		EnableShellCompletion: true,
		Usage:                 "Deploy the learning platform to the cluster",
		Description: `Applies the platform manifests in dependency order: namespace, storage,
configuration, the LMS and CMS workloads with their services, autoscaling,
and ingress. After the last apply the command waits for the cluster to
settle, lists the deployed state, and probes workload health.

# Stages

Each stage must succeed before the next runs. A failed stage aborts the
run and the remaining stages are skipped, so a partial deployment is
never silently papered over. The closing verification and health stages
only warn: a pod still starting is not a deployment failure.

# Convergence

Applies create resources that are missing and update ones that already
exist, so rerunning deploy against a healthy cluster is safe and ends in
the same state.

# Usage Examples

	# Deploy with the defaults (also what bare lmsctl does)
	lmsctl deploy

	# Deploy a staging copy from a different manifest tree
	lmsctl deploy --namespace staging --manifest-dir ./manifests-staging

	# Skip the settle wait during development
	lmsctl deploy --settle 0s`,
		Flags:  baseFlags(),
		Action: deployAction,
	}
}

// deployAction runs the full deployment. The returned error is the failure
// of the first aborted stage, which makes the process exit non-zero.
func deployAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	runlog, err := newRunLog(cfg, "deploy")
	if err != nil {
		return err
	}
	defer runlog.Close()

	orch, err := buildOrchestrator(cfg)
	if err != nil {
		slog.Error("cluster connection failed", "error", err)
		return err
	}

	run, err := orch.Deploy(ctx)
	if err != nil {
		if failed := run.FirstFailure(); failed != nil {
			slog.Error("deployment aborted", "stage", failed.Name, "log", runlog.Path)
		}
		return err
	}
	return nil
}
