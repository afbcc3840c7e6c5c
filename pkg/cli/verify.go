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

	"github.com/eduforge/lmsctl/pkg/orchestrator"
)

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "verify",
		EnableShellCompletion: true,
		Usage:                 "List the deployed state of the platform",
		Description: `Lists the deployments, services, persistent volume claims, ingresses,
and pods of the platform namespace and renders them as a report.

Verify is a read-only inspection: it changes nothing on the cluster and
always exits zero, so it is safe to run from dashboards, cron jobs, and
CI without guarding the exit code. Listings that fail, for example when
the cluster is unreachable, appear in the report as warnings instead of
failing the command.

# Usage Examples

	# Human-readable table on stdout
	lmsctl verify

	# JSON for machine consumption
	lmsctl verify --format json

	# Write a YAML report to a file
	lmsctl verify --format yaml --output state.yaml`,
		Flags:  append(baseFlags(), reportFlags()...),
		Action: verifyAction,
	}
}

// verifyAction renders the state report. It never returns an error: verify
// is diagnostic and must not fail the invoking shell.
func verifyAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		slog.Error("configuration rejected", "error", err)
		return nil
	}

	runlog, err := newRunLog(cfg, "verify")
	if err != nil {
		slog.Error("run log unavailable", "error", err)
		return nil
	}
	defer runlog.Close()

	out, closeOut := reportWriter(cmd.String("output"))
	defer func() {
		if err := closeOut(); err != nil {
			slog.Error("failed to close output file", "error", err)
		}
	}()

	orch, err := buildOrchestrator(cfg, orchestrator.WithOutput(out))
	if err != nil {
		slog.Error("cluster connection failed", "error", err)
		return nil
	}

	report := orch.Verify(ctx)
	if n := len(report.Warnings); n > 0 {
		slog.Warn("state listing incomplete", "warnings", n)
	}
	return nil
}
