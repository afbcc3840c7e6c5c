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

func cleanCmd() *cli.Command {
	return &cli.Command{
		Name:                  "clean",
		Aliases:               []string{"cleanup"},
		EnableShellCompletion: true,
		Usage:                 "Tear the learning platform down",
		Description: `Deletes the platform resources in reverse deployment order: ingress and
autoscaling first, then the CMS and LMS workloads with their services,
configuration, storage, and finally the namespace itself.

Clean is best-effort by design. A resource that is already gone counts
as done, a deletion the cluster rejects is recorded and the teardown
moves on, and the command always exits zero so reset scripts can run it
unconditionally. The namespace deletion at the end sweeps up anything a
failed step left behind.

# Usage Examples

	# Tear down the default deployment
	lmsctl clean

	# cleanup is the same command
	lmsctl cleanup

	# Remove a staging copy
	lmsctl clean --namespace staging`,
		Flags:  baseFlags(),
		Action: cleanAction,
	}
}

// cleanAction tears the platform down. Like verify it never returns an
// error: teardown is best-effort and must not fail the invoking shell.
func cleanAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		slog.Error("configuration rejected", "error", err)
		return nil
	}

	runlog, err := newRunLog(cfg, "clean")
	if err != nil {
		slog.Error("run log unavailable", "error", err)
		return nil
	}
	defer runlog.Close()

	orch, err := buildOrchestrator(cfg)
	if err != nil {
		slog.Error("cluster connection failed", "error", err)
		return nil
	}

	report := orch.Clean(ctx)
	if n := report.Failures(); n > 0 {
		slog.Warn("teardown left resources behind", "failures", n, "log", runlog.Path)
	}
	return nil
}
