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
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/eduforge/lmsctl/pkg/config"
	k8sclient "github.com/eduforge/lmsctl/pkg/k8s/client"
	"github.com/eduforge/lmsctl/pkg/logging"
	"github.com/eduforge/lmsctl/pkg/orchestrator"
)

const (
	name           = "lmsctl"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func init() {
	if version != versionDefault {
		return
	}
	// Module builds without ldflags still know their own version.
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

// rootCmd is the base command. Called without a subcommand it deploys,
// matching the habit the deployment used to be driven with.
func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Deploy and operate the EduForge learning platform on Kubernetes",
		Version:               version,
		EnableShellCompletion: true,
		Description: fmt.Sprintf(`lmsctl - EduForge platform deployment CLI

Version: %s
Commit:  %s
Built:   %s

Drives the lifecycle of the LMS/CMS learning platform on a Kubernetes
cluster:

deploy - apply the platform manifests in dependency order, wait for the
         cluster to settle, then verify and probe the result. Runs when
         no command is given.
verify - list the deployed state of the platform namespace, read-only.
clean  - tear everything down again in reverse order, namespace last.`, version, commit, date),
		Flags: baseFlags(),
		Commands: []*cli.Command{
			deployCmd(),
			verifyCmd(),
			cleanCmd(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				return invalidOption(cmd, cmd.Args().First())
			}
			return deployAction(ctx, cmd)
		},
	}
}

// Execute runs the CLI. This is called by main.main() and exits the process
// non-zero when the invoked command fails.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	logging.SetDefaultStructuredLogger(name, version)

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// invalidOption rejects an argument that names no command: usage first, then
// the error that fails the invocation.
func invalidOption(cmd *cli.Command, arg string) error {
	_ = cli.ShowAppHelp(cmd)
	return fmt.Errorf("invalid option %q", arg)
}

// baseFlags returns the flags every cluster-facing command takes. Fresh
// instances per command keep the parsers independent.
func baseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "run configuration file (default: lmsctl.yaml in the working directory)",
			Sources: cli.EnvVars("LMSCTL_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "namespace",
			Aliases: []string{"n"},
			Usage:   "namespace the platform lives in",
			Sources: cli.EnvVars("LMSCTL_NAMESPACE"),
		},
		&cli.StringFlag{
			Name:    "kubeconfig",
			Usage:   "kubeconfig path (default: KUBECONFIG, ~/.kube/config, then in-cluster)",
			Sources: cli.EnvVars("LMSCTL_KUBECONFIG"),
		},
		&cli.StringFlag{
			Name:    "manifest-dir",
			Aliases: []string{"m"},
			Usage:   "directory the per-set manifest paths resolve against",
			Sources: cli.EnvVars("LMSCTL_MANIFEST_DIR"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log level (debug, info, warn, error)",
			Sources: cli.EnvVars("LMSCTL_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-dir",
			Usage:   "directory per-run log files are written to",
			Sources: cli.EnvVars("LMSCTL_LOG_DIR"),
		},
		&cli.DurationFlag{
			Name:    "settle",
			Usage:   "wait between the last apply and verification",
			Sources: cli.EnvVars("LMSCTL_SETTLE_DELAY"),
		},
		&cli.BoolFlag{
			Name:    "no-log-file",
			Usage:   "disable the per-run log file artifact",
			Sources: cli.EnvVars("LMSCTL_NO_LOG_FILE"),
		},
	}
}

// reportFlags returns the flags of commands that render a report.
func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "report format: table, json, or yaml",
			Sources: cli.EnvVars("LMSCTL_FORMAT"),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the report to a file instead of stdout",
			Sources: cli.EnvVars("LMSCTL_OUTPUT"),
		},
	}
}

// resolveConfig builds the effective run configuration: defaults, then the
// configuration file, then the environment, then explicit flags.
func resolveConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("namespace") {
		cfg.Namespace = cmd.String("namespace")
	}
	if cmd.IsSet("kubeconfig") {
		cfg.Kubeconfig = cmd.String("kubeconfig")
	}
	if cmd.IsSet("manifest-dir") {
		cfg.ManifestDir = cmd.String("manifest-dir")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-dir") {
		cfg.LogDir = cmd.String("log-dir")
	}
	if cmd.IsSet("settle") {
		cfg.SettleDelay = config.Duration(cmd.Duration("settle"))
	}
	if cmd.IsSet("no-log-file") {
		cfg.NoLogFile = cmd.Bool("no-log-file")
	}
	if cmd.IsSet("format") {
		cfg.Format = cmd.String("format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRunLog opens the per-invocation run log and installs it as the slog
// default so every component logs into the artifact.
func newRunLog(cfg *config.Config, command string) (*logging.RunLog, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	runlog, err := logging.NewRunLogger(logging.RunLogOptions{
		Command: command,
		Dir:     cfg.LogDir,
		Level:   level,
		NoFile:  cfg.NoLogFile,
	})
	if err != nil {
		return nil, err
	}

	slog.SetDefault(runlog.Logger.With("module", name, "version", version))
	if runlog.Path != "" {
		slog.Info("run log opened", "path", runlog.Path)
	}
	return runlog, nil
}

// buildOrchestrator connects to the cluster and assembles the lifecycle
// components around the connection.
func buildOrchestrator(cfg *config.Config, opts ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	clientset, _, err := k8sclient.Build(cfg.Kubeconfig)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(cfg, clientset, opts...), nil
}

// reportWriter opens the report destination, falling back to stdout when the
// file cannot be created. The returned closer is a no-op for stdout.
func reportWriter(path string) (io.Writer, func() error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return os.Stdout, func() error { return nil }
	}
	file, err := os.Create(trimmed)
	if err != nil {
		slog.Error("failed to create output file, falling back to stdout", "error", err, "path", trimmed)
		return os.Stdout, func() error { return nil }
	}
	return file, file.Close
}
