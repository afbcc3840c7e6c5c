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

package defaults

import "time"

// Pipeline timing.
const (
	// SettleDelay is how long the pipeline waits after the final apply
	// before reading state back, giving controllers time to reconcile.
	SettleDelay = 30 * time.Second

	// ProbeTimeout bounds the single HTTP request of the external health
	// probe. Apply and delete calls carry no extra timeout.
	ProbeTimeout = 10 * time.Second
)

// API pacing for bulk apply and delete sequences.
const (
	// ApplyQPS is the sustained rate of write calls against the API server.
	ApplyQPS = 5.0

	// ApplyBurst is the number of write calls allowed to fire immediately
	// before pacing kicks in.
	ApplyBurst = 10
)

// Target cluster requirements.
const (
	// MinServerVersion is the oldest Kubernetes minor the manifests are
	// exercised against. Older servers produce a warning, not a failure.
	MinServerVersion = "1.23"
)

// Run configuration defaults.
const (
	// Namespace is the namespace all platform workloads deploy into.
	Namespace = "eduforge"

	// ManifestDir is the directory the per-set manifest paths resolve
	// against when no override is given.
	ManifestDir = "manifests"

	// ConfigFile is the optional run configuration file looked up in the
	// working directory.
	ConfigFile = "lmsctl.yaml"

	// EnvFile is the optional dotenv file side-loaded before environment
	// variables are read.
	EnvFile = ".env"

	// LogLevel is the default console and file log level.
	LogLevel = "info"
)

// Filesystem modes for run artifacts.
const (
	// LogFileMode is the permission set on per-run log files.
	LogFileMode = 0o644

	// LogDirMode is the permission set when the log directory is created.
	LogDirMode = 0o755
)
