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

// Package config holds the run configuration.
//
// A Config is built once at startup and handed to every component; there are
// no process-wide mutable settings. Sources, in ascending precedence:
//
//  1. compiled defaults (pkg/defaults)
//  2. a YAML file (lmsctl.yaml in the working directory, or --config)
//  3. a .env file side-loaded into the environment (never overrides
//     variables that are already exported)
//  4. LMSCTL_* environment variables
//  5. command-line flags, applied by the CLI layer after Load
//
// Load applies 1-4; Validate runs after the flag layer so every source is
// checked the same way.
package config
