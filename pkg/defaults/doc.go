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

// Package defaults provides centralized configuration constants for lmsctl.
//
// This package defines pipeline timing, API pacing, and filesystem defaults
// used across the codebase. Centralizing these values ensures consistency
// and makes tuning easier.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/eduforge/lmsctl/pkg/defaults"
//
//	timer := time.NewTimer(defaults.SettleDelay)
//	defer timer.Stop()
//
// # Tuning Guidelines
//
// When choosing values:
//
//   - SettleDelay: long enough for controllers to schedule pods after the
//     final apply; the verification listing runs once it expires
//   - ProbeTimeout: the only bounded network wait in the pipeline; apply
//     calls rely on client-go defaults
//   - ApplyQPS/ApplyBurst: keep well below typical API priority and
//     fairness limits so a run never trips server-side throttling
package defaults
