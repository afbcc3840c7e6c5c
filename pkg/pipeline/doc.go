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

// Package pipeline executes an ordered list of stages with two failure
// severities.
//
// Stages run strictly in order. A fatal error from a critical stage fails
// that stage, marks every remaining stage skipped, and aborts the run. A
// warning error, or any error from a non-critical stage, is recorded and the
// run continues. Every run gets a unique ID that is attached to all stage
// log lines, and per-stage durations and failures are exported as Prometheus
// metrics.
package pipeline
