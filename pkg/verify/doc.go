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

// Package verify produces a read-only snapshot of the deployed platform.
//
// The Verifier lists pods, services, ingresses, and autoscalers in the target
// namespace and condenses them into a Report for human inspection. It passes
// no judgement and can never fail a run: listing errors are collected as
// warnings on the report, and an empty namespace yields an empty report. The
// Report renders itself as a table, or serializes to JSON/YAML through
// pkg/serializer.
package verify
