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

// Package orchestrator assembles the platform lifecycle runs from the
// individual components: preflight, manifest loading, apply, verification,
// the health probe, and teardown.
//
// Deploy builds the ordered stage list of a deployment run. The namespace
// goes in first, workloads follow in dependency order, and after a settle
// wait the read-only verification and health stages close the run without
// being able to fail it. The resource sets, their conventional manifest
// locations, and the message reported when applying one fails are a single
// table here, so order and wording live in one place.
//
// Clean walks the same table backwards, deleting each workload set and
// finally the namespace itself. Teardown never fails the invocation: every
// step lands in a CleanupReport whatever its outcome.
package orchestrator
