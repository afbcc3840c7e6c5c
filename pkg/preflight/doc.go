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

// Package preflight gates the pipeline on the state of the environment
// before any cluster mutation happens.
//
// Gates, in order:
//
//  1. Optional tooling (helm, aws) is probed on PATH. Missing tools are
//     warnings; nothing is ever invoked.
//  2. Cluster liveness: the API server must answer the discovery version
//     query. No answer is a hard failure.
//  3. Server version floor: a server older than the supported floor is a
//     warning.
//  4. Access review: SelfSubjectAccessReview for create and delete on every
//     kind the pipeline applies. Denied verbs are a hard failure listing the
//     missing permissions, so a run cannot die half-applied. Clusters whose
//     authorization API cannot answer produce a warning and the checks are
//     skipped.
package preflight
