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

// Package health probes the deployed platform from the outside.
//
// The Prober picks the first LoadBalancer service in the target namespace,
// resolves its external address, and issues a single bounded HTTP HEAD
// request, logging the response status line. It is strictly best effort:
// every failure mode (no routable service, address still pending, timeout,
// non-2xx answer) comes back as a warning-severity error, so the pipeline
// can only ever mark the stage warned. A pending address skips the HTTP
// call entirely.
package health
