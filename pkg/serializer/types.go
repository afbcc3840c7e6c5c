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

package serializer

import "context"

// Serializer is an interface for rendering report data.
// Implementations serialize to various formats such as JSON, YAML, or a
// flattened table.
//
// The context parameter is reserved for cancellation; file and stdout writes
// are fast and blocking so current implementations do not consult it.
type Serializer interface {
	Serialize(ctx context.Context, report any) error
}

// Closer is an optional interface Serializers implement when they hold
// resources (e.g. an output file handle).
type Closer interface {
	Close() error
}
