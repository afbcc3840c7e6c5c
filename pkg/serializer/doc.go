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

// Package serializer renders verification and cleanup reports in multiple formats.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, indented representation
//   - Suitable for piping into other tooling
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable with preserved structure
//   - Suitable for storing alongside manifests in version control
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Flattened FIELD/VALUE listing
//   - Suitable for terminal viewing
//   - Write-only
//
// # Usage
//
//	writer := serializer.NewFileWriterOrStdout(serializer.FormatJSON, path)
//	if closer, ok := writer.(serializer.Closer); ok {
//	    defer closer.Close()
//	}
//	if err := writer.Serialize(ctx, report); err != nil {
//	    ...
//	}
package serializer
