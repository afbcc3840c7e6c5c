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

// Package manifest loads the declarative resource sets the pipeline applies.
//
// A resource set is a named group of YAML (or JSON) documents read from a
// single file or a directory of files. Documents decode into typed API
// objects through the client-go scheme; only the kinds the platform deploys
// are accepted, so a typo in a manifest surfaces before anything reaches the
// cluster:
//
//	Namespace, PersistentVolume, PersistentVolumeClaim, StorageClass,
//	ConfigMap, Secret, Deployment, Service, HorizontalPodAutoscaler,
//	Ingress
//
// Namespaced documents that omit metadata.namespace are stamped with the
// run's target namespace. Deployment container images are validated as
// normalized references at load time.
package manifest
