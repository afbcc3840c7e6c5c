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

// Package apply turns loaded manifest sets into cluster state and back.
//
// The Applier creates every resource of a set in document order and updates
// resources that already exist, so re-running a deployment converges instead
// of failing. Immutable kinds (Namespace, PersistentVolume,
// PersistentVolumeClaim, StorageClass) are left in place when they already
// exist; mutable kinds are updated with the immutable server-assigned fields
// (resourceVersion, Service clusterIP) carried over from the live object.
//
// The Deleter is the mirror image for teardown: it deletes the resources of
// a set in reverse document order, tolerates resources that are already gone,
// and keeps going past individual failures so one stuck resource does not
// strand the rest. Each teardown call reports a Step that the caller can
// aggregate into a cleanup report.
package apply
