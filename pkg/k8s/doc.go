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

// Package k8s groups the Kubernetes cluster integration for lmsctl.
//
// # Sub-packages
//
// client: kubeconfig resolution and clientset construction
//
//	clientset, config, err := client.Build(kubeconfig)
//	if err != nil {
//	    return err
//	}
//	// Use clientset for API operations
//
// # Architecture
//
//   - Per-invocation clients: every command builds its own clientset from the
//     resolved kubeconfig. There is no process-wide singleton, so tests and
//     multi-cluster callers stay isolated.
//
//   - Automatic authentication: an empty kubeconfig path falls back to the
//     KUBECONFIG environment variable, then ~/.kube/config, then the
//     in-cluster service account.
//
//   - Interface boundary: components accept kubernetes.Interface, so the fake
//     clientset drops in anywhere a real cluster connection is accepted.
package k8s
