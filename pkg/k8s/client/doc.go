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

// Package client builds the Kubernetes clientset the pipeline talks through.
//
// # Usage
//
//	import "github.com/eduforge/lmsctl/pkg/k8s/client"
//
//	clientset, config, err := client.Build(cfg.Kubeconfig)
//	if err != nil {
//	    return fmt.Errorf("failed to build kubernetes client: %w", err)
//	}
//
// Each command invocation builds exactly one clientset and hands it to every
// component of the run. There is no process-wide cache; a CLI process issues
// one pipeline run and exits.
//
// # Authentication Modes
//
// The client handles both in-cluster and out-of-cluster authentication:
//
// In-cluster (running as Kubernetes Pod/Job):
//   - Uses service account credentials from /var/run/secrets/kubernetes.io/serviceaccount/
//   - Automatically configured when running inside a Kubernetes cluster
//
// Out-of-cluster (running locally or on non-K8s host):
//   - Explicit path (--kubeconfig flag) takes priority
//   - Checks KUBECONFIG environment variable next
//   - Falls back to ~/.kube/config if present
//   - Returns error if no valid kubeconfig found
//
// # Testing
//
// For testing, use client-go fake clients anywhere an Interface is accepted:
//
//	import "k8s.io/client-go/kubernetes/fake"
//
//	clientset := fake.NewClientset()
package client
