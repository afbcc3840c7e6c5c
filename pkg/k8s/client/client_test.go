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

package client

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// minimalKubeconfig is the smallest config clientcmd accepts; the server is
// never contacted during client construction.
const minimalKubeconfig = `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://127.0.0.1:6443
  name: test
contexts:
- context:
    cluster: test
    user: test
  name: test
current-context: test
users:
- name: test
  user:
    token: test-token
`

func TestBuild_PathResolution(t *testing.T) {
	tests := []struct {
		name          string
		kubeconfigArg string
		kubeconfigEnv string
		wantErr       bool
		errorContains string
	}{
		{
			name:          "explicit invalid path",
			kubeconfigArg: "/nonexistent/path/to/kubeconfig",
			wantErr:       true,
			errorContains: "failed to build kube config",
		},
		{
			name:          "env var with invalid path",
			kubeconfigArg: "",
			kubeconfigEnv: "/nonexistent/env/kubeconfig",
			wantErr:       true,
			errorContains: "failed to build kube config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KUBECONFIG", tt.kubeconfigEnv)

			_, _, err := Build(tt.kubeconfigArg)

			if (err != nil) != tt.wantErr {
				t.Errorf("Build() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err != nil && tt.errorContains != "" {
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Build() error = %v, want error containing %q", err, tt.errorContains)
				}
			}
		})
	}
}

func TestBuild_ExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "kubeconfig")

	if err := os.WriteFile(path, []byte(minimalKubeconfig), 0o600); err != nil {
		t.Fatalf("failed to write kubeconfig: %v", err)
	}

	clientset, config, err := Build(path)
	if err != nil {
		t.Fatalf("Build() with valid kubeconfig failed: %v", err)
	}
	if clientset == nil {
		t.Error("expected non-nil clientset")
	}
	if config == nil || config.Host != "https://127.0.0.1:6443" {
		t.Errorf("unexpected rest config: %+v", config)
	}
}

func TestBuild_EnvResolution(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "kubeconfig")

	if err := os.WriteFile(path, []byte(minimalKubeconfig), 0o600); err != nil {
		t.Fatalf("failed to write kubeconfig: %v", err)
	}
	t.Setenv("KUBECONFIG", path)

	clientset, _, err := Build("")
	if err != nil {
		t.Fatalf("Build() via KUBECONFIG failed: %v", err)
	}
	if clientset == nil {
		t.Error("expected non-nil clientset")
	}
}

func TestBuild_MalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "invalid-kubeconfig")

	if err := os.WriteFile(path, []byte("not a kubeconfig"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	_, _, err := Build(path)
	if err == nil {
		t.Error("Build() with malformed config should return error")
	}

	if !strings.Contains(err.Error(), "failed to build kube config") {
		t.Errorf("Build() error = %v, want error containing 'failed to build kube config'", err)
	}
}
