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

package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	authv1 "k8s.io/api/authorization/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/eduforge/lmsctl/pkg/defaults"
	apperrors "github.com/eduforge/lmsctl/pkg/errors"
	"github.com/eduforge/lmsctl/pkg/version"
)

// optionalTools are probed on PATH and only warned about when missing.
// They are never invoked.
var optionalTools = []string{"helm", "aws"}

// Checker runs the preflight gates against one target cluster and namespace.
type Checker struct {
	client    kubernetes.Interface
	namespace string

	// lookPath resolves binaries on PATH; swappable for tests.
	lookPath func(file string) (string, error)
}

// NewChecker creates a Checker around an established clientset.
func NewChecker(client kubernetes.Interface, namespace string) *Checker {
	return &Checker{
		client:    client,
		namespace: namespace,
		lookPath:  exec.LookPath,
	}
}

// Check runs every gate in order and returns nil or a hard failure.
// Conditions the run can survive are logged as warnings.
func (c *Checker) Check(ctx context.Context) error {
	c.checkOptionalTools()

	serverVersion, err := c.checkLiveness()
	if err != nil {
		return err
	}
	c.checkVersionFloor(serverVersion)

	return c.checkAccess(ctx)
}

// checkOptionalTools probes PATH for tools operators commonly pair with this
// CLI. Nothing here can fail the run.
func (c *Checker) checkOptionalTools() {
	for _, tool := range optionalTools {
		if _, err := c.lookPath(tool); err != nil {
			slog.Warn("optional tool not found on PATH", "tool", tool)
			continue
		}
		slog.Debug("optional tool present", "tool", tool)
	}
}

// checkLiveness asks the API server for its version. A cluster that cannot
// answer this cannot run the pipeline.
func (c *Checker) checkLiveness() (string, error) {
	info, err := c.client.Discovery().ServerVersion()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeClusterUnreachable,
			"cluster did not answer the liveness query", err)
	}
	slog.Info("cluster reachable", "serverVersion", info.GitVersion)
	return info.GitVersion, nil
}

// checkVersionFloor warns when the server predates the supported floor.
// Version strings the parser cannot read are also just a warning: managed
// distributions decorate them freely.
func (c *Checker) checkVersionFloor(gitVersion string) {
	server, err := version.Parse(gitVersion)
	if err != nil {
		slog.Warn("could not parse server version", "serverVersion", gitVersion, "error", err)
		return
	}
	floor := version.MustParse(defaults.MinServerVersion)
	if floor.IsNewer(server) {
		slog.Warn("server version below supported floor",
			"serverVersion", gitVersion, "floor", defaults.MinServerVersion)
	}
}

// accessCheck names one resource the pipeline needs to control.
type accessCheck struct {
	group     string
	resource  string
	namespace string
}

// requiredAccess covers every kind the apply stages touch. Cluster-scoped
// checks leave the namespace empty.
func (c *Checker) requiredAccess() []accessCheck {
	return []accessCheck{
		{resource: "namespaces"},
		{resource: "persistentvolumes"},
		{group: "storage.k8s.io", resource: "storageclasses"},
		{resource: "persistentvolumeclaims", namespace: c.namespace},
		{resource: "configmaps", namespace: c.namespace},
		{resource: "secrets", namespace: c.namespace},
		{group: "apps", resource: "deployments", namespace: c.namespace},
		{resource: "services", namespace: c.namespace},
		{group: "autoscaling", resource: "horizontalpodautoscalers", namespace: c.namespace},
		{group: "networking.k8s.io", resource: "ingresses", namespace: c.namespace},
	}
}

// checkAccess verifies the caller may create and delete everything the
// pipeline applies. A cluster whose authorization API cannot answer gets a
// warning and the checks are skipped; the apply stages will surface real
// permission errors.
func (c *Checker) checkAccess(ctx context.Context) error {
	var missing []string

	for _, check := range c.requiredAccess() {
		for _, verb := range []string{"create", "delete"} {
			allowed, err := c.reviewAccess(ctx, check, verb)
			if err != nil {
				slog.Warn("access review unavailable, skipping permission checks", "error", err)
				return nil
			}
			if !allowed {
				missing = append(missing, describeCheck(check, verb))
			}
		}
	}

	if len(missing) > 0 {
		return apperrors.Newf(apperrors.ErrCodePermissionDenied,
			"missing required permissions:\n  - %s", strings.Join(missing, "\n  - "))
	}
	return nil
}

// reviewAccess asks the cluster whether the current identity can perform the
// given verb on the checked resource.
func (c *Checker) reviewAccess(ctx context.Context, check accessCheck, verb string) (bool, error) {
	review := &authv1.SelfSubjectAccessReview{
		Spec: authv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: &authv1.ResourceAttributes{
				Group:     check.group,
				Verb:      verb,
				Resource:  check.resource,
				Namespace: check.namespace,
			},
		},
	}

	result, err := c.client.AuthorizationV1().SelfSubjectAccessReviews().Create(ctx, review, metav1.CreateOptions{})
	if err != nil {
		return false, err
	}
	return result.Status.Allowed, nil
}

func describeCheck(check accessCheck, verb string) string {
	resource := check.resource
	if check.group != "" {
		resource = check.resource + "." + check.group
	}
	scope := "cluster-scoped"
	if check.namespace != "" {
		scope = fmt.Sprintf("namespace %q", check.namespace)
	}
	return fmt.Sprintf("%s %s (%s)", verb, resource, scope)
}
