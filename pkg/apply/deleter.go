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

package apply

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	storagev1 "k8s.io/api/storage/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/ptr"

	apperrors "github.com/eduforge/lmsctl/pkg/errors"
	"github.com/eduforge/lmsctl/pkg/manifest"
)

// StepStatus classifies the outcome of one teardown step.
type StepStatus string

const (
	// StatusDeleted means at least one resource was removed and nothing failed.
	StatusDeleted StepStatus = "deleted"
	// StatusSkipped means every resource of the step was already gone.
	StatusSkipped StepStatus = "skipped"
	// StatusFailed means at least one deletion was rejected. Remaining
	// resources of the step were still attempted.
	StatusFailed StepStatus = "failed"
)

// Step records the outcome of tearing down one resource set.
type Step struct {
	Name    string     `json:"name" yaml:"name"`
	Status  StepStatus `json:"status" yaml:"status"`
	Deleted int        `json:"deleted" yaml:"deleted"`
	Error   string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Deleter tears down the resources of manifest sets. Every call is best
// effort: missing resources are tolerated and one rejected deletion does not
// stop the remaining ones.
type Deleter struct {
	client kubernetes.Interface
}

// NewDeleter creates a Deleter around an established clientset.
func NewDeleter(client kubernetes.Interface) *Deleter {
	return &Deleter{client: client}
}

// DeleteSet deletes every resource in the set in reverse document order and
// reports the outcome. It never returns an error: failures are recorded on
// the Step so the caller can keep tearing down.
func (d *Deleter) DeleteSet(ctx context.Context, set *manifest.Set) Step {
	step := Step{Name: set.Name, Status: StatusSkipped}
	var failures []string

	for i := len(set.Objects) - 1; i >= 0; i-- {
		deleted, err := d.deleteObject(ctx, set.Objects[i])
		if err != nil {
			slog.Warn("resource deletion failed", "set", set.Name, "error", err)
			failures = append(failures, err.Error())
			continue
		}
		if deleted {
			step.Deleted++
		}
	}

	if len(failures) > 0 {
		step.Status = StatusFailed
		step.Error = strings.Join(failures, "; ")
		return step
	}
	if step.Deleted > 0 {
		step.Status = StatusDeleted
	}
	return step
}

// DeleteNamespace removes the named namespace with foreground propagation so
// remaining namespaced resources go with it. Like DeleteSet it reports the
// outcome instead of returning an error.
func (d *Deleter) DeleteNamespace(ctx context.Context, name string) Step {
	err := d.client.CoreV1().Namespaces().Delete(ctx, name, foregroundDelete())
	if apierrors.IsNotFound(err) {
		return Step{Name: "namespace", Status: StatusSkipped}
	}
	if err != nil {
		slog.Warn("namespace deletion failed", "namespace", name, "error", err)
		return Step{Name: "namespace", Status: StatusFailed, Error: err.Error()}
	}
	return Step{Name: "namespace", Status: StatusDeleted, Deleted: 1}
}

// deleteObject removes a single resource. The bool reports whether anything
// was actually deleted; a resource that is already gone is not an error.
func (d *Deleter) deleteObject(ctx context.Context, obj runtime.Object) (bool, error) {
	var err error
	switch res := obj.(type) {
	case *corev1.Namespace:
		err = d.client.CoreV1().Namespaces().Delete(ctx, res.Name, foregroundDelete())
	case *corev1.PersistentVolume:
		err = d.client.CoreV1().PersistentVolumes().Delete(ctx, res.Name, metav1.DeleteOptions{})
	case *corev1.PersistentVolumeClaim:
		err = d.client.CoreV1().PersistentVolumeClaims(res.Namespace).Delete(ctx, res.Name, metav1.DeleteOptions{})
	case *storagev1.StorageClass:
		err = d.client.StorageV1().StorageClasses().Delete(ctx, res.Name, metav1.DeleteOptions{})
	case *corev1.ConfigMap:
		err = d.client.CoreV1().ConfigMaps(res.Namespace).Delete(ctx, res.Name, metav1.DeleteOptions{})
	case *corev1.Secret:
		err = d.client.CoreV1().Secrets(res.Namespace).Delete(ctx, res.Name, metav1.DeleteOptions{})
	case *appsv1.Deployment:
		err = d.client.AppsV1().Deployments(res.Namespace).Delete(ctx, res.Name, foregroundDelete())
	case *corev1.Service:
		err = d.client.CoreV1().Services(res.Namespace).Delete(ctx, res.Name, metav1.DeleteOptions{})
	case *autoscalingv2.HorizontalPodAutoscaler:
		err = d.client.AutoscalingV2().HorizontalPodAutoscalers(res.Namespace).Delete(ctx, res.Name, metav1.DeleteOptions{})
	case *networkingv1.Ingress:
		err = d.client.NetworkingV1().Ingresses(res.Namespace).Delete(ctx, res.Name, metav1.DeleteOptions{})
	default:
		return false, apperrors.Newf(apperrors.ErrCodeDeleteFailed, "no delete handler for %s", describe(obj))
	}

	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrCodeDeleteFailed,
			fmt.Sprintf("failed to delete %s", describe(obj)), err)
	}
	return true, nil
}

// foregroundDelete makes the API server finish dependent deletions before
// reporting the owner gone.
func foregroundDelete() metav1.DeleteOptions {
	return metav1.DeleteOptions{
		PropagationPolicy: ptr.To(metav1.DeletePropagationForeground),
	}
}
