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

	"golang.org/x/time/rate"
	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	storagev1 "k8s.io/api/storage/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"

	apperrors "github.com/eduforge/lmsctl/pkg/errors"
	"github.com/eduforge/lmsctl/pkg/manifest"
)

// Applier creates or updates the resources of a manifest set. Calls are
// paced by a client-side rate limiter so a large set does not flood the
// API server.
type Applier struct {
	client  kubernetes.Interface
	limiter *rate.Limiter
}

// NewApplier creates an Applier around an established clientset. qps and
// burst bound the request rate against the API server.
func NewApplier(client kubernetes.Interface, qps float64, burst int) *Applier {
	return &Applier{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(qps), burst),
	}
}

// Apply creates every resource in the set in document order, updating those
// that already exist. The first rejected resource aborts the set.
func (a *Applier) Apply(ctx context.Context, set *manifest.Set) error {
	for _, obj := range set.Objects {
		if err := a.limiter.Wait(ctx); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeApplyFailed, "apply interrupted", err)
		}
		if err := a.applyObject(ctx, obj); err != nil {
			return err
		}
		slog.Debug("resource applied", "set", set.Name, "resource", describe(obj))
	}
	return nil
}

func (a *Applier) applyObject(ctx context.Context, obj runtime.Object) error {
	switch res := obj.(type) {
	case *corev1.Namespace:
		return a.applyNamespace(ctx, res)
	case *corev1.PersistentVolume:
		return a.applyPersistentVolume(ctx, res)
	case *corev1.PersistentVolumeClaim:
		return a.applyPersistentVolumeClaim(ctx, res)
	case *storagev1.StorageClass:
		return a.applyStorageClass(ctx, res)
	case *corev1.ConfigMap:
		return a.applyConfigMap(ctx, res)
	case *corev1.Secret:
		return a.applySecret(ctx, res)
	case *appsv1.Deployment:
		return a.applyDeployment(ctx, res)
	case *corev1.Service:
		return a.applyService(ctx, res)
	case *autoscalingv2.HorizontalPodAutoscaler:
		return a.applyAutoscaler(ctx, res)
	case *networkingv1.Ingress:
		return a.applyIngress(ctx, res)
	default:
		return apperrors.Newf(apperrors.ErrCodeApplyFailed, "no apply handler for %s", describe(obj))
	}
}

// applyNamespace creates the namespace. An existing namespace is left in
// place (idempotent).
func (a *Applier) applyNamespace(ctx context.Context, ns *corev1.Namespace) error {
	_, err := a.client.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		slog.Debug("namespace already exists, leaving in place", "name", ns.Name)
		return nil
	}
	return wrapApply("Namespace", ns.Name, err)
}

// applyPersistentVolume creates the volume. An existing volume is left in
// place: PV specs are effectively immutable once bound.
func (a *Applier) applyPersistentVolume(ctx context.Context, pv *corev1.PersistentVolume) error {
	_, err := a.client.CoreV1().PersistentVolumes().Create(ctx, pv, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		slog.Debug("persistent volume already exists, leaving in place", "name", pv.Name)
		return nil
	}
	return wrapApply("PersistentVolume", pv.Name, err)
}

// applyPersistentVolumeClaim creates the claim. Claim specs are immutable
// after binding, so an existing claim is left untouched.
func (a *Applier) applyPersistentVolumeClaim(ctx context.Context, pvc *corev1.PersistentVolumeClaim) error {
	_, err := a.client.CoreV1().PersistentVolumeClaims(pvc.Namespace).Create(ctx, pvc, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		slog.Debug("persistent volume claim already exists, leaving in place",
			"namespace", pvc.Namespace, "name", pvc.Name)
		return nil
	}
	return wrapApply("PersistentVolumeClaim", pvc.Name, err)
}

// applyStorageClass creates the storage class. Parameters are immutable, so
// an existing class is left in place.
func (a *Applier) applyStorageClass(ctx context.Context, sc *storagev1.StorageClass) error {
	_, err := a.client.StorageV1().StorageClasses().Create(ctx, sc, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		slog.Debug("storage class already exists, leaving in place", "name", sc.Name)
		return nil
	}
	return wrapApply("StorageClass", sc.Name, err)
}

// applyConfigMap creates the ConfigMap, replacing the data of an existing one.
func (a *Applier) applyConfigMap(ctx context.Context, cm *corev1.ConfigMap) error {
	client := a.client.CoreV1().ConfigMaps(cm.Namespace)
	_, err := client.Create(ctx, cm, metav1.CreateOptions{})
	if !apierrors.IsAlreadyExists(err) {
		return wrapApply("ConfigMap", cm.Name, err)
	}
	current, err := client.Get(ctx, cm.Name, metav1.GetOptions{})
	if err != nil {
		return wrapApply("ConfigMap", cm.Name, err)
	}
	cm.ResourceVersion = current.ResourceVersion
	_, err = client.Update(ctx, cm, metav1.UpdateOptions{})
	return wrapApply("ConfigMap", cm.Name, err)
}

// applySecret creates the Secret, replacing the data of an existing one.
func (a *Applier) applySecret(ctx context.Context, secret *corev1.Secret) error {
	client := a.client.CoreV1().Secrets(secret.Namespace)
	_, err := client.Create(ctx, secret, metav1.CreateOptions{})
	if !apierrors.IsAlreadyExists(err) {
		return wrapApply("Secret", secret.Name, err)
	}
	current, err := client.Get(ctx, secret.Name, metav1.GetOptions{})
	if err != nil {
		return wrapApply("Secret", secret.Name, err)
	}
	secret.ResourceVersion = current.ResourceVersion
	_, err = client.Update(ctx, secret, metav1.UpdateOptions{})
	return wrapApply("Secret", secret.Name, err)
}

// applyDeployment creates the Deployment, rolling an existing one to the new
// pod template.
func (a *Applier) applyDeployment(ctx context.Context, deploy *appsv1.Deployment) error {
	client := a.client.AppsV1().Deployments(deploy.Namespace)
	_, err := client.Create(ctx, deploy, metav1.CreateOptions{})
	if !apierrors.IsAlreadyExists(err) {
		return wrapApply("Deployment", deploy.Name, err)
	}
	current, err := client.Get(ctx, deploy.Name, metav1.GetOptions{})
	if err != nil {
		return wrapApply("Deployment", deploy.Name, err)
	}
	deploy.ResourceVersion = current.ResourceVersion
	_, err = client.Update(ctx, deploy, metav1.UpdateOptions{})
	return wrapApply("Deployment", deploy.Name, err)
}

// applyService creates the Service, updating an existing one. The allocated
// clusterIP is immutable and must be carried over on update.
func (a *Applier) applyService(ctx context.Context, svc *corev1.Service) error {
	client := a.client.CoreV1().Services(svc.Namespace)
	_, err := client.Create(ctx, svc, metav1.CreateOptions{})
	if !apierrors.IsAlreadyExists(err) {
		return wrapApply("Service", svc.Name, err)
	}
	current, err := client.Get(ctx, svc.Name, metav1.GetOptions{})
	if err != nil {
		return wrapApply("Service", svc.Name, err)
	}
	svc.ResourceVersion = current.ResourceVersion
	svc.Spec.ClusterIP = current.Spec.ClusterIP
	svc.Spec.ClusterIPs = current.Spec.ClusterIPs
	_, err = client.Update(ctx, svc, metav1.UpdateOptions{})
	return wrapApply("Service", svc.Name, err)
}

// applyAutoscaler creates the HorizontalPodAutoscaler, updating the bounds
// and metrics of an existing one.
func (a *Applier) applyAutoscaler(ctx context.Context, hpa *autoscalingv2.HorizontalPodAutoscaler) error {
	client := a.client.AutoscalingV2().HorizontalPodAutoscalers(hpa.Namespace)
	_, err := client.Create(ctx, hpa, metav1.CreateOptions{})
	if !apierrors.IsAlreadyExists(err) {
		return wrapApply("HorizontalPodAutoscaler", hpa.Name, err)
	}
	current, err := client.Get(ctx, hpa.Name, metav1.GetOptions{})
	if err != nil {
		return wrapApply("HorizontalPodAutoscaler", hpa.Name, err)
	}
	hpa.ResourceVersion = current.ResourceVersion
	_, err = client.Update(ctx, hpa, metav1.UpdateOptions{})
	return wrapApply("HorizontalPodAutoscaler", hpa.Name, err)
}

// applyIngress creates the Ingress, updating the rules of an existing one.
func (a *Applier) applyIngress(ctx context.Context, ing *networkingv1.Ingress) error {
	client := a.client.NetworkingV1().Ingresses(ing.Namespace)
	_, err := client.Create(ctx, ing, metav1.CreateOptions{})
	if !apierrors.IsAlreadyExists(err) {
		return wrapApply("Ingress", ing.Name, err)
	}
	current, err := client.Get(ctx, ing.Name, metav1.GetOptions{})
	if err != nil {
		return wrapApply("Ingress", ing.Name, err)
	}
	ing.ResourceVersion = current.ResourceVersion
	_, err = client.Update(ctx, ing, metav1.UpdateOptions{})
	return wrapApply("Ingress", ing.Name, err)
}

// wrapApply classifies a rejected apply call, passing nil through untouched.
func wrapApply(kind, name string, err error) error {
	if err == nil {
		return nil
	}
	return apperrors.WrapWithContext(apperrors.ErrCodeApplyFailed,
		fmt.Sprintf("failed to apply %s %s", kind, name), err,
		map[string]any{"kind": kind, "name": name})
}

// describe renders a short identity for log and error messages, e.g.
// "v1.Service eduforge/lms".
func describe(obj runtime.Object) string {
	typeName := strings.TrimPrefix(fmt.Sprintf("%T", obj), "*")
	acc, err := meta.Accessor(obj)
	if err != nil {
		return typeName
	}
	if acc.GetNamespace() != "" {
		return fmt.Sprintf("%s %s/%s", typeName, acc.GetNamespace(), acc.GetName())
	}
	return fmt.Sprintf("%s %s", typeName, acc.GetName())
}
