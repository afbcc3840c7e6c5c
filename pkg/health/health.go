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

package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	apperrors "github.com/eduforge/lmsctl/pkg/errors"
)

// Prober issues the post-deployment reachability check.
type Prober struct {
	client    kubernetes.Interface
	namespace string
	timeout   time.Duration

	// transport overrides the HTTP transport; nil means the default.
	// Swappable for tests.
	transport http.RoundTripper
}

// NewProber creates a Prober for the target namespace. timeout bounds the
// single HTTP request.
func NewProber(client kubernetes.Interface, namespace string, timeout time.Duration) *Prober {
	return &Prober{
		client:    client,
		namespace: namespace,
		timeout:   timeout,
	}
}

// Probe finds the first externally routable service and issues one HEAD
// request against its first port. Every returned error carries warning
// severity: the probe can never abort a run.
func (p *Prober) Probe(ctx context.Context) error {
	services, err := p.client.CoreV1().Services(p.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return apperrors.WrapWarning(apperrors.ErrCodeProbeInconclusive,
			"could not list services for the health probe", err)
	}

	svc := firstLoadBalancer(services.Items)
	if svc == nil {
		return apperrors.Warnf(apperrors.ErrCodeProbeInconclusive,
			"no externally routable service in namespace %s", p.namespace)
	}

	address := externalAddress(svc)
	if address == "" {
		// Cloud providers can take minutes to assign an address. Probing a
		// pending service would only ever time out, so don't.
		return apperrors.Warnf(apperrors.ErrCodeProbeInconclusive,
			"external address of service %s still pending, probe skipped", svc.Name)
	}
	if len(svc.Spec.Ports) == 0 {
		return apperrors.Warnf(apperrors.ErrCodeProbeInconclusive,
			"service %s exposes no ports, probe skipped", svc.Name)
	}

	url := fmt.Sprintf("http://%s:%d/", address, svc.Spec.Ports[0].Port)
	return p.head(ctx, url)
}

func (p *Prober) head(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return apperrors.WrapWarning(apperrors.ErrCodeProbeInconclusive,
			"could not build probe request", err)
	}

	client := &http.Client{Timeout: p.timeout, Transport: p.transport}
	resp, err := client.Do(req)
	if err != nil {
		return apperrors.WrapWarning(apperrors.ErrCodeProbeInconclusive,
			fmt.Sprintf("health probe against %s did not complete", url), err)
	}
	defer resp.Body.Close()

	slog.Info("health probe response", "url", url, "status", resp.Proto+" "+resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.Warnf(apperrors.ErrCodeProbeInconclusive,
			"health probe returned %s", resp.Status)
	}
	return nil
}

func firstLoadBalancer(services []corev1.Service) *corev1.Service {
	for i := range services {
		if services[i].Spec.Type == corev1.ServiceTypeLoadBalancer {
			return &services[i]
		}
	}
	return nil
}

// externalAddress returns the assigned IP or hostname, or empty while the
// provider has not assigned one yet.
func externalAddress(svc *corev1.Service) string {
	for _, ing := range svc.Status.LoadBalancer.Ingress {
		if ing.IP != "" {
			return ing.IP
		}
		if ing.Hostname != "" {
			return ing.Hostname
		}
	}
	return ""
}
