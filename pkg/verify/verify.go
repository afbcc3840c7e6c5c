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

package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Verifier produces read-only snapshots of one namespace.
type Verifier struct {
	client    kubernetes.Interface
	namespace string
}

// NewVerifier creates a Verifier around an established clientset.
func NewVerifier(client kubernetes.Interface, namespace string) *Verifier {
	return &Verifier{client: client, namespace: namespace}
}

// Snapshot lists pods, services, ingresses, and autoscalers in the target
// namespace. It never returns an error: categories that cannot be listed are
// recorded as warnings on the report and the remaining categories are still
// collected.
func (v *Verifier) Snapshot(ctx context.Context) *Report {
	report := &Report{
		Namespace:   v.namespace,
		CollectedAt: time.Now(),
	}
	v.collectPods(ctx, report)
	v.collectServices(ctx, report)
	v.collectIngresses(ctx, report)
	v.collectAutoscalers(ctx, report)
	return report
}

func (v *Verifier) collectPods(ctx context.Context, report *Report) {
	pods, err := v.client.CoreV1().Pods(v.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		report.warn("pods", err)
		return
	}
	for _, pod := range pods.Items {
		ready := 0
		var restarts int32
		for _, cs := range pod.Status.ContainerStatuses {
			if cs.Ready {
				ready++
			}
			restarts += cs.RestartCount
		}
		report.Pods = append(report.Pods, PodSummary{
			Name:     pod.Name,
			Phase:    string(pod.Status.Phase),
			Ready:    fmt.Sprintf("%d/%d", ready, len(pod.Spec.Containers)),
			Restarts: restarts,
		})
	}
}

func (v *Verifier) collectServices(ctx context.Context, report *Report) {
	services, err := v.client.CoreV1().Services(v.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		report.warn("services", err)
		return
	}
	for _, svc := range services.Items {
		report.Services = append(report.Services, ServiceSummary{
			Name:       svc.Name,
			Type:       string(svc.Spec.Type),
			ClusterIP:  svc.Spec.ClusterIP,
			ExternalIP: externalAddress(svc),
			Ports:      formatPorts(svc.Spec.Ports),
		})
	}
}

func (v *Verifier) collectIngresses(ctx context.Context, report *Report) {
	ingresses, err := v.client.NetworkingV1().Ingresses(v.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		report.warn("ingresses", err)
		return
	}
	for _, ing := range ingresses.Items {
		var class string
		if ing.Spec.IngressClassName != nil {
			class = *ing.Spec.IngressClassName
		}
		report.Ingresses = append(report.Ingresses, IngressSummary{
			Name:    ing.Name,
			Class:   class,
			Hosts:   ingressHosts(ing),
			Address: ingressAddress(ing),
		})
	}
}

func (v *Verifier) collectAutoscalers(ctx context.Context, report *Report) {
	autoscalers, err := v.client.AutoscalingV2().HorizontalPodAutoscalers(v.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		report.warn("autoscalers", err)
		return
	}
	for _, hpa := range autoscalers.Items {
		min := int32(1)
		if hpa.Spec.MinReplicas != nil {
			min = *hpa.Spec.MinReplicas
		}
		report.Autoscalers = append(report.Autoscalers, AutoscalerSummary{
			Name:    hpa.Name,
			Target:  fmt.Sprintf("%s/%s", hpa.Spec.ScaleTargetRef.Kind, hpa.Spec.ScaleTargetRef.Name),
			Min:     min,
			Max:     hpa.Spec.MaxReplicas,
			Current: hpa.Status.CurrentReplicas,
		})
	}
}

// externalAddress resolves the externally routable address of a service.
// Only LoadBalancer services have one; an allocated-but-unassigned address
// reports as pending.
func externalAddress(svc corev1.Service) string {
	if svc.Spec.Type != corev1.ServiceTypeLoadBalancer {
		return ""
	}
	for _, ing := range svc.Status.LoadBalancer.Ingress {
		if ing.IP != "" {
			return ing.IP
		}
		if ing.Hostname != "" {
			return ing.Hostname
		}
	}
	return "<pending>"
}

func formatPorts(ports []corev1.ServicePort) string {
	parts := make([]string, 0, len(ports))
	for _, port := range ports {
		proto := port.Protocol
		if proto == "" {
			proto = corev1.ProtocolTCP
		}
		parts = append(parts, fmt.Sprintf("%d/%s", port.Port, proto))
	}
	return strings.Join(parts, ",")
}

func ingressHosts(ing networkingv1.Ingress) string {
	var hosts []string
	for _, rule := range ing.Spec.Rules {
		if rule.Host != "" {
			hosts = append(hosts, rule.Host)
		}
	}
	if len(hosts) == 0 {
		return "*"
	}
	return strings.Join(hosts, ",")
}

func ingressAddress(ing networkingv1.Ingress) string {
	for _, lb := range ing.Status.LoadBalancer.Ingress {
		if lb.IP != "" {
			return lb.IP
		}
		if lb.Hostname != "" {
			return lb.Hostname
		}
	}
	return "<pending>"
}
