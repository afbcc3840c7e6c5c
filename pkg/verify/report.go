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
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PodSummary is one pod row of the report.
type PodSummary struct {
	Name     string `json:"name" yaml:"name"`
	Phase    string `json:"phase" yaml:"phase"`
	Ready    string `json:"ready" yaml:"ready"`
	Restarts int32  `json:"restarts" yaml:"restarts"`
}

// ServiceSummary is one service row of the report.
type ServiceSummary struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	ClusterIP  string `json:"clusterIP" yaml:"clusterIP"`
	ExternalIP string `json:"externalIP,omitempty" yaml:"externalIP,omitempty"`
	Ports      string `json:"ports" yaml:"ports"`
}

// IngressSummary is one ingress row of the report.
type IngressSummary struct {
	Name    string `json:"name" yaml:"name"`
	Class   string `json:"class,omitempty" yaml:"class,omitempty"`
	Hosts   string `json:"hosts" yaml:"hosts"`
	Address string `json:"address" yaml:"address"`
}

// AutoscalerSummary is one autoscaler row of the report.
type AutoscalerSummary struct {
	Name    string `json:"name" yaml:"name"`
	Target  string `json:"target" yaml:"target"`
	Min     int32  `json:"min" yaml:"min"`
	Max     int32  `json:"max" yaml:"max"`
	Current int32  `json:"current" yaml:"current"`
}

// Report is the read-only state snapshot of one namespace. Warnings carry
// listing errors; they never fail the run.
type Report struct {
	Namespace   string              `json:"namespace" yaml:"namespace"`
	CollectedAt time.Time           `json:"collectedAt" yaml:"collectedAt"`
	Pods        []PodSummary        `json:"pods" yaml:"pods"`
	Services    []ServiceSummary    `json:"services" yaml:"services"`
	Ingresses   []IngressSummary    `json:"ingresses" yaml:"ingresses"`
	Autoscalers []AutoscalerSummary `json:"autoscalers" yaml:"autoscalers"`
	Warnings    []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func (r *Report) warn(category string, err error) {
	slog.Warn("verification listing failed", "category", category, "error", err)
	r.Warnings = append(r.Warnings, fmt.Sprintf("failed to list %s: %v", category, err))
}

// WriteTable renders the report as an aligned human-readable table.
func (r *Report) WriteTable(w io.Writer) error {
	title := cases.Title(language.English)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Namespace: %s\n", r.Namespace)
	fmt.Fprintf(tw, "Collected: %s\n", r.CollectedAt.Format(time.RFC3339))

	fmt.Fprintf(tw, "\n%s\n", title.String("pods"))
	if len(r.Pods) == 0 {
		fmt.Fprintln(tw, "  (none)")
	} else {
		fmt.Fprintln(tw, "NAME\tPHASE\tREADY\tRESTARTS")
		for _, pod := range r.Pods {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", pod.Name, pod.Phase, pod.Ready, pod.Restarts)
		}
	}

	fmt.Fprintf(tw, "\n%s\n", title.String("services"))
	if len(r.Services) == 0 {
		fmt.Fprintln(tw, "  (none)")
	} else {
		fmt.Fprintln(tw, "NAME\tTYPE\tCLUSTER-IP\tEXTERNAL-IP\tPORTS")
		for _, svc := range r.Services {
			external := svc.ExternalIP
			if external == "" {
				external = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", svc.Name, svc.Type, svc.ClusterIP, external, svc.Ports)
		}
	}

	fmt.Fprintf(tw, "\n%s\n", title.String("ingresses"))
	if len(r.Ingresses) == 0 {
		fmt.Fprintln(tw, "  (none)")
	} else {
		fmt.Fprintln(tw, "NAME\tCLASS\tHOSTS\tADDRESS")
		for _, ing := range r.Ingresses {
			class := ing.Class
			if class == "" {
				class = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ing.Name, class, ing.Hosts, ing.Address)
		}
	}

	fmt.Fprintf(tw, "\n%s\n", title.String("autoscalers"))
	if len(r.Autoscalers) == 0 {
		fmt.Fprintln(tw, "  (none)")
	} else {
		fmt.Fprintln(tw, "NAME\tTARGET\tMIN\tMAX\tCURRENT")
		for _, hpa := range r.Autoscalers {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", hpa.Name, hpa.Target, hpa.Min, hpa.Max, hpa.Current)
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(tw, "\n%s\n", title.String("warnings"))
		for _, warning := range r.Warnings {
			fmt.Fprintf(tw, "  - %s\n", warning)
		}
	}

	return tw.Flush()
}
