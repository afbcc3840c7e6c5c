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

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Run level metrics
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lmsctl_pipeline_runs_total",
			Help: "Total number of pipeline runs by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	// Stage level metrics
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lmsctl_pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)
	stageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lmsctl_pipeline_stage_failures_total",
			Help: "Total number of hard stage failures",
		},
		[]string{"stage"},
	)
)
