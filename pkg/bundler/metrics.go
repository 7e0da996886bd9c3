// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package bundler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbundle_builds_total",
			Help: "Total number of bundle builds",
		},
		[]string{"status"},
	)

	buildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cbundle_build_duration_seconds",
			Help:    "Bundle build duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	bundlePartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cbundle_bundle_parts_total",
			Help: "Total number of Java bundle parts added, by kind",
		},
		[]string{"kind"},
	)

	staticResourcesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cbundle_static_resources_total",
			Help: "Total number of static resources added to bundles",
		},
	)
)
