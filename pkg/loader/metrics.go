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

package loader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultLoaded  = "loaded"
	resultMissing = "missing"
	resultError   = "error"
)

var (
	fragmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docxref_loader_fragments_total",
			Help: "Total number of fragment reads, by source and result",
		},
		[]string{"source", "result"},
	)

	loadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docxref_loader_load_duration_seconds",
			Help:    "Time to load one item's fragments from all sources",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)
