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

package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeDelivered = "delivered"
	outcomeBuffered  = "buffered"

	modeDirect = "direct"
	modeDrain  = "drain"
)

var (
	fragmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docxref_registry_fragments_total",
			Help: "Total number of fragments registered, by outcome",
		},
		[]string{"registry", "outcome"},
	)

	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docxref_registry_deliveries_total",
			Help: "Total number of consumer deliveries, by mode",
		},
		[]string{"registry", "mode"},
	)

	consumerRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docxref_registry_consumer_rejections_total",
			Help: "Total number of rejected second consumer registrations",
		},
		[]string{"registry"},
	)
)
