// Copyright 2025 Switchyard
// SPDX-License-Identifier: BUSL-1.1
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics
var (
	promPoolsEstablished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "switchyard_router_pools_established_total",
			Help: "Total number of connection pools established, by role and shard",
		},
		[]string{"role", "shard"},
	)
	promPoolsRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "switchyard_router_pools_removed_total",
			Help: "Total number of connection pools removed from their handler",
		},
	)
	promActivePools = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "switchyard_router_active_pools",
			Help: "Number of connection pools currently held across all handlers",
		},
	)
	promConnectionRetrievals = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "switchyard_router_connection_retrievals_total",
			Help: "Total number of connection retrievals through the router",
		},
	)
	promReadOnlyRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "switchyard_router_readonly_rejections_total",
			Help: "Total number of statements rejected by the write-prevention guard",
		},
	)
)

func init() {
	// Register Prometheus metrics
	prometheus.MustRegister(promPoolsEstablished)
	prometheus.MustRegister(promPoolsRemoved)
	prometheus.MustRegister(promActivePools)
	prometheus.MustRegister(promConnectionRetrievals)
	prometheus.MustRegister(promReadOnlyRejections)
}
