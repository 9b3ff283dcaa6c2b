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

package ctl

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"switchyard/router/config"
	"switchyard/router/router"
)

// runMonitor establishes one pool per configured record and serves health,
// pool and metrics endpoints over them until the process is killed.
func runMonitor(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	configPath := fs.String("config", envOrDefault("SWITCHYARD_CONFIG", "database.yml"), "configuration file path")
	listen := fs.String("listen", envOrDefault("SWITCHYARD_LISTEN", ":9188"), "listen address")
	env := fs.String("env", "", "environment to monitor (default: the default environment)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := config.LoadFile(*configPath)
	if err != nil {
		return err
	}
	if *env == "" {
		*env = reg.DefaultEnvName()
	}

	rt := router.New(reg, nil)
	if err := establishAll(rt, reg, *env); err != nil {
		return err
	}

	log.Printf("🚀 switchyardctl monitor listening on %s (environment: %s)", *listen, *env)
	return http.ListenAndServe(*listen, newMonitorMux(rt))
}

// establishAll opens one pool per record of the environment. Replica
// records become reading pools, everything else writing pools, so the
// monitor exercises the same handler split the application would.
func establishAll(rt *router.Router, reg *config.Registry, env string) error {
	records, err := reg.ConfigsFor(env, "", true)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("environment %q defines no records", env)
	}

	ctx := context.Background()
	for _, rec := range records {
		role := router.Writing
		if rec.Replica() {
			role = router.Reading
		}
		if _, err := rt.EstablishConnection(ctx, rec.Name(), rec, role, router.DefaultShard); err != nil {
			return fmt.Errorf("establish %s: %w", rec.Name(), err)
		}
	}
	return nil
}

// newMonitorMux wires the monitor's HTTP surface. Split out of runMonitor
// so tests can drive it with httptest.
func newMonitorMux(rt *router.Router) *mux.Router {
	m := mux.NewRouter()
	m.HandleFunc("/health", healthHandler(rt)).Methods("GET")
	m.HandleFunc("/pools", poolsHandler(rt)).Methods("GET")
	m.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return m
}

// healthHandler probes every pool and reports 503 when any probe fails.
func healthHandler(rt *router.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := rt.HealthCheck(r.Context())

		status := "healthy"
		code := http.StatusOK
		for _, s := range statuses {
			if !s.Healthy {
				status = "degraded"
				code = http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    status,
			"service":   "switchyard-monitor",
			"timestamp": time.Now().UTC(),
			"pools":     statuses,
		}); err != nil {
			log.Printf("Error encoding health response: %v", err)
		}
	}
}

// poolsHandler lists every held pool across every handler.
func poolsHandler(rt *router.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rt.Snapshot()); err != nil {
			log.Printf("Error encoding pools response: %v", err)
		}
	}
}
