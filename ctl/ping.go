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
	"flag"
	"fmt"
	"io"
	"time"

	"switchyard/router/adapter"
	"switchyard/router/config"
	"switchyard/router/pool"
)

// runPing opens every record of the target environment, probes it once and
// reports the outcome. Replicas are probed like any other record.
func runPing(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("ping", flag.ExitOnError)
	configPath := fs.String("config", envOrDefault("SWITCHYARD_CONFIG", "database.yml"), "configuration file path")
	env := fs.String("env", "", "environment to probe (default: the default environment)")
	timeout := fs.Duration("timeout", 5*time.Second, "per-target probe timeout")
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

	records, err := reg.ConfigsFor(*env, "", true)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("environment %q defines no records", *env)
	}

	failed := 0
	for _, rec := range records {
		if err := pingRecord(rec, *timeout, out); err != nil {
			fmt.Fprintf(out, "❌ %s: %v\n", rec.Name(), err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d targets unreachable", failed, len(records))
	}
	fmt.Fprintf(out, "✅ all %d targets reachable\n", len(records))
	return nil
}

// pingRecord opens a pool for one record, health-checks it and closes it
// again. The success line is printed here so the latency can be included.
func pingRecord(rec *config.Record, timeout time.Duration, out io.Writer) error {
	drv, err := adapter.For(rec)
	if err != nil {
		return err
	}
	db, err := drv.Open(rec)
	if err != nil {
		return err
	}

	handle := pool.NewHandle(db, rec)
	defer handle.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	status := handle.HealthCheck(ctx)
	if !status.Healthy {
		return fmt.Errorf("%s", status.Error)
	}
	fmt.Fprintf(out, "✅ %s: ok (%s)\n", rec.Name(), status.Latency.Round(time.Microsecond))
	return nil
}
