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
	"flag"
	"fmt"
	"io"
	"strings"

	"switchyard/router/config"
)

// runValidate parses a configuration file and prints every record it
// defines. Passwords are never printed.
func runValidate(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", envOrDefault("SWITCHYARD_CONFIG", "database.yml"), "configuration file path")
	env := fs.String("env", "", "restrict output to one environment (default: all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := config.LoadFile(*configPath)
	if err != nil {
		return err
	}

	envs := reg.Environments()
	if *env != "" {
		found := false
		for _, e := range envs {
			if e == *env {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no records for environment %q (available: %s)", *env, strings.Join(envs, ", "))
		}
		envs = []string{*env}
	}

	total := 0
	for _, e := range envs {
		records, err := reg.ConfigsFor(e, "", true)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s:\n", e)
		width := 0
		for _, rec := range records {
			if len(rec.Name()) > width {
				width = len(rec.Name())
			}
		}
		for _, rec := range records {
			fmt.Fprintf(out, "  %-*s  %s\n", width, rec.Name(), describeRecord(rec))
			total++
		}
	}

	fmt.Fprintf(out, "✅ configuration valid: %d records across %d environments\n", total, len(envs))
	return nil
}

// describeRecord renders one record's connection settings, omitting the
// password and any unset optional fields.
func describeRecord(rec *config.Record) string {
	parts := []string{"adapter=" + valueOrUnset(rec.Adapter())}
	parts = append(parts, "database="+valueOrUnset(rec.Database()))
	if host := rec.Host(); host != "" {
		if port := rec.Port(); port != 0 {
			host = fmt.Sprintf("%s:%d", host, port)
		}
		parts = append(parts, "host="+host)
	}
	if user := rec.Username(); user != "" {
		parts = append(parts, "user="+user)
	}
	parts = append(parts, fmt.Sprintf("pool=%d", rec.PoolSize()))
	if rec.Replica() {
		parts = append(parts, "(replica)")
	}
	return strings.Join(parts, " ")
}

func valueOrUnset(v string) string {
	if v == "" {
		return "<unset>"
	}
	return v
}
