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
	"fmt"
	"log"
	"os"

	// Register every bundled adapter so any configured database works
	// from the binary without extra wiring.
	_ "switchyard/router/adapter/mysql"
	_ "switchyard/router/adapter/postgres"
	_ "switchyard/router/adapter/sqlite"
)

// Run is the exported entry point for the switchyardctl binary. It
// dispatches on the first argument and exits non-zero on failure.
func Run() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "validate":
		err = runValidate(os.Stdout, args)
	case "ping":
		err = runPing(os.Stdout, args)
	case "monitor":
		err = runMonitor(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(os.Stderr)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("❌ %s: %v", cmd, err)
	}
}

func printUsage(w *os.File) {
	fmt.Fprint(w, `switchyardctl - inspect and monitor Switchyard database configurations

Usage:

	switchyardctl <command> [flags]

Commands:

	validate   parse a database.yml and report every record it defines
	ping       open each configured database and run a health probe
	monitor    serve /health, /pools and /metrics for the configured databases
	help       show this message

Environment Variables:

	SWITCHYARD_CONFIG   configuration file path (default: database.yml)
	SWITCHYARD_ENV      default environment name
	SWITCHYARD_LISTEN   monitor listen address (default: :9188)

Run 'switchyardctl <command> -h' for command flags.
`)
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
