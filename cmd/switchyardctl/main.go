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

// Package main is the entry point for the switchyardctl operator command.
//
// switchyardctl inspects and monitors Switchyard database configurations:
// - Validates database.yml files and prints the records they define
// - Probes each configured database and reports reachability
// - Serves health, pool and metrics endpoints for a whole environment
//
// Usage:
//
//	switchyardctl <validate|ping|monitor> [flags]
//
// Environment Variables:
//
//	SWITCHYARD_CONFIG - configuration file path (default: database.yml)
//	SWITCHYARD_ENV - default environment name
//	SWITCHYARD_LISTEN - monitor listen address (default: :9188)
package main

import (
	"switchyard/router/ctl"
)

func main() {
	ctl.Run()
}
