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

/*
Package ctl implements the switchyardctl operator command.

# Overview

switchyardctl works against the same database.yml files the library loads,
so what it validates is exactly what an application would run with. Three
subcommands cover the operational lifecycle:

  - validate: parse and normalize a configuration file, print every record
    it defines (passwords are never printed)
  - ping: open a pool per configured record, probe each once and report
    reachability with latency
  - monitor: establish pools for a whole environment and serve /health,
    /pools and /metrics endpoints over them

# Usage

	switchyardctl validate -config config/database.yml
	switchyardctl ping -env production
	switchyardctl monitor -listen :9188

Every bundled adapter (postgresql, mysql, sqlite3) is linked in, so any
adapter a configuration names resolves without extra wiring.
*/
package ctl
