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
Command switchyardctl inspects and monitors Switchyard database
configurations.

# Usage

	switchyardctl validate [-config FILE] [-env NAME]
	switchyardctl ping [-config FILE] [-env NAME] [-timeout D]
	switchyardctl monitor [-config FILE] [-env NAME] [-listen ADDR]

# Environment Variables

Optional:
  - SWITCHYARD_CONFIG: configuration file path (default: database.yml)
  - SWITCHYARD_ENV: default environment name
  - SWITCHYARD_LISTEN: monitor listen address (default: :9188)

# Example

	export SWITCHYARD_CONFIG=config/database.yml
	switchyardctl validate
	switchyardctl ping -env production -timeout 2s
	switchyardctl monitor -listen :9188
*/
package main
