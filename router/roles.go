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

// Role names a connection purpose. Connections for different roles may be
// routed to different physical databases (a primary for writing, a replica
// for reading).
type Role string

// Shard names a horizontal partition of an owner's data. Each shard carries
// its own per-role pool set.
type Shard string

// Process-wide role and shard defaults. Applications that want different
// names (for example "primary"/"replica") should assign these once at
// startup, before any router is constructed.
var (
	// Writing is the role used for connections that accept writes.
	Writing Role = "writing"

	// Reading is the role used for read-only connections. Entering a scope
	// with this role always activates write prevention.
	Reading Role = "reading"

	// DefaultShard is the shard assumed when none is named.
	DefaultShard Shard = "default"
)
