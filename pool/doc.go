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
Package pool wraps database/sql pools in handles the router can own,
enumerate, and fan out over.

# Overview

A Handle pairs one *sql.DB with the configuration record it was built
from, an identity for logs, and lease tracking for checked-out
connections. The checkout, timeout, and reaping machinery stays inside
database/sql; this package adds only what the router needs on top:

	handle := pool.NewHandle(db, rec)

	conn, err := handle.Checkout(ctx) // blocks up to the record's checkout timeout
	defer handle.Release(conn)

	handle.ActiveConnection() // most recent outstanding lease
	handle.ClearActive()      // close every outstanding lease
	handle.FlushIdle()        // drop idle connections
	handle.HealthCheck(ctx)   // ping plus pool counters

A Registry is the two-level role-to-shard map of handles kept per owner.
Lookups are strict: absence reports not-found instead of creating
entries, so "never established" and "established then emptied" stay
distinguishable. Set reports the handle it displaced rather than closing
it, because a replaced pool may still have checkouts in flight.
*/
package pool
