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

package pool

import (
	"sort"
	"sync"
)

// Registry is a two-level map from role to shard to handle, one instance
// per logical owner. Readers proceed concurrently; structural mutation is
// exclusive.
//
// Get is strict: an absent role or shard reports not-found rather than
// creating anything. Only Set materializes inner maps, which keeps absence
// distinguishable from an established-then-empty role.
type Registry struct {
	mu    sync.RWMutex
	pools map[string]map[string]*Handle
}

// NewRegistry creates an empty pool registry.
func NewRegistry() *Registry {
	return &Registry{
		pools: make(map[string]map[string]*Handle),
	}
}

// Get returns the handle for (role, shard), or ok=false when the slot has
// never been set.
func (r *Registry) Get(role, shard string) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shards, ok := r.pools[role]
	if !ok {
		return nil, false
	}
	handle, ok := shards[shard]
	return handle, ok
}

// Set inserts or replaces the handle for (role, shard) and returns the
// handle it displaced, if any. The displaced handle is not closed here;
// in-flight checkouts on it stay valid and cleanup belongs to the caller.
func (r *Registry) Set(role, shard string, handle *Handle) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shards, ok := r.pools[role]
	if !ok {
		shards = make(map[string]*Handle)
		r.pools[role] = shards
	}

	previous, replaced := shards[shard]
	shards[shard] = handle
	return previous, replaced
}

// Remove deletes the (role, shard) slot and returns the removed handle, or
// ok=false when the slot was never set. Ownership of the handle passes to
// the caller.
func (r *Registry) Remove(role, shard string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shards, ok := r.pools[role]
	if !ok {
		return nil, false
	}
	handle, ok := shards[shard]
	if !ok {
		return nil, false
	}

	delete(shards, shard)
	if len(shards) == 0 {
		delete(r.pools, role)
	}
	return handle, true
}

// entry is one (role, shard, handle) triple snapshotted for enumeration.
type entry struct {
	role   string
	shard  string
	handle *Handle
}

// snapshot copies the registry contents in sorted role/shard order, so
// enumeration runs without holding the lock across callbacks.
func (r *Registry) snapshot() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entry
	for _, role := range sortedKeys(r.pools) {
		shards := r.pools[role]
		for _, shard := range sortedKeys(shards) {
			out = append(out, entry{role: role, shard: shard, handle: shards[shard]})
		}
	}
	return out
}

// Each calls fn for every handle, in sorted role/shard order. The
// registry lock is not held during calls, so fn may perform pool I/O.
func (r *Registry) Each(fn func(role, shard string, handle *Handle)) {
	for _, e := range r.snapshot() {
		fn(e.role, e.shard, e.handle)
	}
}

// RolePools returns a copy of one role's shard map. The copy is safe to
// iterate while the registry keeps changing.
func (r *Registry) RolePools(role string) map[string]*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shards, ok := r.pools[role]
	if !ok {
		return nil
	}
	out := make(map[string]*Handle, len(shards))
	for shard, handle := range shards {
		out[shard] = handle
	}
	return out
}

// Roles returns the roles with at least one established pool, sorted.
func (r *Registry) Roles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.pools)
}

// Len returns the number of established (role, shard) slots.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, shards := range r.pools {
		n += len(shards)
	}
	return n
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
