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

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"switchyard/router/adapter"
	"switchyard/router/config"
	"switchyard/router/pool"
	"switchyard/router/shared/logger"
)

// Handler owns one pool registry per logical owner and is the only path
// through which pools are created, looked up, and removed. Registries are
// created on first use; lookups never create anything.
//
// A process normally runs one handler per role key, managed by a Router.
// Handlers are safe for concurrent use.
type Handler struct {
	mu     sync.RWMutex
	owners map[string]*pool.Registry

	adapters *adapter.Registry
	logger   *logger.Logger
}

// NewHandler returns an empty handler resolving drivers from the given
// adapter registry, or from the process-wide default when nil.
func NewHandler(adapters *adapter.Registry) *Handler {
	if adapters == nil {
		adapters = adapter.Default()
	}
	return &Handler{
		owners:   make(map[string]*pool.Registry),
		adapters: adapters,
		logger:   logger.New("handler"),
	}
}

// registryFor resolves the owner's pool registry, creating it on first
// use. This is the only get-or-create path; see lookup for the strict one.
func (h *Handler) registryFor(owner string) *pool.Registry {
	h.mu.RLock()
	reg := h.owners[owner]
	h.mu.RUnlock()
	if reg != nil {
		return reg
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if reg := h.owners[owner]; reg != nil {
		return reg
	}
	reg = pool.NewRegistry()
	h.owners[owner] = reg
	return reg
}

func (h *Handler) lookup(owner string) (*pool.Registry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	reg, ok := h.owners[owner]
	return reg, ok
}

// Establish opens a pool for rec through its adapter's driver and binds
// it to the owner's (role, shard) slot, creating the owner's registry on
// first use. An empty role defaults to Writing and an empty shard to
// DefaultShard.
//
// Replacing an occupied slot does not close or drain the previous handle;
// ownership of the displaced handle passes to the caller's lifecycle.
func (h *Handler) Establish(rec *config.Record, owner string, role Role, shard Shard) (*pool.Handle, error) {
	if rec == nil {
		return nil, &config.InvalidReferenceError{Value: nil}
	}
	if role == "" {
		role = Writing
	}
	if shard == "" {
		shard = DefaultShard
	}

	drv, err := h.adapters.For(rec)
	if err != nil {
		return nil, err
	}
	db, err := drv.Open(rec)
	if err != nil {
		return nil, err
	}

	handle := pool.NewHandle(db, rec)
	prev, replaced := h.registryFor(owner).Set(string(role), string(shard), handle)

	promPoolsEstablished.WithLabelValues(string(role), string(shard)).Inc()
	if replaced {
		h.logger.Warn("Replaced connection pool; previous handle not closed", map[string]interface{}{
			"owner":            owner,
			"role":             string(role),
			"shard":            string(shard),
			"previous_pool_id": prev.ID().String(),
		})
	} else {
		promActivePools.Inc()
	}
	h.logger.Info("Established connection pool", map[string]interface{}{
		"owner":    owner,
		"role":     string(role),
		"shard":    string(shard),
		"pool_id":  handle.ID().String(),
		"database": rec.String(),
	})
	return handle, nil
}

// Retrieve returns the pool bound to the owner's (role, shard) slot, or
// ConnectionNotEstablishedError when no establish call has populated it.
func (h *Handler) Retrieve(owner string, role Role, shard Shard) (*pool.Handle, error) {
	if reg, ok := h.lookup(owner); ok {
		if handle, ok := reg.Get(string(role), string(shard)); ok {
			return handle, nil
		}
	}
	return nil, &ConnectionNotEstablishedError{
		Owner: owner,
		Role:  string(role),
		Shard: string(shard),
	}
}

// RetrieveConnection returns a live connection from the owner's
// (role, shard) pool: the pool's current active connection when one is
// checked out, otherwise a fresh checkout.
func (h *Handler) RetrieveConnection(ctx context.Context, owner string, role Role, shard Shard) (*sql.Conn, error) {
	handle, err := h.Retrieve(owner, role, shard)
	if err != nil {
		return nil, err
	}
	if conn := handle.ActiveConnection(); conn != nil {
		return conn, nil
	}
	return handle.Checkout(ctx)
}

// Established reports whether the owner's (role, shard) slot holds a pool.
func (h *Handler) Established(owner string, role Role, shard Shard) bool {
	_, err := h.Retrieve(owner, role, shard)
	return err == nil
}

// RemovePool unbinds the owner's (role, shard) slot and returns the
// removed handle. The handle is not closed; the caller takes over its
// lifecycle. Reports false when the slot was not populated.
func (h *Handler) RemovePool(owner string, role Role, shard Shard) (*pool.Handle, bool) {
	reg, ok := h.lookup(owner)
	if !ok {
		return nil, false
	}
	handle, ok := reg.Remove(string(role), string(shard))
	if !ok {
		return nil, false
	}

	promPoolsRemoved.Inc()
	promActivePools.Dec()
	h.logger.Info("Removed connection pool; handle ownership passed to caller", map[string]interface{}{
		"owner":   owner,
		"role":    string(role),
		"shard":   string(shard),
		"pool_id": handle.ID().String(),
	})
	return handle, true
}

// Each calls fn for every pool the handler holds, in sorted
// owner/role/shard order. fn runs outside the handler's lock.
func (h *Handler) Each(fn func(owner, role, shard string, handle *pool.Handle)) {
	h.mu.RLock()
	names := make([]string, 0, len(h.owners))
	regs := make(map[string]*pool.Registry, len(h.owners))
	for name, reg := range h.owners {
		names = append(names, name)
		regs[name] = reg
	}
	h.mu.RUnlock()

	sort.Strings(names)
	for _, name := range names {
		regs[name].Each(func(role, shard string, handle *pool.Handle) {
			fn(name, role, shard, handle)
		})
	}
}

// PoolCount reports the number of pools held across all owners.
func (h *Handler) PoolCount() int {
	n := 0
	h.Each(func(string, string, string, *pool.Handle) { n++ })
	return n
}

// ClearActive closes every tracked checkout on every pool. Pools stay
// usable. Returns the first error encountered; the fan-out continues past
// failures.
func (h *Handler) ClearActive() error {
	var first error
	h.Each(func(_, _, _ string, handle *pool.Handle) {
		if err := handle.ClearActive(); err != nil && first == nil {
			first = err
		}
	})
	return first
}

// ClearReloadable closes every tracked checkout and drops every idle
// connection, leaving each pool empty but usable. This is the reload-safe
// variant: after it returns, no pool holds a connection opened before the
// call.
func (h *Handler) ClearReloadable() error {
	var first error
	h.Each(func(_, _, _ string, handle *pool.Handle) {
		if err := handle.ClearActive(); err != nil && first == nil {
			first = err
		}
		handle.FlushIdle()
	})
	return first
}

// ClearAll closes every pool outright. Slots keep their handles, but a
// closed handle fails all further use; callers are expected to
// re-establish.
func (h *Handler) ClearAll() error {
	var first error
	h.Each(func(_, _, _ string, handle *pool.Handle) {
		if err := handle.Close(); err != nil && first == nil {
			first = err
		}
	})
	return first
}

// FlushIdle drops the idle connections of every pool.
func (h *Handler) FlushIdle() {
	h.Each(func(_, _, _ string, handle *pool.Handle) {
		handle.FlushIdle()
	})
}

// HealthCheck pings every pool and returns one status per
// "owner/role/shard" key.
func (h *Handler) HealthCheck(ctx context.Context) map[string]*pool.HealthStatus {
	statuses := make(map[string]*pool.HealthStatus)
	h.Each(func(owner, role, shard string, handle *pool.Handle) {
		statuses[owner+"/"+role+"/"+shard] = handle.HealthCheck(ctx)
	})
	return statuses
}

// PoolInfo describes one held pool for monitoring surfaces. Handler is
// empty when the snapshot comes straight from a Handler; Router.Snapshot
// fills it with the handler's key.
type PoolInfo struct {
	Handler     string `json:"handler,omitempty"`
	Owner       string `json:"owner"`
	Role        string `json:"role"`
	Shard       string `json:"shard"`
	PoolID      string `json:"pool_id"`
	Environment string `json:"environment"`
	Spec        string `json:"spec"`
	Adapter     string `json:"adapter"`
	Database    string `json:"database"`
	Open        int    `json:"open_connections"`
	Idle        int    `json:"idle_connections"`
	InUse       int    `json:"in_use_connections"`
}

// Snapshot returns one PoolInfo per held pool, in sorted
// owner/role/shard order.
func (h *Handler) Snapshot() []PoolInfo {
	var infos []PoolInfo
	h.Each(func(owner, role, shard string, handle *pool.Handle) {
		rec := handle.Record()
		stats := handle.Stats()
		infos = append(infos, PoolInfo{
			Owner:       owner,
			Role:        role,
			Shard:       shard,
			PoolID:      handle.ID().String(),
			Environment: rec.Env(),
			Spec:        rec.Name(),
			Adapter:     rec.Adapter(),
			Database:    rec.Database(),
			Open:        stats.OpenConnections,
			Idle:        stats.Idle,
			InUse:       stats.InUse,
		})
	})
	return infos
}
