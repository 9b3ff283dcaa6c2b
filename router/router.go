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

// Router routes database work to the right pool for the calling chain's
// current handler, role, and shard. It owns one Handler per role key,
// created on first use, and resolves configuration references against a
// swappable registry.
//
// Routers are safe for concurrent use. The per-chain routing position
// itself travels in the context.Context, so two goroutines sharing a
// Router never see each other's scopes.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]*Handler
	configs  *config.Registry
	resolver *config.Resolver

	adapters *adapter.Registry
	logger   *logger.Logger
}

// New returns a Router resolving references against configs and drivers
// against adapters (the process-wide default registry when nil).
func New(configs *config.Registry, adapters *adapter.Registry) *Router {
	if adapters == nil {
		adapters = adapter.Default()
	}
	return &Router{
		handlers: make(map[string]*Handler),
		configs:  configs,
		resolver: config.NewResolver(configs),
		adapters: adapters,
		logger:   logger.New("router"),
	}
}

// SetConfigurations swaps the configuration registry wholesale. Pools
// already established keep the records they were built from; only future
// resolution sees the new registry.
func (r *Router) SetConfigurations(configs *config.Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs = configs
	r.resolver = config.NewResolver(configs)
}

// Configurations returns the registry currently used for resolution.
func (r *Router) Configurations() *config.Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.configs
}

func (r *Router) resolve(ref config.Reference) (*config.Record, error) {
	r.mu.RLock()
	resolver := r.resolver
	r.mu.RUnlock()
	return resolver.Resolve(ref)
}

// handler resolves the Handler registered under key, creating it on
// first use.
func (r *Router) handler(key string) *Handler {
	r.mu.RLock()
	h := r.handlers[key]
	r.mu.RUnlock()
	if h != nil {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h := r.handlers[key]; h != nil {
		return h
	}
	h = NewHandler(r.adapters)
	r.handlers[key] = h
	r.logger.Info("Created connection handler", map[string]interface{}{
		"handler_key": key,
	})
	return h
}

// CurrentHandler returns the Handler the calling chain is connected to:
// the one named by the innermost WithHandler or role scope, or the
// Writing handler outside any scope.
func (r *Router) CurrentHandler(ctx context.Context) *Handler {
	return r.handler(stateFrom(ctx).handlerKey)
}

// HandlerKeys returns the keys of all handlers created so far, sorted.
func (r *Router) HandlerKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.handlers))
	for key := range r.handlers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// EstablishConnection resolves ref and binds a new pool to the owner's
// (role, shard) slot. An empty role or shard defaults to the chain's
// current one. The pool lands on the handler keyed by the effective
// role, the same handler a scope for that role swaps in, so a pool
// established for Reading here is the one ConnectedTo(To{Role: Reading})
// retrieves later. The binding is permanent, not scoped: it survives the
// calling scope and is visible to every chain using this Router.
func (r *Router) EstablishConnection(ctx context.Context, owner string, ref config.Reference, role Role, shard Shard) (*pool.Handle, error) {
	if role == "" {
		role = CurrentRole(ctx)
	}
	if shard == "" {
		shard = CurrentShard(ctx)
	}
	rec, err := r.resolve(ref)
	if err != nil {
		return nil, err
	}
	return r.handler(string(role)).Establish(rec, owner, role, shard)
}

// ConnectOptions names the targets of a ConnectsTo call. Exactly one of
// Database and Shards must be populated.
//
// Database maps roles to references, all bound on DefaultShard:
//
//	router.ConnectOptions{Database: map[router.Role]config.Reference{
//	    router.Writing: config.Name("primary"),
//	    router.Reading: config.Name("primary_replica"),
//	}}
//
// Shards maps shard names to per-role references:
//
//	router.ConnectOptions{Shards: map[router.Shard]map[router.Role]config.Reference{
//	    "default":   {router.Writing: config.Name("primary")},
//	    "shard_one": {router.Writing: config.Name("primary_shard_one")},
//	}}
type ConnectOptions struct {
	Database map[Role]config.Reference
	Shards   map[Shard]map[Role]config.Reference
}

// ConnectsTo establishes one pool per named (role, shard) target for the
// owner and returns the handles in sorted shard-then-role order.
// Populating both Database and Shards, or neither, fails with
// ArgumentConflictError. On a failed establish the handles already
// created are returned alongside the error.
func (r *Router) ConnectsTo(ctx context.Context, owner string, opts ConnectOptions) ([]*pool.Handle, error) {
	if len(opts.Database) > 0 && len(opts.Shards) > 0 {
		return nil, &ArgumentConflictError{
			Operation: "ConnectsTo",
			Message:   "database and shards are mutually exclusive",
		}
	}
	if len(opts.Database) == 0 && len(opts.Shards) == 0 {
		return nil, &ArgumentConflictError{
			Operation: "ConnectsTo",
			Message:   "a database or shards mapping must be provided",
		}
	}

	var handles []*pool.Handle
	if len(opts.Database) > 0 {
		for _, role := range sortedMapKeys(opts.Database) {
			handle, err := r.EstablishConnection(ctx, owner, opts.Database[role], role, DefaultShard)
			if err != nil {
				return handles, err
			}
			handles = append(handles, handle)
		}
		return handles, nil
	}

	for _, shard := range sortedMapKeys(opts.Shards) {
		roles := opts.Shards[shard]
		for _, role := range sortedMapKeys(roles) {
			handle, err := r.EstablishConnection(ctx, owner, roles[role], role, shard)
			if err != nil {
				return handles, err
			}
			handles = append(handles, handle)
		}
	}
	return handles, nil
}

// ConnectionPool returns the pool serving the owner at the calling
// chain's current handler, role, and shard. Fails with
// ConnectionNotEstablishedError when the slot is empty.
func (r *Router) ConnectionPool(ctx context.Context, owner string) (*pool.Handle, error) {
	return r.CurrentHandler(ctx).Retrieve(owner, CurrentRole(ctx), CurrentShard(ctx))
}

// RetrieveConnection returns a live connection for the owner at the
// calling chain's current routing position.
func (r *Router) RetrieveConnection(ctx context.Context, owner string) (*sql.Conn, error) {
	promConnectionRetrievals.Inc()
	return r.CurrentHandler(ctx).RetrieveConnection(ctx, owner, CurrentRole(ctx), CurrentShard(ctx))
}

// Exec runs a statement on the owner's current pool. Under write
// prevention the statement is classified first and a mutating one fails
// with ReadOnlyError before any pool lookup or checkout.
func (r *Router) Exec(ctx context.Context, owner, query string, args ...interface{}) (sql.Result, error) {
	if err := r.checkWritable(ctx, query); err != nil {
		return nil, err
	}
	handle, err := r.ConnectionPool(ctx, owner)
	if err != nil {
		return nil, err
	}
	return handle.DB().ExecContext(ctx, query, args...)
}

// Query runs a query on the owner's current pool, subject to the same
// pre-flight classification as Exec.
func (r *Router) Query(ctx context.Context, owner, query string, args ...interface{}) (*sql.Rows, error) {
	if err := r.checkWritable(ctx, query); err != nil {
		return nil, err
	}
	handle, err := r.ConnectionPool(ctx, owner)
	if err != nil {
		return nil, err
	}
	return handle.DB().QueryContext(ctx, query, args...)
}

// QueryRow runs a single-row query on the owner's current pool, subject
// to the same pre-flight classification as Exec.
func (r *Router) QueryRow(ctx context.Context, owner, query string, args ...interface{}) (*sql.Row, error) {
	if err := r.checkWritable(ctx, query); err != nil {
		return nil, err
	}
	handle, err := r.ConnectionPool(ctx, owner)
	if err != nil {
		return nil, err
	}
	return handle.DB().QueryRowContext(ctx, query, args...), nil
}

func (r *Router) checkWritable(ctx context.Context, query string) error {
	if PreventingWrites(ctx) && !IsReadQuery(query) {
		promReadOnlyRejections.Inc()
		return &ReadOnlyError{Query: query}
	}
	return nil
}

// Snapshot returns one PoolInfo per pool across every handler, in sorted
// handler/owner/role/shard order, with each entry's Handler field set.
func (r *Router) Snapshot() []PoolInfo {
	var infos []PoolInfo
	for _, key := range r.HandlerKeys() {
		part := r.handler(key).Snapshot()
		for i := range part {
			part[i].Handler = key
		}
		infos = append(infos, part...)
	}
	return infos
}

// HealthCheck pings every pool across every handler and returns one
// status per "handlerKey/owner/role/shard" key.
func (r *Router) HealthCheck(ctx context.Context) map[string]*pool.HealthStatus {
	statuses := make(map[string]*pool.HealthStatus)
	for _, key := range r.HandlerKeys() {
		for slot, status := range r.handler(key).HealthCheck(ctx) {
			statuses[key+"/"+slot] = status
		}
	}
	return statuses
}

func sortedMapKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
