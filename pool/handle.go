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
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"switchyard/router/config"
)

// Handle wraps one physical connection pool together with the record it
// was built from. database/sql owns the checkout, timeout, and reaping
// machinery; the handle adds identity, lease tracking, and the bulk
// operations the router fans out.
//
// A handle is owned by exactly one (owner, role, shard) slot at a time.
// Replacing the slot does not close the old handle; lifecycle cleanup is
// the replacer's responsibility.
type Handle struct {
	id     uuid.UUID
	db     *sql.DB
	record *config.Record

	mu     sync.Mutex
	leases []*sql.Conn
}

// NewHandle wraps an opened pool.
func NewHandle(db *sql.DB, record *config.Record) *Handle {
	return &Handle{
		id:     uuid.New(),
		db:     db,
		record: record,
	}
}

// ID returns the handle's identity, used in logs and diagnostics.
func (h *Handle) ID() uuid.UUID { return h.id }

// Record returns the configuration record the pool was built from.
func (h *Handle) Record() *config.Record { return h.record }

// DB returns the underlying pool.
func (h *Handle) DB() *sql.DB { return h.db }

// String identifies the handle in logs.
func (h *Handle) String() string {
	return fmt.Sprintf("%s[%s]", h.record, shortID(h.id))
}

// Checkout leases a single connection from the pool, blocking up to the
// record's checkout timeout. The lease is tracked until Release or
// ClearActive.
func (h *Handle) Checkout(ctx context.Context) (*sql.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, h.record.CheckoutTimeout())
	defer cancel()

	conn, err := h.db.Conn(acquireCtx)
	if err != nil {
		return nil, fmt.Errorf("checkout from %s failed: %w", h, err)
	}

	h.mu.Lock()
	h.leases = append(h.leases, conn)
	h.mu.Unlock()

	return conn, nil
}

// Release returns a leased connection to the pool.
func (h *Handle) Release(conn *sql.Conn) error {
	if conn == nil {
		return nil
	}

	h.mu.Lock()
	for i, lease := range h.leases {
		if lease == conn {
			h.leases = append(h.leases[:i], h.leases[i+1:]...)
			break
		}
	}
	h.mu.Unlock()

	if err := conn.Close(); err != nil {
		return fmt.Errorf("release to %s failed: %w", h, err)
	}
	return nil
}

// ActiveConnection returns the most recently checked out connection still
// on lease, or nil.
func (h *Handle) ActiveConnection() *sql.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.leases) == 0 {
		return nil
	}
	return h.leases[len(h.leases)-1]
}

// ActiveCount returns the number of outstanding leases.
func (h *Handle) ActiveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.leases)
}

// ClearActive closes every outstanding lease and forgets it. The first
// close failure is reported; later leases are still closed.
func (h *Handle) ClearActive() error {
	h.mu.Lock()
	leases := h.leases
	h.leases = nil
	h.mu.Unlock()

	var firstErr error
	for _, conn := range leases {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("clearing active connection on %s: %w", h, err)
		}
	}
	return firstErr
}

// FlushIdle drops every idle connection by collapsing the idle pool and
// restoring the configured size. Leased connections are unaffected.
func (h *Handle) FlushIdle() {
	h.db.SetMaxIdleConns(0)
	h.db.SetMaxIdleConns(h.record.PoolSize())
}

// Ping verifies the pool can reach its database.
func (h *Handle) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

// Close closes the underlying pool. Outstanding leases are closed by
// database/sql as they are released.
func (h *Handle) Close() error {
	return h.db.Close()
}

// Stats reports the underlying pool's counters.
func (h *Handle) Stats() sql.DBStats {
	return h.db.Stats()
}

// HealthStatus reports the outcome of one handle health probe.
type HealthStatus struct {
	Healthy   bool          `json:"healthy"`
	Latency   time.Duration `json:"latency"`
	Timestamp time.Time     `json:"timestamp"`
	Error     string        `json:"error,omitempty"`
	Open      int           `json:"open_connections"`
	Idle      int           `json:"idle_connections"`
	InUse     int           `json:"in_use_connections"`
}

// HealthCheck pings the database and snapshots pool counters.
func (h *Handle) HealthCheck(ctx context.Context) *HealthStatus {
	start := time.Now()
	err := h.Ping(ctx)
	latency := time.Since(start)

	stats := h.Stats()
	status := &HealthStatus{
		Healthy:   err == nil,
		Latency:   latency,
		Timestamp: time.Now(),
		Open:      stats.OpenConnections,
		Idle:      stats.Idle,
		InUse:     stats.InUse,
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

func shortID(id uuid.UUID) string {
	s := id.String()
	if len(s) >= 8 {
		return s[:8]
	}
	return s
}
