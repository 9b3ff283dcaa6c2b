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

package adapter

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"switchyard/router/config"
)

// Driver adapts one database family: it renders a configuration record as
// a driver-specific DSN and opens a database/sql pool from it.
type Driver interface {
	Name() string
	DSN(rec *config.Record) (string, error)
	Open(rec *config.Record) (*sql.DB, error)
}

// knownAdapters maps adapter names that ship with this module to the
// package whose blank import links their driver. Lookup uses it to
// distinguish "no such adapter" from "adapter exists but is not linked".
var knownAdapters = map[string]string{
	"postgresql": "switchyard/router/adapter/postgres",
	"postgres":   "switchyard/router/adapter/postgres",
	"mysql":      "switchyard/router/adapter/mysql",
	"mysql2":     "switchyard/router/adapter/mysql",
	"sqlite3":    "switchyard/router/adapter/sqlite",
}

// Registry maps adapter names to drivers.
// Thread-safe for concurrent access.
type Registry struct {
	drivers map[string]Driver
	mu      sync.RWMutex
	logger  *log.Logger
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		drivers: make(map[string]Driver),
		logger:  log.New(os.Stdout, "[ADAPTER_REGISTRY] ", log.LstdFlags),
	}
}

// Register makes a driver available under the given adapter name.
// Registering the same name again replaces the previous driver.
func (r *Registry) Register(name string, driver Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drivers[name] = driver
	r.logger.Printf("Registered adapter: %s (driver: %s)", name, driver.Name())
}

// Lookup finds the driver for an adapter name. A name that ships with this
// module but is not linked into the binary fails with a LoadError naming
// the import path; anything else unknown fails with a NotFoundError
// listing the registered adapters.
func (r *Registry) Lookup(name string) (Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if driver, ok := r.drivers[name]; ok {
		return driver, nil
	}

	if pkg, ok := knownAdapters[name]; ok {
		return nil, &LoadError{Name: name, Package: pkg}
	}

	return nil, &NotFoundError{Name: name, Registered: r.namesLocked()}
}

// For resolves the driver for a record, failing with NotSpecifiedError when
// the record carries no adapter key.
func (r *Registry) For(rec *config.Record) (Driver, error) {
	name := rec.Adapter()
	if name == "" {
		return nil, &NotSpecifiedError{Record: rec.String()}
	}
	return r.Lookup(name)
}

// Names returns the registered adapter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultRegistry holds drivers self-registered by adapter subpackages.
var defaultRegistry = NewRegistry()

// Default returns the registry that adapter subpackages register into.
func Default() *Registry { return defaultRegistry }

// Register adds a driver to the default registry. Adapter subpackages call
// this from init, so a blank import is enough to activate a driver:
//
//	import _ "switchyard/router/adapter/postgres"
func Register(name string, driver Driver) {
	defaultRegistry.Register(name, driver)
}

// Lookup finds a driver in the default registry.
func Lookup(name string) (Driver, error) {
	return defaultRegistry.Lookup(name)
}

// For resolves a record's driver from the default registry.
func For(rec *config.Record) (Driver, error) {
	return defaultRegistry.For(rec)
}

// ConfigurePool applies a record's pool settings to an opened handle.
// database/sql owns checkout blocking and idle reaping; the record's
// checkout timeout is enforced by callers via context deadlines.
func ConfigurePool(db *sql.DB, rec *config.Record) {
	db.SetMaxOpenConns(rec.PoolSize())
	db.SetMaxIdleConns(rec.PoolSize())
	db.SetConnMaxIdleTime(rec.IdleTimeout())
}

// structuralKeys are settings consumed by the router itself rather than
// passed through to drivers.
var structuralKeys = map[string]bool{
	"adapter":           true,
	"database":          true,
	"host":              true,
	"port":              true,
	"username":          true,
	"password":          true,
	"pool":              true,
	"checkout_timeout":  true,
	"idle_timeout":      true,
	"reaping_frequency": true,
	"migrations_paths":  true,
	"replica":           true,
	"url":               true,
}

// ExtraSettings returns a record's driver-specific settings (sslmode,
// charset, and the like) as strings. Pair with SortedKeys when rendering
// them into a DSN.
func ExtraSettings(rec *config.Record) map[string]string {
	out := make(map[string]string)
	for key, value := range rec.Settings() {
		if structuralKeys[key] || value == nil {
			continue
		}
		out[key] = settingString(value)
	}
	return out
}

func settingString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// SortedKeys returns a map's keys in sorted order, for deterministic DSNs.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
