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

// Package postgres provides the PostgreSQL adapter, registered as
// "postgresql" and "postgres".
package postgres

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver

	"switchyard/router/adapter"
	"switchyard/router/config"
)

// Driver opens PostgreSQL pools via lib/pq.
type Driver struct {
	logger *log.Logger
}

func init() {
	drv := NewDriver()
	adapter.Register("postgresql", drv)
	adapter.Register("postgres", drv)
}

// NewDriver creates a PostgreSQL driver instance.
func NewDriver() *Driver {
	return &Driver{
		logger: log.New(os.Stdout, "[ADAPTER_POSTGRES] ", log.LstdFlags),
	}
}

func (d *Driver) Name() string { return "postgresql" }

// DSN renders a record as a lib/pq key=value connection string. Settings
// the router does not consume (sslmode, application_name, ...) pass
// through in sorted key order.
func (d *Driver) DSN(rec *config.Record) (string, error) {
	var parts []string

	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+quoteDSNValue(value))
		}
	}

	add("host", rec.Host())
	if rec.Port() > 0 {
		parts = append(parts, fmt.Sprintf("port=%d", rec.Port()))
	}
	add("dbname", rec.Database())
	add("user", rec.Username())
	add("password", rec.Password())

	extras := adapter.ExtraSettings(rec)
	for _, key := range adapter.SortedKeys(extras) {
		add(key, extras[key])
	}

	return strings.Join(parts, " "), nil
}

// Open opens and pool-configures a PostgreSQL handle. Opening does not
// dial; the first checkout does.
func (d *Driver) Open(rec *config.Record) (*sql.DB, error) {
	dsn, err := d.DSN(rec)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, &adapter.LoadError{Name: "postgresql", Cause: err}
	}

	adapter.ConfigurePool(db, rec)
	d.logger.Printf("Opened PostgreSQL pool: %s (pool=%d)", rec, rec.PoolSize())

	return db, nil
}

// quoteDSNValue quotes a value for the key=value DSN form when it carries
// spaces, quotes, or backslashes.
func quoteDSNValue(value string) string {
	if !strings.ContainsAny(value, " '\\") {
		return value
	}
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}
