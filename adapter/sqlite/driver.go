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

// Package sqlite provides the SQLite adapter, registered as "sqlite3".
package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"switchyard/router/adapter"
	"switchyard/router/config"
)

// Driver opens SQLite pools via mattn/go-sqlite3. The database setting is
// the file path, or ":memory:" for an in-memory database.
type Driver struct {
	logger *log.Logger
}

func init() {
	adapter.Register("sqlite3", NewDriver())
}

// NewDriver creates a SQLite driver instance.
func NewDriver() *Driver {
	return &Driver{
		logger: log.New(os.Stdout, "[ADAPTER_SQLITE] ", log.LstdFlags),
	}
}

func (d *Driver) Name() string { return "sqlite3" }

// DSN is the database file path itself.
func (d *Driver) DSN(rec *config.Record) (string, error) {
	database := rec.Database()
	if database == "" {
		return "", fmt.Errorf("sqlite3 configuration %s does not name a database file", rec)
	}
	return database, nil
}

// Open opens and pool-configures a SQLite handle.
func (d *Driver) Open(rec *config.Record) (*sql.DB, error) {
	dsn, err := d.DSN(rec)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &adapter.LoadError{Name: "sqlite3", Cause: err}
	}

	adapter.ConfigurePool(db, rec)
	d.logger.Printf("Opened SQLite pool: %s (database=%s)", rec, dsn)

	return db, nil
}
