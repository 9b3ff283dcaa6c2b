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

// Package mysql provides the MySQL adapter, registered as "mysql" and
// "mysql2".
package mysql

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	gomysql "github.com/go-sql-driver/mysql"

	"switchyard/router/adapter"
	"switchyard/router/config"
)

const defaultPort = 3306

// Driver opens MySQL pools via go-sql-driver/mysql.
type Driver struct {
	logger *log.Logger
}

func init() {
	drv := NewDriver()
	adapter.Register("mysql", drv)
	adapter.Register("mysql2", drv)
}

// NewDriver creates a MySQL driver instance.
func NewDriver() *Driver {
	return &Driver{
		logger: log.New(os.Stdout, "[ADAPTER_MYSQL] ", log.LstdFlags),
	}
}

func (d *Driver) Name() string { return "mysql" }

// DSN renders a record through mysql.Config, so escaping and defaults
// follow the driver's own rules.
func (d *Driver) DSN(rec *config.Record) (string, error) {
	cfg := gomysql.NewConfig()
	cfg.User = rec.Username()
	cfg.Passwd = rec.Password()
	cfg.DBName = rec.Database()
	cfg.Net = "tcp"

	host := rec.Host()
	if host == "" {
		host = "localhost"
	}
	port := rec.Port()
	if port == 0 {
		port = defaultPort
	}
	cfg.Addr = fmt.Sprintf("%s:%d", host, port)

	if extras := adapter.ExtraSettings(rec); len(extras) > 0 {
		cfg.Params = extras
	}

	return cfg.FormatDSN(), nil
}

// Open opens and pool-configures a MySQL handle.
func (d *Driver) Open(rec *config.Record) (*sql.DB, error) {
	dsn, err := d.DSN(rec)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, &adapter.LoadError{Name: "mysql", Cause: err}
	}

	adapter.ConfigurePool(db, rec)
	d.logger.Printf("Opened MySQL pool: %s (pool=%d)", rec, rec.PoolSize())

	return db, nil
}
