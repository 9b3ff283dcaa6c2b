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
Package adapter maps adapter names from configuration records to database
drivers that can open connection pools.

# Overview

A Driver knows how to render a configuration record as its family's DSN
and open a database/sql pool from it. Drivers live in subpackages and
self-register into the default registry from init, so linking one is a
blank import:

	import (
	    _ "switchyard/router/adapter/postgres"
	    _ "switchyard/router/adapter/sqlite"
	)

Resolving a record's driver:

	drv, err := adapter.For(rec)
	if err != nil {
	    // NotSpecifiedError: the record has no adapter key
	    // LoadError:         the adapter exists but is not linked in
	    // NotFoundError:     no such adapter
	}
	db, err := drv.Open(rec)

# Shipped Adapters

  - postgres: "postgresql" and "postgres", via github.com/lib/pq
  - mysql:    "mysql" and "mysql2", via github.com/go-sql-driver/mysql
  - sqlite:   "sqlite3", via github.com/mattn/go-sqlite3
*/
package adapter
