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

package config

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// errNotURL marks a string that cannot be read as a connection URL. Callers
// degrade to treating the string as a bare database name.
var errNotURL = errors.New("not a connection URL")

// filesystemAdapters use the full URL path (leading slash included) as the
// database name. Every other adapter strips the slash.
var filesystemAdapters = map[string]bool{
	"sqlite3": true,
}

// parseURL normalizes a connection URL into a settings map.
//
// The scheme becomes the adapter (hyphens to underscores, "postgres"
// normalized to "postgresql"). Query parameters merge in as additional
// settings with string values; the port is an int. Opaque URLs such as
// "sqlite3:db/production.sqlite3" use the opaque part as the database name.
func parseURL(raw string) (map[string]interface{}, error) {
	if raw == "" {
		return nil, errNotURL
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return nil, errNotURL
	}

	adapter := strings.ReplaceAll(u.Scheme, "-", "_")
	if adapter == "postgres" {
		adapter = "postgresql"
	}

	settings := make(map[string]interface{})
	for key, values := range u.Query() {
		if len(values) > 0 {
			settings[key] = values[0]
		}
	}
	settings["adapter"] = adapter

	if u.Opaque != "" {
		settings["database"] = u.Opaque
		return settings, nil
	}

	if db := databaseFromPath(adapter, u.Path); db != "" {
		settings["database"] = db
	}
	if host := u.Hostname(); host != "" {
		settings["host"] = host
	}
	if port := u.Port(); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			settings["port"] = n
		}
	}
	if u.User != nil {
		if user := u.User.Username(); user != "" {
			settings["username"] = user
		}
		if password, ok := u.User.Password(); ok && password != "" {
			settings["password"] = password
		}
	}

	return settings, nil
}

// databaseFromPath extracts the database name from a URL path. Filesystem
// adapters name databases by file path, so the leading slash stays.
func databaseFromPath(adapter, path string) string {
	if path == "" || path == "/" {
		return ""
	}
	if filesystemAdapters[adapter] {
		return path
	}
	return strings.TrimPrefix(path, "/")
}
