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
	"fmt"
	"strconv"
	"time"
)

// Default pool settings applied when a record does not override them.
const (
	DefaultPoolSize         = 5
	DefaultCheckoutTimeout  = 5 * time.Second
	DefaultIdleTimeout      = 300 * time.Second
	DefaultReapingFrequency = 60 * time.Second
)

// Record is the canonical description of one connection target, identified
// by its (environment, spec name) pair. Records are immutable after
// construction: accessors return copies, and a reload replaces records
// wholesale rather than mutating them in place.
type Record struct {
	env      string
	name     string
	settings map[string]interface{}

	// fromURL marks records built from a connection URL; environment
	// variable overrides never apply to them.
	fromURL bool
}

// NewRecord builds a record from already-normalized settings. The settings
// map is copied. Either an adapter or a database must be present.
func NewRecord(env, name string, settings map[string]interface{}) (*Record, error) {
	copied := make(map[string]interface{}, len(settings))
	for k, v := range settings {
		copied[k] = v
	}

	rec := &Record{
		env:      env,
		name:     name,
		settings: copied,
	}

	if rec.Adapter() == "" && rec.Database() == "" {
		return nil, &InvalidConfigurationError{
			Env:     env,
			Spec:    name,
			Message: "settings must include an adapter or a database",
		}
	}

	return rec, nil
}

// Env returns the environment name the record belongs to.
func (r *Record) Env() string { return r.env }

// Name returns the spec name (e.g. "primary") within the environment.
func (r *Record) Name() string { return r.name }

// Replica reports whether the record describes a read replica.
func (r *Record) Replica() bool { return r.boolSetting("replica") }

// Settings returns a copy of the raw settings map.
func (r *Record) Settings() map[string]interface{} {
	copied := make(map[string]interface{}, len(r.settings))
	for k, v := range r.settings {
		copied[k] = v
	}
	return copied
}

// Adapter returns the adapter name, or "" if unset.
func (r *Record) Adapter() string { return r.stringSetting("adapter") }

// Database returns the database name, or "" if unset.
func (r *Record) Database() string { return r.stringSetting("database") }

// Host returns the host, or "" if unset.
func (r *Record) Host() string { return r.stringSetting("host") }

// Port returns the port, or 0 if unset.
func (r *Record) Port() int { return r.intSetting("port", 0) }

// Username returns the username, or "" if unset.
func (r *Record) Username() string { return r.stringSetting("username") }

// Password returns the password, or "" if unset.
func (r *Record) Password() string { return r.stringSetting("password") }

// PoolSize returns the maximum pool size.
func (r *Record) PoolSize() int { return r.intSetting("pool", DefaultPoolSize) }

// CheckoutTimeout returns how long a checkout may wait for a connection.
func (r *Record) CheckoutTimeout() time.Duration {
	return r.durationSetting("checkout_timeout", DefaultCheckoutTimeout)
}

// IdleTimeout returns how long a connection may sit idle before it is
// eligible for reaping. Zero disables idle reaping.
func (r *Record) IdleTimeout() time.Duration {
	return r.durationSetting("idle_timeout", DefaultIdleTimeout)
}

// ReapingFrequency returns how often idle connections are reaped.
func (r *Record) ReapingFrequency() time.Duration {
	return r.durationSetting("reaping_frequency", DefaultReapingFrequency)
}

// MigrationsPaths returns the configured migration paths, or nil.
func (r *Record) MigrationsPaths() []string {
	switch v := r.settings["migrations_paths"].(type) {
	case string:
		return []string{v}
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (r *Record) String() string {
	return fmt.Sprintf("%s/%s", r.env, r.name)
}

// stringSetting coerces a settings value to a string. Numeric values (a
// port given as an integer, a database named by a number) format naturally.
func (r *Record) stringSetting(key string) string {
	v, ok := r.settings[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// intSetting coerces a settings value to an int. Values arriving from URL
// query strings are strings and parse here.
func (r *Record) intSetting(key string, fallback int) int {
	switch v := r.settings[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// durationSetting reads a settings value expressed in seconds.
func (r *Record) durationSetting(key string, fallback time.Duration) time.Duration {
	switch v := r.settings[key].(type) {
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return time.Duration(f * float64(time.Second))
		}
	}
	return fallback
}

func (r *Record) boolSetting(key string) bool {
	switch v := r.settings[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return false
}
