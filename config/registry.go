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
	"os"
	"sort"
	"strings"
)

// EnvVar selects the default environment for the process.
const EnvVar = "SWITCHYARD_ENV"

// fallbackEnv is used when EnvVar is unset.
const fallbackEnv = "default"

// DefaultEnv returns the process-wide default environment name.
func DefaultEnv() string {
	return getEnvOrDefault(EnvVar, fallbackEnv)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Registry holds the canonical configuration records for every environment.
// A registry is immutable once built; reloading configuration builds a new
// registry and swaps it in wholesale.
type Registry struct {
	records    []*Record
	defaultEnv string
}

// Build normalizes raw configuration input into a registry.
//
// The input is either a nested mapping (environment, then spec name, then
// settings) or a flat mapping from environment straight to settings; the
// flat form is treated as spec "primary". A string in a settings position
// is parsed as a connection URL, degrading to a bare database name when it
// has no scheme.
//
// Environment variables named {SPEC}_DATABASE_URL, and DATABASE_URL for the
// "primary" spec, override matching records in the default environment.
// Records already built from a URL are never overridden. When the default
// environment has no records at all and a URL variable is set, a "primary"
// record is synthesized from it.
//
// Environments and spec names are walked in sorted order, so record order
// is deterministic for a given input.
func Build(raw map[string]interface{}) (*Registry, error) {
	reg := &Registry{defaultEnv: DefaultEnv()}

	envs := make([]string, 0, len(raw))
	for env := range raw {
		envs = append(envs, env)
	}
	sort.Strings(envs)

	for _, env := range envs {
		records, err := walkEnvironment(env, raw[env])
		if err != nil {
			return nil, err
		}
		reg.records = append(reg.records, records...)
	}

	if err := reg.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}

	if err := checkDuplicates(reg.records); err != nil {
		return nil, err
	}

	return reg, nil
}

// NewRegistry builds a registry from already-constructed records, rejecting
// duplicate (environment, spec name) pairs rather than letting the last one
// win.
func NewRegistry(records []*Record) (*Registry, error) {
	if err := checkDuplicates(records); err != nil {
		return nil, err
	}

	copied := make([]*Record, len(records))
	copy(copied, records)

	return &Registry{records: copied, defaultEnv: DefaultEnv()}, nil
}

// walkEnvironment expands one environment's raw value into records.
func walkEnvironment(env string, value interface{}) ([]*Record, error) {
	switch v := value.(type) {
	case string:
		rec, err := recordFromString(env, "primary", v)
		if err != nil {
			return nil, err
		}
		return []*Record{rec}, nil

	case map[string]interface{}:
		if !isNested(v) {
			rec, err := recordFromSettings(env, "primary", v)
			if err != nil {
				return nil, err
			}
			return []*Record{rec}, nil
		}

		specs := make([]string, 0, len(v))
		for spec := range v {
			specs = append(specs, spec)
		}
		sort.Strings(specs)

		records := make([]*Record, 0, len(specs))
		for _, spec := range specs {
			var (
				rec *Record
				err error
			)
			switch sub := v[spec].(type) {
			case string:
				rec, err = recordFromString(env, spec, sub)
			case map[string]interface{}:
				rec, err = recordFromSettings(env, spec, sub)
			default:
				err = &InvalidConfigurationError{
					Env:     env,
					Spec:    spec,
					Message: fmt.Sprintf("unsupported settings value of type %T", sub),
				}
			}
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		return records, nil

	default:
		return nil, &InvalidConfigurationError{
			Env:     env,
			Message: fmt.Sprintf("unsupported configuration value of type %T", value),
		}
	}
}

// isNested reports whether an environment's map keys are spec names rather
// than settings. A map counts as nested when it holds at least one inner
// map and nothing besides maps and strings; a map of plain settings (all
// scalar values) is the flat single-spec form.
func isNested(env map[string]interface{}) bool {
	sawMap := false
	for _, v := range env {
		switch v.(type) {
		case map[string]interface{}:
			sawMap = true
		case string:
		default:
			return false
		}
	}
	return sawMap
}

// recordFromString builds a record from a connection URL, or from a bare
// database name when the string does not parse as a URL.
func recordFromString(env, name, raw string) (*Record, error) {
	settings, err := parseURL(raw)
	if err != nil {
		return NewRecord(env, name, map[string]interface{}{"database": raw})
	}

	rec, err := NewRecord(env, name, settings)
	if err != nil {
		return nil, err
	}
	rec.fromURL = true
	return rec, nil
}

// recordFromSettings builds a record from a settings map. A "url" key is
// expanded and its derived settings win over the rest of the map.
func recordFromSettings(env, name string, settings map[string]interface{}) (*Record, error) {
	raw, _ := settings["url"].(string)
	if raw == "" {
		return NewRecord(env, name, settings)
	}

	merged := make(map[string]interface{}, len(settings))
	for k, v := range settings {
		if k != "url" {
			merged[k] = v
		}
	}

	urlSettings, err := parseURL(raw)
	if err != nil {
		urlSettings = map[string]interface{}{"database": raw}
	}
	for k, v := range urlSettings {
		merged[k] = v
	}

	rec, err := NewRecord(env, name, merged)
	if err != nil {
		return nil, err
	}
	rec.fromURL = true
	return rec, nil
}

// applyEnvironmentOverrides rewrites default-environment records whose spec
// has a {SPEC}_DATABASE_URL (or DATABASE_URL for "primary") set, and
// synthesizes a primary record when the default environment is otherwise
// empty.
func (r *Registry) applyEnvironmentOverrides() error {
	hasDefault := false
	for _, rec := range r.records {
		if rec.env == r.defaultEnv {
			hasDefault = true
			break
		}
	}

	if !hasDefault {
		if raw := environmentURLFor("primary"); raw != "" {
			rec, err := recordFromString(r.defaultEnv, "primary", raw)
			if err != nil {
				return err
			}
			r.records = append(r.records, rec)
		}
		return nil
	}

	for i, rec := range r.records {
		if rec.env != r.defaultEnv || rec.fromURL {
			continue
		}
		raw := environmentURLFor(rec.name)
		if raw == "" {
			continue
		}

		merged, err := mergeRecordWithURL(rec, raw)
		if err != nil {
			return err
		}
		r.records[i] = merged
	}

	return nil
}

// environmentURLFor returns the override URL for a spec name, if any. The
// spec-specific variable wins; the generic DATABASE_URL applies only to
// "primary".
func environmentURLFor(name string) string {
	if raw := os.Getenv(strings.ToUpper(name) + "_DATABASE_URL"); raw != "" {
		return raw
	}
	if name == "primary" {
		return os.Getenv("DATABASE_URL")
	}
	return ""
}

// mergeRecordWithURL layers URL-derived settings over a record's existing
// settings.
func mergeRecordWithURL(rec *Record, raw string) (*Record, error) {
	urlSettings, err := parseURL(raw)
	if err != nil {
		urlSettings = map[string]interface{}{"database": raw}
	}

	merged := rec.Settings()
	for k, v := range urlSettings {
		merged[k] = v
	}

	out, err := NewRecord(rec.env, rec.name, merged)
	if err != nil {
		return nil, err
	}
	out.fromURL = true
	return out, nil
}

func checkDuplicates(records []*Record) error {
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		key := rec.String()
		if seen[key] {
			return &InvalidConfigurationError{
				Env:     rec.Env(),
				Spec:    rec.Name(),
				Message: "duplicate spec name within environment",
			}
		}
		seen[key] = true
	}
	return nil
}

// DefaultEnvName returns the default environment captured when the registry
// was built.
func (r *Registry) DefaultEnvName() string { return r.defaultEnv }

// Records returns the registry's records in build order.
func (r *Registry) Records() []*Record {
	out := make([]*Record, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of records.
func (r *Registry) Len() int { return len(r.records) }

// ConfigsFor filters records by environment and spec name. An empty env
// matches every environment, unless a name is given, in which case env
// defaults to the default environment. Replica records are excluded unless
// includeReplicas is set. When a name is given and nothing matches, the
// error is a NotFoundError listing the available combinations.
func (r *Registry) ConfigsFor(env, name string, includeReplicas bool) ([]*Record, error) {
	if name != "" && env == "" {
		env = r.defaultEnv
	}

	var out []*Record
	for _, rec := range r.records {
		if env != "" && rec.Env() != env {
			continue
		}
		if !includeReplicas && rec.Replica() {
			continue
		}
		if name != "" && rec.Name() != name {
			continue
		}
		out = append(out, rec)
	}

	if name != "" && len(out) == 0 {
		return nil, &NotFoundError{Name: name, Env: env, Available: r.combinations()}
	}

	return out, nil
}

// FindByEnvironmentOrDefault resolves a symbolic name that may be either an
// environment name or a spec name within the default environment. An
// environment-name match always wins; only when no record belongs to an
// environment of that name does the spec-name fallback apply. Returns nil
// when neither matches.
func (r *Registry) FindByEnvironmentOrDefault(name string) *Record {
	for _, rec := range r.records {
		if rec.Env() == name {
			return rec
		}
	}
	for _, rec := range r.records {
		if rec.Env() == r.defaultEnv && rec.Name() == name {
			return rec
		}
	}
	return nil
}

// Environments returns the sorted set of environment names.
func (r *Registry) Environments() []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range r.records {
		if !seen[rec.Env()] {
			seen[rec.Env()] = true
			out = append(out, rec.Env())
		}
	}
	sort.Strings(out)
	return out
}

// SpecNames returns the spec names configured for an environment, in build
// order.
func (r *Registry) SpecNames(env string) []string {
	var out []string
	for _, rec := range r.records {
		if rec.Env() == env {
			out = append(out, rec.Name())
		}
	}
	return out
}

// combinations lists every environment/spec pair for error messages.
func (r *Registry) combinations() []string {
	out := make([]string, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.String())
	}
	return out
}
