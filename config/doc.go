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
Package config normalizes heterogeneous database configuration input into
canonical, immutable records keyed by (environment, spec name).

# Overview

Configuration arrives in several shapes: nested YAML files, flat
single-database settings, connection URL strings, inline settings maps, and
environment variable overrides. This package reduces all of them to one
representation, the Record, and holds the resulting set in a Registry that
is replaced wholesale on reload rather than mutated.

# Building a Registry

From a YAML file:

	registry, err := config.LoadFile("database.yml")

From raw input:

	registry, err := config.Build(map[string]interface{}{
	    "production": map[string]interface{}{
	        "primary": map[string]interface{}{
	            "adapter":  "postgresql",
	            "database": "app_production",
	        },
	        "replica": map[string]interface{}{
	            "adapter":  "postgresql",
	            "database": "app_production",
	            "replica":  true,
	        },
	    },
	})

A flat environment maps straight to settings and becomes spec "primary".
String values parse as connection URLs; strings without a URL scheme
degrade to bare database names instead of failing.

Environment variables named {SPEC}_DATABASE_URL override matching records
in the default environment, with DATABASE_URL applying to the "primary"
spec. The default environment comes from SWITCHYARD_ENV, falling back to
"default".

# Resolving References

The Resolver turns any supported reference shape into exactly one record:

	resolver := config.NewResolver(registry)

	rec, err := resolver.Resolve(config.Name("production"))
	rec, err = resolver.Resolve(config.URL("postgresql://user:pw@host/app"))
	rec, err = resolver.Resolve(config.Settings{"adapter": "sqlite3", "database": "db/app.sqlite3"})
	rec, err = resolver.Resolve(rec) // idempotent

Reference is a sealed sum type; resolving a nil or foreign value fails with
InvalidReferenceError rather than guessing.
*/
package config
