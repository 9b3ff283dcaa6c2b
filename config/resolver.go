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

// Reference is a resolvable pointer to one connection target. It is a
// sealed sum: the only implementations are Name, URL, Settings, and
// *Record. Resolving anything else fails with InvalidReferenceError.
type Reference interface {
	ref()
}

// Name references a record symbolically. The symbol is tried first as an
// environment name, then as a spec name within the default environment.
type Name string

func (Name) ref() {}

// URL references a connection target by connection URL. A string without a
// URL scheme is taken as a bare database name.
type URL string

func (URL) ref() {}

// Settings references a connection target by inline settings, placed under
// the default environment as spec "primary".
type Settings map[string]interface{}

func (Settings) ref() {}

func (*Record) ref() {}

// Resolver produces exactly one canonical record from a reference.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver backed by a registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve normalizes a reference into a canonical record.
//
// An already-canonical *Record passes through unchanged. A Name is looked
// up via FindByEnvironmentOrDefault and fails with NotFoundError when
// absent. A URL or Settings value becomes a fresh record under the default
// environment as spec "primary".
func (r *Resolver) Resolve(ref Reference) (*Record, error) {
	switch v := ref.(type) {
	case *Record:
		if v == nil {
			return nil, &InvalidReferenceError{Value: ref}
		}
		return v, nil

	case Name:
		rec := r.registry.FindByEnvironmentOrDefault(string(v))
		if rec == nil {
			return nil, &NotFoundError{
				Name:      string(v),
				Env:       r.registry.DefaultEnvName(),
				Available: r.registry.combinations(),
			}
		}
		return rec, nil

	case URL:
		return recordFromString(r.registry.DefaultEnvName(), "primary", string(v))

	case Settings:
		return recordFromSettings(r.registry.DefaultEnvName(), "primary", v)

	default:
		return nil, &InvalidReferenceError{Value: ref}
	}
}
