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
	"strings"
)

// InvalidConfigurationError reports raw configuration input that cannot be
// normalized into records.
type InvalidConfigurationError struct {
	Env     string
	Spec    string
	Message string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Spec != "" {
		return fmt.Sprintf("invalid configuration for %s/%s: %s", e.Env, e.Spec, e.Message)
	}
	return fmt.Sprintf("invalid configuration for environment %q: %s", e.Env, e.Message)
}

// NotFoundError reports a symbolic reference that matched no configuration
// record. Available lists the environment/spec combinations the registry
// holds so callers can see what would have matched.
type NotFoundError struct {
	Name      string
	Env       string
	Available []string
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no database configuration named %q", e.Name)
	if e.Env != "" {
		fmt.Fprintf(&b, " for the %q environment", e.Env)
	}
	if len(e.Available) > 0 {
		fmt.Fprintf(&b, " (available: %s)", strings.Join(e.Available, ", "))
	} else {
		b.WriteString(" (no configurations loaded)")
	}
	return b.String()
}

// InvalidReferenceError reports a resolver input of an unsupported shape.
type InvalidReferenceError struct {
	Value interface{}
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid configuration reference: expected a name, URL, settings map, or record, got %T", e.Value)
}
