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

package adapter

import (
	"fmt"
	"strings"
)

// NotSpecifiedError reports a record that reached the adapter layer without
// an adapter key.
type NotSpecifiedError struct {
	Record string
}

func (e *NotSpecifiedError) Error() string {
	return fmt.Sprintf("database configuration %s does not specify an adapter", e.Record)
}

// NotFoundError reports an adapter name with no registered driver.
type NotFoundError struct {
	Name       string
	Registered []string
}

func (e *NotFoundError) Error() string {
	if len(e.Registered) == 0 {
		return fmt.Sprintf("database adapter %q is not registered (no adapters linked into this binary)", e.Name)
	}
	return fmt.Sprintf("database adapter %q is not registered (registered: %s)",
		e.Name, strings.Join(e.Registered, ", "))
}

// LoadError reports an adapter that is known to exist but whose driver is
// not linked into the running binary, or that failed to initialize.
type LoadError struct {
	Name    string
	Package string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("database adapter %q could not be loaded: import %s to link its driver", e.Name, e.Package)
	}
	if e.Cause != nil {
		return fmt.Sprintf("database adapter %q could not be loaded: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("database adapter %q could not be loaded", e.Name)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
