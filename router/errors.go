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

package router

import "fmt"

// ConnectionNotEstablishedError reports a lookup for an owner/role/shard
// slot that no establish call has populated.
type ConnectionNotEstablishedError struct {
	Owner string
	Role  string
	Shard string
}

func (e *ConnectionNotEstablishedError) Error() string {
	return fmt.Sprintf("no connection pool for owner %q with role %q and shard %q; establish a connection first",
		e.Owner, e.Role, e.Shard)
}

// ReadOnlyError reports a statement classified as mutating while write
// prevention was active. The statement was rejected before any pool
// contact.
type ReadOnlyError struct {
	Query string
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("write query attempted while write prevention is active: %s", e.Query)
}

// ArgumentConflictError reports mutually exclusive options supplied to a
// routing operation, or an operation invoked with none of its required
// options.
type ArgumentConflictError struct {
	Operation string
	Message   string
}

func (e *ArgumentConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}
