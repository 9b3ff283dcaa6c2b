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
Package router directs database work to one pool out of many, chosen by
the calling chain's current role and shard.

# Overview

A Router holds connection handlers, one per role key. Each Handler owns
pool registries keyed by owner, and each registry maps (role, shard)
slots to pool handles. Establishing is permanent and explicit; routing
is scoped and travels in the context.Context.

# Usage

Establish pools once, at startup:

	reg, err := config.LoadFile("database.yml")
	r := router.New(reg, nil)

	handles, err := r.ConnectsTo(ctx, "App", router.ConnectOptions{
	    Database: map[router.Role]config.Reference{
	        router.Writing: config.Name("primary"),
	        router.Reading: config.Name("primary_replica"),
	    },
	})

Then route per call chain. A scope rebinds the routing position for the
duration of one function and restores the previous position on every
exit path, including panics, because the caller's context was never
modified:

	err := r.ConnectedTo(ctx, router.To{Role: router.Reading}, func(ctx context.Context) error {
	    rows, err := r.Query(ctx, "App", "SELECT title FROM posts")
	    ...
	})

Scopes nest arbitrarily deep and the two axes restore independently: a
role scope opened inside a shard scope keeps that shard, and exiting it
restores only the role.

# Write prevention

Reading-role scopes, and any scope entered with PreventWrites, activate
a pre-flight guard: statements classified as mutating fail with
ReadOnlyError before any pool is contacted. Prevention nests with the
scopes and clears only when the scope that activated it exits.
*/
package router
