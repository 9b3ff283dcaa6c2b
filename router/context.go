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

import (
	"context"
)

// contextKey is a private type for context keys to avoid collisions
// with other packages that might use string keys.
type contextKey string

// stateContextKey is the key for storing the routing state in a
// context.Context.
const stateContextKey contextKey = "routingState"

// state is the per-call-chain routing position: which handler resolves
// pools, which role and shard are current, and how deeply write
// prevention is nested. It is carried by value in the context, so a scope
// can only ever derive a new state for its body; the caller's context is
// untouched and restoration on scope exit is structural, not something a
// defer has to get right.
type state struct {
	handlerKey   string
	role         Role
	shard        Shard
	preventDepth int
}

func defaultState() state {
	return state{
		handlerKey: string(Writing),
		role:       Writing,
		shard:      DefaultShard,
	}
}

func stateFrom(ctx context.Context) state {
	if s, ok := ctx.Value(stateContextKey).(state); ok {
		return s
	}
	return defaultState()
}

func withState(ctx context.Context, s state) context.Context {
	return context.WithValue(ctx, stateContextKey, s)
}

// CurrentRole reports the role the calling chain is connected to.
// Outside any scope this is Writing.
func CurrentRole(ctx context.Context) Role {
	return stateFrom(ctx).role
}

// CurrentShard reports the shard the calling chain is connected to.
// Outside any scope this is DefaultShard.
func CurrentShard(ctx context.Context) Shard {
	return stateFrom(ctx).shard
}

// PreventingWrites reports whether any enclosing scope activated write
// prevention. Prevention clears only when the scope that activated it
// exits; an inner scope cannot lift it.
func PreventingWrites(ctx context.Context) bool {
	return stateFrom(ctx).preventDepth > 0
}

// ConnectedToRole reports whether the calling chain is currently connected
// to the given role, and, when a shard is supplied, to that shard as well.
//
// Example:
//
//	r.ConnectedTo(ctx, router.To{Role: router.Reading}, func(ctx context.Context) error {
//	    router.ConnectedToRole(ctx, router.Reading)             // true
//	    router.ConnectedToRole(ctx, router.Reading, "shard_one") // false
//	    return nil
//	})
func ConnectedToRole(ctx context.Context, role Role, shard ...Shard) bool {
	s := stateFrom(ctx)
	if s.role != role {
		return false
	}
	if len(shard) > 0 {
		return s.shard == shard[0]
	}
	return true
}

// To names the target of a ConnectedTo scope. At least one of Role and
// Shard must be set. PreventWrites activates the write-prevention guard
// for the duration of the scope; it is forced on whenever Role is the
// reading role.
type To struct {
	Role          Role
	Shard         Shard
	PreventWrites bool
}

// WithHandler runs fn connected to the handler registered under key,
// creating the handler on first use. The previous handler binding is back
// in force as soon as fn returns, whether it returns normally, early, or
// with an error.
func (r *Router) WithHandler(ctx context.Context, key string, fn func(context.Context) error) error {
	r.handler(key)

	next := stateFrom(ctx)
	next.handlerKey = key
	return fn(withState(ctx, next))
}

// WithRole runs fn connected to the given role. The role's handler is
// swapped in for the duration of the scope. Write prevention is activated
// when preventWrites is true, and always when role is the reading role;
// it stacks on top of any prevention already active, so a nested
// writing-role scope inside a prevention scope stays read-only.
func (r *Router) WithRole(ctx context.Context, role Role, preventWrites bool, fn func(context.Context) error) error {
	if role == Reading {
		preventWrites = true
	}
	return r.WithHandler(ctx, string(role), func(ctx context.Context) error {
		next := stateFrom(ctx)
		next.role = role
		if preventWrites {
			next.preventDepth++
		}
		return fn(withState(ctx, next))
	})
}

// WithShard runs fn connected to the given shard under the given role.
// The shard and role axes restore independently: an inner scope that
// changes only the role leaves this shard binding in force, and exiting
// this scope restores the outer shard no matter what the body did to the
// role.
func (r *Router) WithShard(ctx context.Context, shard Shard, role Role, preventWrites bool, fn func(context.Context) error) error {
	return r.WithRole(ctx, role, preventWrites, func(ctx context.Context) error {
		next := stateFrom(ctx)
		next.shard = shard
		return fn(withState(ctx, next))
	})
}

// ConnectedTo runs fn connected to the role and/or shard named by to.
// A shard-only target keeps the current role; a role-only target keeps
// the current shard. Supplying neither fails with ArgumentConflictError.
//
// Example:
//
//	err := r.ConnectedTo(ctx, router.To{Role: router.Reading}, func(ctx context.Context) error {
//	    rows, err := r.Query(ctx, "App", "SELECT id FROM users")
//	    ...
//	})
func (r *Router) ConnectedTo(ctx context.Context, to To, fn func(context.Context) error) error {
	switch {
	case to.Role != "" && to.Shard != "":
		return r.WithShard(ctx, to.Shard, to.Role, to.PreventWrites, fn)
	case to.Role != "":
		return r.WithRole(ctx, to.Role, to.PreventWrites, fn)
	case to.Shard != "":
		return r.WithShard(ctx, to.Shard, CurrentRole(ctx), to.PreventWrites, fn)
	default:
		return &ArgumentConflictError{
			Operation: "ConnectedTo",
			Message:   "a role or a shard must be provided",
		}
	}
}
