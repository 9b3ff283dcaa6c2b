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
Package logger provides structured JSON logging for Switchyard components.

# Overview

The logger package provides structured logging that outputs JSON to stdout,
making logs easily consumable by CloudWatch, ELK stack, or other log
aggregation systems.

Each log entry includes:
  - Timestamp (RFC3339 format)
  - Log level (DEBUG, INFO, WARN, ERROR)
  - Component name (router, config, pool, etc.)
  - Hostname (for multi-host correlation)
  - Custom fields

# Usage

Create a logger for your component:

	log := logger.New("router")

Log messages with structured fields:

	log.Info("pool established", map[string]interface{}{
	    "owner": "ApplicationRecord",
	    "role":  "writing",
	    "shard": "shard_one",
	})

Log errors:

	log.Error("connection failed", err, map[string]interface{}{
	    "spec": "primary",
	})

Log with duration tracking:

	start := time.Now()
	// ... do work ...
	log.InfoWithDuration("idle flush complete", time.Since(start), nil)

Derive a sub-component logger:

	guardLog := log.WithComponent("guard")

# Output Format

Each entry is a single JSON object per line:

	{"timestamp":"2025-06-01T12:00:00Z","level":"INFO","component":"router","message":"pool established","fields":{"role":"writing"}}

If an entry cannot be marshaled to JSON, the logger falls back to a
plain-text line rather than dropping the message.
*/
package logger
