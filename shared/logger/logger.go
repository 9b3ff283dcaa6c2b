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

package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

// Logger provides structured JSON logging for router components.
type Logger struct {
	Component string
	Hostname  string
}

// LogEntry represents a structured log entry.
type LogEntry struct {
	Timestamp  string                 `json:"timestamp"`
	Level      string                 `json:"level"`
	Component  string                 `json:"component"`
	Hostname   string                 `json:"hostname,omitempty"`
	Message    string                 `json:"message"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
	Error      string                 `json:"error,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
}

// New creates a new logger for the given component.
func New(component string) *Logger {
	hostname, _ := os.Hostname()

	return &Logger{
		Component: component,
		Hostname:  hostname,
	}
}

// Info logs an info-level message with optional structured fields.
func (l *Logger) Info(message string, fields map[string]interface{}) {
	l.log("INFO", message, fields, nil, 0)
}

// Warn logs a warning-level message with optional structured fields.
func (l *Logger) Warn(message string, fields map[string]interface{}) {
	l.log("WARN", message, fields, nil, 0)
}

// Error logs an error-level message with optional structured fields.
func (l *Logger) Error(message string, err error, fields map[string]interface{}) {
	l.log("ERROR", message, fields, err, 0)
}

// Debug logs a debug-level message with optional structured fields.
func (l *Logger) Debug(message string, fields map[string]interface{}) {
	l.log("DEBUG", message, fields, nil, 0)
}

// InfoWithDuration logs an info-level message with an operation duration.
func (l *Logger) InfoWithDuration(message string, duration time.Duration, fields map[string]interface{}) {
	l.log("INFO", message, fields, nil, duration.Milliseconds())
}

// log creates and outputs a structured log entry
func (l *Logger) log(level, message string, fields map[string]interface{}, err error, durationMs int64) {
	entry := LogEntry{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Level:      level,
		Component:  l.Component,
		Hostname:   l.Hostname,
		Message:    message,
		Fields:     fields,
		DurationMs: durationMs,
	}

	if err != nil {
		entry.Error = err.Error()
	}

	jsonData, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		// Fallback to plain text if JSON marshaling fails
		log.Printf("[%s] %s %s: %s (marshal error: %v)",
			level, entry.Timestamp, l.Component, message, marshalErr)
		return
	}

	log.Println(string(jsonData))
}

// WithComponent returns a copy of the logger scoped to a sub-component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Component: fmt.Sprintf("%s.%s", l.Component, component),
		Hostname:  l.Hostname,
	}
}
