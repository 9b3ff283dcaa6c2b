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
	"regexp"
	"strings"
)

// readQueryPattern matches statements that begin, after any leading
// whitespace, opening parentheses, or SQL comments, with a keyword from
// the read allow-list. Anything that does not match is treated as
// mutating, so unknown statement forms (DDL, GRANT, TRUNCATE) fail closed
// under write prevention.
var readQueryPattern = regexp.MustCompile(
	`(?is)\A(?:[(\s]|--[^\n]*\n?|/\*.*?\*/)*` +
		`(select|with|explain|show|values|begin|commit|rollback|savepoint|release|set|close|declare|fetch|move)\b`)

// writeKeywords are the statement keywords that make a common-table
// expression mutating when they appear in its top-level body.
var writeKeywords = map[string]bool{
	"insert":  true,
	"update":  true,
	"delete":  true,
	"merge":   true,
	"replace": true,
}

// IsReadQuery classifies a SQL statement without contacting a database.
// It reports true for statements on the read allow-list: selects,
// transaction control, cursor movement, and session settings. A WITH
// statement counts as a read only when its top-level body is one: a
// common-table expression feeding an INSERT, UPDATE, DELETE, MERGE, or
// REPLACE is mutating even though it starts with a read keyword.
func IsReadQuery(query string) bool {
	m := readQueryPattern.FindStringSubmatch(query)
	if m == nil {
		return false
	}
	if strings.EqualFold(m[1], "with") {
		return !cteWritesAtTopLevel(query)
	}
	return true
}

// cteWritesAtTopLevel scans a WITH statement for a write keyword at
// parenthesis depth zero. The CTE definitions themselves sit inside
// parentheses, so a SELECT consuming them passes while the WITH ... INSERT
// form is caught. Comments, quoted strings, and quoted identifiers are
// skipped so their contents cannot trip the scan.
func cteWritesAtTopLevel(query string) bool {
	depth := 0
	for i := 0; i < len(query); {
		c := query[i]
		switch {
		case c == '(':
			depth++
			i++
		case c == ')':
			if depth > 0 {
				depth--
			}
			i++
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			for i < len(query) && query[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				return false
			}
			i += end + 4
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(query, i)
		case isWordByte(c):
			start := i
			for i < len(query) && isWordByte(query[i]) {
				i++
			}
			if depth == 0 && writeKeywords[strings.ToLower(query[start:i])] {
				return true
			}
		default:
			i++
		}
	}
	return false
}

// skipQuoted advances past a quoted region starting at start, honoring
// doubled-quote and backslash escapes. Returns the index just past the
// closing quote, or len(query) when the region is unterminated.
func skipQuoted(query string, start int) int {
	quote := query[start]
	i := start + 1
	for i < len(query) {
		switch query[i] {
		case '\\':
			i += 2
		case quote:
			if i+1 < len(query) && query[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		default:
			i++
		}
	}
	return i
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
