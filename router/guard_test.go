// Copyright 2025 Switchyard
// SPDX-License-Identifier: BUSL-1.1

package router

import "testing"

func TestIsReadQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		read  bool
	}{
		{"plain select", "SELECT * FROM users", true},
		{"lowercase select", "select 1", true},
		{"leading whitespace", "   \n\tSELECT 1", true},
		{"leading line comment", "-- fetch users\nSELECT * FROM users", true},
		{"leading block comment", "/* routed */ SELECT * FROM users", true},
		{"multiline block comment", "/* line one\nline two */ SELECT 1", true},
		{"parenthesized select", "(SELECT 1)", true},
		{"explain", "EXPLAIN SELECT * FROM users", true},
		{"show", "SHOW server_version", true},
		{"values", "VALUES (1, 2)", true},
		{"begin", "BEGIN", true},
		{"commit", "COMMIT", true},
		{"rollback", "ROLLBACK", true},
		{"savepoint", "SAVEPOINT sp1", true},
		{"release savepoint", "RELEASE SAVEPOINT sp1", true},
		{"set session", "SET search_path TO public", true},
		{"declare cursor", "DECLARE cur CURSOR FOR SELECT 1", true},
		{"fetch", "FETCH 10 FROM cur", true},
		{"move", "MOVE 5 IN cur", true},
		{"close cursor", "CLOSE cur", true},
		{
			"cte for select",
			"WITH recent AS (SELECT * FROM posts WHERE created_at > now()) SELECT * FROM recent",
			true,
		},
		{
			"cte with write keyword inside string",
			"WITH t AS (SELECT 1) SELECT 'please delete me' FROM t",
			true,
		},
		{
			"cte with doubled quote escape",
			"WITH t AS (SELECT 1) SELECT 'it''s not an update' FROM t",
			true,
		},
		{
			"cte with write keyword as quoted identifier",
			`WITH t AS (SELECT 1) SELECT "delete" FROM t`,
			true,
		},
		{"insert", "INSERT INTO users (name) VALUES ('x')", false},
		{"update", "UPDATE users SET name = 'x'", false},
		{"delete", "DELETE FROM users", false},
		{"insert behind comment", "/* hint */ INSERT INTO users VALUES (1)", false},
		{"parenthesized insert", "(INSERT INTO users VALUES (1))", false},
		{
			"cte feeding insert",
			"WITH src AS (SELECT * FROM staging) INSERT INTO users SELECT * FROM src",
			false,
		},
		{
			"cte feeding update",
			"WITH flagged AS (SELECT id FROM reports) UPDATE users SET banned = true WHERE id IN (SELECT id FROM flagged)",
			false,
		},
		{
			"cte feeding delete",
			"WITH old AS (SELECT id FROM sessions) DELETE FROM sessions WHERE id IN (SELECT id FROM old)",
			false,
		},
		{
			"cte feeding merge",
			"WITH src AS (SELECT 1 AS id) MERGE INTO target USING src ON target.id = src.id",
			false,
		},
		{"create table", "CREATE TABLE t (id int)", false},
		{"drop table", "DROP TABLE t", false},
		{"truncate", "TRUNCATE users", false},
		{"grant", "GRANT SELECT ON users TO reporting", false},
		{"empty statement", "", false},
		{"comment only", "-- nothing here", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReadQuery(tt.query); got != tt.read {
				t.Errorf("IsReadQuery(%q) = %v, want %v", tt.query, got, tt.read)
			}
		})
	}
}
