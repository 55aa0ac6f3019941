package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// RequiredTables are the relations the repositories query.
var RequiredTables = []string{"users", "customers", "vehicles", "inspection_packages", "bookings", "booking_summary"}

// Statements splits the embedded schema into individual statements.
func Statements() []string {
	var out []string
	for _, s := range strings.Split(schemaSQL, ";\n") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.TrimSuffix(s, ";"))
		}
	}
	return out
}

// Migrate applies the schema. Every statement is idempotent.
func (g Gateway) Migrate(ctx context.Context) error {
	for i, stmt := range Statements() {
		if res := g.Execute(ctx, stmt); !res.Success {
			return fmt.Errorf("schema statement %d: %w", i+1, res.Err())
		}
	}
	return nil
}

// HasTable reports whether table (or view) exists in the current schema.
// Lookup failures count as missing.
func (g Gateway) HasTable(ctx context.Context, table string) bool {
	res := g.FindOne(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1`, table)
	return res.Success
}

// MissingTables lists the required tables that are absent.
func (g Gateway) MissingTables(ctx context.Context) []string {
	missing := []string{}
	for _, t := range RequiredTables {
		if !g.HasTable(ctx, t) {
			missing = append(missing, t)
		}
	}
	return missing
}
