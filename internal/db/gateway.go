package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Row is one result row keyed by column name.
type Row map[string]any

// Fields maps column names to values for insert/update.
type Fields map[string]any

// Result is the uniform outcome of every gateway call. Failures never
// surface as Go errors; Success=false and Error carries the message.
type Result struct {
	Success      bool
	Columns      []string
	Data         []Row
	InsertID     int64
	AffectedRows int64
	Error        string
}

// First returns the first row or nil.
func (r Result) First() Row {
	if len(r.Data) == 0 {
		return nil
	}
	return r.Data[0]
}

// Err converts a failed result into an error for callers that want one.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	if r.Error == "" {
		return fmt.Errorf("query returned no data")
	}
	return fmt.Errorf("%s", r.Error)
}

// Gateway is a thin query builder over a connection pool.
type Gateway struct {
	DB      DBTX
	Timeout time.Duration
}

func New(db DBTX, timeout time.Duration) Gateway {
	return Gateway{DB: db, Timeout: timeout}
}

func (g Gateway) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if g.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, g.Timeout)
}

func failed(op string, err error) Result {
	logrus.WithError(err).WithField("op", op).Error("database query error")
	return Result{Success: false, Error: err.Error()}
}

// Execute runs a parameterized statement. Statements that return rows
// (SELECT, SHOW, WITH) are read into Data.
func (g Gateway) Execute(ctx context.Context, query string, args ...any) Result {
	if g.DB == nil {
		return Result{Error: "database not configured"}
	}
	ctx, cancel := g.ctx(ctx)
	defer cancel()

	if !returnsRows(query) {
		res, err := g.DB.ExecContext(ctx, query, args...)
		if err != nil {
			return failed("execute", err)
		}
		out := Result{Success: true}
		out.InsertID, _ = res.LastInsertId()
		out.AffectedRows, _ = res.RowsAffected()
		return out
	}

	rows, err := g.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return failed("query", err)
	}
	defer rows.Close()

	cols, data, err := scanRows(rows)
	if err != nil {
		return failed("scan", err)
	}
	return Result{Success: true, Columns: cols, Data: data}
}

// FindOne returns the first row. A missing row and a failed query both
// come back with Success=false.
func (g Gateway) FindOne(ctx context.Context, query string, args ...any) Result {
	res := g.Execute(ctx, query, args...)
	if res.Success && len(res.Data) > 0 {
		return Result{Success: true, Columns: res.Columns, Data: res.Data[:1]}
	}
	return Result{Success: false, Error: res.Error}
}

// Insert writes one row into table and returns the generated id.
func (g Gateway) Insert(ctx context.Context, table string, data Fields) Result {
	cols := sortedKeys(data)
	if len(cols) == 0 {
		return Result{Error: "insert: no fields"}
	}
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = "?"
		args[i] = data[c]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return g.Execute(ctx, query, args...)
}

// Update sets data on rows matching where.
func (g Gateway) Update(ctx context.Context, table string, data Fields, where string, whereArgs ...any) Result {
	cols := sortedKeys(data)
	if len(cols) == 0 {
		return Result{Error: "update: no fields"}
	}
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(whereArgs))
	for i, c := range cols {
		sets[i] = c + " = ?"
		args = append(args, data[c])
	}
	args = append(args, whereArgs...)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(sets, ", "), where)
	return g.Execute(ctx, query, args...)
}

// Delete removes rows matching where.
func (g Gateway) Delete(ctx context.Context, table, where string, whereArgs ...any) Result {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", table, where)
	return g.Execute(ctx, query, whereArgs...)
}

func returnsRows(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "SHOW", "WITH", "DESCRIBE", "EXPLAIN"} {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return false
}

func scanRows(rows *sql.Rows) ([]string, []Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	out := []Row{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// sorted so generated SQL is deterministic
func sortedKeys(f Fields) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
