package engine

import (
	"context"
	"strings"
	"testing"
)

func openMemory(t *testing.T, opts Options) *Conn {
	t.Helper()
	conn, err := Open(context.Background(), InMemory, opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestConn_QueryAndFetch(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t, Options{})

	if err := conn.Exec(ctx, "CREATE TABLE t (id INTEGER, name VARCHAR)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := conn.Exec(ctx, "INSERT INTO t VALUES (1, 'a'), (2, 'b'), (3, 'c')"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	cur, err := conn.Query(ctx, "SELECT id, name FROM t ORDER BY id")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer cur.Close()

	cols := cur.Columns()
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "name" {
		t.Fatalf("unexpected columns: %v", cols)
	}

	first, err := cur.Fetch(2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(first))
	}

	rest, err := cur.FetchAll()
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("expected 1 remaining row, got %d", len(rest))
	}

	// An exhausted cursor keeps returning empty results.
	again, err := cur.FetchAll()
	if err != nil {
		t.Fatalf("fetch after exhaustion: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no rows after exhaustion, got %d", len(again))
	}
}

func TestConn_QueryError(t *testing.T) {
	conn := openMemory(t, Options{})

	_, err := conn.Query(context.Background(), "SELEC nonsense")
	if err == nil {
		t.Fatal("expected an engine error for invalid SQL")
	}
}

func TestConn_Version(t *testing.T) {
	conn := openMemory(t, Options{})

	version, err := conn.Version(context.Background())
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version == "" {
		t.Fatal("expected a non-empty version string")
	}
}

func TestConn_PreparedStatement(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t, Options{})

	if err := conn.Exec(ctx, "CREATE TABLE n (v INTEGER)"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	ins, err := conn.Prepare(ctx, "INSERT INTO n VALUES (?)")
	if err != nil {
		t.Fatalf("prepare insert: %v", err)
	}
	defer ins.Close()
	for i := 1; i <= 3; i++ {
		if err := ins.Exec(ctx, i); err != nil {
			t.Fatalf("exec insert %d: %v", i, err)
		}
	}

	sel, err := conn.Prepare(ctx, "SELECT count(*) FROM n WHERE v >= ?")
	if err != nil {
		t.Fatalf("prepare select: %v", err)
	}
	defer sel.Close()

	cur, err := sel.Query(ctx, 2)
	if err != nil {
		t.Fatalf("query statement: %v", err)
	}
	defer cur.Close()

	rows, err := cur.FetchAll()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
}

func TestConn_Appender(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t, Options{})

	if err := conn.Exec(ctx, "CREATE TABLE people (id INTEGER, name VARCHAR)"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	app, err := conn.Appender(ctx, "", "people")
	if err != nil {
		t.Fatalf("appender: %v", err)
	}
	if err := app.AppendRow(int32(1), "ada"); err != nil {
		t.Fatalf("append row: %v", err)
	}
	if err := app.AppendRow(int32(2), "grace"); err != nil {
		t.Fatalf("append row: %v", err)
	}
	if err := app.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close appender: %v", err)
	}

	cur, err := conn.Query(ctx, "SELECT count(*) FROM people")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	defer cur.Close()
	rows, err := cur.FetchAll()
	if err != nil || len(rows) != 1 {
		t.Fatalf("fetch count: rows=%v err=%v", rows, err)
	}
}

func TestOpen_InMemoryInstancesIndependent(t *testing.T) {
	ctx := context.Background()
	a := openMemory(t, Options{})
	b := openMemory(t, Options{})

	if err := a.Exec(ctx, "CREATE TABLE only_in_a (v INTEGER)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := b.Query(ctx, "SELECT * FROM only_in_a"); err == nil {
		t.Fatal("table created in one in-memory instance is visible in another")
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(context.Background(), "/nonexistent-dir-for-sure/db.duckdb", Options{})
	if err == nil {
		t.Fatal("expected open failure for unwritable path")
	}
	if strings.TrimSpace(err.Error()) == "" {
		t.Fatal("expected the engine's error text to be preserved")
	}
}
