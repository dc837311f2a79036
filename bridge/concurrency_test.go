package bridge

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestBridge_ConcurrentDistinctConnections(t *testing.T) {
	ctx := context.Background()
	b := newBridge(t)
	a := openMemory(t, b, nil)
	c := openMemory(t, b, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, id := range []uint64{a, c} {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				cur, err := b.Query(ctx, id, "SELECT 1", nil)
				if err != nil {
					errs <- fmt.Errorf("query on %d: %w", id, err)
					return
				}
				if _, err := b.FetchAll(ctx, cur); err != nil {
					errs <- fmt.Errorf("fetch on %d: %w", id, err)
					return
				}
				if err := b.CloseCursor(ctx, cur); err != nil {
					errs <- fmt.Errorf("close cursor on %d: %w", id, err)
					return
				}
			}
		}(id)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("concurrent use of distinct connections deadlocked")
	}
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestBridge_SameConnectionSerialized(t *testing.T) {
	ctx := context.Background()
	b := newBridge(t)
	id := openMemory(t, b, nil)

	if _, err := b.Query(ctx, id, "CREATE TABLE hits (worker INTEGER, n INTEGER)", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	const workers = 4
	const perWorker = 10
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				sql := fmt.Sprintf("INSERT INTO hits VALUES (%d, %d)", w, i)
				if _, err := b.Query(ctx, id, sql, nil); err != nil {
					t.Errorf("worker %d insert %d: %v", w, i, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	cur, err := b.Query(ctx, id, "SELECT count(*) FROM hits", nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	rows, err := b.FetchAll(ctx, cur)
	if err != nil || len(rows) != 1 {
		t.Fatalf("fetch count: rows=%v err=%v", rows, err)
	}
	if n, ok := rows[0][0].(int64); ok && n != workers*perWorker {
		t.Fatalf("expected %d rows, got %d", workers*perWorker, n)
	}
}

func TestBridge_CloseDuringConcurrentQueries(t *testing.T) {
	ctx := context.Background()
	b := newBridge(t)
	id, err := b.Open(ctx, "", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// Queries racing a close must either succeed or fail with a lookup
	// error; they must never wedge or crash.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				cur, err := b.Query(ctx, id, "SELECT 1", nil)
				if err != nil {
					return
				}
				b.CloseCursor(ctx, cur)
			}
		}()
	}

	time.Sleep(time.Millisecond)
	if err := b.Close(ctx, id); err != nil {
		t.Fatalf("close: %v", err)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("queries racing a close never finished")
	}

	if got := b.cursors.Len(); got != 0 {
		t.Fatalf("expected no surviving cursors after close, got %d", got)
	}
}
