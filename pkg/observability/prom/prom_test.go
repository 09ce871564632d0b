package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func delta(t *testing.T, collector prometheus.Collector, observe func()) float64 {
	t.Helper()

	before := testutil.ToFloat64(collector)
	observe()
	after := testutil.ToFloat64(collector)
	return after - before
}

func TestPipelineRecords(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	if inc := delta(t, m.stageTotal.WithLabelValues("load", "success"), func() {
		m.OnLoadComplete(ctx, "mempool", 2500, time.Second, nil)
	}); inc != 1 {
		t.Fatalf("expected load success increment, got %v", inc)
	}
	if got := testutil.ToFloat64(m.loadedTxs.WithLabelValues("mempool")); got != 2500 {
		t.Fatalf("loaded transactions = %v, want 2500", got)
	}

	if inc := delta(t, m.stageTotal.WithLabelValues("render", "error"), func() {
		m.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, errors.New("disk full"))
	}); inc != 1 {
		t.Fatalf("expected render error increment, got %v", inc)
	}

	m.OnLayoutComplete(ctx, 40, time.Millisecond, nil)
	if got := testutil.ToFloat64(m.stageTotal.WithLabelValues("layout", "success")); got != 1 {
		t.Fatalf("layout stages = %v, want 1", got)
	}
}

func TestCacheRecords(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnCacheHit(ctx, "layout")
	m.OnCacheMiss(ctx, "layout")
	m.OnCacheMiss(ctx, "layout")
	m.OnCacheSet(ctx, "artifact", 512)
	m.OnCacheSet(ctx, "artifact", 512)

	if got := testutil.ToFloat64(m.cacheTotal.WithLabelValues("layout", "miss")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cacheBytes.WithLabelValues("artifact")); got != 1024 {
		t.Errorf("bytes = %v, want 1024", got)
	}
}

func TestNodeRecords(t *testing.T) {
	m := New(prometheus.NewRegistry())

	if inc := delta(t, m.rpcTotal.WithLabelValues("getblock", "error"), func() {
		m.OnResult(context.Background(), "getblock", time.Second, errors.New("oops"))
	}); inc != 1 {
		t.Fatalf("expected rpc error increment, got %v", inc)
	}
}

func TestSceneRecords(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnSceneUpdate(ctx, "update", 3, 1, time.Millisecond)
	m.OnSceneSize(ctx, 120, 9)

	if got := testutil.ToFloat64(m.sceneOps.WithLabelValues("update")); got != 1 {
		t.Errorf("scene ops = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.sceneRows); got != 9 {
		t.Errorf("rows = %v, want 9", got)
	}
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	New(reg)
}
