// Package prom implements the observability hooks with Prometheus metrics.
//
// A single [Metrics] value satisfies every hook interface:
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetNodeHooks(m)
//	observability.SetSceneHooks(m)
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/blocktower/pkg/observability"
)

const namespace = "blocktower"

// Metrics records hook events as Prometheus series.
type Metrics struct {
	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	loadedTxs     *prometheus.GaugeVec

	cacheTotal *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	rpcTotal    *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec

	sceneOps      *prometheus.CounterVec
	sceneDuration *prometheus.HistogramVec
	sceneTxs      prometheus.Gauge
	sceneRows     prometheus.Gauge
}

// New registers the blocktower metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		stageTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stages_total",
			Help:      "Count of pipeline stages run.",
		}, []string{"stage", "status"}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage", "status"}),
		loadedTxs: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "loaded_transactions",
			Help:      "Transactions returned by the last load of each source.",
		}, []string{"source"}),
		cacheTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Count of cache lookups and writes.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"key_type"}),
		rpcTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc_client",
			Name:      "operations_total",
			Help:      "Count of node RPC operations.",
		}, []string{"operation", "status"}),
		rpcDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc_client",
			Name:      "operation_duration_seconds",
			Help:      "Duration of node RPC operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		sceneOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scene",
			Name:      "operations_total",
			Help:      "Count of live scene lifecycle operations.",
		}, []string{"op"}),
		sceneDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scene",
			Name:      "operation_duration_seconds",
			Help:      "Duration of live scene lifecycle operations.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		}, []string{"op"}),
		sceneTxs: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scene",
			Name:      "transactions",
			Help:      "Transactions currently placed in the live scene.",
		}),
		sceneRows: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scene",
			Name:      "rows",
			Help:      "Grid rows used by the live scene.",
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageTotal.WithLabelValues(name, status(err)).Inc()
	m.stageDuration.WithLabelValues(name, status(err)).Observe(d.Seconds())
}

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, source string, txCount int, d time.Duration, err error) {
	m.stage("load", d, err)
	if err == nil {
		m.loadedTxs.WithLabelValues(source).Set(float64(txCount))
	}
}

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, _ int, d time.Duration, err error) {
	m.stage("layout", d, err)
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.stage("render", d, err)
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheTotal.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnCall(context.Context, string) {}

func (m *Metrics) OnResult(_ context.Context, method string, d time.Duration, err error) {
	m.rpcTotal.WithLabelValues(method, status(err)).Inc()
	m.rpcDuration.WithLabelValues(method, status(err)).Observe(d.Seconds())
}

func (m *Metrics) OnSceneUpdate(_ context.Context, op string, _, _ int, d time.Duration) {
	m.sceneOps.WithLabelValues(op).Inc()
	m.sceneDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) OnSceneSize(_ context.Context, txCount, rows int) {
	m.sceneTxs.Set(float64(txCount))
	m.sceneRows.Set(float64(rows))
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.NodeHooks     = (*Metrics)(nil)
	_ observability.SceneHooks    = (*Metrics)(nil)
)
