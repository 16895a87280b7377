package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutorcenter", Name: "http_requests_total", Help: "Processed HTTP requests",
	}, []string{"method", "route", "status"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tutorcenter", Name: "handler_errors_total", Help: "Handler errors",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tutorcenter", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
	PunchIns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tutorcenter", Name: "punch_ins_total", Help: "Successful punch-ins",
	})
	PunchOuts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tutorcenter", Name: "punch_outs_total", Help: "Successful punch-outs",
	})
	SweepReconciled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tutorcenter", Name: "sweep_reconciled_total", Help: "Attendance records closed by the auto punch-out sweep",
	})
	PointsAwarded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutorcenter", Name: "points_awarded_total", Help: "Points awarded by activity type",
	}, []string{"type"})
	OutboxPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tutorcenter", Name: "outbox_pending", Help: "Replication outbox entries not yet mirrored",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HandlerErrors, DBPing, PunchIns, PunchOuts, SweepReconciled, PointsAwarded, OutboxPending)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
