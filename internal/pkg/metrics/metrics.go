package metrics

import (
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ezleave_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ezleave_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	leaveTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ezleave_leave_transitions_total",
			Help: "Committed leave request transitions",
		},
		[]string{"action", "leave_type"},
	)

	leaveDaysTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ezleave_leave_balance_days_total",
			Help: "Days moved through the balance ledger by kind",
		},
		[]string{"kind"},
	)

	leaveRequests = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ezleave_leave_requests",
			Help: "Leave requests applied for in the current year by status",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(leaveTransitionsTotal)
	prometheus.MustRegister(leaveDaysTotal)
	prometheus.MustRegister(leaveRequests)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, route string, status int, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordLeaveTransition counts a committed submit, approve, reject or cancel.
func RecordLeaveTransition(action, leaveType string) {
	leaveTransitionsTotal.WithLabelValues(action, leaveType).Inc()
}

// RecordLedgerDays counts the absolute days appended to the ledger.
func RecordLedgerDays(kind string, days int) {
	if days < 0 {
		days = -days
	}
	leaveDaysTotal.WithLabelValues(kind).Add(float64(days))
}

func SetLeaveRequests(status string, count int64) {
	leaveRequests.WithLabelValues(status).Set(float64(count))
}

// RegisterPoolCollector publishes connection pool gauges read on every scrape.
func RegisterPoolCollector(pool *pgxpool.Pool) error {
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "ezleave_db_connections_acquired",
			Help: "Connections currently in use",
		}, func() float64 { return float64(pool.Stat().AcquiredConns()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "ezleave_db_connections_idle",
			Help: "Idle connections in the pool",
		}, func() float64 { return float64(pool.Stat().IdleConns()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "ezleave_db_connections_max",
			Help: "Maximum pool size",
		}, func() float64 { return float64(pool.Stat().MaxConns()) }),
	}
	for _, g := range gauges {
		if err := prometheus.Register(g); err != nil {
			return err
		}
	}
	return nil
}
