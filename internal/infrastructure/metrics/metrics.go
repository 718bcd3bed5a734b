package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	EntriesCreated   *prometheus.CounterVec
	EntriesDeleted   prometheus.Counter
	TransfersCreated prometheus.Counter
	TransferAmount   prometheus.Histogram
	TransferErrors   *prometheus.CounterVec

	// Portfolio metrics
	HoldingsPurchased prometheus.Counter
	HoldingsSettled   prometheus.Counter
	DividendsRecorded prometheus.Counter
	CandlesRolled     prometheus.Counter

	// Trading journal metrics
	TradesCreated *prometheus.CounterVec
	TradesDeleted prometheus.Counter

	// Database metrics
	DBConnections prometheus.Gauge

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	PinChecks    *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finboard_entries_created_total",
				Help: "Total number of ledger entries created",
			},
			[]string{"bucket", "direction"},
		),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finboard_entries_deleted_total",
			Help: "Total number of ledger entries deleted",
		}),
		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finboard_transfers_created_total",
			Help: "Total number of allocation transfers created",
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finboard_transfer_amount",
			Help:    "Allocation transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finboard_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),

		HoldingsPurchased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finboard_holdings_purchased_total",
			Help: "Total number of holdings purchased",
		}),
		HoldingsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finboard_holdings_settled_total",
			Help: "Total number of holdings settled",
		}),
		DividendsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finboard_dividends_recorded_total",
			Help: "Total number of dividends recorded",
		}),
		CandlesRolled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finboard_candles_rolled_total",
			Help: "Total number of daily candles rolled",
		}),

		TradesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finboard_trades_created_total",
				Help: "Total number of journal trades created",
			},
			[]string{"outcome"},
		),
		TradesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finboard_trades_deleted_total",
			Help: "Total number of journal trades deleted",
		}),

		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "finboard_db_connections",
			Help: "Current number of database connections",
		}),

		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finboard_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		PinChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finboard_pin_checks_total",
				Help: "Total action PIN verifications",
			},
			[]string{"status"},
		),
	}
}
