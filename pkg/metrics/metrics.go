package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas Prometheus de la aplicación. Se registran en el registry global
// vía promauto; el endpoint /metrics las expone.
var (
	// TransactionsTotal cuenta comandos de libro aplicados, por tabla y operación (record/amend/remove).
	TransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agroledger_transactions_total",
			Help: "Comandos de libro aplicados correctamente",
		},
		[]string{"table", "op"},
	)

	// StockClampsTotal cuenta ajustes a cero por stock insuficiente.
	StockClampsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agroledger_stock_clamps_total",
			Help: "Veces que el snapshot de stock se ajustó a cero por quedar negativo",
		},
	)

	// SyncPushedRows cuenta filas subidas al remoto por tabla.
	SyncPushedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agroledger_sync_pushed_rows_total",
			Help: "Filas locales enviadas al almacén remoto",
		},
		[]string{"table"},
	)

	// SyncPulledRows cuenta filas bajadas del remoto por tabla.
	SyncPulledRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agroledger_sync_pulled_rows_total",
			Help: "Filas remotas aplicadas al almacén local",
		},
		[]string{"table"},
	)

	// SyncFailures cuenta fallos de sincronización por tabla y fase (push/pull).
	SyncFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agroledger_sync_failures_total",
			Help: "Ciclos de sincronización fallidos",
		},
		[]string{"table", "phase"},
	)

	// PendingRows expone cuántas filas dirty quedan por tabla tras el último ciclo.
	PendingRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "agroledger_sync_pending_rows",
			Help: "Filas locales pendientes de subir",
		},
		[]string{"table"},
	)
)
