package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OpsTotal conta as operações do ciclo de vida por resultado.
// op: create|join|resolve|claim; result: ok|rejected|error
var OpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ledger_operations_total",
	Help: "Operações do ledger de apostas por operação e resultado",
}, []string{"op", "result"})

// PrizesPaidCents acumula o total de prêmios pagos.
var PrizesPaidCents = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ledger_prizes_paid_cents_total",
	Help: "Total de prêmios pagos, em centavos",
})

// EventsArchived conta eventos arquivados pelo ledger-events-worker.
var EventsArchived = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ledger_events_archived_total",
	Help: "Eventos de ciclo de vida arquivados, por tipo",
}, []string{"type"})
