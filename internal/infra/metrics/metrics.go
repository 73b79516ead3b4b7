package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ordersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_orders_created_total",
			Help: "Pending orders created, by kind.",
		},
		[]string{"kind"},
	)

	ordersTerminal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_orders_terminal_total",
			Help: "Orders that reached a terminal state, by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	paymentPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_payment_polls_total",
			Help: "Payment status polls, by result (ok|error).",
		},
		[]string{"result"},
	)

	instantSettles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "store_instant_settles_total",
			Help: "Instant-settle side calls issued to the payment gateway.",
		},
	)

	fulfillments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_fulfillments_total",
			Help: "Fulfillment workflow runs, by kind and result (ok|error).",
		},
		[]string{"kind", "result"},
	)

	rentalsTerminal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_rentals_terminal_total",
			Help: "Number rentals that reached a terminal state, by outcome.",
		},
		[]string{"outcome"},
	)

	rentalPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_rental_polls_total",
			Help: "Rental status polls, by result (ok|error).",
		},
		[]string{"result"},
	)

	balanceMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_balance_mutations_total",
			Help: "Balance ledger mutations, by direction (credit|debit|set).",
		},
		[]string{"direction"},
	)
)

// Register installs all collectors into the given registry exactly once.
func Register(reg prometheus.Registerer) {
	once.Do(func() {
		reg.MustRegister(
			ordersCreated,
			ordersTerminal,
			paymentPolls,
			instantSettles,
			fulfillments,
			rentalsTerminal,
			rentalPolls,
			balanceMutations,
		)
	})
}

func IncOrderCreated(kind string)           { ordersCreated.WithLabelValues(kind).Inc() }
func IncOrderTerminal(kind, outcome string) { ordersTerminal.WithLabelValues(kind, outcome).Inc() }
func IncPaymentPoll(ok bool)                { paymentPolls.WithLabelValues(result(ok)).Inc() }
func IncInstantSettle()                     { instantSettles.Inc() }
func IncFulfillment(kind string, ok bool)   { fulfillments.WithLabelValues(kind, result(ok)).Inc() }
func IncRentalTerminal(outcome string)      { rentalsTerminal.WithLabelValues(outcome).Inc() }
func IncRentalPoll(ok bool)                 { rentalPolls.WithLabelValues(result(ok)).Inc() }
func IncBalanceMutation(direction string)   { balanceMutations.WithLabelValues(direction).Inc() }

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
