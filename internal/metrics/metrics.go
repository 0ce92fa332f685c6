package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PollsIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "okc_polls_issued_total",
		Help: "Total poll requests issued, by kind (routine|manual).",
	}, []string{"kind"})
	PollFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "okc_poll_failures_total",
		Help: "Total polls that produced no usable batch, by reason (transport|malformed|dispatch).",
	}, []string{"reason"})
	BatchesApplied = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "okc_batches_applied_total",
		Help: "Total batches dispatched with the cursor advanced.",
	})
	EventsDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "okc_events_dispatched_total",
		Help: "Total events dispatched, by type tag.",
	}, []string{"type"})
	EntriesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "okc_entries_skipped_total",
		Help: "Total people/event entries dropped as undecodable.",
	})

	SendAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "okc_send_attempts_total",
		Help: "Total send submissions, retries included.",
	})
	SendOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "okc_send_outcomes_total",
		Help: "Total terminal send outcomes, by state.",
	}, []string{"state"})
	SendRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "okc_send_rejections_total",
		Help: "Total sends rejected by the server, by reason code.",
	}, []string{"reason"})

	AvatarFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "okc_avatar_fetches_total",
		Help: "Total avatar downloads, by result (ok|error).",
	}, []string{"result"})
)

func Register() {
	RegisterWith(prometheus.DefaultRegisterer)
}

func RegisterWith(reg prometheus.Registerer) {
	reg.MustRegister(
		PollsIssued, PollFailures, BatchesApplied, EventsDispatched, EntriesSkipped,
		SendAttempts, SendOutcomes, SendRejections,
		AvatarFetches,
	)
}
