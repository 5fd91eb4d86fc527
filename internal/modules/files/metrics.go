package files

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultApplied  = "applied"
	resultRejected = "rejected"
	resultConflict = "conflict"
)

var (
	statusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filemeta_status_transitions_total",
			Help: "Requested file status transitions by outcome.",
		},
		[]string{"from", "to", "result"},
	)

	filesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filemeta_files_created_total",
			Help: "File record create attempts by outcome.",
		},
		[]string{"result"},
	)
)
