package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/secmon-lab/grievance/pkg/domain/types"
)

var (
	caseTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grievance_case_transitions_total",
		Help: "Total case stage transitions by source and target stage.",
	}, []string{"from", "to"})

	caseOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grievance_case_operations_total",
		Help: "Total case mutations by operation and result.",
	}, []string{"operation", "result"})
)

func recordTransition(from, to types.Stage) {
	if from == to {
		return
	}
	caseTransitionsTotal.WithLabelValues(from.String(), to.String()).Inc()
}

func recordOperation(op string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	caseOperationsTotal.WithLabelValues(op, result).Inc()
}
