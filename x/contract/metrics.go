package contract

import (
	"strconv"

	"github.com/iov-one/ledger/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts executed contract operations by name and result. The result
// is "ok" or the code of the returned error.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
}

// NewMetrics registers the contract metrics with given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Subsystem: "contract",
		Name:      "operations_total",
		Help:      "Number of executed contract operations.",
	}, []string{"operation", "result"})
	if err := reg.Register(ops); err != nil {
		return nil, errors.Wrapf(errors.ErrHuman, "register metrics: %s", err)
	}
	return &Metrics{operations: ops}, nil
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = strconv.FormatUint(uint64(errors.Code(err)), 10)
	}
	m.operations.WithLabelValues(operation, result).Inc()
}
