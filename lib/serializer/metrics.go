package serializer

import (
	"errors"
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

var (
	serializeCallsTotal = metrics.NewCounter(`serjs_serialize_calls_total`)
	serializeDuration   = metrics.NewHistogram(`serjs_serialize_duration_seconds`)
	outputBytes         = metrics.NewHistogram(`serjs_serialize_output_bytes`)

	deferredValuesTotal [kindCount]*metrics.Counter
	serializeErrorsTotal = map[ErrCode]*metrics.Counter{}
)

func init() {
	for k := KindNone; k < kindCount; k++ {
		deferredValuesTotal[k] = metrics.NewCounter(fmt.Sprintf(`serjs_deferred_values_total{kind=%q}`, k))
	}
	for _, c := range []ErrCode{ErrCUnknown, ErrCUnsupportedValue, ErrCCyclicReference, ErrCInvalidOption} {
		serializeErrorsTotal[c] = metrics.NewCounter(fmt.Sprintf(`serjs_serialize_errors_total{code=%q}`, c))
	}
}

func countError(err error) {
	var serr *Error
	if errors.As(err, &serr) {
		if c, ok := serializeErrorsTotal[serr.Code]; ok {
			c.Inc()
			return
		}
	}
	serializeErrorsTotal[ErrCUnknown].Inc()
}
