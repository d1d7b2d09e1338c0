// Package metrics turns rpc call results into Prometheus series, provider
// health summaries and cross-provider consistency reports.
package metrics

import (
	"context"
	"errors"

	"github.com/guanqun/uethers/rpc"
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeTimeout   = "timeout"
	OutcomeCanceled  = "canceled"
	OutcomeTransport = "transport"
	OutcomeIO        = "io"
	OutcomeDecode    = "decode"
	OutcomeRPC       = "rpc"
	OutcomeOther     = "other"
)

// Outcome classifies err into one of a small, fixed set of labels so that
// metric cardinality stays bounded.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}

	var (
		transportErr *rpc.TransportError
		ioErr        *rpc.IOError
		decodeErr    *rpc.DecodeError
		rpcErr       *rpc.RPCError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	case errors.As(err, &rpcErr):
		return OutcomeRPC
	case errors.As(err, &decodeErr):
		return OutcomeDecode
	case errors.As(err, &ioErr):
		return OutcomeIO
	case errors.As(err, &transportErr):
		return OutcomeTransport
	default:
		return OutcomeOther
	}
}
