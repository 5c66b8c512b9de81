package face

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrTimeout is returned when a blocking observation times out before the
// call completes. It is not an RpcError.
var ErrTimeout = errors.New("timed out waiting for rpc")

// RpcError is implemented by every error a face implementation reports for
// RPC activity. The set of implementations is open.
type RpcError interface {
	error
	RpcError()
}

// CancellationError reports an RPC cancelled by either side.
type CancellationError struct {
	Message string
}

func (e *CancellationError) Error() string {
	return describe("rpc cancelled", e.Message)
}

func (*CancellationError) RpcError() {}

// ExpirationError reports an RPC whose deadline passed.
type ExpirationError struct {
	Message string
}

func (e *ExpirationError) Error() string {
	return describe("rpc expired", e.Message)
}

func (*ExpirationError) RpcError() {}

// NetworkError reports an RPC that failed in transit.
type NetworkError struct {
	Code    int
	Message string
}

func (e *NetworkError) Error() string {
	return describe(fmt.Sprintf("network failure (code %d)", e.Code), e.Message)
}

func (*NetworkError) RpcError() {}

// ServicedError reports an RPC rejected because of the request itself.
type ServicedError struct {
	Code    int
	Message string
}

func (e *ServicedError) Error() string {
	return describe(fmt.Sprintf("serviced failure (code %d)", e.Code), e.Message)
}

func (*ServicedError) RpcError() {}

// ServicerError reports an RPC that failed inside the remote servicer.
type ServicerError struct {
	Code    int
	Message string
}

func (e *ServicerError) Error() string {
	return describe(fmt.Sprintf("servicer failure (code %d)", e.Code), e.Message)
}

func (*ServicerError) RpcError() {}

// AbortionOf reports the Abortion an RpcError corresponds to, if any.
func AbortionOf(err RpcError) (Abortion, bool) {
	switch err.(type) {
	case *CancellationError:
		return AbortionCancelled, true
	case *ExpirationError:
		return AbortionExpired, true
	case *NetworkError:
		return AbortionNetworkFailure, true
	case *ServicedError:
		return AbortionServicedFailure, true
	case *ServicerError:
		return AbortionServicerFailure, true
	}
	return 0, false
}

func describe(what, msg string) string {
	if msg == "" {
		return what
	}
	return what + ": " + msg
}
