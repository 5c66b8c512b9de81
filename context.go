package facade

import (
	"time"

	"github.com/avos-io/facade/face"
)

// rpcContext adapts a face.RpcContext.
type rpcContext struct {
	x face.RpcContext
}

var _ RpcContext = (*rpcContext)(nil)

// NewRpcContext returns the public view of an implementation-facing per-call
// context.
func NewRpcContext(x face.RpcContext) RpcContext {
	return &rpcContext{x: x}
}

func (c *rpcContext) IsActive() bool {
	return c.x.IsActive()
}

func (c *rpcContext) TimeRemaining() time.Duration {
	return c.x.TimeRemaining()
}

func (c *rpcContext) AddAbortionCallback(cb func(Abortion)) {
	c.x.AddAbortionCallback(func(a face.Abortion) {
		cb(abortionFromFace(a))
	})
}
