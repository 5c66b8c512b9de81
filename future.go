package facade

import (
	"time"

	"github.com/avos-io/facade/face"
)

// future adapts a face.Future. Errors are translated when they are observed,
// never when the future is wrapped.
type future struct {
	f face.Future
}

var _ Future = (*future)(nil)

func newFuture(f face.Future) *future {
	return &future{f: f}
}

func (fut *future) Cancel() bool {
	return fut.f.Cancel()
}

func (fut *future) Cancelled() bool {
	return fut.f.Cancelled()
}

func (fut *future) Running() bool {
	return fut.f.Running()
}

func (fut *future) Done() bool {
	return fut.f.Done()
}

func (fut *future) Result(timeout time.Duration) (any, error) {
	resp, err := fut.f.Result(timeout)
	if err != nil {
		return nil, translateError(err)
	}
	return resp, nil
}

func (fut *future) Exception(timeout time.Duration) (error, error) {
	callErr, err := fut.f.Exception(timeout)
	if err != nil {
		return nil, translateError(err)
	}
	return translateError(callErr), nil
}

func (fut *future) Traceback(timeout time.Duration) (string, error) {
	tb, err := fut.f.Traceback(timeout)
	if err != nil {
		return "", translateError(err)
	}
	return tb, nil
}

func (fut *future) AddDoneCallback(fn func(Future)) {
	fut.f.AddDoneCallback(func(face.Future) {
		fn(fut)
	})
}
