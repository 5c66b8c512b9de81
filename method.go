package facade

import (
	"time"

	"github.com/avos-io/facade/face"
)

type UnaryUnaryMultiCallable interface {
	Call(req any, timeout time.Duration) (any, error)
	Future(req any, timeout time.Duration) Future
}

type UnaryStreamMultiCallable interface {
	Call(req any, timeout time.Duration) CancellableIterator
}

type StreamUnaryMultiCallable interface {
	Call(reqs RequestIterator, timeout time.Duration) (any, error)
	Future(reqs RequestIterator, timeout time.Duration) Future
}

type StreamStreamMultiCallable interface {
	Call(reqs RequestIterator, timeout time.Duration) CancellableIterator
}

// Method is a resolved stub method. It is exactly one of *UnaryUnaryMethod,
// *UnaryStreamMethod, *StreamUnaryMethod or *StreamStreamMethod, chosen by
// the method's cardinality when the stub is built.
type Method interface {
	// Name is the fully qualified method name.
	Name() string
	Cardinality() Cardinality

	isMethod()
}

type UnaryUnaryMethod struct {
	name string
	mc   face.UnaryUnaryMultiCallable
}

var (
	_ Method                  = (*UnaryUnaryMethod)(nil)
	_ UnaryUnaryMultiCallable = (*UnaryUnaryMethod)(nil)
)

func (m *UnaryUnaryMethod) Name() string             { return m.name }
func (m *UnaryUnaryMethod) Cardinality() Cardinality { return UnaryUnary }
func (*UnaryUnaryMethod) isMethod()                  {}

// Call blocks until the response arrives.
func (m *UnaryUnaryMethod) Call(req any, timeout time.Duration) (any, error) {
	resp, err := m.mc.Call(req, timeout)
	if err != nil {
		return nil, translateError(err)
	}
	return resp, nil
}

// Future starts the call and returns immediately.
func (m *UnaryUnaryMethod) Future(req any, timeout time.Duration) Future {
	return newFuture(m.mc.Future(req, timeout))
}

type UnaryStreamMethod struct {
	name string
	mc   face.UnaryStreamMultiCallable
}

var (
	_ Method                   = (*UnaryStreamMethod)(nil)
	_ UnaryStreamMultiCallable = (*UnaryStreamMethod)(nil)
)

func (m *UnaryStreamMethod) Name() string             { return m.name }
func (m *UnaryStreamMethod) Cardinality() Cardinality { return UnaryStream }
func (*UnaryStreamMethod) isMethod()                  {}

func (m *UnaryStreamMethod) Call(req any, timeout time.Duration) CancellableIterator {
	return newCancellableIterator(m.mc.Call(req, timeout))
}

type StreamUnaryMethod struct {
	name string
	mc   face.StreamUnaryMultiCallable
}

var (
	_ Method                   = (*StreamUnaryMethod)(nil)
	_ StreamUnaryMultiCallable = (*StreamUnaryMethod)(nil)
)

func (m *StreamUnaryMethod) Name() string             { return m.name }
func (m *StreamUnaryMethod) Cardinality() Cardinality { return StreamUnary }
func (*StreamUnaryMethod) isMethod()                  {}

// Call sends every request from reqs and blocks until the response arrives.
func (m *StreamUnaryMethod) Call(reqs RequestIterator, timeout time.Duration) (any, error) {
	resp, err := m.mc.Call(reqs, timeout)
	if err != nil {
		return nil, translateError(err)
	}
	return resp, nil
}

func (m *StreamUnaryMethod) Future(reqs RequestIterator, timeout time.Duration) Future {
	return newFuture(m.mc.Future(reqs, timeout))
}

type StreamStreamMethod struct {
	name string
	mc   face.StreamStreamMultiCallable
}

var (
	_ Method                    = (*StreamStreamMethod)(nil)
	_ StreamStreamMultiCallable = (*StreamStreamMethod)(nil)
)

func (m *StreamStreamMethod) Name() string             { return m.name }
func (m *StreamStreamMethod) Cardinality() Cardinality { return StreamStream }
func (*StreamStreamMethod) isMethod()                  {}

func (m *StreamStreamMethod) Call(reqs RequestIterator, timeout time.Duration) CancellableIterator {
	return newCancellableIterator(m.mc.Call(reqs, timeout))
}
