package facade

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/avos-io/facade/face"
	"github.com/avos-io/facade/internal/metrics"
)

// Stub is the caller's handle on a remote service. Each method of the
// cardinality table is resolved to its call shape once, when the stub is
// built.
type Stub struct {
	stub face.DynamicStub

	methods map[string]Method

	// bare method name -> qualified name, for callers omitting the service
	suffixes map[string]string

	suffixFallback bool
}

// NewStub builds a Stub over stub for the methods in table.
func NewStub(stub face.DynamicStub, table CardinalityTable, opts ...StubOption) *Stub {
	s := &Stub{
		stub:           stub,
		methods:        make(map[string]Method, len(table)),
		suffixes:       make(map[string]string, len(table)),
		suffixFallback: true,
	}

	for _, opt := range opts {
		opt.apply(s)
	}

	for _, name := range sortedNames(table) {
		c := table[name]
		s.methods[name] = newMethod(stub, name, c)

		bare, ok := bareName(name)
		if !ok {
			continue
		}
		if prev, ok := s.suffixes[bare]; ok {
			// Names are visited in sorted order, so the smallest qualified name
			// keeps the bare name.
			log.Warn().
				Str("method", bare).
				Str("kept", prev).
				Str("shadowed", name).
				Msg("NewStub: ambiguous bare method name")
			continue
		}
		s.suffixes[bare] = name
	}

	return s
}

func newMethod(stub face.DynamicStub, name string, c Cardinality) Method {
	switch c {
	case UnaryUnary:
		return &UnaryUnaryMethod{name: name, mc: stub.UnaryUnary(name)}
	case UnaryStream:
		return &UnaryStreamMethod{name: name, mc: stub.UnaryStream(name)}
	case StreamUnary:
		return &StreamUnaryMethod{name: name, mc: stub.StreamUnary(name)}
	case StreamStream:
		return &StreamStreamMethod{name: name, mc: stub.StreamStream(name)}
	}
	log.Panic().Str("method", name).Stringer("cardinality", c).Msg("NewStub: invalid cardinality")
	return nil
}

// Method resolves name to its call shape. An exact match on the qualified
// name wins; otherwise, unless disabled with WithoutSuffixFallback, a name
// without a service prefix matches the qualified name whose last path
// segment equals it. When several qualified names share a last segment the
// lexicographically smallest one is used.
func (s *Stub) Method(name string) (Method, error) {
	if m, ok := s.methods[name]; ok {
		metrics.MethodResolutions.WithLabelValues("exact").Inc()
		return m, nil
	}
	if s.suffixFallback {
		if qualified, ok := s.suffixes[name]; ok {
			metrics.MethodResolutions.WithLabelValues("suffix").Inc()
			log.Debug().Str("method", name).Str("resolved", qualified).Msg("Method: suffix match")
			return s.methods[qualified], nil
		}
	}
	metrics.MethodResolutions.WithLabelValues("unknown").Inc()
	return nil, &UnknownMethodError{Method: name}
}

func (s *Stub) UnaryUnary(name string) (UnaryUnaryMultiCallable, error) {
	m, err := s.resolve(name, UnaryUnary)
	if err != nil {
		return nil, err
	}
	return m.(*UnaryUnaryMethod), nil
}

func (s *Stub) UnaryStream(name string) (UnaryStreamMultiCallable, error) {
	m, err := s.resolve(name, UnaryStream)
	if err != nil {
		return nil, err
	}
	return m.(*UnaryStreamMethod), nil
}

func (s *Stub) StreamUnary(name string) (StreamUnaryMultiCallable, error) {
	m, err := s.resolve(name, StreamUnary)
	if err != nil {
		return nil, err
	}
	return m.(*StreamUnaryMethod), nil
}

func (s *Stub) StreamStream(name string) (StreamStreamMultiCallable, error) {
	m, err := s.resolve(name, StreamStream)
	if err != nil {
		return nil, err
	}
	return m.(*StreamStreamMethod), nil
}

func (s *Stub) resolve(name string, want Cardinality) (Method, error) {
	m, err := s.Method(name)
	if err != nil {
		return nil, err
	}
	if got := m.Cardinality(); got != want {
		return nil, &CardinalityMismatchError{Method: m.Name(), Want: want, Got: got}
	}
	return m, nil
}

// Methods returns the qualified names of all methods, sorted.
func (s *Stub) Methods() []string {
	names := make([]string, 0, len(s.methods))
	for name := range s.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open acquires the underlying connection.
func (s *Stub) Open(ctx context.Context) error {
	if err := s.stub.Open(ctx); err != nil {
		return errors.Wrap(err, "stub open")
	}
	return nil
}

// Close releases the underlying connection.
func (s *Stub) Close() error {
	if err := s.stub.Close(); err != nil {
		return errors.Wrap(err, "stub close")
	}
	return nil
}

// Do opens the stub, runs fn and closes the stub again, on every path out of
// fn including a panic. The error of fn is returned as is; a close error is
// returned only if fn succeeded.
func (s *Stub) Do(ctx context.Context, fn func(*Stub) error) (err error) {
	if err := s.Open(ctx); err != nil {
		return err
	}
	defer func() {
		closeErr := s.Close()
		if closeErr == nil {
			return
		}
		if err == nil {
			err = closeErr
			return
		}
		log.Error().Err(closeErr).AnErr("cause", err).Msg("Do: close after failure")
	}()

	return fn(s)
}

func sortedNames(table CardinalityTable) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// bareName returns the last segment of a qualified "service/method" name.
func bareName(name string) (string, bool) {
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return "", false
	}
	return name[i+1:], true
}
