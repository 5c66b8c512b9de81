package facade

import "io"

type sliceRequests struct {
	reqs []any
	next int
}

// Requests returns a RequestIterator over reqs.
func Requests(reqs ...any) RequestIterator {
	return &sliceRequests{reqs: reqs}
}

func (s *sliceRequests) Next() (any, error) {
	if s.next >= len(s.reqs) {
		return nil, io.EOF
	}
	req := s.reqs[s.next]
	s.next++
	return req, nil
}

type chanRequests struct {
	ch <-chan any
}

// RequestsFromChannel returns a RequestIterator that yields values received
// from ch until it is closed.
func RequestsFromChannel(ch <-chan any) RequestIterator {
	return &chanRequests{ch: ch}
}

func (c *chanRequests) Next() (any, error) {
	req, ok := <-c.ch
	if !ok {
		return nil, io.EOF
	}
	return req, nil
}
