package facade

import "github.com/avos-io/facade/face"

// cancellableIterator adapts a face.Cursor. End-of-sequence (io.EOF) is
// passed through untouched since it is not an RpcError.
type cancellableIterator struct {
	c face.Cursor
}

var _ CancellableIterator = (*cancellableIterator)(nil)

func newCancellableIterator(c face.Cursor) *cancellableIterator {
	return &cancellableIterator{c: c}
}

func (it *cancellableIterator) Next() (any, error) {
	resp, err := it.c.Next()
	if err != nil {
		return nil, translateError(err)
	}
	return resp, nil
}

func (it *cancellableIterator) Cancel() {
	it.c.Cancel()
}
