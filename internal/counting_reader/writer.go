package counting_reader

import (
	"errors"
	"io"
)

var ErrSizeLimitReached = errors.New("size limit reached")

type CountingOpts struct {
	ByteLimit int64 // 0 means unlimited
}

// CountingWriter counts bytes written and refuses writes past ByteLimit.
type CountingWriter struct {
	io.Writer

	opts CountingOpts

	bytesWritten int64
	exceeded     bool
}

func NewCountingWriter(w io.Writer, opts *CountingOpts) *CountingWriter {
	cw := CountingWriter{
		Writer: w,
	}
	if opts != nil {
		cw.opts = *opts
	}
	return &cw
}

func (w *CountingWriter) Write(p []byte) (n int, err error) {
	if w.opts.ByteLimit > 0 && w.bytesWritten+int64(len(p)) > w.opts.ByteLimit {
		w.exceeded = true
		return 0, ErrSizeLimitReached
	}
	n, err = w.Writer.Write(p)
	w.bytesWritten += int64(n)
	return n, err
}

func (w *CountingWriter) Count() int64 {
	return w.bytesWritten
}

// Exceeded reports whether a write was refused for crossing ByteLimit.
func (w *CountingWriter) Exceeded() bool {
	return w.exceeded
}
