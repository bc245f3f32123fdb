package httpclient

// Accumulator collects a response body incrementally as the transport
// delivers it. A fresh accumulator holds an empty, non-nil buffer; length
// only grows across appends within one request.
type Accumulator struct {
	buf []byte
}

// NewAccumulator returns an empty accumulator ready to receive chunks.
func NewAccumulator() *Accumulator {
	return &Accumulator{buf: []byte{}}
}

// Append copies chunk onto the end of the buffer and reports the number of
// bytes consumed. The buffer is resized to exactly the new length on every
// call; responses arrive in few chunks, so amortized growth is not worth it.
func (a *Accumulator) Append(chunk []byte) int {
	if len(chunk) == 0 {
		return 0
	}
	next := make([]byte, len(a.buf)+len(chunk))
	copy(next, a.buf)
	copy(next[len(a.buf):], chunk)
	a.buf = next
	return len(chunk)
}

// Write implements io.Writer so a transport can stream directly into the
// accumulator.
func (a *Accumulator) Write(p []byte) (int, error) {
	a.Append(p)
	return len(p), nil
}

// Len reports the number of accumulated bytes.
func (a *Accumulator) Len() int {
	if a == nil {
		return 0
	}
	return len(a.buf)
}

// Bytes returns the accumulated body. The slice is never nil.
func (a *Accumulator) Bytes() []byte {
	if a == nil || a.buf == nil {
		return []byte{}
	}
	return a.buf
}

// String returns the accumulated body as a string.
func (a *Accumulator) String() string {
	if a == nil {
		return ""
	}
	return string(a.buf)
}
