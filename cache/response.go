package cache

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Response is a complete, buffered HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Clone returns a deep copy of r.
func (r *Response) Clone() *Response {
	return &Response{
		StatusCode: r.StatusCode,
		Header:     r.Header.Clone(),
		Body:       bytes.Clone(r.Body),
	}
}

// MarshalBinary encodes r in the HTTP/1.1 wire format.
func (r *Response) MarshalBinary() ([]byte, error) {
	wire := &http.Response{
		StatusCode:    r.StatusCode,
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        r.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
	}
	if wire.Header == nil {
		wire.Header = http.Header{}
	}
	var buf bytes.Buffer
	if err := wire.Write(&buf); err != nil {
		return nil, fmt.Errorf("cache: encode response: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a response written by MarshalBinary.
func (r *Response) UnmarshalBinary(data []byte) error {
	wire, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadEntry, err)
	}
	defer wire.Body.Close()
	body, err := io.ReadAll(wire.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadEntry, err)
	}
	wire.Header.Del("Content-Length")
	r.StatusCode = wire.StatusCode
	r.Header = wire.Header
	r.Body = body
	return nil
}

// Write sends r to w.
func (r *Response) Write(w http.ResponseWriter) error {
	h := w.Header()
	for k, vs := range r.Header {
		h[k] = append([]string(nil), vs...)
	}
	w.WriteHeader(r.StatusCode)
	_, err := w.Write(r.Body)
	return err
}
