package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// RestyTransport adapts resty.Client to the Transport interface.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a RestyTransport with the specified timeout.
func NewRestyTransport(timeout time.Duration) *RestyTransport {
	return &RestyTransport{client: newRestyBaseClient(timeout)}
}

// NewRestyTransportFromClient wraps a caller-configured resty.Client.
func NewRestyTransportFromClient(c *resty.Client) *RestyTransport {
	if c == nil {
		c = resty.New()
	}
	return &RestyTransport{client: c}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	c.SetAllowGetMethodPayload(true)
	return c
}

// WithSinks routes resty's own diagnostics through the given log sinks.
func (r *RestyTransport) WithSinks(sinks *Sinks) *RestyTransport {
	r.client.SetLogger(restyLogger{sinks: sinks})
	return r
}

// RoundTrip sends req through resty and reads the whole response body.
func (r *RestyTransport) RoundTrip(ctx context.Context, req *Request) (*TransportResponse, error) {
	rr := r.client.R().SetContext(ctx)
	for _, h := range req.headers.All() {
		rr.SetHeader(h.Name, h.Value)
	}
	if req.body != nil {
		rr.SetBody(req.Body())
	}

	resp, err := rr.Execute(string(req.method), req.url.String())
	if err != nil {
		return nil, err
	}

	body, err := decodeContent(resp.Header(), resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	return &TransportResponse{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header().Clone(),
		Body:       body,
	}, nil
}

// decodeContent inflates deflate-encoded bodies; resty already handles gzip.
func decodeContent(h http.Header, body []byte) ([]byte, error) {
	if len(body) == 0 || !strings.EqualFold(strings.TrimSpace(h.Get("Content-Encoding")), "deflate") {
		return body, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		// some servers send raw DEFLATE without the zlib wrapper
		fr := flate.NewReader(bytes.NewReader(body))
		defer fr.Close()
		return io.ReadAll(fr)
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

type restyLogger struct {
	sinks *Sinks
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.sinks.Logf(LevelError, "resty: "+format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.sinks.Logf(LevelWarn, "resty: "+format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.sinks.Logf(LevelDebug, "resty: "+format, v...)
}
