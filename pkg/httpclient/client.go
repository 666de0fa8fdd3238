package httpclient

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-httpkit/pkg/checksum"
)

// Config holds the client-wide settings. It is read once by New; nothing in
// the exchange path consults process-wide state.
type Config struct {
	// DefaultHeaders injects Accept-Encoding, Accept-Language and User-Agent.
	DefaultHeaders bool
	// AutoValidate installs the [200, 300) policy on new exchanges.
	AutoValidate bool
	// Timeout bounds a whole exchange; zero means no limit beyond ctx.
	Timeout time.Duration
	// LogLevel is the minimum level forwarded to sinks.
	LogLevel        Level
	App             AppInfo
	AcceptLanguages []string
}

// DefaultConfig returns the settings used by Default.
func DefaultConfig() Config {
	return Config{
		DefaultHeaders: true,
		AutoValidate:   true,
		LogLevel:       LevelWarn,
		App:            DefaultAppInfo(),
	}
}

// Client builds requests and dispatches exchanges through a Transport.
type Client struct {
	cfg       Config
	transport Transport
	log       *Sinks
	hooks     []Hook
	defaults  *Headers
}

// Option customises a Client.
type Option func(*Client)

// WithTransport replaces the default resty transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithSinks sets the log sinks receiving request/response lines.
func WithSinks(sinks ...Sink) Option {
	return func(c *Client) { c.log = NewSinks(c.cfg.LogLevel, sinks...) }
}

// WithHooks registers exchange observers.
func WithHooks(hooks ...Hook) Option {
	return func(c *Client) {
		for _, h := range hooks {
			if h != nil {
				c.hooks = append(c.hooks, h)
			}
		}
	}
}

// New builds a client. Without WithSinks nothing is logged.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = NewSinks(cfg.LogLevel)
	}
	if c.transport == nil {
		c.transport = NewRestyTransport(0).WithSinks(c.log)
	}
	c.defaults = DefaultHeaders(cfg)
	return c
}

var defaultClient = sync.OnceValue(func() *Client { return New(DefaultConfig()) })

// Default returns a lazily built client using DefaultConfig. It is meant for
// the outermost call site only.
func Default() *Client { return defaultClient() }

// Config returns the client settings.
func (c *Client) Config() Config { return c.cfg }

// Summary describes a finished exchange for hooks.
type Summary struct {
	ExchangeID   string
	Method       Method
	URL          string
	Status       ExchangeStatus
	StatusCode   int
	Err          error
	BodySize     int
	BodyChecksum checksum.Checksum
	StartedAt    time.Time
	Duration     time.Duration
}

// Send dispatches ex and exposes the raw bytes.
func Send(ctx context.Context, ex *Exchange) *Response[[]byte] { return Do(ctx, ex, RawDecoder()) }

// Raw dispatches ex and exposes the raw bytes.
func Raw(ctx context.Context, ex *Exchange) *Response[[]byte] { return Do(ctx, ex, RawDecoder()) }

// Text dispatches ex and decodes the body as UTF-8 text.
func Text(ctx context.Context, ex *Exchange) *Response[string] { return Do(ctx, ex, TextDecoder()) }

// JSON dispatches ex and parses a generic JSON value.
func JSON(ctx context.Context, ex *Exchange) *Response[JSONValue] { return Do(ctx, ex, JSONDecoder()) }

// Object dispatches ex and decodes the JSON body into T.
func Object[T any](ctx context.Context, ex *Exchange) *Response[T] {
	return Do(ctx, ex, ObjectDecoder[T]())
}

// HTML dispatches ex and parses an HTML page.
func HTML(ctx context.Context, ex *Exchange) *Response[HTMLPage] {
	var dec Decoder[HTMLPage]
	if ex != nil && ex.req != nil {
		dec = HTMLDecoder(ex.req.url)
	} else {
		dec = HTMLDecoder(nil)
	}
	return Do(ctx, ex, dec)
}

// Fetch builds a request and dispatches it in one call. A construction
// failure is reported as ErrInvalidRequestState wrapping the cause.
func Fetch[T any](ctx context.Context, c *Client, method Method, rawURL string, headers *Headers, body Body, dec Decoder[T]) *Response[T] {
	req, err := c.NewRequest(method, rawURL, headers, body)
	if err != nil {
		c.log.Logf(LevelError, "%s %s: %v", ParseMethod(string(method)), rawURL, err)
		return &Response[T]{Err: &Error{Code: CodeInvalidRequestState, Method: ParseMethod(string(method)), URL: rawURL, Err: err}}
	}
	return Do(ctx, c.NewExchange(req), dec)
}

// DoAsync dispatches ex on its own goroutine and delivers the response to fn
// through q, so callbacks sharing a queue never run concurrently. With a nil
// queue fn runs on the dispatch goroutine.
func DoAsync[T any](ctx context.Context, ex *Exchange, dec Decoder[T], q *CallbackQueue, fn func(*Response[T])) {
	go func() {
		resp := Do(ctx, ex, dec)
		if fn == nil {
			return
		}
		if q == nil {
			fn(resp)
			return
		}
		if !q.Post(func() { fn(resp) }) && ex != nil {
			ex.client.log.Logf(LevelWarn, "<%s> callback queue closed, dropping response", ex.id)
		}
	}()
}

// Do runs the exchange and interprets the body with dec. Failures are never
// returned separately: they are captured in Response.Err.
func Do[T any](ctx context.Context, ex *Exchange, dec Decoder[T]) *Response[T] {
	resp := &Response[T]{}
	if ex == nil {
		resp.Err = newError(CodeInvalidRequestState, nil, errors.New("nil exchange"))
		return resp
	}
	if ctx == nil {
		ctx = context.Background()
	}
	resp.ExchangeID = ex.id
	c := ex.client

	runCtx, err := ex.begin(ctx)
	if err != nil {
		resp.Err = err
		c.log.Logf(LevelError, "<%s> %v", ex.id, err)
		return resp
	}

	start := time.Now()
	req := ex.req
	c.logRequest(ex.id, req)

	tr, err := c.transport.RoundTrip(runCtx, req)
	resp.Duration = time.Since(start)
	if ex.cancelled() {
		resp.Err = newError(CodeTransport, req, ErrCancelled)
		c.log.Logf(LevelInfo, "<%s> discarding result of cancelled request", ex.id)
		c.observe(ctx, ex, resp.StatusCode, nil, resp.Err, start, resp.Duration)
		return resp
	}
	if err != nil {
		resp.Err = newError(CodeTransport, req, err)
		c.complete(ctx, ex, resp.Err, 0, nil, start, resp.Duration)
		return resp
	}
	if tr == nil {
		resp.Err = newError(CodeInvalidResponse, req, errors.New("transport returned no response"))
		c.complete(ctx, ex, resp.Err, 0, nil, start, resp.Duration)
		return resp
	}

	resp.StatusCode = tr.StatusCode
	resp.Header = HeadersFromHTTP(tr.Header)
	c.logResponse(ex.id, req, resp.StatusCode, resp.Header, tr.Body)

	var captured error
	if v := ex.policy(); v.Enabled() {
		if verr := v.Validate(tr.StatusCode, resp.Header.Get("Content-Type")); verr != nil {
			captured = withRequest(verr, req)
		}
	}

	if len(tr.Body) == 0 {
		if captured == nil && !emptyBodyAllowed(req.method, tr.StatusCode) {
			captured = newError(CodeInvalidData, req, nil)
		}
	} else {
		resp.Raw = tr.Body
		c.log.Logf(LevelDebug, "<%s> parsing data", ex.id)
		value, ok, derr := dec(tr.Body)
		resp.Value, resp.HasValue = value, ok
		if derr != nil && captured == nil {
			captured = withRequest(derr, req)
		}
	}

	resp.Err = captured
	c.complete(ctx, ex, captured, resp.StatusCode, resp.Raw, start, resp.Duration)
	if ex.cancelled() && resp.Err == nil {
		resp.Err = newError(CodeTransport, req, ErrCancelled)
	}
	return resp
}

// emptyBodyAllowed reports exchanges where an empty body is the expected outcome.
func emptyBodyAllowed(m Method, status int) bool {
	return m == MethodHead || status == http.StatusNoContent || status == http.StatusNotModified
}

func (c *Client) complete(ctx context.Context, ex *Exchange, err error, status int, body []byte, start time.Time, d time.Duration) {
	if !ex.finish(err) {
		c.log.Logf(LevelInfo, "<%s> exchange already %s, result ignored", ex.id, ex.Status())
	} else if err != nil {
		c.log.Logf(LevelInfo, "<%s> completed request with error", ex.id)
		c.log.Logf(LevelError, "<%s> %v", ex.id, err)
	} else {
		c.log.Logf(LevelInfo, "<%s> completed request", ex.id)
	}
	c.observe(ctx, ex, status, body, err, start, d)
}

func (c *Client) observe(ctx context.Context, ex *Exchange, status int, body []byte, err error, start time.Time, d time.Duration) {
	if len(c.hooks) == 0 {
		return
	}
	s := Summary{
		ExchangeID: ex.id,
		Method:     ex.req.method,
		URL:        ex.req.url.String(),
		Status:     ex.Status(),
		StatusCode: status,
		Err:        err,
		BodySize:   len(body),
		StartedAt:  start,
		Duration:   d,
	}
	if len(body) > 0 {
		s.BodyChecksum = checksum.Of(body)
	}
	for _, h := range c.hooks {
		h.ExchangeDone(ctx, s)
	}
}

func (c *Client) logRequest(id string, req *Request) {
	c.log.Logf(LevelInfo, "<%s> %s", id, req)
	if !c.log.Enabled(LevelDebug) {
		return
	}
	for _, h := range req.headers.All() {
		c.log.Logf(LevelDebug, "<%s> %s", id, h)
	}
	if req.body != nil {
		c.log.Logf(LevelDebug, "<%s>\n%s", id, previewBody(req.ContentType(), req.body))
	}
}

func (c *Client) logResponse(id string, req *Request, status int, headers *Headers, body []byte) {
	c.log.Logf(LevelInfo, "<%s> %s %s", id, StatusCode(status), req.url)
	if !c.log.Enabled(LevelDebug) {
		return
	}
	for _, h := range headers.All() {
		c.log.Logf(LevelDebug, "<%s> %s", id, h)
	}
	if len(body) > 0 {
		c.log.Logf(LevelDebug, "<%s>\n%s", id, previewBody(MediaType(headers.Get("Content-Type")), body))
	}
}
