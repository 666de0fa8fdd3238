package httpclient

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Exchange is the lifecycle of one request dispatched to completion, failure
// or cancellation. Transitions are monotone:
// pending -> running -> {completed, errored, cancelled}.
// An Exchange is dispatched at most once.
type Exchange struct {
	id     string
	req    *Request
	client *Client

	mu         sync.Mutex
	status     ExchangeStatus
	err        error
	validation Validation
	cancel     context.CancelFunc
}

// NewExchange prepares an exchange on the default client.
func NewExchange(req *Request) *Exchange { return Default().NewExchange(req) }

// NewExchange prepares an exchange for req. A nil request yields an exchange
// that fails with ErrInvalidRequestState when dispatched.
func (c *Client) NewExchange(req *Request) *Exchange {
	ex := &Exchange{
		id:     uuid.NewString(),
		req:    req,
		client: c,
		status: StatusPending,
	}
	if c.cfg.AutoValidate {
		ex.validation = DefaultValidation()
	}
	return ex
}

// ID returns the unique exchange token.
func (e *Exchange) ID() string { return e.id }

// Request returns the descriptor being exchanged.
func (e *Exchange) Request() *Request { return e.req }

// Status returns the current lifecycle state.
func (e *Exchange) Status() ExchangeStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Err returns the captured failure, if any.
func (e *Exchange) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Validate configures the response validation policy. With neither argument
// set the default [200, 300) range applies. It only takes effect while the
// exchange is pending.
func (e *Exchange) Validate(rng *StatusRange, mimeType string) *Exchange {
	v := NewValidation(rng, mimeType)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusPending {
		return e
	}
	e.validation = v
	e.client.log.Logf(LevelInfo, "<%s> %s", e.id, v)
	return e
}

// WithoutValidation disables response validation while the exchange is pending.
func (e *Exchange) WithoutValidation() *Exchange {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusPending {
		e.validation = Validation{}
	}
	return e
}

func (e *Exchange) policy() Validation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validation
}

// Cancel aborts a pending or running exchange. It is a no-op once the
// exchange is terminal.
func (e *Exchange) Cancel() {
	e.mu.Lock()
	if e.status.Terminal() {
		e.mu.Unlock()
		return
	}
	e.status = StatusCancelled
	cancel := e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.client.log.Logf(LevelInfo, "<%s> cancelled request", e.id)
}

// begin moves a pending exchange to running and derives the dispatch context.
func (e *Exchange) begin(ctx context.Context) (context.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusPending {
		e.client.log.Logf(LevelWarn, "<%s> not running request, status was: %s", e.id, e.status)
		return nil, newError(CodeInvalidRequestState, e.req, errors.New("exchange is "+e.status.String()))
	}
	if !e.req.valid() {
		err := newError(CodeInvalidRequestState, e.req, errors.New("request descriptor is missing or has no url"))
		e.status = StatusErrored
		e.err = err
		return nil, err
	}

	var runCtx context.Context
	if t := e.client.cfg.Timeout; t > 0 {
		runCtx, e.cancel = context.WithTimeout(ctx, t)
	} else {
		runCtx, e.cancel = context.WithCancel(ctx)
	}
	e.status = StatusRunning
	return runCtx, nil
}

// finish records the terminal state. It returns false when the exchange was
// cancelled meanwhile; the cancelled state is kept.
func (e *Exchange) finish(err error) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
	if e.status != StatusRunning {
		return false
	}
	if err != nil {
		e.status = StatusErrored
		e.err = err
	} else {
		e.status = StatusCompleted
	}
	return true
}

func (e *Exchange) cancelled() bool {
	return e.Status() == StatusCancelled
}
