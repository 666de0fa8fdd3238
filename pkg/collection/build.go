package collection

import (
	"fmt"
	"net/url"

	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
)

// Request builds the httpclient request for e using c's header policy.
func (e Entry) Request(c *httpclient.Client) (*httpclient.Request, error) {
	u, err := url.Parse(e.URL)
	if err != nil {
		return nil, &httpclient.Error{Code: httpclient.CodeInvalidURL, Err: err}
	}
	if len(e.Query) > 0 {
		q := u.Query()
		for k, v := range e.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	headers := httpclient.NewHeaders()
	for k, v := range e.Headers {
		headers.Set(k, v)
	}
	if e.Bearer != "" {
		headers.Add(httpclient.BearerToken(e.Bearer))
	}

	body, err := e.body()
	if err != nil {
		return nil, err
	}
	return c.NewRequestURL(httpclient.ParseMethod(e.Method), u, headers, body)
}

func (e Entry) body() (httpclient.Body, error) {
	if e.Body == nil {
		return nil, nil
	}
	switch e.Body.Kind {
	case BodyRaw:
		return httpclient.RawBody([]byte(e.Body.Raw)), nil
	case BodyForm:
		values := url.Values{}
		for k, v := range e.Body.Form {
			values.Set(k, v)
		}
		return httpclient.FormBody(values), nil
	case BodyJSON:
		return httpclient.JSONBody(e.Body.JSON), nil
	default:
		return nil, fmt.Errorf("unsupported body kind %q", e.Body.Kind)
	}
}

// Exchange builds the request and applies the entry's validation policy.
func (e Entry) Exchange(c *httpclient.Client) (*httpclient.Exchange, error) {
	req, err := e.Request(c)
	if err != nil {
		return nil, err
	}
	ex := c.NewExchange(req)
	switch {
	case e.Expect == nil:
	case e.Expect.Disabled:
		ex.WithoutValidation()
	default:
		var rng *httpclient.StatusRange
		if e.Expect.Status != "" {
			r, err := httpclient.ParseStatusRange(e.Expect.Status)
			if err != nil {
				return nil, fmt.Errorf("expect.status: %w", err)
			}
			rng = &r
		}
		ex.Validate(rng, e.Expect.MimeType)
	}
	return ex, nil
}
