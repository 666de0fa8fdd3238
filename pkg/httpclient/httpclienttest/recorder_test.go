package httpclienttest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
)

func TestRecordThenReplay(t *testing.T) {
	fixture := filepath.Join(t.TempDir(), "fixture.json")
	c := httpclient.New(httpclient.Config{AutoValidate: true})

	req, err := c.NewRequest(httpclient.MethodGet, "https://api.example.com/items", nil, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}

	recorder := NewRecorder(fixture, NewStub(200, "application/json", []byte(`{"n":1}`)))
	if _, err := recorder.RoundTrip(context.Background(), req); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(recorder.Exchanges()) != 1 {
		t.Fatalf("expected one recorded exchange")
	}

	replayer, err := NewReplayer(fixture)
	if err != nil {
		t.Fatalf("NewReplayer: %v", err)
	}
	replayed := httpclient.New(httpclient.Config{AutoValidate: true}, httpclient.WithTransport(replayer))
	resp := httpclient.JSON(context.Background(), replayed.NewExchange(req))
	if resp.Err != nil {
		t.Fatalf("replay: %v", resp.Err)
	}
	if obj, _ := resp.Value.Object(); obj["n"] != float64(1) {
		t.Fatalf("replayed value = %v", obj)
	}

	if _, err := replayer.RoundTrip(context.Background(), req); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestReplayerRejectsMismatch(t *testing.T) {
	fixture := filepath.Join(t.TempDir(), "fixture.json")
	c := httpclient.New(httpclient.Config{})
	recorded, _ := c.NewRequest(httpclient.MethodGet, "https://api.example.com/a", nil, nil)
	other, _ := c.NewRequest(httpclient.MethodGet, "https://api.example.com/b", nil, nil)

	recorder := NewRecorder(fixture, NewStub(200, "text/plain", []byte("a")))
	if _, err := recorder.RoundTrip(context.Background(), recorded); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	replayer, err := NewReplayer(fixture)
	if err != nil {
		t.Fatalf("NewReplayer: %v", err)
	}
	if _, err := replayer.RoundTrip(context.Background(), other); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestStubRecordsRequests(t *testing.T) {
	stub := NewStub(200, "", []byte("x"))
	c := httpclient.New(httpclient.Config{}, httpclient.WithTransport(stub))
	req, _ := c.NewRequest(httpclient.MethodPut, "https://api.example.com", nil, httpclient.RawBody([]byte("payload")))
	httpclient.Raw(context.Background(), c.NewExchange(req))

	if stub.Last() == nil || string(stub.Last().Body()) != "payload" {
		t.Fatalf("stub did not record the request")
	}
}
