package domain

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-httpkit/pkg/checksum"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
)

func TestNewExchangeRecord(t *testing.T) {
	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := WithRequestName(context.Background(), "list-items")
	rec := NewExchangeRecord(ctx, httpclient.Summary{
		ExchangeID:   "ex-1",
		Method:       httpclient.MethodGet,
		URL:          "https://api.example.com/items",
		Status:       httpclient.StatusErrored,
		StatusCode:   404,
		Err:          &httpclient.Error{Code: 404},
		BodySize:     3,
		BodyChecksum: checksum.OfString("abc"),
		StartedAt:    started,
		Duration:     1500 * time.Millisecond,
	})

	if rec.Name != "list-items" || rec.Status != "errored" || rec.ErrorCode != 404 || rec.DurationMS != 1500 {
		t.Fatalf("unexpected record %+v", rec)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"body_sha256":"`+checksum.OfString("abc").String()+`"`) {
		t.Fatalf("checksum missing from %s", data)
	}
}

func TestRecordOmitsEmptyChecksum(t *testing.T) {
	rec := NewExchangeRecord(context.Background(), httpclient.Summary{ExchangeID: "ex-2", Status: httpclient.StatusCompleted})
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "body_sha256") || strings.Contains(string(data), `"name"`) {
		t.Fatalf("expected empty fields to be omitted: %s", data)
	}
}
