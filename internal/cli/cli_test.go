package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient/httpclienttest"
)

func resetFlags() {
	sendMethod, sendHeaders, sendData, sendJSON, sendForm = "GET", nil, "", "", nil
	sendExpect, sendMime, sendNoValidate, sendDecode, sendBearer = "", "", false, "text", ""
	runFile, runOnly, runQuiet = "", nil, false
	historyLimit, historyJSON = 0, false
}

func setupEnv(t *testing.T, tr httpclient.Transport) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("STORAGE_TYPE", "bbolt")
	t.Setenv("BBOLT_PATH", filepath.Join(dir, "exchanges.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("HTTP_LOG_LEVEL", "none")
	t.Setenv("PUBLISHERS_FILE", "")
	t.Setenv("METRICS_ADDR", "")

	transportOverride = tr
	t.Cleanup(func() {
		transportOverride = nil
		resetFlags()
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := ExecuteContext(context.Background())
	return out.String(), err
}

func TestSendPrintsBodyAndJournals(t *testing.T) {
	stub := httpclienttest.NewStub(200, "application/json", []byte(`{"name":"widget"}`))
	setupEnv(t, stub)

	out, err := execute(t, "send", "--decode", "json", "-H", "X-Trace: abc", "https://api.example.com/items/1")
	if err != nil {
		t.Fatalf("send: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"name": "widget"`) || !strings.Contains(out, "completed") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if got := stub.Requests()[0].Headers().Get("X-Trace"); got != "abc" {
		t.Fatalf("X-Trace = %q", got)
	}

	out, err = execute(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "https://api.example.com/items/1") || !strings.Contains(out, "send") {
		t.Fatalf("history missing exchange:\n%s", out)
	}
	if !strings.Contains(out, "1 exchanges, 0 failed (0%)") {
		t.Fatalf("history missing failure rate:\n%s", out)
	}
}

func TestSendReturnsValidationFailure(t *testing.T) {
	setupEnv(t, httpclienttest.NewStub(500, "text/plain", []byte("boom")))

	out, err := execute(t, "send", "https://api.example.com/fail")
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}
	if httpclient.CodeOf(err) != 500 || !strings.Contains(out, "boom") {
		t.Fatalf("err=%v out=%s", err, out)
	}

	out, err = execute(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "1 exchanges, 1 failed (100%)") {
		t.Fatalf("history missing failure rate:\n%s", out)
	}
}

func TestSendRawBodyPrintsHexDump(t *testing.T) {
	body := append([]byte{0x00, 0xff, 'A', 'B'}, bytes.Repeat([]byte{0x10}, 14)...)
	setupEnv(t, httpclienttest.NewStub(200, "application/octet-stream", body))

	out, err := execute(t, "send", "--decode", "raw", "https://api.example.com/blob")
	if err != nil {
		t.Fatalf("send: %v\n%s", err, out)
	}
	for _, want := range []string{
		"<18 bytes>",
		"00000000  00 ff 41 42 10 10 10 10 10 10 10 10 10 10 10 10\n",
		"00000010  10 10\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSendRejectsMalformedHeader(t *testing.T) {
	setupEnv(t, httpclienttest.NewStub(200, "", nil))
	if _, err := execute(t, "send", "-H", "no-colon", "https://example.com"); err == nil {
		t.Fatalf("expected header parse error")
	}
}

func TestRunExecutesCollection(t *testing.T) {
	stub := httpclienttest.NewStub(200, "text/plain", []byte("pong"))
	setupEnv(t, stub)

	coll := `
name: smoke
requests:
  - name: ping
    url: https://api.example.com/ping
    decode: text
  - name: echo
    method: POST
    url: https://api.example.com/echo
    body: {kind: form, form: {q: go}}
`
	if err := os.WriteFile("smoke.yaml", []byte(coll), 0o644); err != nil {
		t.Fatalf("write collection: %v", err)
	}

	out, err := execute(t, "run", "-f", "smoke.yaml", "-q")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2 requests, 0 failed (0%)") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	if n := len(stub.Requests()); n != 2 {
		t.Fatalf("expected 2 requests, got %d", n)
	}

	if _, err := execute(t, "run", "-f", "smoke.yaml", "-o", "missing"); err == nil {
		t.Fatalf("expected error for unknown request name")
	}
}

func TestHistoryUnknownID(t *testing.T) {
	setupEnv(t, httpclienttest.NewStub(200, "", nil))
	if _, err := execute(t, "history", "does-not-exist"); err == nil {
		t.Fatalf("expected not found error")
	}
}
