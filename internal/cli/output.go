package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samvad-hq/samvad-httpkit/internal/app"
	"github.com/samvad-hq/samvad-httpkit/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpkit/pkg/numfmt"
)

// hexPreviewBytes caps how much of an uninterpreted body is dumped.
const hexPreviewBytes = 256

var (
	offsetStyle = numfmt.Hex.PadTo(8)
	byteStyle   = numfmt.Hex.PadTo(2)
)

// rawJSON keeps a command-line JSON document as-is when re-encoded.
type rawJSON string

func (r rawJSON) MarshalJSON() ([]byte, error) {
	if !json.Valid([]byte(r)) {
		return nil, fmt.Errorf("invalid JSON body")
	}
	return []byte(r), nil
}

func printResult(w io.Writer, res app.Result, withBody bool) {
	code := ""
	if res.StatusCode != 0 {
		code = httpclient.StatusCode(res.StatusCode).String()
	}
	fmt.Fprintf(w, "%-10s %-9s %s %s\n", res.Name, res.Status, res.ExchangeID, code)
	if res.Err != nil {
		fmt.Fprintf(w, "  error: %v\n", res.Err)
	}
	if !withBody {
		return
	}
	switch v := res.Value.(type) {
	case httpclient.JSONValue:
		output, _ := json.MarshalIndent(v.Value, "", "  ")
		fmt.Fprintln(w, string(output))
	case httpclient.HTMLPage:
		fmt.Fprintf(w, "title: %s\ndescription: %s\nimage: %s\n", v.Title, v.Description, v.ImageURL)
	case string:
		fmt.Fprintln(w, v)
	default:
		if len(res.Raw) > 0 {
			fmt.Fprintf(w, "<%d bytes>\n", len(res.Raw))
			hexDump(w, res.Raw[:min(len(res.Raw), hexPreviewBytes)])
		}
	}
}

// hexDump writes data as rows of 16 bytes prefixed with their offset.
func hexDump(w io.Writer, data []byte) {
	for off := 0; off < len(data); off += 16 {
		fmt.Fprint(w, numfmt.Format(offsetStyle, off), " ")
		for _, b := range data[off:min(off+16, len(data))] {
			fmt.Fprint(w, " ", numfmt.Format(byteStyle, b))
		}
		fmt.Fprintln(w)
	}
}
