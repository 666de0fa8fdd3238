package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-httpkit/internal/app"
	"github.com/samvad-hq/samvad-httpkit/pkg/collection"
	"github.com/spf13/cobra"
)

var (
	sendMethod     string
	sendHeaders    []string
	sendData       string
	sendJSON       string
	sendForm       []string
	sendExpect     string
	sendMime       string
	sendNoValidate bool
	sendDecode     string
	sendBearer     string
)

var sendCmd = &cobra.Command{
	Use:   "send URL",
	Short: "Send a single request",
	Long: `Send one request and print the response body.

Examples:
  httpkit send https://api.example.com/status
  httpkit send -X POST --json '{"name":"x"}' https://api.example.com/items
  httpkit send --expect 2xx --mime application/json --decode json URL`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendMethod, "method", "X", "GET", "HTTP method")
	sendCmd.Flags().StringArrayVarP(&sendHeaders, "header", "H", nil, "Header as 'Name: value' (repeatable)")
	sendCmd.Flags().StringVarP(&sendData, "data", "d", "", "Raw request body")
	sendCmd.Flags().StringVar(&sendJSON, "json", "", "JSON request body")
	sendCmd.Flags().StringArrayVarP(&sendForm, "form", "F", nil, "Form field as key=value (repeatable)")
	sendCmd.Flags().StringVar(&sendExpect, "expect", "", "Accepted status range (e.g. 2xx, 200-300, 204)")
	sendCmd.Flags().StringVar(&sendMime, "mime", "", "Required response MIME type")
	sendCmd.Flags().BoolVar(&sendNoValidate, "no-validate", false, "Disable response validation")
	sendCmd.Flags().StringVar(&sendDecode, "decode", collection.DecodeText, "Response interpretation: raw, text, json, html")
	sendCmd.Flags().StringVar(&sendBearer, "bearer", "", "Bearer token")
	sendCmd.MarkFlagsMutuallyExclusive("data", "json", "form")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	entry, err := sendEntry(args[0])
	if err != nil {
		return err
	}
	return withRunner(cmd, func(ctx context.Context, r *app.Runner) error {
		res := r.Send(ctx, entry)
		printResult(cmd.OutOrStdout(), res, true)
		return res.Err
	})
}

func sendEntry(url string) (collection.Entry, error) {
	e := collection.Entry{
		Name:    "send",
		Method:  strings.ToUpper(strings.TrimSpace(sendMethod)),
		URL:     strings.TrimSpace(url),
		Decode:  strings.ToLower(strings.TrimSpace(sendDecode)),
		Bearer:  strings.TrimSpace(sendBearer),
		Headers: map[string]string{},
	}
	for _, h := range sendHeaders {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return collection.Entry{}, fmt.Errorf("invalid header %q (expected 'Name: value')", h)
		}
		e.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	switch {
	case sendData != "":
		e.Body = &collection.BodySpec{Kind: collection.BodyRaw, Raw: sendData}
	case sendJSON != "":
		e.Body = &collection.BodySpec{Kind: collection.BodyJSON, JSON: rawJSON(sendJSON)}
	case len(sendForm) > 0:
		form := make(map[string]string, len(sendForm))
		for _, f := range sendForm {
			k, v, ok := strings.Cut(f, "=")
			if !ok {
				return collection.Entry{}, fmt.Errorf("invalid form field %q (expected key=value)", f)
			}
			form[k] = v
		}
		e.Body = &collection.BodySpec{Kind: collection.BodyForm, Form: form}
	}

	switch {
	case sendNoValidate:
		e.Expect = &collection.Expect{Disabled: true}
	case sendExpect != "" || sendMime != "":
		e.Expect = &collection.Expect{Status: sendExpect, MimeType: sendMime}
	}

	return collection.Validate(e)
}
