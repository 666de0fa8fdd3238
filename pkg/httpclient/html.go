package httpclient

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLPage is an HTML document plus the page metadata most callers want.
type HTMLPage struct {
	Title       string
	Description string
	ImageURL    string
	Document    *goquery.Document
}

// HTMLDecoder parses an HTML document, preferring OpenGraph tags for the
// metadata. Relative image URLs are resolved against base when given.
func HTMLDecoder(base *url.URL) Decoder[HTMLPage] {
	return func(body []byte) (HTMLPage, bool, error) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return HTMLPage{}, false, &Error{Code: CodeObjectParsing, Err: err}
		}
		if base != nil {
			doc.Url = base
		}

		extract := func(sel string) string {
			if node := doc.Find(sel).First(); node.Length() > 0 {
				if val, ok := node.Attr("content"); ok {
					return strings.TrimSpace(val)
				}
			}
			return ""
		}

		page := HTMLPage{Document: doc}
		page.Title = firstNonEmpty(
			extract(`meta[property="og:title"]`),
			doc.Find("title").First().Text(),
		)
		page.Description = firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		)
		page.ImageURL = resolveURL(extract(`meta[property="og:image"]`), base)
		return page, true, nil
	}
}

func resolveURL(ref string, base *url.URL) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
