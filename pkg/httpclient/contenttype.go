package httpclient

import (
	"mime"
	"strings"
)

// ContentType is a MIME media type.
type ContentType string

const (
	ContentTypeText           ContentType = "text/plain"
	ContentTypeBinary         ContentType = "application/octet-stream"
	ContentTypeJPEG           ContentType = "image/jpeg"
	ContentTypePNG            ContentType = "image/png"
	ContentTypeWebP           ContentType = "image/webp"
	ContentTypeGIF            ContentType = "image/gif"
	ContentTypeBMP            ContentType = "image/bmp"
	ContentTypeMP3            ContentType = "audio/mpeg"
	ContentTypeMPEG           ContentType = "video/mpeg"
	ContentTypeJavaScript     ContentType = "text/javascript"
	ContentTypeJSON           ContentType = "application/json"
	ContentTypeXML            ContentType = "application/xml"
	ContentTypeYAML           ContentType = "application/x-yaml"
	ContentTypeHTML           ContentType = "text/html"
	ContentTypeCSS            ContentType = "text/css"
	ContentTypeCSV            ContentType = "text/csv"
	ContentTypeFormURLEncoded ContentType = "application/x-www-form-urlencoded"
)

// Header returns the Content-Type header carrying c.
func (c ContentType) Header() Header {
	return Header{Name: "Content-Type", Value: string(c)}
}

// IsBinary reports media types whose bodies are never previewed as text.
func (c ContentType) IsBinary() bool {
	switch c {
	case ContentTypeBinary, ContentTypeJPEG, ContentTypePNG, ContentTypeWebP,
		ContentTypeGIF, ContentTypeBMP, ContentTypeMP3, ContentTypeMPEG:
		return true
	}
	return strings.HasPrefix(string(c), "image/") ||
		strings.HasPrefix(string(c), "audio/") ||
		strings.HasPrefix(string(c), "video/")
}

// MediaType strips parameters from a Content-Type value and lower-cases it.
func MediaType(value string) ContentType {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(value)
	if err != nil {
		if i := strings.IndexByte(value, ';'); i >= 0 {
			value = value[:i]
		}
		return ContentType(strings.ToLower(strings.TrimSpace(value)))
	}
	return ContentType(mt)
}

// ContentTypeHeader builds a Content-Type header for c.
func ContentTypeHeader(c ContentType) Header { return c.Header() }
