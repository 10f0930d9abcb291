package mailbox

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"google.golang.org/api/gmail/v1"
)

var stripPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// Header returns the value of the first header called name, or "".
func Header(msg *gmail.Message, name string) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if h != nil && h.Name == name {
			return h.Value
		}
	}
	return ""
}

// CollectText concatenates the readable text of a message payload: the part's
// own body, text/plain children, tag-stripped text/html children and,
// recursively, nested multiparts.
func CollectText(part *gmail.MessagePart) (string, error) {
	if part == nil {
		return "", nil
	}

	var b strings.Builder
	if part.Body != nil && part.Body.Data != "" {
		text, err := decodeBody(part.Body.Data)
		if err != nil {
			return "", err
		}
		if part.MimeType == "text/html" {
			text = StripHTML(text)
		}
		b.WriteString(text)
	}

	for _, child := range part.Parts {
		if child == nil {
			continue
		}
		hasData := child.Body != nil && child.Body.Data != ""
		switch {
		case child.MimeType == "text/plain" && hasData:
			text, err := decodeBody(child.Body.Data)
			if err != nil {
				return "", err
			}
			b.WriteString(text)
		case child.MimeType == "text/html" && hasData:
			text, err := decodeBody(child.Body.Data)
			if err != nil {
				return "", err
			}
			b.WriteString(StripHTML(text))
		case len(child.Parts) > 0:
			text, err := CollectText(child)
			if err != nil {
				return "", err
			}
			b.WriteString(text)
		}
	}
	return b.String(), nil
}

// StripHTML removes markup, leaving a space where each tag was.
func StripHTML(s string) string {
	return html.UnescapeString(stripPolicy.Sanitize(s))
}

// decodeBody decodes Gmail's base64url body data, padded or not.
func decodeBody(data string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return "", fmt.Errorf("failed to decode message body: %w", err)
	}
	return string(raw), nil
}
