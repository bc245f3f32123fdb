package chroma

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

const snippetLimit = 256

var errInvalidJSON = errors.New("body is not valid JSON")

// ParseCollectionResponse decodes a collection response body. Invalid JSON is
// logged and yields a zero Collection; a missing or non-string id or name is
// silently left unset. Unknown fields are ignored. Decode failures never
// escape as errors — the zero value is the failure signal.
func (c *Client) ParseCollectionResponse(body []byte) Collection {
	col, err := parseCollection(body)
	if err != nil {
		c.log.ErrorObj("collection response decode failed", "decode_error", map[string]any{
			"error": err.Error(),
			"body":  bodySnippet(body),
		})
	}
	return col
}

// parseCollection extracts the top-level id and name fields when present and
// string-typed. Keys are matched exactly and case-sensitively.
func parseCollection(body []byte) (Collection, error) {
	var col Collection

	if !gjson.ValidBytes(body) {
		return col, errInvalidJSON
	}

	// Walk the top level instead of gjson.GetBytes: gjson paths fall back to
	// case-insensitive key matching, which would accept "ID" for "id".
	gjson.ParseBytes(body).ForEach(func(key, value gjson.Result) bool {
		switch key.Str {
		case "id":
			if value.Type == gjson.String {
				col.ID = value.Str
			}
		case "name":
			if value.Type == gjson.String {
				col.Name = value.Str
			}
		}
		return true
	})

	return col, nil
}

// bodySnippet bounds a response body for log output.
func bodySnippet(body []byte) string {
	if len(body) > snippetLimit {
		body = body[:snippetLimit]
	}
	return strings.TrimSpace(string(body))
}
