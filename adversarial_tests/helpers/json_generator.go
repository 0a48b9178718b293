package helpers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JSONGenerator creates malicious and malformed envelopes for testing
type JSONGenerator struct{}

// NewJSONGenerator creates a new JSON generator
func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

// GenerateMalformedEnvelopes returns bodies that are not valid envelopes and
// must classify as decoding errors.
func (g *JSONGenerator) GenerateMalformedEnvelopes() []string {
	return []string{
		// Not JSON
		``,
		`<html><body>502 Bad Gateway</body></html>`,
		`{`,
		`{"data": {"id": "1"}`,
		`{"data": {"id": "1"},}`,
		`{'data': {'id': '1'}, 'meta': {'code': 200}}`,
		`{data: {}, meta: {code: 200}}`,

		// JSON but not an object
		`null`,
		`[]`,
		`"data"`,
		`200`,

		// Neither data nor an error message
		`{}`,
		`{"meta": {"code": 200}}`,
		`{"meta": {"code": 400}}`,
		`{"meta": {"code": 400, "error_type": "OAuthException"}}`,

		// Data present but meta missing or broken
		`{"data": {"id": "1"}}`,
		`{"data": {"id": "1"}, "meta": null}`,
		`{"data": {"id": "1"}, "meta": "ok"}`,
		`{"data": {"id": "1"}, "meta": {"code": "200"}}`,

		// Wrong pagination shape
		`{"data": [], "meta": {"code": 200}, "pagination": []}`,
		`{"data": [], "meta": {"code": 200}, "pagination": {"next_max_id": 7}}`,
	}
}

// GenerateMistypedData returns well-formed envelopes whose data does not fit
// a user object.
func (g *JSONGenerator) GenerateMistypedData() []string {
	return []string{
		`{"meta": {"code": 200}, "data": "self"}`,
		`{"meta": {"code": 200}, "data": 12345}`,
		`{"meta": {"code": 200}, "data": [{"id": "1"}]}`,
		`{"meta": {"code": 200}, "data": {"id": 1574083}}`,
		`{"meta": {"code": 200}, "data": {"counts": {"media": "many"}}}`,
	}
}

// GenerateErrorEnvelopes returns failure envelopes with hostile messages.
func (g *JSONGenerator) GenerateErrorEnvelopes() []string {
	return []string{
		`{"meta": {"code": 400, "error_type": "OAuthAccessTokenException", "error_message": "The access_token provided is invalid."}}`,
		`{"meta": {"code": 429, "error_type": "OAuthRateLimitException", "error_message": "The maximum number of requests per hour has been exceeded."}}`,
		`{"meta": {"code": 400, "error_type": "<script>alert(1)</script>", "error_message": "<img src=x onerror=alert(1)>"}}`,
		`{"meta": {"code": 400, "error_message": "line one\nline two\r\nX-Injected: yes"}}`,
		`{"meta": {"code": 400, "error_message": "` + strings.Repeat("A", 64*1024) + `"}}`,
		// An error message wins even when data is also present.
		`{"meta": {"code": 400, "error_message": "both"}, "data": {"id": "1"}}`,
	}
}

// GenerateDeeplyNested creates an envelope whose data nests arrays depth levels deep
func (g *JSONGenerator) GenerateDeeplyNested(depth int) string {
	return `{"meta": {"code": 200}, "data": ` + strings.Repeat("[", depth) + strings.Repeat("]", depth) + `}`
}

// GenerateLargeArray creates an envelope whose data is an array of size media objects
func (g *JSONGenerator) GenerateLargeArray(size int) string {
	var sb strings.Builder
	sb.WriteString(`{"meta": {"code": 200}, "data": [`)
	for i := 0; i < size; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `{"id": "%d_1", "type": "image", "created_time": "1296748524"}`, i)
	}
	sb.WriteString(`]}`)
	return sb.String()
}

// GenerateOversizedEnvelope creates a syntactically valid envelope of at least size bytes
func (g *JSONGenerator) GenerateOversizedEnvelope(size int) string {
	return `{"meta": {"code": 200}, "data": {"bio": "` + strings.Repeat("x", size) + `"}}`
}

// GenerateDuplicateKeys creates an envelope that repeats keys; encoding/json keeps the last one.
func (g *JSONGenerator) GenerateDuplicateKeys() string {
	return `{"meta": {"code": 200}, "data": {"id": "1", "username": "first", "username": "second"}}`
}

// PrettyPrint formats JSON for readable failure output
func (g *JSONGenerator) PrettyPrint(jsonStr string) (string, error) {
	var v any
	if err := json.Unmarshal([]byte(jsonStr), &v); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
