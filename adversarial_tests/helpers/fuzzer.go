package helpers

import (
	"math/rand"
	"strings"
)

// Fuzzer provides utilities for generating adversarial input strings
type Fuzzer struct {
	rnd *rand.Rand
}

// NewFuzzer creates a new Fuzzer with the given seed
func NewFuzzer(seed int64) *Fuzzer {
	return &Fuzzer{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// FuzzPathSegment generates ids that try to escape their path segment.
// Every entry must be rejected before a request is built.
func (f *Fuzzer) FuzzPathSegment() []string {
	return []string{
		// Empty and blank
		"",
		" ",
		"\t",

		// Segment escapes
		"..",
		".",
		"../self",
		"1/../../oauth/authorize",
		"1/likes",
		`..\..\windows`,
		"self/",

		// Query and fragment injection
		"1?access_token=stolen",
		"1?count=1000",
		"1#access_token=stolen",
		"self?",

		// Control characters
		"1\n2",
		"1\r\nX-Injected: yes",
		"1\x00",
		"\x7F",
	}
}

// FuzzTagName generates invalid hashtag names
func (f *Fuzzer) FuzzTagName() []string {
	return []string{
		"",
		"#snow",
		"snow day",
		"snow-day",
		"snow/day",
		"snow?x=1",
		"snow#frag",
		"..",
		"snow\x00",
		"snow\u200b", // zero-width space
		"<script>",
		"'; DROP TABLE tags--",
	}
}

// FuzzShortcode generates invalid media shortcodes
func (f *Fuzzer) FuzzShortcode() []string {
	return []string{
		"",
		"a b",
		"a/b",
		"../D",
		"D?x=1",
		"D#x",
		"D.",
		"тест",
		"D\n",
	}
}

// FuzzCommentText generates comment bodies the API would refuse
func (f *Fuzzer) FuzzCommentText() []string {
	return []string{
		"",
		"   ",
		strings.Repeat("a", 301),
		strings.Repeat("é", 301),
		"#a #b #c #d #e",
		strings.Repeat("#tag ", 10),
		"http://a.example https://b.example",
		"THIS IS ALL CAPS",
		"STOP!!! NOW!!!",
	}
}

// FuzzRedirectURL generates navigations an attacker might steer the login
// surface through, paired with whether the URL legitimately carries a token.
func (f *Fuzzer) FuzzRedirectURL() map[string]bool {
	cases := map[string]bool{
		// No token anywhere
		"https://api.instagram.com/oauth/authorize?client_id=x": false,
		"https://www.instagram.com/accounts/login/":             false,
		"http://localhost:8765/callback":                        false,
		"http://localhost:8765/callback#":                       false,
		"http://localhost:8765/callback#state=1":                false,
		"http://localhost:8765/callback#error=access_denied":    false,

		// Token in the query is not a grant
		"http://localhost:8765/callback?access_token=fake": false,

		// Empty token after the marker
		"http://localhost:8765/callback#access_token=": false,

		// Fragment tokens
		"http://localhost:8765/callback#access_token=abc.def.ghi": true,
		"http://localhost:8765/callback#access_token=abc&state=1": true,
	}
	cases["http://localhost:8765/callback#access_token="+strings.Repeat("t", 4096)] = true
	return cases
}

// FuzzUserAgent generates malicious User-Agent test cases
func (f *Fuzzer) FuzzUserAgent() []string {
	return []string{
		"",
		"MyApp/1.0\nX-Evil-Header: injected",
		"MyApp/1.0\r\nX-Evil-Header: injected",
		"MyApp/1.0\r\nContent-Length: 0\r\n\r\nGET /evil HTTP/1.1",
		strings.Repeat("a", 10000),
		"MyApp\x00/1.0",
		"MyApp\u202e/1.0",
	}
}

// GenerateRandomString generates a random string of the given length with specified character types
func (f *Fuzzer) GenerateRandomString(length int, includeSpecial bool) string {
	const (
		letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
		special = "!@#$%^&*()_+-=[]{}|;':\",./<>?`~"
	)

	charset := letters
	if includeSpecial {
		charset += special
	}

	result := make([]byte, length)
	for i := range result {
		result[i] = charset[f.rnd.Intn(len(charset))]
	}
	return string(result)
}

// GenerateControlCharStrings embeds every C0 control character and DEL in an id
func (f *Fuzzer) GenerateControlCharStrings() []string {
	var results []string
	for i := 0; i < 32; i++ {
		results = append(results, "123"+string(rune(i))+"456")
	}
	return append(results, "123\x7F456")
}

// GenerateUnicodeAttacks generates strings hiding invisible or directional characters
func (f *Fuzzer) GenerateUnicodeAttacks() []string {
	return []string{
		"test\u200bstring", // Zero-width space
		"test\u200dstring", // Zero-width joiner
		"test\ufeffstring", // Zero-width no-break space
		"test\u202estring", // Right-to-left override
		"test\u0000string",
	}
}
