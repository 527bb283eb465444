package twitter

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestPercentEncode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"ABCXYZabcxyz0129-._~", "ABCXYZabcxyz0129-._~"},
		{" ", "%20"},
		{"+", "%2B"},
		{"Hello Ladies + Gentlemen", "Hello%20Ladies%20%2B%20Gentlemen"},
		{"Dogs, Cats & Mice", "Dogs%2C%20Cats%20%26%20Mice"},
		{"☃", "%E2%98%83"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := percentEncode(tc.in); got != tc.want {
			t.Fatalf("percentEncode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSignatureBaseStringOrdersParameters(t *testing.T) {
	t.Parallel()

	base := signatureBaseString("post", "http://example.com/request", map[string]string{
		"b": "2",
		"a": "1",
	})

	wantPrefix := "POST&http%3A%2F%2Fexample.com%2Frequest&"
	if !strings.HasPrefix(base, wantPrefix) {
		t.Fatalf("unexpected base string prefix: %s", base)
	}

	wantParams := percentEncode("a=1&b=2")
	if !strings.HasSuffix(base, wantParams) {
		t.Fatalf("expected params %q at end of base string, got %s", wantParams, base)
	}
}

func TestSignatureBaseStringSortsByValueOnTies(t *testing.T) {
	t.Parallel()

	first := signatureBaseString("GET", "http://example.com", map[string]string{"k": "b"})
	second := signatureBaseString("GET", "http://example.com", map[string]string{"k": "a"})

	if first == second {
		t.Fatalf("expected differing base strings for differing values")
	}
}

func newFixedSigner(creds Credentials, nonce string, ts int64) *Signer {
	s := NewSigner(creds)
	s.nonce = func() (string, error) { return nonce, nil }
	s.now = func() time.Time { return time.Unix(ts, 0) }
	return s
}

func TestAuthorizationHeaderDeterministic(t *testing.T) {
	t.Parallel()

	creds := Credentials{
		ConsumerKey:       "ck",
		ConsumerSecret:    "cs",
		AccessToken:       "tok",
		AccessTokenSecret: "ts",
	}
	signer := newFixedSigner(creds, "deadbeef", 1318622958)

	params := map[string]string{"status": "hello world"}
	first, err := signer.AuthorizationHeader("POST", "https://api.example.com/post", params)
	if err != nil {
		t.Fatalf("AuthorizationHeader error: %v", err)
	}
	second, err := signer.AuthorizationHeader("POST", "https://api.example.com/post", params)
	if err != nil {
		t.Fatalf("AuthorizationHeader error: %v", err)
	}

	if first != second {
		t.Fatalf("headers differ under fixed nonce/timestamp:\n%s\n%s", first, second)
	}

	// Reconstruct the expected signature from the documented algorithm.
	paramString := strings.Join([]string{
		"oauth_consumer_key=ck",
		"oauth_nonce=deadbeef",
		"oauth_signature_method=HMAC-SHA1",
		"oauth_timestamp=1318622958",
		"oauth_token=tok",
		"oauth_version=1.0",
		"status=" + percentEncode("hello world"),
	}, "&")
	base := "POST&" + percentEncode("https://api.example.com/post") + "&" + percentEncode(paramString)

	mac := hmac.New(sha1.New, []byte("cs&ts"))
	mac.Write([]byte(base))
	wantSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !strings.HasPrefix(first, "OAuth ") {
		t.Fatalf("header missing OAuth prefix: %s", first)
	}
	if !strings.Contains(first, `oauth_signature="`+percentEncode(wantSig)+`"`) {
		t.Fatalf("header signature mismatch, want %s in %s", wantSig, first)
	}
	if !strings.Contains(first, `oauth_nonce="deadbeef"`) {
		t.Fatalf("header missing nonce: %s", first)
	}
	if !strings.Contains(first, `oauth_timestamp="1318622958"`) {
		t.Fatalf("header missing timestamp: %s", first)
	}
}

func TestAuthorizationHeaderOmitsRequestParams(t *testing.T) {
	t.Parallel()

	creds := Credentials{ConsumerKey: "ck", ConsumerSecret: "cs", AccessToken: "tok", AccessTokenSecret: "ts"}
	signer := newFixedSigner(creds, "deadbeef", 1318622958)

	header, err := signer.AuthorizationHeader("POST", "https://api.example.com/post", map[string]string{
		"media_data": "AAAA",
	})
	if err != nil {
		t.Fatalf("AuthorizationHeader error: %v", err)
	}

	if strings.Contains(header, "media_data") {
		t.Fatalf("request params must not leak into the header: %s", header)
	}
}
