package twitter

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Credentials holds the OAuth 1.0a key material. Loaded once at startup
// and read-only for the process lifetime.
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// Signer produces one-time OAuth 1.0a authorization header values. Each
// call mints its own nonce and timestamp, so a Signer holds no mutable
// state and is safe for concurrent use.
type Signer struct {
	creds Credentials
	nonce func() (string, error)
	now   func() time.Time
}

// NewSigner builds a signer with a crypto/rand nonce source and the
// system clock.
func NewSigner(creds Credentials) *Signer {
	return &Signer{creds: creds, nonce: randomNonce, now: time.Now}
}

func randomNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// AuthorizationHeader signs the request described by method, rawURL and
// extraParams and returns the Authorization header value. extraParams
// carries the body/query parameters that take part in the signature;
// rawURL must not contain a query string. The signature must stay
// bit-exact with the platform's verification algorithm: any deviation
// in encoding, sorting or base-string assembly invalidates it.
func (s *Signer) AuthorizationHeader(method, rawURL string, extraParams map[string]string) (string, error) {
	nonce, err := s.nonce()
	if err != nil {
		return "", err
	}

	oauthParams := map[string]string{
		"oauth_consumer_key":     s.creds.ConsumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(s.now().Unix(), 10),
		"oauth_token":            s.creds.AccessToken,
		"oauth_version":          "1.0",
	}

	merged := make(map[string]string, len(oauthParams)+len(extraParams))
	for k, v := range oauthParams {
		merged[k] = v
	}
	for k, v := range extraParams {
		merged[k] = v
	}

	base := signatureBaseString(method, rawURL, merged)
	signingKey := percentEncode(s.creds.ConsumerSecret) + "&" + percentEncode(s.creds.AccessTokenSecret)

	mac := hmac.New(sha1.New, []byte(signingKey))
	mac.Write([]byte(base))
	oauthParams["oauth_signature"] = base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// The header covers the oauth params only, not the merged set.
	// Keys are emitted sorted so the output is stable.
	keys := make([]string, 0, len(oauthParams))
	for k := range oauthParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+`="`+percentEncode(oauthParams[k])+`"`)
	}
	return "OAuth " + strings.Join(pairs, ", "), nil
}

// signatureBaseString assembles METHOD&enc(url)&enc(paramString) with
// the encoded pairs sorted by key, then value.
func signatureBaseString(method, rawURL string, params map[string]string) string {
	encoded := make([][2]string, 0, len(params))
	for k, v := range params {
		encoded = append(encoded, [2]string{percentEncode(k), percentEncode(v)})
	}
	sort.Slice(encoded, func(i, j int) bool {
		if encoded[i][0] != encoded[j][0] {
			return encoded[i][0] < encoded[j][0]
		}
		return encoded[i][1] < encoded[j][1]
	})

	pairs := make([]string, 0, len(encoded))
	for _, kv := range encoded {
		pairs = append(pairs, kv[0]+"="+kv[1])
	}
	paramString := strings.Join(pairs, "&")

	return strings.ToUpper(method) + "&" + percentEncode(rawURL) + "&" + percentEncode(paramString)
}

const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// percentEncode implements RFC 3986 encoding: the unreserved set stays
// as-is, every other byte (space and + included) becomes %XX with
// uppercase hex.
func percentEncode(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if strings.IndexByte(unreserved, c) >= 0 {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
