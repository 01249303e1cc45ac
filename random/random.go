package random

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand"
	"strings"
)

const (
	lower = "0123456789abcdefghijklmnopqrstuvwxyz"
	upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// SlugTokenLength is the length of the suffix used to disambiguate slugs.
const SlugTokenLength = 6

// SlugToken returns a lower-case alphanumeric token, safe to embed in a URL
// path segment. It never fails.
func SlugToken() string {
	s, err := secure(lower, SlugTokenLength)
	if err != nil {
		return fromCharset(lower, SlugTokenLength)
	}
	return s
}

// CertificateNumber returns an identifier of the form CERT-XXXX-XXXX-XXXX.
func CertificateNumber() (string, error) {
	s, err := secure(upper, 12)
	if err != nil {
		return "", err
	}
	return "CERT-" + strings.Join([]string{s[0:4], s[4:8], s[8:12]}, "-"), nil
}

func fromCharset(set string, length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = set[mrand.Intn(len(set))]
	}
	return string(b)
}

func secure(set string, length int) (string, error) {
	b := make([]byte, length)
	l := big.NewInt(int64(len(set)))
	for i := range b {
		num, err := crand.Int(crand.Reader, l)
		if err != nil {
			return "", err
		}
		b[i] = set[num.Int64()]
	}
	return string(b), nil
}
