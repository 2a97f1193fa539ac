// Package storage issues short-lived signed URLs for attachment blobs held in
// the external object store. The store itself is opaque to this service:
// clients upload directly and hand us a path, and we exchange the stored path
// for a time-limited capability URL on demand.
package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyPath        = errors.New("object path is empty")
	ErrSignatureInvalid = errors.New("signature mismatch")
	ErrURLExpired       = errors.New("signed url expired")
)

// Signer exchanges a stored object path for a time-limited signed URL.
type Signer interface {
	SignedURL(path string, ttl time.Duration) (string, error)
}

// URLSigner produces HMAC-SHA256 signed URLs against a fixed base URL and
// bucket. Two URLs for the same path differ only in their expiry-bound
// signature, never in the target path.
type URLSigner struct {
	baseURL string
	bucket  string
	secret  []byte
	now     func() time.Time
}

// NewURLSigner creates a signer for the given object-store base URL and bucket.
func NewURLSigner(baseURL, bucket, secret string) *URLSigner {
	return &URLSigner{
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
		secret:  []byte(secret),
		now:     time.Now,
	}
}

// SignedURL returns a capability URL for path that is valid for ttl.
func (s *URLSigner) SignedURL(path string, ttl time.Duration) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	path = strings.TrimLeft(path, "/")
	expires := s.now().Add(ttl).Unix()
	sig := s.sign(path, expires)

	return fmt.Sprintf("%s/object/sign/%s/%s?expires=%d&signature=%s",
		s.baseURL, s.bucket, path, expires, sig), nil
}

// Verify checks a previously issued signed URL. It returns the object path
// when the signature is intact and the URL has not expired.
func (s *URLSigner) Verify(signedURL string) (string, error) {
	u, err := url.Parse(signedURL)
	if err != nil {
		return "", fmt.Errorf("parse signed url: %w", err)
	}

	prefix := "/object/sign/" + s.bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", ErrSignatureInvalid
	}
	path := strings.TrimPrefix(u.Path, prefix)

	expires, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	if err != nil {
		return "", ErrSignatureInvalid
	}
	if s.now().Unix() > expires {
		return "", ErrURLExpired
	}

	want := s.sign(path, expires)
	if !hmac.Equal([]byte(want), []byte(u.Query().Get("signature"))) {
		return "", ErrSignatureInvalid
	}
	return path, nil
}

func (s *URLSigner) sign(path string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s/%s|%d", s.bucket, path, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
