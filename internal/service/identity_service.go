package service

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// KeySource resolves the RSA key that signed an ID token.
type KeySource interface {
	Key(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

var errUnknownKID = errors.New("unknown key id")

const (
	// minCertRefresh is the shortest gap between two fetches triggered by
	// unknown key ids.
	minCertRefresh   = time.Minute
	certFetchTimeout = 10 * time.Second
)

// HTTPCertSource fetches a JSON map of kid -> PEM x509 certificate and caches
// the parsed keys for ttl.
type HTTPCertSource struct {
	url        string
	httpClient HTTPClient
	ttl        time.Duration
	minRefresh time.Duration
	now        func() time.Time
	fetch      singleflight.Group

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewHTTPCertSource creates a cached certificate source.
func NewHTTPCertSource(url string, httpClient HTTPClient, ttl time.Duration) *HTTPCertSource {
	return &HTTPCertSource{
		url:        url,
		httpClient: httpClient,
		ttl:        ttl,
		minRefresh: minCertRefresh,
		now:        time.Now,
	}
}

// Key returns the public key for kid. An unknown kid triggers a refresh so
// rotated keys are picked up before the cache expires, at most once per
// minRefresh. Concurrent refreshes share one fetch and the lock is not held
// while it runs.
func (s *HTTPCertSource) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	s.mu.Lock()
	key, ok := s.keys[kid]
	age := s.now().Sub(s.fetchedAt)
	loaded := s.keys != nil
	s.mu.Unlock()

	if loaded && age < s.ttl {
		if ok {
			return key, nil
		}
		if age < s.minRefresh {
			return nil, errUnknownKID
		}
	}

	ch := s.fetch.DoChan("certs", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), certFetchTimeout)
		defer cancel()
		return nil, s.refresh(fetchCtx)
	})
	select {
	case <-ctx.Done():
		return nil, apperror.ErrIdentityUnavailable(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, apperror.ErrIdentityUnavailable(res.Err)
		}
	}

	s.mu.Lock()
	key, ok = s.keys[kid]
	s.mu.Unlock()
	if !ok {
		return nil, errUnknownKID
	}
	return key, nil
}

func (s *HTTPCertSource) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("build certs request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch certs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch certs: status %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return fmt.Errorf("decode certs: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pem := range certs {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return fmt.Errorf("parse cert %s: %w", kid, err)
		}
		keys[kid] = key
	}
	s.mu.Lock()
	s.keys = keys
	s.fetchedAt = s.now()
	s.mu.Unlock()
	return nil
}

// idTokenClaims are the claims of a Firebase-style ID token.
type idTokenClaims struct {
	jwt.RegisteredClaims
	AuthTime int64  `json:"auth_time"`
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
}

// IDTokenVerifier implements ports.IdentityVerifier for RS256 ID tokens.
type IDTokenVerifier struct {
	keys      KeySource
	projectID string
	issuer    string
	now       func() time.Time
}

// NewIDTokenVerifier creates a verifier accepting tokens issued for projectID.
func NewIDTokenVerifier(keys KeySource, projectID string, issuer string) *IDTokenVerifier {
	return &IDTokenVerifier{
		keys:      keys,
		projectID: projectID,
		issuer:    issuer,
		now:       time.Now,
	}
}

// Verify parses and validates rawToken.
func (v *IDTokenVerifier) Verify(ctx context.Context, rawToken string) (*ports.Identity, error) {
	claims := &idTokenClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errUnknownKID
		}
		return v.keys.Key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.ErrInvalidToken()
	}

	if verdict := checkClaims(claims); !verdict.Valid {
		return nil, apperror.ErrInvalidToken()
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	return &ports.Identity{
		UserID:    userID,
		Email:     claims.Email,
		AuthTime:  time.Unix(claims.AuthTime, 0).UTC(),
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// checkClaims enforces the claims the JWT parser does not: a subject, an
// issue time and the time the user last signed in.
func checkClaims(c *idTokenClaims) domain.Verdict {
	switch {
	case c.Subject == "":
		return domain.Invalid(domain.ReasonSubjectMissing, "sub is empty")
	case c.IssuedAt == nil:
		return domain.Invalid(domain.ReasonIssuedAtMissing, "iat is absent")
	case c.AuthTime <= 0:
		return domain.Invalid(domain.ReasonAuthTimeMissing, "auth_time is absent")
	}
	return domain.Valid()
}
