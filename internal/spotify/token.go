package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ccoutinho/letterfy/internal/logger"
)

const (
	DefaultAuthURL = "https://accounts.spotify.com/api/token"
	DefaultAPIURL  = "https://api.spotify.com/v1"

	// Credentials are never handed out within this margin of their expiry,
	// and renewal is scheduled this long before the token expires
	defaultExpiryMargin = 60 * time.Second

	exchangeTimeout = 10 * time.Second
)

// Credential is a bearer secret for the catalog API with its expiry instant
type Credential struct {
	AccessToken string
	ExpiresAt   time.Time
}

// validAt reports whether the credential may still be handed to callers at now
func (c Credential) validAt(now time.Time, margin time.Duration) bool {
	return c.AccessToken != "" && now.Before(c.ExpiresAt.Add(-margin))
}

type TokenConfig struct {
	ClientID     string
	ClientSecret string

	// AuthURL of the client-credentials exchange endpoint
	// If not set the Spotify accounts endpoint is used
	AuthURL string

	// ExpiryMargin overrides the 60s guard band, useful in tests
	ExpiryMargin time.Duration

	// HTTPClient to use for the exchange, http.DefaultClient if nil
	HTTPClient *http.Client
}

// TokenSource owns the process-wide catalog credential: it acquires it lazily,
// hands out only credentials outside the expiry guard band and keeps exactly
// one renewal timer armed. Concurrent acquisitions collapse into a single
// in-flight exchange, all waiters get the same credential or the same error.
type TokenSource struct {
	authURL      string
	clientID     string
	clientSecret string
	margin       time.Duration
	client       *http.Client
	logger       logger.Logger

	group singleflight.Group

	mu     sync.Mutex
	cred   Credential
	renew  *time.Timer
	closed bool
}

func NewTokenSource(cfg TokenConfig, l logger.Logger) (*TokenSource, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("catalog client id and secret must not be empty")
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.ExpiryMargin == 0 {
		cfg.ExpiryMargin = defaultExpiryMargin
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &TokenSource{
		authURL:      cfg.AuthURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		margin:       cfg.ExpiryMargin,
		client:       cfg.HTTPClient,
		logger:       l,
	}, nil
}

// Token returns the cached credential while it is outside the guard band,
// without any network call. Otherwise it runs the acquisition path.
// Safe to call from any number of request handlers.
func (s *TokenSource) Token(ctx context.Context) (Credential, error) {
	s.mu.Lock()
	cred := s.cred
	s.mu.Unlock()

	if cred.validAt(time.Now(), s.margin) {
		return cred, nil
	}

	return s.acquire(ctx)
}

// Refresh acquires a fresh credential after the given one was rejected
// upstream (401 for a credential the cache believed valid). If another
// exchange already replaced the rejected credential, the replacement is
// returned as is instead of being discarded for one more exchange.
// A refresh joining an exchange already in flight is fine: that exchange
// produces a brand new credential anyway.
func (s *TokenSource) Refresh(ctx context.Context, rejected Credential) (Credential, error) {
	s.mu.Lock()
	if s.cred.AccessToken == rejected.AccessToken {
		s.cred = Credential{}
	}
	cred := s.cred
	s.mu.Unlock()

	if cred.validAt(time.Now(), s.margin) {
		return cred, nil
	}

	return s.acquire(ctx)
}

// Close stops the pending renewal timer. The source stays usable for lazy
// acquisition but no longer renews in the background.
func (s *TokenSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.renew != nil {
		s.renew.Stop()
		s.renew = nil
	}
}

// acquire collapses concurrent callers into a single exchange
func (s *TokenSource) acquire(ctx context.Context) (Credential, error) {
	v, err, _ := s.group.Do("token", func() (any, error) {
		return s.exchange(ctx)
	})
	if err != nil {
		return Credential{}, err
	}
	return v.(Credential), nil
}

// exchange performs the client-credentials grant and stores the result.
// The owning request cancelling must not tear down an exchange other callers
// are waiting on, so only the exchange's own timeout bounds it.
func (s *TokenSource) exchange(ctx context.Context) (Credential, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), exchangeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.authURL, strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return Credential{}, &AcquisitionError{Detail: "building token request", Err: err}
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return Credential{}, &AcquisitionError{Detail: "auth endpoint unreachable", Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Credential{}, &AcquisitionError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(body))}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Credential{}, &AcquisitionError{Status: resp.StatusCode, Detail: "malformed token response", Err: err}
	}
	if payload.AccessToken == "" {
		return Credential{}, &AcquisitionError{Status: resp.StatusCode, Detail: "token response missing access_token"}
	}

	lifetime := time.Duration(payload.ExpiresIn) * time.Second
	cred := Credential{
		AccessToken: payload.AccessToken,
		ExpiresAt:   time.Now().Add(lifetime),
	}
	s.store(cred, lifetime)

	s.logger.Debug("catalog credential acquired", "expires_at", cred.ExpiresAt)
	return cred, nil
}

// store replaces the credential wholesale and re-arms the renewal timer,
// cancelling the previously scheduled one so at most one stays pending
func (s *TokenSource) store(cred Credential, lifetime time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = cred

	if s.closed {
		return
	}
	if s.renew != nil {
		s.renew.Stop()
	}
	s.renew = time.AfterFunc(renewalDelay(lifetime, s.margin), s.renewNow)
}

// renewNow runs the acquisition path in the background, independent of any
// request lifetime. Failures are logged, never fatal: the next Token call
// falls back to lazy acquisition.
func (s *TokenSource) renewNow() {
	if _, err := s.acquire(context.Background()); err != nil {
		s.logger.Warn("catalog credential renewal failed", "error", err)
		return
	}
	s.logger.Debug("catalog credential renewed")
}

// renewalDelay schedules renewal margin before expiry, as granted by upstream.
// A lifetime at or below the margin means the credential is already inside the
// guard band when it arrives; renew after half its lifetime instead of looping.
func renewalDelay(lifetime, margin time.Duration) time.Duration {
	delay := lifetime - margin
	if delay <= 0 {
		delay = lifetime / 2
	}
	if delay <= 0 {
		delay = time.Second
	}
	return delay
}
