// package server runs the loopback HTTP listener that receives the Spotify
// OAuth2 authorization callback during `ytspot auth spotify`.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"ytspot/internal/shared"
)

// AuthResult carries the outcome of the authorization code flow.
type AuthResult struct {
	Token *oauth2.Token
	err   error
}

func (r AuthResult) Error() error {
	return r.err
}

// CallbackServer listens on the redirect URI's host and port, validates the
// state parameter, exchanges the authorization code for a token, and delivers
// exactly one AuthResult.
type CallbackServer struct {
	config *oauth2.Config
	state  string
	logger *log.Logger

	httpServer *http.Server
	results    chan AuthResult
	once       sync.Once
}

// NewCallbackServer creates a callback server for the given OAuth2 config.
// The state token should be cryptographically random for CSRF protection.
func NewCallbackServer(config *oauth2.Config, state string, logger *log.Logger) (*CallbackServer, error) {
	if config == nil || config.RedirectURL == "" {
		return nil, fmt.Errorf("%w: OAuth config with a redirect URI is required", shared.ErrInvalidConfig)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CallbackServer{
		config:  config,
		state:   state,
		logger:  logger,
		results: make(chan AuthResult, 1),
	}, nil
}

// Start begins serving the callback endpoint in a background goroutine.
// The listener address and path are taken from the configured redirect URI.
func (s *CallbackServer) Start() error {
	redirect, err := url.Parse(s.config.RedirectURL)
	if err != nil {
		return fmt.Errorf("%w: invalid redirect URI: %v", shared.ErrInvalidConfig, err)
	}

	path := redirect.Path
	if path == "" {
		path = "/callback"
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, s.handleCallback)

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", redirect.Host, err)
	}

	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.deliver(AuthResult{err: fmt.Errorf("callback server failed: %w", err)})
		}
	}()

	s.logger.Debug("callback server listening", "addr", redirect.Host, "path", path)
	return nil
}

// Wait blocks until the callback is handled, the context is cancelled, or the
// timeout elapses.
func (s *CallbackServer) Wait(ctx context.Context, timeout time.Duration) (*oauth2.Token, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-s.results:
		if result.Error() != nil {
			return nil, result.Error()
		}
		return result.Token, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: timed out waiting for authorization after %s", shared.ErrAuthFailed, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops the HTTP listener.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if state := query.Get("state"); state != s.state {
		s.deliver(AuthResult{err: fmt.Errorf("%w: state parameter mismatch", shared.ErrAuthFailed)})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		errParam := query.Get("error")
		errDesc := query.Get("error_description")
		s.deliver(AuthResult{err: fmt.Errorf("%w: %s - %s", shared.ErrAuthFailed, errParam, errDesc)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := s.config.Exchange(r.Context(), code)
	if err != nil {
		s.deliver(AuthResult{err: fmt.Errorf("%w: token exchange failed: %v", shared.ErrAuthFailed, err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	s.deliver(AuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// deliver sends the result exactly once and closes the channel.
func (s *CallbackServer) deliver(result AuthResult) {
	s.once.Do(func() {
		s.results <- result
		close(s.results)
	})
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>Spotify Connected</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Spotify Connected</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
