package auth

import (
	"context"
	"fmt"
	"sync"
)

// TokenSink receives a renewed access token. The catalog and storage
// clients satisfy it.
type TokenSink interface {
	SetAccessToken(token string)
}

// Refresher keeps a long-lived session's access token fresh. Callers
// check in through Fresh before issuing authenticated requests; when
// the token is about to expire it is exchanged and the renewal pushed
// to every registered sink.
type Refresher struct {
	client *Client

	mu    sync.Mutex
	sess  *Session
	sinks []TokenSink
}

// NewRefresher wraps a signed-in session. Each sink receives the access
// token whenever it is renewed.
func NewRefresher(client *Client, sess *Session, sinks ...TokenSink) *Refresher {
	return &Refresher{client: client, sess: sess, sinks: sinks}
}

// Fresh returns the current session, renewing it first when the access
// token has expired or is about to. On renewal failure the old session
// is kept so a later call can retry.
func (r *Refresher) Fresh(ctx context.Context) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.sess.Expired() {
		return r.sess, nil
	}

	next, err := r.client.Refresh(ctx, r.sess.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}

	r.sess = next
	for _, sink := range r.sinks {
		sink.SetAccessToken(next.AccessToken)
	}
	return next, nil
}
