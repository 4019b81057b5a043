// Package inmem provides a session repository that holds the session data in-memory.
// Sessions do not survive a restart - the administrator simply logs in again
package inmem

import (
	"math/rand"
	"time"

	"github.com/yjcc/events/internal/models"
	"github.com/yjcc/events/internal/repos"
)

const (
	// How long does a session last after the last update?
	expireMinutes = 60
	sessionIDLen  = 64
)

// sessionRequest is a generic request sent over one of the repo's channels to
// execute an operation inside the control goroutine
type sessionRequest struct {
	sessionID string
	extend    bool
	answer    chan<- sessionResponse
}

type sessionResponse struct {
	session *models.Session
	err     error
}

// SessionRepo is a session repository that stores the session data in-memory
type SessionRepo struct {
	create chan<- sessionRequest
	get    chan<- sessionRequest
	del    chan<- sessionRequest
}

// New creates a new session repository instance
func New() *SessionRepo {
	repo := &SessionRepo{}
	c := make(chan sessionRequest)
	g := make(chan sessionRequest)
	d := make(chan sessionRequest)
	go repo.control(c, g, d)
	repo.create = c
	repo.get = g
	repo.del = d
	return repo
}

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var randSrc = rand.NewSource(time.Now().UnixNano())

// randomString creates a random string with the given length
func randomString(n int) string {
	b := make([]byte, n)
	rnd := rand.New(randSrc)
	for i := range b {
		b[i] = letterBytes[rnd.Intn(len(letterBytes))]
	}
	return string(b)
}

// control is the control goroutine that owns the session map. It also purges
// expired sessions about once a minute
func (r *SessionRepo) control(create <-chan sessionRequest, get <-chan sessionRequest, del <-chan sessionRequest) {
	sessions := map[string]*models.Session{}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case req := <-create:
			sess := models.Session{
				ID:        randomString(sessionIDLen),
				ExpiresAt: time.Now().Add(time.Minute * expireMinutes),
			}
			sessions[sess.ID] = &sess
			cp := sess
			req.answer <- sessionResponse{session: &cp}
		case req := <-get:
			sess, ok := sessions[req.sessionID]
			if !ok {
				req.answer <- sessionResponse{err: repos.ErrEntityNotExisting}
				continue
			}
			if sess.Expired() {
				delete(sessions, req.sessionID)
				req.answer <- sessionResponse{err: repos.ErrEntityNotExisting}
				continue
			}
			if req.extend {
				sess.ExpiresAt = time.Now().Add(time.Minute * expireMinutes)
			}
			cp := *sess
			req.answer <- sessionResponse{session: &cp}
		case req := <-del:
			delete(sessions, req.sessionID)
			req.answer <- sessionResponse{}
		case <-ticker.C:
			for key, sess := range sessions {
				if sess.Expired() {
					delete(sessions, key)
				}
			}
		}
	}
}

func send(sessionID string, extend bool, channel chan<- sessionRequest) sessionResponse {
	answer := make(chan sessionResponse)
	channel <- sessionRequest{
		sessionID: sessionID,
		extend:    extend,
		answer:    answer,
	}
	return <-answer
}

// Create creates a new administrator session
func (r *SessionRepo) Create() (*models.Session, error) {
	resp := send("", false, r.create)
	if resp.err != nil {
		return nil, resp.err
	}
	return resp.session, nil
}

// GetByID returns the session associated with the given session ID and extends its expiry if requested
func (r *SessionRepo) GetByID(sessionID string, extend bool) (*models.Session, error) {
	resp := send(sessionID, extend, r.get)
	if resp.err != nil {
		return nil, resp.err
	}
	return resp.session, nil
}

// Delete removes a session from the session storage
func (r *SessionRepo) Delete(sessionID string) error {
	resp := send(sessionID, false, r.del)
	return resp.err
}
