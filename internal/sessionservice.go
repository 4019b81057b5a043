package internal

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/yjcc/events/internal/models"
	"github.com/yjcc/events/internal/repos"
	"golang.org/x/net/context"
)

// SessionService provides functions for entering and leaving the administrator area.
// There is exactly one principal - whoever knows the shared administrator code
type SessionService interface {
	// Login checks the administrator code and returns the created session on success
	Login(ctx context.Context, code string) (*SessionInfo, error)
	// Logout logs out a currently active session
	Logout(ctx context.Context, sessionID string) error
	// WhoAmI returns information about the current session
	WhoAmI(ctx context.Context, sessionID string) (*SessionInfo, error)
	// GetContents returns the session data associated with the given session ID.
	// This service function is used internally and does not have an endpoint
	GetContents(ctx context.Context, sessionID string, extendExpiry bool) (*models.Session, error)
}

// -- Session service implementation -----------------------------------------------------------------------------------

// SessionInfo is the session information object that is returned upon login
type SessionInfo struct {
	SessionID string `json:"sessionId"`
}

type sessionService struct {
	logger   *logrus.Entry
	sessions repos.SessionRepo
	gate     *models.AdminGate
}

// NewSessionService creates a new session service instance with the provided repository and admin gate
func NewSessionService(sr repos.SessionRepo, gate *models.AdminGate, logger *logrus.Entry) SessionService {
	return &sessionService{
		logger:   logger,
		sessions: sr,
		gate:     gate,
	}
}

// Login checks the administrator code and returns the created session on success
func (s *sessionService) Login(ctx context.Context, code string) (*SessionInfo, error) {
	if !s.gate.Check(code) {
		// Wrong code - no details beyond that
		return nil, MakeError(
			http.StatusForbidden,
			ErrCodeLoginFailed,
			"Login failed",
		)
	}
	sess, err := s.sessions.Create()
	if err != nil {
		s.logger.WithError(err).Error("Failed to create session")
		return nil, MakeError(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			"Failed to create session",
		)
	}
	return &SessionInfo{SessionID: sess.ID}, nil
}

// Logout logs out a currently active session
func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		s.logger.WithError(err).Error("Failed to delete session")
		return MakeError(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			"Failed to logout. Error in the data store",
		)
	}
	return nil
}

// WhoAmI returns information about the current session
func (s *sessionService) WhoAmI(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.GetContents(ctx, sessionID, false)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, MakeError(http.StatusForbidden, ErrCodeNotLoggedIn, "No active session")
	}
	return &SessionInfo{SessionID: sess.ID}, nil
}

// GetContents returns the session data associated with the given session ID
func (s *sessionService) GetContents(ctx context.Context, sessionID string, extendExpiry bool) (*models.Session, error) {
	sess, err := s.sessions.GetByID(sessionID, extendExpiry)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, nil
		}
		s.logger.WithError(err).Error("Failed to retrieve session from repo")
		return nil, MakeError(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			"Failed to retrieve session information from storage",
		)
	}
	return sess, nil
}
