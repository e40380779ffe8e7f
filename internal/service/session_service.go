package service

import (
	"context"
	"time"

	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"
)

// sessionService implements ports.SessionService.
type sessionService struct {
	verifier ports.IdentityVerifier
	agents   ports.AgentService
	maxAge   time.Duration
	now      func() time.Time
}

// NewSessionService creates a new session service. Tokens whose sign-in is
// older than maxAge cannot start a session.
func NewSessionService(verifier ports.IdentityVerifier, agents ports.AgentService, maxAge time.Duration) ports.SessionService {
	return &sessionService{
		verifier: verifier,
		agents:   agents,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Start exchanges an ID token for a session bound to its agent.
func (s *sessionService) Start(ctx context.Context, rawToken string) (*ports.Session, error) {
	identity, err := s.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if s.now().Sub(identity.AuthTime) > s.maxAge {
		return nil, apperror.ErrSessionExpired()
	}

	agent, err := s.agents.ResolveByUser(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	return &ports.Session{
		Token:    rawToken,
		MaxAge:   s.maxAge,
		Identity: identity,
		Agent:    agent,
	}, nil
}

// Authenticate resolves the agent behind a session cookie or bearer token.
func (s *sessionService) Authenticate(ctx context.Context, rawToken string) (*domain.Agent, error) {
	identity, err := s.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	return s.agents.ResolveByUser(ctx, identity.UserID)
}
