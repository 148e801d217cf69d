package service

import (
	"context"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/auth"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/session"
)

// AccountService signs shoppers in and out of their session
type AccountService struct {
	sessions *session.Store
	auth     *auth.Service
}

// NewAccountService creates a new account service
func NewAccountService(sessions *session.Store, authSvc *auth.Service) *AccountService {
	return &AccountService{
		sessions: sessions,
		auth:     authSvc,
	}
}

// Session returns the state of session id
func (s *AccountService) Session(id string) (session.Snapshot, error) {
	return s.sessions.Get(id)
}

// Login runs the login form and attaches the user to the session
func (s *AccountService) Login(ctx context.Context, id string, form auth.LoginForm, d notify.Dispatcher) (models.User, error) {
	if _, err := s.sessions.Get(id); err != nil {
		return models.User{}, err
	}
	user, err := s.auth.Login(ctx, form, d)
	if err != nil {
		return models.User{}, err
	}
	return s.attach(id, user)
}

// Register runs the registration form and attaches the new user to the
// session
func (s *AccountService) Register(ctx context.Context, id string, form auth.RegisterForm, d notify.Dispatcher) (models.User, error) {
	if _, err := s.sessions.Get(id); err != nil {
		return models.User{}, err
	}
	user, err := s.auth.Register(ctx, form, d)
	if err != nil {
		return models.User{}, err
	}
	return s.attach(id, user)
}

// Social signs in through a provider button
func (s *AccountService) Social(ctx context.Context, id, provider string, mode auth.Mode, d notify.Dispatcher) (models.User, error) {
	if _, err := s.sessions.Get(id); err != nil {
		return models.User{}, err
	}
	user, err := s.auth.Social(ctx, provider, mode, d)
	if err != nil {
		return models.User{}, err
	}
	return s.attach(id, user)
}

func (s *AccountService) attach(id string, user models.User) (models.User, error) {
	snap, err := s.sessions.Update(id, func(st *session.State) error {
		st.User = user
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return snap.User, nil
}
