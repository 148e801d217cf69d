// Package auth simulates the storefront's account flows. Nothing is verified
// or stored: a well-formed form always succeeds after a fixed delay.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
)

const (
	MsgLoginFieldsRequired    = "Please fill in all fields"
	MsgRegisterFieldsRequired = "Please fill in all required fields"
	MsgAcceptTerms            = "Please accept the terms and conditions"
	MsgLoggedIn               = "Logged in successfully"
	MsgRegistered             = "Account created successfully"
)

var (
	ErrMissingFields    = errors.New("required fields are missing")
	ErrTermsNotAccepted = errors.New("terms not accepted")
	ErrUnknownProvider  = errors.New("unknown social provider")
	ErrUnknownMode      = errors.New("unknown social mode")
)

// LoginForm is the login page input
type LoginForm struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterForm is the registration page input
type RegisterForm struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	IsWholesale bool   `json:"isWholesale"`
	AcceptTerms bool   `json:"acceptTerms"`
}

// Mode selects which social flow a provider button triggers
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// Providers lists the social sign-in buttons shown on the forms
var Providers = []string{"Google", "Facebook"}

// Service runs the mock account flows
type Service struct {
	validate *validator.Validate
	latency  time.Duration
}

// NewService creates a service that waits latency before every success
func NewService(latency time.Duration) *Service {
	return &Service{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		latency:  latency,
	}
}

// Login validates the form and returns a logged-in mock user
func (s *Service) Login(ctx context.Context, form LoginForm, d notify.Dispatcher) (models.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := s.validate.Struct(form); err != nil {
		notify.Error(ctx, d, MsgLoginFieldsRequired)
		return models.User{}, errors.Wrap(ErrMissingFields, describe(err))
	}

	if err := wait(ctx, s.latency); err != nil {
		return models.User{}, errors.Wrap(err, "login")
	}

	notify.Success(ctx, d, MsgLoggedIn)
	return models.User{
		ID:         uuid.NewString(),
		Name:       nameFromEmail(form.Email),
		Email:      form.Email,
		IsLoggedIn: true,
	}, nil
}

// Register validates the form and returns the newly "created" mock user
func (s *Service) Register(ctx context.Context, form RegisterForm, d notify.Dispatcher) (models.User, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if err := s.validate.Struct(form); err != nil {
		notify.Error(ctx, d, MsgRegisterFieldsRequired)
		return models.User{}, errors.Wrap(ErrMissingFields, describe(err))
	}
	if !form.AcceptTerms {
		notify.Error(ctx, d, MsgAcceptTerms)
		return models.User{}, ErrTermsNotAccepted
	}

	if err := wait(ctx, s.latency); err != nil {
		return models.User{}, errors.Wrap(err, "register")
	}

	notify.Success(ctx, d, MsgRegistered)
	return models.User{
		ID:          uuid.NewString(),
		Name:        form.Name,
		Email:       form.Email,
		IsLoggedIn:  true,
		IsWholesale: form.IsWholesale,
	}, nil
}

// Social signs in or registers through a third-party provider button
func (s *Service) Social(ctx context.Context, provider string, mode Mode, d notify.Dispatcher) (models.User, error) {
	name, ok := lookupProvider(provider)
	if !ok {
		return models.User{}, errors.Wrapf(ErrUnknownProvider, "%q", provider)
	}

	var msg string
	switch mode {
	case ModeLogin, "":
		msg = fmt.Sprintf("Logged in with %s", name)
	case ModeRegister:
		msg = fmt.Sprintf("Registered with %s", name)
	default:
		return models.User{}, errors.Wrapf(ErrUnknownMode, "%q", mode)
	}

	if err := wait(ctx, s.latency); err != nil {
		return models.User{}, errors.Wrap(err, "social sign-in")
	}

	notify.Success(ctx, d, msg)
	user := models.GuestUser()
	user.ID = uuid.NewString()
	user.IsLoggedIn = true
	return user, nil
}

func lookupProvider(provider string) (string, bool) {
	for _, p := range Providers {
		if strings.EqualFold(p, provider) {
			return p, true
		}
	}
	return "", false
}

func nameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

// describe lists the failing fields of a validation error
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return strings.Join(fields, ", ")
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
