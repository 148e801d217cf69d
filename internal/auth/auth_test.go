package auth

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
)

func lastMessage(t *testing.T, c *notify.Collector) notify.Notification {
	t.Helper()
	n, ok := c.Last()
	require.True(t, ok, "expected a notification")
	return n
}

func TestLogin(t *testing.T) {
	svc := NewService(0)

	t.Run("missing fields", func(t *testing.T) {
		forms := []LoginForm{
			{},
			{Email: "a@b.c"},
			{Password: "secret"},
			{Email: "   ", Password: "secret"},
		}
		for _, form := range forms {
			c := notify.NewCollector()
			_, err := svc.Login(context.Background(), form, c)
			assert.True(t, errors.Is(err, ErrMissingFields), "form %+v: %v", form, err)
			assert.Equal(t, notify.Notification{Level: notify.LevelError, Message: MsgLoginFieldsRequired}, lastMessage(t, c))
		}
	})

	t.Run("success", func(t *testing.T) {
		c := notify.NewCollector()
		user, err := svc.Login(context.Background(), LoginForm{Email: " asha@example.com ", Password: "pw"}, c)
		require.NoError(t, err)

		assert.True(t, user.IsLoggedIn)
		assert.False(t, user.IsWholesale)
		assert.Equal(t, "asha@example.com", user.Email)
		assert.Equal(t, "asha", user.Name)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, notify.Notification{Level: notify.LevelSuccess, Message: MsgLoggedIn}, lastMessage(t, c))
	})
}

func TestRegister(t *testing.T) {
	svc := NewService(0)
	valid := RegisterForm{Name: "Asha", Email: "asha@example.com", Password: "pw", AcceptTerms: true, IsWholesale: true}

	t.Run("missing fields", func(t *testing.T) {
		form := valid
		form.Name = ""
		c := notify.NewCollector()

		_, err := svc.Register(context.Background(), form, c)
		assert.True(t, errors.Is(err, ErrMissingFields))
		assert.Equal(t, MsgRegisterFieldsRequired, lastMessage(t, c).Message)
	})

	t.Run("terms not accepted", func(t *testing.T) {
		form := valid
		form.AcceptTerms = false
		c := notify.NewCollector()

		_, err := svc.Register(context.Background(), form, c)
		assert.True(t, errors.Is(err, ErrTermsNotAccepted))
		assert.Equal(t, MsgAcceptTerms, lastMessage(t, c).Message)
	})

	t.Run("missing fields are reported before terms", func(t *testing.T) {
		c := notify.NewCollector()
		_, err := svc.Register(context.Background(), RegisterForm{}, c)
		assert.True(t, errors.Is(err, ErrMissingFields))
		assert.Len(t, c.Notifications(), 1)
	})

	t.Run("success", func(t *testing.T) {
		c := notify.NewCollector()
		user, err := svc.Register(context.Background(), valid, c)
		require.NoError(t, err)

		assert.Equal(t, "Asha", user.Name)
		assert.True(t, user.IsLoggedIn)
		assert.True(t, user.IsWholesale)
		assert.Equal(t, notify.Notification{Level: notify.LevelSuccess, Message: MsgRegistered}, lastMessage(t, c))
	})
}

func TestSocial(t *testing.T) {
	svc := NewService(0)

	tests := []struct {
		provider string
		mode     Mode
		want     string
	}{
		{"Google", ModeLogin, "Logged in with Google"},
		{"google", "", "Logged in with Google"},
		{"Facebook", ModeRegister, "Registered with Facebook"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c := notify.NewCollector()
			user, err := svc.Social(context.Background(), tt.provider, tt.mode, c)
			require.NoError(t, err)
			assert.True(t, user.IsLoggedIn)
			assert.Equal(t, tt.want, lastMessage(t, c).Message)
		})
	}

	t.Run("unknown provider", func(t *testing.T) {
		_, err := svc.Social(context.Background(), "Myspace", ModeLogin, notify.Discard)
		assert.True(t, errors.Is(err, ErrUnknownProvider))
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := svc.Social(context.Background(), "Google", Mode("merge"), notify.Discard)
		assert.True(t, errors.Is(err, ErrUnknownMode))
	})
}

func TestSimulatedLatency(t *testing.T) {
	svc := NewService(25 * time.Millisecond)

	start := time.Now()
	_, err := svc.Login(context.Background(), LoginForm{Email: "a@b.c", Password: "pw"}, notify.Discard)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)

	t.Run("validation failures do not wait", func(t *testing.T) {
		slow := NewService(time.Minute)
		_, err := slow.Login(context.Background(), LoginForm{}, notify.Discard)
		assert.True(t, errors.Is(err, ErrMissingFields))
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		slow := NewService(time.Minute)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		c := notify.NewCollector()
		_, err := slow.Register(ctx, RegisterForm{Name: "a", Email: "b", Password: "c", AcceptTerms: true}, c)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.Empty(t, c.Notifications())
	})
}
