package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hirementis/hirementis/internal/app"
	iauth "github.com/hirementis/hirementis/internal/auth"
	"github.com/hirementis/hirementis/internal/database/testutil"
	"github.com/hirementis/hirementis/pkg/mail"
)

type nopMailer struct{}

func (nopMailer) Send(ctx context.Context, msg mail.Message) error { return nil }

func TestNewRouterRequiresDependencies(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	sessions, err := iauth.NewSessionService(iauth.SessionConfig{
		Secret: "router-test-secret",
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	cfg := &app.Config{}

	_, err = NewRouter(Deps{Sessions: sessions, Mailer: nopMailer{}, Config: cfg})
	require.Error(t, err)

	_, err = NewRouter(Deps{DB: db, Mailer: nopMailer{}, Config: cfg})
	require.Error(t, err)

	_, err = NewRouter(Deps{DB: db, Sessions: sessions, Config: cfg})
	require.Error(t, err)

	_, err = NewRouter(Deps{DB: db, Sessions: sessions, Mailer: nopMailer{}})
	require.Error(t, err)

	router, err := NewRouter(Deps{DB: db, Sessions: sessions, Mailer: nopMailer{}, Config: cfg})
	require.NoError(t, err)
	require.NotNil(t, router)
}
