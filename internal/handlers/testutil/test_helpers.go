package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hirementis/hirementis/internal/api"
	"github.com/hirementis/hirementis/internal/app"
	iauth "github.com/hirementis/hirementis/internal/auth"
	sharedtestutil "github.com/hirementis/hirementis/internal/database/testutil"
	"github.com/hirementis/hirementis/internal/middleware"
	"github.com/hirementis/hirementis/internal/models"
	"github.com/hirementis/hirementis/internal/storage"
	"github.com/hirementis/hirementis/pkg/crypto"
	"github.com/hirementis/hirementis/pkg/mail"
)

// CapturingMailer records outbound messages so tests can read delivered codes.
type CapturingMailer struct {
	mu       sync.Mutex
	Messages []mail.Message
	Err      error
}

func (m *CapturingMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{4}\b`)

// LastCode extracts the four digit code from the most recent message body.
func (m *CapturingMailer) LastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.Messages, "no OTP email was delivered")
	code := codePattern.FindString(m.Messages[len(m.Messages)-1].Body)
	require.NotEmpty(t, code, "OTP email did not contain a code")
	return code
}

// Env encapsulates a fully-wired API instance backed by an in-memory database
// for handler tests.
type Env struct {
	T        *testing.T
	DB       *gorm.DB
	Router   *gin.Engine
	Sessions *iauth.SessionService
	Mailer   *CapturingMailer
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithAutoMigrate())

	sessions, err := iauth.NewSessionService(iauth.SessionConfig{
		Secret: "test-suite-super-secret-key-32-bytes!!",
		Issuer: "test-suite",
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	mailer := &CapturingMailer{}

	avatars, err := storage.NewDiskStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	cfg := &app.Config{
		Frontend: app.FrontendConfig{Origin: "http://localhost:5173"},
		Uploads:  app.UploadsConfig{Dir: "", BaseURL: "/uploads"},
	}

	router, err := api.NewRouter(api.Deps{
		DB:        db,
		Sessions:  sessions,
		Mailer:    mailer,
		Avatars:   avatars,
		RateStore: middleware.NewMemoryRateStore(),
		Config:    cfg,
	})
	require.NoError(t, err)

	return &Env{
		T:        t,
		DB:       db,
		Router:   router,
		Sessions: sessions,
		Mailer:   mailer,
	}
}

// CreateUser inserts an account with a hashed password and returns it.
func (e *Env) CreateUser(email, password string) *models.User {
	e.T.Helper()

	hashed, err := crypto.HashPassword(password)
	require.NoError(e.T, err)

	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  hashed,
	}
	require.NoError(e.T, e.DB.Create(user).Error)
	return user
}

// CreateAdmin inserts an account flagged as administrator.
func (e *Env) CreateAdmin(email, password string) *models.User {
	e.T.Helper()

	user := e.CreateUser(email, password)
	require.NoError(e.T, e.DB.Model(user).Update("is_admin", true).Error)
	user.IsAdmin = true
	return user
}

// SessionCookie issues a valid session cookie for the given account.
func (e *Env) SessionCookie(userID string) *http.Cookie {
	e.T.Helper()

	token, err := e.Sessions.Issue(userID)
	require.NoError(e.T, err)
	return &http.Cookie{Name: iauth.CookieName, Value: token}
}

// Request executes an HTTP request against the test router with JSON encoding
// and the supplied cookies applied.
func (e *Env) Request(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		if cookie != nil {
			req.AddCookie(cookie)
		}
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// DecodeBody parses the flat JSON payload returned by handlers.
func DecodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload), w.Body.String())
	return payload
}

// MessageOf returns the message field of a response body.
func MessageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	payload := DecodeBody(t, w)
	var message string
	require.NoError(t, json.Unmarshal(payload["message"], &message), w.Body.String())
	return message
}

// DecodeInto unmarshals a payload field into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// SessionCookieFrom extracts the session cookie set by a response, if any.
func SessionCookieFrom(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == iauth.CookieName {
			return cookie
		}
	}
	return nil
}
