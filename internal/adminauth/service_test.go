package adminauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/maplewick/storefront/internal/commerce"
	"github.com/maplewick/storefront/internal/session"
)

type fakeAuthAPI struct {
	mu sync.Mutex

	loginResult *commerce.LoginResult
	loginErr    error
	logoutErr   error
	logoutCalls int
	verifyValid bool
	verifyErr   error
	verifyCalls int
}

func (f *fakeAuthAPI) Login(ctx context.Context, input commerce.LoginInput) (*commerce.LoginResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuthAPI) Logout(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAuthAPI) Verify(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	return f.verifyValid, f.verifyErr
}

func (f *fakeAuthAPI) verifyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verifyCalls
}

const testSigningSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T, api *fakeAuthAPI) (*Service, *session.Manager) {
	t.Helper()
	manager := session.NewManager(session.NewMemoryStore(), testSigningSecret, false)
	svc, err := NewService(api, manager, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(svc.Close)
	return svc, manager
}

func loginResult() *commerce.LoginResult {
	return &commerce.LoginResult{
		Admin: commerce.Admin{
			ID:          "adm_1",
			Name:        "Robin",
			Email:       "robin@maplewick.com",
			Permissions: []string{"orders:read"},
		},
		Token:     "bearer-token",
		ExpiresIn: 3600,
	}
}

func TestLoginOpensSession(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginResult: loginResult(), verifyValid: true}
	svc, _ := newTestService(t, api)
	recorder := httptest.NewRecorder()

	sess, err := svc.Login(context.Background(), recorder, "robin@maplewick.com", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.Token != "bearer-token" {
		t.Fatalf("Login() token = %q", sess.Token)
	}
	if !svc.HasPendingExpiry(sess.ID) {
		t.Fatalf("expected an armed expiry timer after login")
	}
	if len(recorder.Result().Cookies()) != 1 {
		t.Fatalf("expected session cookie to be set")
	}
	if !sess.HasPermission("orders:read") {
		t.Fatalf("expected granted permission to hold")
	}
}

func TestLoginFailurePropagates(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginErr: &commerce.APIError{StatusCode: http.StatusUnauthorized, Message: "bad credentials"}}
	svc, _ := newTestService(t, api)
	recorder := httptest.NewRecorder()

	if _, err := svc.Login(context.Background(), recorder, "robin@maplewick.com", "wrong"); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if len(recorder.Result().Cookies()) != 0 {
		t.Fatalf("failed login must not set a cookie")
	}
}

func TestLogoutClearsStateEvenWhenUpstreamFails(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginResult: loginResult(), logoutErr: errors.New("upstream down"), verifyValid: true}
	svc, manager := newTestService(t, api)
	recorder := httptest.NewRecorder()

	sess, err := svc.Login(context.Background(), recorder, "robin@maplewick.com", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	cookie := recorder.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	req.AddCookie(cookie)
	logoutRecorder := httptest.NewRecorder()

	if err := svc.Logout(context.Background(), logoutRecorder, req); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if svc.HasPendingExpiry(sess.ID) {
		t.Fatalf("expiry timers must be cancelled on logout")
	}
	if _, ok := manager.Get(context.Background(), sess.ID); ok {
		t.Fatalf("session must be gone after logout")
	}
}

func TestResumeExpiredSession(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginResult: loginResult(), verifyValid: true}
	svc, manager := newTestService(t, api)

	recorder := httptest.NewRecorder()
	data := &session.Data{
		AdminID:   "adm_1",
		Token:     "bearer-token",
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	}
	sessionID, err := manager.CreateSession(context.Background(), recorder, data)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	_ = sessionID
	cookie := recorder.Result().Cookies()[0]

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.AddCookie(cookie)

	if _, err := svc.Resume(context.Background(), req); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Resume() error = %v, want ErrSessionExpired", err)
	}
}

func TestResumeThrottlesBackgroundVerification(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{verifyValid: true}
	svc, manager := newTestService(t, api)

	recorder := httptest.NewRecorder()
	data := &session.Data{
		AdminID:   "adm_1",
		Token:     "bearer-token",
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	}
	if _, err := manager.CreateSession(context.Background(), recorder, data); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	cookie := recorder.Result().Cookies()[0]

	newRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		req.AddCookie(cookie)
		return req
	}

	for i := 0; i < 5; i++ {
		if _, err := svc.Resume(context.Background(), newRequest()); err != nil {
			t.Fatalf("Resume() error = %v", err)
		}
	}

	deadline := time.After(2 * time.Second)
	for api.verifyCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("background verification never ran")
		case <-time.After(time.Millisecond):
		}
	}
	time.Sleep(50 * time.Millisecond)
	if got := api.verifyCount(); got != 1 {
		t.Fatalf("verify called %d times for a burst of resumes, want 1", got)
	}

	// Once the interval has elapsed, the next resume verifies again.
	svc.now = func() time.Time { return time.Now().Add(verifyInterval + time.Second) }
	if _, err := svc.Resume(context.Background(), newRequest()); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	deadline = time.After(2 * time.Second)
	for api.verifyCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("verification did not resume after the interval elapsed")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestVerifyClearsSessionOnlyOnExplicitInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		verifyValid bool
		verifyErr   error
		wantKept    bool
	}{
		{
			name:        "explicit invalid clears session",
			verifyValid: false,
			wantKept:    false,
		},
		{
			name:      "verification error keeps session",
			verifyErr: &commerce.APIError{Message: "connection refused"},
			wantKept:  true,
		},
		{
			name:        "valid token keeps session",
			verifyValid: true,
			wantKept:    true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAuthAPI{loginResult: loginResult(), verifyValid: tc.verifyValid, verifyErr: tc.verifyErr}
			svc, manager := newTestService(t, api)
			recorder := httptest.NewRecorder()

			sess, err := svc.Login(context.Background(), recorder, "robin@maplewick.com", "pw")
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}

			svc.verifySession(context.Background(), sess.ID, sess.Token)

			_, kept := manager.Get(context.Background(), sess.ID)
			if kept != tc.wantKept {
				t.Fatalf("session kept = %v, want %v", kept, tc.wantKept)
			}
		})
	}
}

func TestHasPermission(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		sess        *Session
		permission  string
		want        bool
	}{
		{
			name:       "nil session",
			sess:       nil,
			permission: "orders:read",
			want:       false,
		},
		{
			name:       "granted permission",
			sess:       &Session{Admin: commerce.Admin{Permissions: []string{"orders:read"}}},
			permission: "orders:read",
			want:       true,
		},
		{
			name:       "missing permission",
			sess:       &Session{Admin: commerce.Admin{Permissions: []string{"orders:read"}}},
			permission: "products:write",
			want:       false,
		},
		{
			name:       "wildcard grants everything",
			sess:       &Session{Admin: commerce.Admin{Permissions: []string{"*"}}},
			permission: "products:write",
			want:       true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.sess.HasPermission(tc.permission); got != tc.want {
				t.Fatalf("HasPermission(%q) = %v, want %v", tc.permission, got, tc.want)
			}
		})
	}
}
