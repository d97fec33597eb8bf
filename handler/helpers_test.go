package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	models "github.com/sarathradhan/social-media-app/model"
	"github.com/sarathradhan/social-media-app/session"
	"github.com/sarathradhan/social-media-app/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	sessions *session.MemoryStore
	state    *fakeState
	uploads  *storage.FileStore
	avatars  *storage.FileStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	state := newFakeState()
	sessions := session.NewMemoryStore()

	uploads, err := storage.NewFileStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("failed to create upload store: %v", err)
	}
	avatars, err := storage.NewFileStore(t.TempDir(), "/avatars")
	if err != nil {
		t.Fatalf("failed to create avatar store: %v", err)
	}

	router := NewRouter(RouterConfig{
		Sessions: sessions,
		Users:    &fakeUsers{state},
		Posts:    &fakePosts{state},
		Likes:    &fakeLikes{state},
		Follows:  &fakeFollows{state},
		Uploads:  uploads,
		Avatars:  avatars,
	})

	return &testEnv{
		router:   router,
		sessions: sessions,
		state:    state,
		uploads:  uploads,
		avatars:  avatars,
	}
}

// login creates a user and a live session for it, returning the user and the
// session cookie value.
func (e *testEnv) login(t *testing.T, username string) (models.User, string) {
	t.Helper()

	user := e.state.addUser(username)
	id, err := e.sessions.Create(context.Background(), &session.Session{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return user, id
}

func (e *testEnv) do(t *testing.T, method, path, cookie string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(t *testing.T, path, cookie string) *httptest.ResponseRecorder {
	return e.do(t, http.MethodGet, path, cookie, nil, "")
}

func (e *testEnv) postForm(t *testing.T, path, cookie string, form url.Values) *httptest.ResponseRecorder {
	return e.do(t, http.MethodPost, path, cookie, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// postMultipart builds a multipart body from fields plus an optional single
// file part.
func (e *testEnv) postMultipart(t *testing.T, path, cookie string, fields map[string]string, fileField, fileName string, fileContent []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("failed to write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	return e.do(t, http.MethodPost, path, cookie, &buf, mw.FormDataContentType())
}

func newRecorder(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d (body %q)", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}
