package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token() string { return s.token }

func TestRequest_AttachesBearerAndAcceptHeaders(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokenSource(staticTokens{token: "tok123"})

	if _, err := NewItemsAPI(c).List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("expected Authorization 'Bearer tok123', got '%s'", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("expected Accept 'application/json', got '%s'", gotAccept)
	}
}

func TestRequest_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth string
	hasAuth := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := NewItemsAPI(c).List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hasAuth {
		t.Errorf("expected no Authorization header, got '%s'", gotAuth)
	}
}

func TestRequest_SetsContentTypeForBody(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"access_token":"tok123","token_type":"bearer"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	input := LoginInput{Email: "a@b.com", Password: "secret1"}
	if _, err := NewAuthAPI(c).Login(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got '%s'", gotContentType)
	}
}

func TestDelete_NoContentSkipsBodyParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Delete(context.Background(), "/items/42"); err != nil {
		t.Fatalf("expected nil error for 204, got %v", err)
	}
}

func TestAPIError_DetailMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"name already taken"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/items", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", apiErr.Status)
	}
	if apiErr.Message != "name already taken" {
		t.Errorf("expected detail message, got '%s'", apiErr.Message)
	}
	if apiErr.Payload == nil {
		t.Error("expected raw payload to be kept")
	}
}

func TestAPIError_NonJSONBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>boom</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/items", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "Internal Server Error" {
		t.Errorf("expected status text fallback, got '%s'", apiErr.Message)
	}
	if apiErr.Payload != nil {
		t.Error("expected nil payload for non-JSON error body")
	}
}

func TestAPIError_DetailNotAString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","name"]}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/items", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "Unprocessable Entity" {
		t.Errorf("expected status text fallback, got '%s'", apiErr.Message)
	}
}

func TestResponseValidation_RejectsBadContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// role outside the closed enumeration
		w.Write([]byte(`{"id":"6e2f8f4e-9f1c-4e0a-a6c3-0d9f4e2b8a11","email":"a@b.com","role":"root","created_at":"2024-01-02T03:04:05Z"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := NewAuthAPI(c).CurrentUser(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestResponseValidation_RejectsUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"not-a-uuid"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := NewAuthAPI(c).CurrentUser(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

// flakyTransport fails the first request and passes the rest through.
type flakyTransport struct {
	attempts int
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.attempts++
	if f.attempts == 1 {
		return nil, errors.New("connection reset")
	}
	return http.DefaultTransport.RoundTrip(req)
}

func TestTransportFailure_RetriedExactlyOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	ft := &flakyTransport{}
	c := New(srv.URL, WithHTTPClient(&http.Client{Transport: ft}))

	if _, err := NewItemsAPI(c).List(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if ft.attempts != 2 {
		t.Errorf("expected 2 transport attempts, got %d", ft.attempts)
	}
}

func TestTransportFailure_SecondFailureSurfaces(t *testing.T) {
	c := New("http://127.0.0.1:1") // nothing listens here
	_, err := NewItemsAPI(c).List(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure must not be an APIError, got %v", apiErr)
	}
}

func TestAuthFailure_CallbackOnUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	defer srv.Close()

	var gotStatus int
	c := New(srv.URL)
	c.SetTokenSource(staticTokens{token: "stale"})
	c.SetAuthFailureHandler(func(status int) { gotStatus = status })

	if _, err := NewItemsAPI(c).List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if gotStatus != http.StatusUnauthorized {
		t.Errorf("expected callback with 401, got %d", gotStatus)
	}
}

func TestTransportFailure_MutationNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("a failed mutation must not reach the server again")
	}))
	defer srv.Close()

	ft := &flakyTransport{}
	c := New(srv.URL, WithHTTPClient(&http.Client{Transport: ft}))

	_, err := NewItemsAPI(c).Create(context.Background(), CreateItemInput{Name: "first"})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if ft.attempts != 1 {
		t.Errorf("expected 1 transport attempt for POST, got %d", ft.attempts)
	}
}

func TestLogin_HeldCredentialNeverAttached(t *testing.T) {
	hasAuth := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	}))
	defer srv.Close()

	called := false
	c := New(srv.URL)
	c.SetTokenSource(staticTokens{token: "tok-held"})
	c.SetAuthFailureHandler(func(int) { called = true })

	input := LoginInput{Email: "a@b.com", Password: "wrong-password"}
	_, err := NewAuthAPI(c).Login(context.Background(), input)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if hasAuth {
		t.Error("login request must not carry the held bearer credential")
	}
	if called {
		t.Error("a rejected login must not invalidate the held credential")
	}
}

func TestAuthFailure_NoCallbackWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	called := false
	c := New(srv.URL)
	c.SetAuthFailureHandler(func(int) { called = true })

	input := LoginInput{Email: "a@b.com", Password: "wrong-password"}
	if _, err := NewAuthAPI(c).Login(context.Background(), input); err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Error("auth failure callback must not fire for unauthenticated requests")
	}
}

func TestClient_SendsCookies(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "abc"})
			w.Write([]byte("[]"))
			return
		}
		if c, err := r.Cookie("csrftoken"); err != nil || c.Value != "abc" {
			t.Errorf("expected csrftoken cookie on second request")
		}
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	items := NewItemsAPI(c)
	if _, err := items.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := items.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
