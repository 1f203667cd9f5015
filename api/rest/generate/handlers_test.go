package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixelforge/server/internal/auth"
	"codeberg.org/pixelforge/server/internal/clock"
	"codeberg.org/pixelforge/server/internal/imagen"
	"codeberg.org/pixelforge/server/pixelforge/accounts"
	"codeberg.org/pixelforge/server/pixelforge/ledger"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
)

// canned generator so handler tests never touch the image provider
type stubGenerator struct {
	err   error
	calls int
}

func (s *stubGenerator) Generate(_ context.Context, _ imagen.GenerationRequest) (*imagen.GenerationResponse, error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	return &imagen.GenerationResponse{
		ImageBase64: "aW1hZ2U=",
		Model:       "gpt-image-1",
	}, nil
}

func (s *stubGenerator) Remix(_ context.Context, _ imagen.RemixRequest) (*imagen.GenerationResponse, error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	return &imagen.GenerationResponse{
		ImageBase64: "cmVtaXg=",
		Model:       "gpt-image-1",
	}, nil
}

type testServer struct {
	router    *gin.Engine
	engine    *limiter.Engine
	accounts  *accounts.Memory
	generator *stubGenerator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	t.Setenv("JWT_SECRET", "handler-test-secret")
	gin.SetMode(gin.TestMode)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, loc)
	nowFn := func() time.Time { return now }

	clk, err := clock.NewWithNow("America/New_York", nowFn)
	require.NoError(t, err)

	s := &testServer{
		accounts:  accounts.NewMemory(),
		generator: &stubGenerator{},
	}

	s.engine = limiter.New(limiter.DefaultConfig(), s.accounts, ledger.NewMemoryWithNow(nowFn), clk)

	s.router = gin.New()
	RegisterRoutes(s.router.Group("/api/v1"), s.engine, s.generator)

	return s
}

func (s *testServer) post(t *testing.T, path, token, remoteAddr string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	return w
}

func TestGenerateHandler_AuthenticatedSpend(t *testing.T) {
	s := newTestServer(t)
	s.accounts.CreateAccount("acct-1", 50)

	token, err := auth.GenerateJWT("acct-1", "user@pixelforge.dev", false)
	require.NoError(t, err)

	w := s.post(t, "/api/v1/generate", token, "203.0.113.9:40000", Request{Prompt: "a fox in watercolor"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "aW1hZ2U=", resp.Image)
	assert.Equal(t, "gpt-image-1", resp.Model)

	require.NotNil(t, resp.Decision)
	assert.True(t, resp.Decision.Allowed)
	assert.Equal(t, 5, resp.Decision.Cost)
	assert.Equal(t, 45, resp.Decision.Remaining)
	assert.Equal(t, 1, s.generator.calls)
}

func TestGenerateHandler_InsufficientCredits(t *testing.T) {
	s := newTestServer(t)
	s.accounts.CreateAccount("acct-broke", 3)

	token, err := auth.GenerateJWT("acct-broke", "broke@pixelforge.dev", false)
	require.NoError(t, err)

	w := s.post(t, "/api/v1/generate", token, "203.0.113.9:40000", Request{Prompt: "a fox"})
	require.Equal(t, http.StatusPaymentRequired, w.Code)

	var resp DeniedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, limiter.ReasonInsufficientCredits, resp.Error)

	require.NotNil(t, resp.Decision)
	assert.False(t, resp.Decision.Allowed)
	assert.Equal(t, 5, resp.Decision.Required)
	assert.Equal(t, 3, resp.Decision.Available)

	// a denied request never reaches the provider
	assert.Equal(t, 0, s.generator.calls)
}

func TestGenerateHandler_AnonymousDailyLimit(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 3; i++ {
		w := s.post(t, "/api/v1/generate", "", "203.0.113.9:40000", Request{Prompt: fmt.Sprintf("sketch %d", i)})
		require.Equal(t, http.StatusOK, w.Code, "attempt %d should be free", i+1)
	}

	w := s.post(t, "/api/v1/generate", "", "203.0.113.9:40000", Request{Prompt: "one more"})
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp DeniedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, limiter.ReasonAnonymousLimitReached, resp.Error)

	require.NotNil(t, resp.Decision)
	assert.Equal(t, 3, resp.Decision.Used)
	assert.Equal(t, 3, resp.Decision.Limit)
	assert.False(t, resp.Decision.ResetAt.IsZero())
	assert.Equal(t, 3, s.generator.calls)

	// a different address has its own allowance
	w = s.post(t, "/api/v1/generate", "", "198.51.100.7:40000", Request{Prompt: "fresh client"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateHandler_ValidationFailure(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, "/api/v1/generate", "", "203.0.113.9:40000", Request{Prompt: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.post(t, "/api/v1/generate", "", "203.0.113.9:40000", Request{Prompt: "ok", Size: "800x600"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// malformed requests must not consume free attempts
	w = s.post(t, "/api/v1/generate", "", "203.0.113.9:40000", Request{Prompt: "real one"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Decision.Used)
}

func TestGenerateHandler_ProviderFailureAfterSpend(t *testing.T) {
	s := newTestServer(t)
	s.accounts.CreateAccount("acct-1", 50)
	s.generator.err = errors.New("upstream timeout")

	token, err := auth.GenerateJWT("acct-1", "user@pixelforge.dev", false)
	require.NoError(t, err)

	w := s.post(t, "/api/v1/generate", token, "203.0.113.9:40000", Request{Prompt: "a fox"})
	require.Equal(t, http.StatusBadGateway, w.Code)

	// the spend stays committed so the ledger reflects what happened
	balance, err := s.accounts.GetBalance(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, 45, balance)
}

func TestRemixHandler(t *testing.T) {
	s := newTestServer(t)
	s.accounts.CreateAccount("acct-1", 10)

	token, err := auth.GenerateJWT("acct-1", "user@pixelforge.dev", false)
	require.NoError(t, err)

	source := base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	w := s.post(t, "/api/v1/generate/remix", token, "203.0.113.9:40000", RemixRequest{
		Prompt:      "make it neon",
		SourceImage: source,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cmVtaXg=", resp.Image)
	assert.Equal(t, 5, resp.Decision.Remaining)
}

func TestRemixHandler_BadSourceImage(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, "/api/v1/generate/remix", "", "203.0.113.9:40000", RemixRequest{
		Prompt:      "make it neon",
		SourceImage: "not base64!!",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, s.generator.calls)
}
