package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/fitness-wizard/internal/domain/bonus"
	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	"github.com/yanqian/fitness-wizard/internal/domain/wizard"
	"github.com/yanqian/fitness-wizard/internal/infra/config"
	apperrors "github.com/yanqian/fitness-wizard/pkg/errors"
)

func TestRouter_GeneratePlanSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubWizard{
		generateFn: func(_ context.Context, req wizard.Request) (wizard.Response, error) {
			require.Equal(t, "Jane", req.Name)
			require.Equal(t, plan.TimelineThreeMonths, req.Timeline)
			require.True(t, req.Want.PDF)
			require.InDelta(t, 70, req.Weight.Value, 0.001)
			require.Equal(t, "req-abc", req.RequestID)
			return wizard.Response{Success: true, RequestID: req.RequestID, IsBonusEligible: true, BonusStatus: "queued", PDFURL: "data:application/pdf;base64,JVBERi0="}, nil
		},
	}

	body := `{"name":"Jane","email":"jane@example.com","weight":"70","timeline":"3_months","want":{"pdf":true,"email":false}}`
	rec := performRequest(http.MethodPost, "/api/generate-plan", body, map[string]string{"X-Request-ID": "req-abc"}, newRouterUnderTest(t, svc, &stubBonus{}, false))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "req-abc", rec.Header().Get("X-Request-ID"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, true, got["success"])
	require.Equal(t, true, got["isBonusEligible"])
	require.Equal(t, "queued", got["bonusStatus"])
	require.Equal(t, "data:application/pdf;base64,JVBERi0=", got["pdfUrl"])
}

func TestRouter_GeneratePlanErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		err         error
		dev         bool
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails bool
	}{
		{
			name:        "malformed body",
			body:        `{"name":`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "invalid_input",
			wantMessage: "Invalid request body",
		},
		{
			name:        "validation error",
			body:        `{"name":"Jane"}`,
			err:         apperrors.Wrap(apperrors.CodeInvalidInput, "Name and email are required", plan.ErrMissingIdentity),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "invalid_input",
			wantMessage: "Name and email are required",
		},
		{
			name:        "provider failure hides details in production",
			body:        `{"name":"Jane","email":"jane@example.com"}`,
			err:         apperrors.Wrap(apperrors.CodeLLM, "Failed to generate plan", errors.New("upstream 503")),
			wantStatus:  http.StatusBadGateway,
			wantCode:    "llm_error",
			wantMessage: "Failed to generate plan",
		},
		{
			name:        "provider failure shows details in development",
			body:        `{"name":"Jane","email":"jane@example.com"}`,
			err:         apperrors.Wrap(apperrors.CodeLLM, "Failed to generate plan", errors.New("upstream 503")),
			dev:         true,
			wantStatus:  http.StatusBadGateway,
			wantCode:    "llm_error",
			wantMessage: "Failed to generate plan",
			wantDetails: true,
		},
		{
			name:        "render failure",
			body:        `{"name":"Jane","email":"jane@example.com"}`,
			err:         apperrors.Wrap(apperrors.CodeRender, "Failed to generate PDF", errors.New("font")),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "render_error",
			wantMessage: "Failed to generate PDF",
		},
		{
			name:        "unexpected error",
			body:        `{"name":"Jane","email":"jane@example.com"}`,
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "internal_error",
			wantMessage: "Failed to generate plan",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &stubWizard{
				generateFn: func(context.Context, wizard.Request) (wizard.Response, error) {
					return wizard.Response{}, tc.err
				},
			}
			rec := performRequest(http.MethodPost, "/api/generate-plan", tc.body, nil, newRouterUnderTest(t, svc, &stubBonus{}, tc.dev))
			require.Equal(t, tc.wantStatus, rec.Code)

			errBody := decodeErrorBody(t, rec.Body.Bytes())
			require.Equal(t, false, errBody["success"])
			require.Equal(t, tc.wantCode, errBody["code"])
			require.Equal(t, tc.wantMessage, errBody["error"])
			_, hasDetails := errBody["details"]
			require.Equal(t, tc.wantDetails, hasDetails)
		})
	}
}

func TestRouter_GenerateBonus(t *testing.T) {
	t.Parallel()

	bonusSvc := &stubBonus{
		generateFn: func(_ context.Context, req bonus.Request) (bonus.Response, error) {
			require.Equal(t, bonus.SourceClient, req.Source)
			require.Equal(t, "jane@example.com", req.FormData.Email)
			require.True(t, req.FormData.Want.Email)
			require.Equal(t, "tok", req.Token)
			return bonus.Response{Success: true, Message: "Bonus roadmap sent"}, nil
		},
	}
	body := `{"formData":{"name":"Jane","email":"jane@example.com","timeline":"6_months","want":{"email":true}},"bonusToken":"tok"}`
	rec := performRequest(http.MethodPost, "/api/generate-bonus", body, nil, newRouterUnderTest(t, &stubWizard{}, bonusSvc, false))
	require.Equal(t, http.StatusOK, rec.Code)

	var got bonus.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Success)
	require.Equal(t, "Bonus roadmap sent", got.Message)
}

func TestRouter_GenerateBonusUnauthorized(t *testing.T) {
	t.Parallel()

	bonusSvc := &stubBonus{
		generateFn: func(context.Context, bonus.Request) (bonus.Response, error) {
			return bonus.Response{}, apperrors.Wrap(apperrors.CodeUnauthorized, "Invalid bonus token", nil)
		},
	}
	body := `{"formData":{"name":"Jane","email":"jane@example.com","timeline":"6_months"}}`
	rec := performRequest(http.MethodPost, "/api/generate-bonus", body, nil, newRouterUnderTest(t, &stubWizard{}, bonusSvc, false))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", decodeErrorBody(t, rec.Body.Bytes())["code"])
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	rec := performRequest(http.MethodGet, "/healthz", "", nil, newRouterUnderTest(t, &stubWizard{}, &stubBonus{}, false))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	cfg := testConfig(false)
	cfg.HTTP.AllowedOrigins = []string{"https://ramafit.xyz"}
	server := NewRouter(cfg, NewHandler(&stubWizard{}, &stubBonus{}, newTestLogger()))
	rec := performRequest(http.MethodOptions, "/api/generate-plan", "", map[string]string{
		"Origin":                        "https://ramafit.xyz",
		"Access-Control-Request-Method": "POST",
	}, server)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://ramafit.xyz", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig(false)
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	svc := &stubWizard{
		generateFn: func(context.Context, wizard.Request) (wizard.Response, error) {
			return wizard.Response{Success: true}, nil
		},
	}
	server := NewRouter(cfg, NewHandler(svc, &stubBonus{}, newTestLogger()))

	body := `{"name":"Jane","email":"jane@example.com"}`
	require.Equal(t, http.StatusOK, performRequest(http.MethodPost, "/api/generate-plan", body, nil, server).Code)
	rec := performRequest(http.MethodPost, "/api/generate-plan", body, nil, server)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, rec.Body.Bytes())["code"])

	// health checks are not limited
	require.Equal(t, http.StatusOK, performRequest(http.MethodGet, "/healthz", "", nil, server).Code)
}

func TestIPRateLimiterRefills(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2})
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.allow("1.1.1.1"))
	require.True(t, limiter.allow("1.1.1.1"))
	require.False(t, limiter.allow("1.1.1.1"))
	require.True(t, limiter.allow("2.2.2.2"))

	now = now.Add(time.Second)
	require.True(t, limiter.allow("1.1.1.1"))
	require.False(t, limiter.allow("1.1.1.1"))
}

func performRequest(method, path, body string, headers map[string]string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func testConfig(dev bool) *config.Config {
	env := "production"
	if dev {
		env = "development"
	}
	return &config.Config{
		App: config.AppConfig{Name: "fitness-wizard", Env: env},
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
}

func newRouterUnderTest(t *testing.T, wizardSvc wizard.Service, bonusSvc bonus.Service, dev bool) *http.Server {
	t.Helper()
	return NewRouter(testConfig(dev), NewHandler(wizardSvc, bonusSvc, newTestLogger()))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubWizard struct {
	generateFn func(ctx context.Context, req wizard.Request) (wizard.Response, error)
}

func (s *stubWizard) GeneratePlan(ctx context.Context, req wizard.Request) (wizard.Response, error) {
	if s.generateFn != nil {
		return s.generateFn(ctx, req)
	}
	return wizard.Response{Success: true}, nil
}

type stubBonus struct {
	generateFn func(ctx context.Context, req bonus.Request) (bonus.Response, error)
}

func (s *stubBonus) Generate(ctx context.Context, req bonus.Request) (bonus.Response, error) {
	if s.generateFn != nil {
		return s.generateFn(ctx, req)
	}
	return bonus.Response{Success: true}, nil
}

func (s *stubBonus) HandleJob(context.Context, string, json.RawMessage) error { return nil }

func (s *stubBonus) IssueToken(plan.Profile) (string, error) { return "", nil }

func decodeErrorBody(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
