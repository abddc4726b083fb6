package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
)

type fakeChatter struct {
	result    orchestrator.Result
	err       error
	calls     int
	userID    string
	text      string
	requestID string
}

func (f *fakeChatter) HandleMessage(ctx context.Context, userID string, text string) (orchestrator.Result, error) {
	f.calls++
	f.userID = userID
	f.text = text
	f.requestID = orchestrator.RequestIDFromContext(ctx)
	return f.result, f.err
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	t.Parallel()

	chat := &fakeChatter{}
	rec := doRequest(t, NewServer(chat, Config{}).Handler(), http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody[map[string]string](t, rec))
	assert.Zero(t, chat.calls)
}

func TestChatValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed json", body: `{"userId":`, want: "invalid request body"},
		{name: "missing user", body: `{"message":"hi"}`, want: "userId is required"},
		{name: "blank user", body: `{"userId":"  ","message":"hi"}`, want: "userId is required"},
		{name: "missing message", body: `{"userId":"u1"}`, want: "message is required"},
		{name: "blank message", body: `{"userId":"u1","message":"\n\t"}`, want: "message is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			chat := &fakeChatter{}
			rec := doRequest(t, NewServer(chat, Config{}).Handler(), http.MethodPost, "/chat", tc.body, nil)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, decodeBody[ErrorResponse](t, rec).Error)
			assert.Zero(t, chat.calls)
		})
	}
}

func TestChatSuccess(t *testing.T) {
	t.Parallel()

	chat := &fakeChatter{result: orchestrator.Result{
		RequestID: "req-1",
		Answer:    "Policy POL-100005 is ACTIVE.",
		Steps:     2,
		Messages: contractx.Transcript{
			contractx.UserMessage("status?"),
			contractx.ToolMessage("get_policy", "call-1", `{"found":true}`),
			contractx.AssistantMessage("Policy POL-100005 is ACTIVE."),
		},
	}}
	rec := doRequest(t, NewServer(chat, Config{}).Handler(), http.MethodPost, "/chat",
		`{"userId":"user-7","message":"What is the status of policy POL-100005?"}`,
		map[string]string{"X-Request-Id": "trace-abc"},
	)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "trace-abc", rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "trace-abc", chat.requestID)
	assert.Equal(t, "user-7", chat.userID)
	assert.Equal(t, "What is the status of policy POL-100005?", chat.text)

	body := decodeBody[ChatResponse](t, rec)
	assert.Equal(t, "Policy POL-100005 is ACTIVE.", body.Answer)
	require.Len(t, body.Data.Messages, 3)
	assert.Equal(t, contractx.MessageTool, body.Data.Messages[1].Type)
	assert.Equal(t, "get_policy", body.Data.Messages[1].Name)
}

func TestChatEmptyTranscriptEncodesAsArray(t *testing.T) {
	t.Parallel()

	chat := &fakeChatter{result: orchestrator.Result{Answer: "hello"}}
	rec := doRequest(t, NewServer(chat, Config{}).Handler(), http.MethodPost, "/chat", `{"userId":"u1","message":"hi"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"messages":[]`)
}

func TestChatErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "store unavailable",
			err:        fmt.Errorf("tool=get_policy: %w: dial tcp: refused", contractx.ErrStoreUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    msgStoreUnavailable,
		},
		{
			name:       "timeout",
			err:        fmt.Errorf("step 3: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantMsg:    msgTimeout,
		},
		{
			name:       "max steps",
			err:        fmt.Errorf("%w: limit=8", contractx.ErrMaxSteps),
			wantStatus: http.StatusBadGateway,
			wantMsg:    msgUpstream,
		},
		{
			name:       "model failure",
			err:        fmt.Errorf("%w: step 1: 500", contractx.ErrModelInvoke),
			wantStatus: http.StatusBadGateway,
			wantMsg:    msgUpstream,
		},
		{
			name:       "validation",
			err:        orchestrator.ErrInvalidMessage,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "message is required",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    msgInternal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			chat := &fakeChatter{err: tc.err}
			rec := doRequest(t, NewServer(chat, Config{}).Handler(), http.MethodPost, "/chat", `{"userId":"u1","message":"hi"}`, nil)

			require.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantMsg, decodeBody[ErrorResponse](t, rec).Error)
		})
	}
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, NewServer(panicChatter{}, Config{}).Handler(), http.MethodPost, "/chat", `{"userId":"u1","message":"hi"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type panicChatter struct{}

func (panicChatter) HandleMessage(context.Context, string, string) (orchestrator.Result, error) {
	panic("unexpected")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewServer(&fakeChatter{}, Config{Addr: "127.0.0.1:0"}).Run(ctx)
	}()
	cancel()
	require.NoError(t, <-done)
}
