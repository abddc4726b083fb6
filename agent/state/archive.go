package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
)

var (
	ErrNilRecord        = errors.New("transcript record is nil")
	ErrInvalidRequestID = errors.New("request id is empty")
)

const (
	defaultArchiveKeyPrefix = "insurance:transcript:"
	defaultArchiveTTL       = 7 * 24 * time.Hour
	maxResponseSizeBytes    = 2 << 20
)

// TranscriptRecord is one finished chat request.
type TranscriptRecord struct {
	RequestID  string               `json:"request_id"`
	UserID     string               `json:"user_id"`
	Answer     string               `json:"answer"`
	Steps      int                  `json:"steps"`
	Messages   contractx.Transcript `json:"messages"`
	ArchivedAt time.Time            `json:"archived_at"`
}

// TranscriptArchive stores finished transcripts for audit. It is write-only from
// the chat path.
type TranscriptArchive interface {
	Save(ctx context.Context, rec *TranscriptRecord) error
}

type NoopArchive struct{}

func (NoopArchive) Save(context.Context, *TranscriptRecord) error {
	return nil
}

type ArchiveOption func(*UpstashArchive)

func WithKeyPrefix(prefix string) ArchiveOption {
	return func(a *UpstashArchive) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			a.keyPrefix = trimmed
		}
	}
}

func WithTTL(ttl time.Duration) ArchiveOption {
	return func(a *UpstashArchive) {
		a.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) ArchiveOption {
	return func(a *UpstashArchive) {
		if client != nil {
			a.httpClient = client
		}
	}
}

func WithClock(now func() time.Time) ArchiveOption {
	return func(a *UpstashArchive) {
		if now != nil {
			a.now = now
		}
	}
}

// UpstashArchive writes transcripts to Upstash Redis via REST.
type UpstashArchive struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	ttl        time.Duration
	now        func() time.Time
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// UpstashRedisConfig is read with the UPSTASH_REDIS prefix. An empty URL
// disables archiving.
type UpstashRedisConfig struct {
	URL       string        `split_words:"true"`
	Token     string        `split_words:"true"`
	Timeout   time.Duration `split_words:"true" default:"10s"`
	TTL       time.Duration `split_words:"true" default:"168h"`
	KeyPrefix string        `split_words:"true" default:"insurance:transcript:"`
}

func (c UpstashRedisConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

// NewArchive returns the Upstash archive when configured and NoopArchive otherwise.
func NewArchive(cfg UpstashRedisConfig, opts ...ArchiveOption) (TranscriptArchive, error) {
	if !cfg.Enabled() {
		return NoopArchive{}, nil
	}
	base := []ArchiveOption{WithKeyPrefix(cfg.KeyPrefix)}
	if cfg.TTL > 0 {
		base = append(base, WithTTL(cfg.TTL))
	}
	return NewUpstashArchive(cfg, append(base, opts...)...)
}

func NewUpstashArchive(cfg UpstashRedisConfig, opts ...ArchiveOption) (*UpstashArchive, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	archive := &UpstashArchive{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		keyPrefix: defaultArchiveKeyPrefix,
		ttl:       defaultArchiveTTL,
		now:       time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(archive)
		}
	}

	if archive.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}

	return archive, nil
}

func (a *UpstashArchive) Save(ctx context.Context, rec *TranscriptRecord) error {
	if rec == nil {
		return ErrNilRecord
	}

	key, err := a.redisKey(rec.RequestID)
	if err != nil {
		return err
	}
	if rec.ArchivedAt.IsZero() {
		rec.ArchivedAt = a.now().UTC()
	} else {
		rec.ArchivedAt = rec.ArchivedAt.UTC()
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal transcript record: %w", err)
	}

	cmd := []any{"SET", key, string(payload)}
	if a.ttl > 0 {
		cmd = append(cmd, "EX", ttlSeconds(a.ttl))
	}

	_, err = a.exec(ctx, cmd)
	return err
}

func (a *UpstashArchive) redisKey(requestID string) (string, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return "", ErrInvalidRequestID
	}
	return strings.TrimSpace(a.keyPrefix) + requestID, nil
}

func (a *UpstashArchive) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	if len(command) == 0 {
		return nil, errors.New("empty redis command")
	}

	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}
