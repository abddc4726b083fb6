package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
	llmx "github.com/tanpawarit/agentic-insurance-assistant/agent/llm"
	nodex "github.com/tanpawarit/agentic-insurance-assistant/agent/nodes"
	statex "github.com/tanpawarit/agentic-insurance-assistant/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidUser    = nodex.ErrInvalidUser
)

type Config struct {
	RequestTimeout time.Duration
}

// Result is what one chat request produces.
type Result struct {
	RequestID string
	Answer    string
	Steps     int
	Messages  contractx.Transcript
}

// Orchestrator owns the agent, the archive and the compiled request graph. It is
// built once at startup and shared by all requests.
type Orchestrator struct {
	agent   contractx.Agent
	archive statex.TranscriptArchive

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	requestTimeout time.Duration
	now            func() time.Time
}

func New(
	agent contractx.Agent,
	archive statex.TranscriptArchive,
	cfg Config,
) (*Orchestrator, error) {
	if agent == nil {
		return nil, errors.New("agent is required")
	}
	if archive == nil {
		archive = statex.NoopArchive{}
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = llmx.DefaultRequestTimeout
	}

	o := &Orchestrator{
		agent:          agent,
		archive:        archive,
		requestTimeout: timeout,
		now:            time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

func (o *Orchestrator) HandleMessage(ctx context.Context, userID string, text string) (Result, error) {
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = ulid.Make().String()
	}

	logger := zerolog.Ctx(ctx).With().
		Str("request_id", requestID).
		Str("user_id", strings.TrimSpace(userID)).
		Logger()
	ctx = logger.WithContext(ctx)

	runCtx, cancel := context.WithTimeout(ctx, o.requestTimeout)
	defer cancel()

	started := o.now()
	out, err := o.graphRunner.Invoke(runCtx, nodex.GraphInput{
		RequestID: requestID,
		UserID:    userID,
		Text:      text,
	})
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return Result{RequestID: requestID}, err
	}

	logger.Info().
		Int("steps", out.Steps).
		Dur("elapsed", o.now().Sub(started)).
		Msg("chat request handled")

	return Result{
		RequestID: out.RequestID,
		Answer:    out.Answer,
		Steps:     out.Steps,
		Messages:  out.Messages,
	}, nil
}

type requestIDKey struct{}

// WithRequestID lets the transport layer supply the id used for logging and archiving.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(requestID))
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
