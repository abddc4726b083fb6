package orchestratornode

import (
	"context"

	"github.com/rs/zerolog"
	statex "github.com/tanpawarit/agentic-insurance-assistant/agent/state"
)

// ArchiveTranscript never fails the request; archive errors are only logged.
func ArchiveTranscript(ctx context.Context, in *GraphState, archive statex.TranscriptArchive) (*GraphState, error) {
	if in == nil {
		return nil, ErrNilState
	}
	if archive == nil || in.RequestID == "" {
		return in, nil
	}

	err := archive.Save(ctx, &statex.TranscriptRecord{
		RequestID:  in.RequestID,
		UserID:     in.UserID,
		Answer:     in.Response.Answer,
		Steps:      in.Response.Steps,
		Messages:   in.Response.Transcript,
		ArchivedAt: in.Now,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("request_id", in.RequestID).Msg("archive transcript failed")
	}
	return in, nil
}
