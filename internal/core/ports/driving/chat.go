package driving

import (
	"context"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
)

// ChatService answers questions about the ingested legal corpus,
// maintaining per-session conversation history.
type ChatService interface {
	// Answer runs the conversational retrieval sequence for one query:
	// reformulate against history, retrieve supporting chunks,
	// synthesise an answer, append the completed turn to the session.
	//
	// An empty sessionID creates a fresh session; the generated id is
	// returned in the Answer. Returns domain.ErrNotReady before setup
	// completes and domain.ErrGenerationFailed when the completion
	// provider fails (in which case history is not modified).
	Answer(ctx context.Context, query, sessionID string) (domain.Answer, error)

	// ClearSession removes a session's history, reporting whether a
	// history existed.
	ClearSession(sessionID string) bool

	// Ready reports whether the engine has completed setup.
	Ready() bool
}
