package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driving"
	"github.com/nyayalabs/nyaya-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// DefaultTopK is the default number of chunks retrieved per query.
const DefaultTopK = 5

// Generation parameters for answer synthesis.
const (
	answerMaxTokens   = 1024
	answerTemperature = 0.5
)

// Fallback prompts used when the prompt store cannot serve a template.
const (
	fallbackReformulatePrompt = "Given the conversation so far and the latest user question, " +
		"rewrite the question as a standalone question that can be understood " +
		"without the conversation. Do NOT answer it. Keep every section or " +
		"article reference exactly as written. If the question already stands " +
		"alone, return it unchanged."

	fallbackSystemPrompt = "You are a legal assistant answering questions about Indian " +
		"statutes. Answer strictly from the provided context. Cite the relevant " +
		"section or article numbers. If the context does not contain the answer, " +
		"say so plainly. Do not give legal advice."
)

// citationToken matches statute references like "Section 103" or "Art. 21"
// so reformulation can never silently drop them.
var citationToken = regexp.MustCompile(`(?i)\b(?:Section|Article|Sec\.?|Art\.?)\s*\d+`)

// ChatService is the conversational retrieval engine: it reformulates
// follow-up questions against session history, retrieves supporting
// chunks, and synthesises a grounded answer.
type ChatService struct {
	store   driven.VectorStore
	llm     driven.CompletionService
	history *HistoryRegistry
	prompts driven.PromptStore
	topK    int
	ready   atomic.Bool
}

// ChatOption configures the chat service.
type ChatOption func(*ChatService)

// WithTopK sets the number of chunks retrieved per query.
func WithTopK(k int) ChatOption {
	return func(s *ChatService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewChatService creates the engine from its collaborators.
func NewChatService(
	store driven.VectorStore,
	llm driven.CompletionService,
	history *HistoryRegistry,
	prompts driven.PromptStore,
	opts ...ChatOption,
) *ChatService {
	s := &ChatService{
		store:   store,
		llm:     llm,
		history: history,
		prompts: prompts,
		topK:    DefaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkReady flips the engine into the ready state. Called once the
// vector store holds an ingested corpus.
func (s *ChatService) MarkReady() {
	s.ready.Store(true)
}

// Ready reports whether the engine accepts queries.
func (s *ChatService) Ready() bool {
	return s.ready.Load()
}

// Answer runs one conversational exchange. Retrieval failures degrade
// to answering without context; completion failures return
// domain.ErrGenerationFailed and leave the session history untouched.
func (s *ChatService) Answer(ctx context.Context, query, sessionID string) (domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if !s.Ready() {
		return domain.Answer{}, domain.ErrNotReady
	}

	if sessionID == "" {
		sessionID = "sess-" + uuid.NewString()
		logger.Debug("assigned new session %s", sessionID)
	}
	turns := s.history.GetOrCreate(sessionID).Turns()

	standalone := s.reformulate(ctx, query, turns)

	supporting, err := s.store.Search(ctx, standalone, s.topK)
	if err != nil {
		logger.Warn("retrieval failed, answering without context: %v", err)
		supporting = nil
	}

	text, err := s.synthesise(ctx, standalone, turns, supporting)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	s.history.Append(sessionID, query, text)

	return domain.Answer{
		Text:       text,
		Supporting: supporting,
		SessionID:  sessionID,
	}, nil
}

// ClearSession removes a session's history, reporting whether one existed.
func (s *ChatService) ClearSession(sessionID string) bool {
	return s.history.Clear(sessionID)
}

// reformulate rewrites a follow-up question into a standalone one using
// the session history. With an empty history the query already stands
// alone and no model call is made. A reformulation failure falls back
// to the raw query.
func (s *ChatService) reformulate(ctx context.Context, query string, turns []domain.Turn) string {
	if len(turns) == 0 {
		return query
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: s.prompt(driven.PromptReformulate, fallbackReformulatePrompt)},
	}
	messages = appendHistory(messages, turns)
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: query})

	out, err := s.llm.Complete(ctx, messages, driven.CompleteOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("reformulation failed, using raw query: %v", err)
		return query
	}

	standalone := strings.TrimSpace(out)
	if standalone == "" {
		return query
	}
	return preserveCitations(query, standalone)
}

// synthesise generates the answer from the standalone query, the
// session history, and the retrieved context.
func (s *ChatService) synthesise(ctx context.Context, standalone string, turns []domain.Turn, supporting []domain.RetrievedChunk) (string, error) {
	system := s.prompt(driven.PromptLegalSystem, fallbackSystemPrompt) + "\n\n" + contextBlock(supporting)

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
	}
	messages = appendHistory(messages, turns)
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: standalone})

	out, err := s.llm.Complete(ctx, messages, driven.CompleteOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// prompt loads a template from the store, falling back to the built-in
// default when the store cannot serve it.
func (s *ChatService) prompt(name, fallback string) string {
	p, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(p) == "" {
		logger.Debug("using built-in %s prompt: %v", name, err)
		return fallback
	}
	return p
}

// appendHistory adds past turns as alternating user/assistant messages.
func appendHistory(messages []driven.ChatMessage, turns []domain.Turn) []driven.ChatMessage {
	for _, t := range turns {
		messages = append(messages,
			driven.ChatMessage{Role: driven.RoleUser, Content: t.Query},
			driven.ChatMessage{Role: driven.RoleAssistant, Content: t.Answer},
		)
	}
	return messages
}

// contextBlock renders the retrieved chunks for the system prompt.
func contextBlock(supporting []domain.RetrievedChunk) string {
	if len(supporting) == 0 {
		return "No supporting context was retrieved."
	}

	var b strings.Builder
	b.WriteString("Context:\n")
	for i, rc := range supporting {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, rc.Chunk.Content)
	}
	return b.String()
}

// preserveCitations appends to the standalone query any statute
// reference present in the original query that the reformulation lost.
func preserveCitations(query, standalone string) string {
	lower := strings.ToLower(standalone)
	for _, token := range citationToken.FindAllString(query, -1) {
		if !strings.Contains(lower, strings.ToLower(token)) {
			standalone += " (" + token + ")"
		}
	}
	return standalone
}
