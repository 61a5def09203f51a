package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
	"github.com/nyayalabs/nyaya-cli/internal/core/ports/driven"
)

func newChatFixture(store *mockVectorStore, llm *mockCompletion) *ChatService {
	svc := NewChatService(store, llm, NewHistoryRegistry(), &mockPrompts{})
	svc.MarkReady()
	return svc
}

func seededStore() *mockVectorStore {
	return &mockVectorStore{chunks: []domain.Chunk{
		{ID: "c1", Content: "Section 303 defines theft as dishonest taking of movable property."},
		{ID: "c2", Content: "Section 101 addresses culpable homicide."},
	}}
}

func TestAnswer_NotReady(t *testing.T) {
	svc := NewChatService(seededStore(), &mockCompletion{}, NewHistoryRegistry(), &mockPrompts{})

	_, err := svc.Answer(context.Background(), "what is theft", "sess-1")
	assert.ErrorIs(t, err, domain.ErrNotReady)
}

func TestAnswer_EmptyQuery(t *testing.T) {
	svc := newChatFixture(seededStore(), &mockCompletion{})

	_, err := svc.Answer(context.Background(), "   ", "sess-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnswer_GeneratesSessionID(t *testing.T) {
	llm := &mockCompletion{responses: []string{
		"Theft is defined in Section 303.",
		"what is the punishment for theft",
		"Punishment is imprisonment.",
	}}
	svc := newChatFixture(seededStore(), llm)

	ans, err := svc.Answer(context.Background(), "what is theft", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ans.SessionID, "sess-"))

	// The generated id addresses a real session with the turn recorded.
	ans2, err := svc.Answer(context.Background(), "and the punishment?", ans.SessionID)
	require.NoError(t, err)
	assert.Equal(t, ans.SessionID, ans2.SessionID)
}

func TestAnswer_FirstTurnSkipsReformulation(t *testing.T) {
	llm := &mockCompletion{responses: []string{"Theft is defined in Section 303."}}
	store := seededStore()
	svc := newChatFixture(store, llm)

	ans, err := svc.Answer(context.Background(), "what is theft", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Theft is defined in Section 303.", ans.Text)

	// Exactly one completion call: synthesis only, no reformulation.
	require.Len(t, llm.calls, 1)
	// The store was searched with the raw query.
	require.Len(t, store.searches, 1)
	assert.Equal(t, "what is theft", store.searches[0])
	// Retrieved chunks surface on the answer.
	require.NotEmpty(t, ans.Supporting)
	assert.Equal(t, "c1", ans.Supporting[0].Chunk.ID)
}

func TestAnswer_FollowUpReformulates(t *testing.T) {
	llm := &mockCompletion{responses: []string{
		"Theft is defined in Section 303.",
		"what is the punishment for theft",
		"Punishment for theft is imprisonment.",
	}}
	store := seededStore()
	svc := newChatFixture(store, llm)

	_, err := svc.Answer(context.Background(), "what is theft", "sess-1")
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), "and the punishment?", "sess-1")
	require.NoError(t, err)

	// Second turn makes two calls: reformulation then synthesis.
	require.Len(t, llm.calls, 3)

	// The reformulation call carries the prior turn as history.
	reform := llm.calls[1]
	require.Len(t, reform, 4)
	assert.Equal(t, driven.RoleSystem, reform[0].Role)
	assert.Equal(t, "what is theft", reform[1].Content)
	assert.Equal(t, driven.RoleAssistant, reform[2].Role)
	assert.Equal(t, "and the punishment?", reform[3].Content)

	// Retrieval used the standalone question, not the follow-up.
	assert.Equal(t, "what is the punishment for theft", store.searches[1])
}

func TestAnswer_SynthesisCarriesContextAndHistory(t *testing.T) {
	llm := &mockCompletion{responses: []string{"Section 303 covers theft."}}
	svc := newChatFixture(seededStore(), llm)

	_, err := svc.Answer(context.Background(), "what is theft", "sess-1")
	require.NoError(t, err)

	system := llm.calls[0][0]
	require.Equal(t, driven.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "Section 303 defines theft")
	assert.Equal(t, driven.RoleUser, llm.calls[0][len(llm.calls[0])-1].Role)
}

func TestAnswer_GenerationFailureLeavesHistoryUntouched(t *testing.T) {
	llm := &mockCompletion{err: errors.New("rate limited")}
	svc := newChatFixture(seededStore(), llm)

	_, err := svc.Answer(context.Background(), "what is theft", "sess-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Zero(t, svc.history.GetOrCreate("sess-1").Len())
}

func TestAnswer_RetrievalFailureDegrades(t *testing.T) {
	llm := &mockCompletion{responses: []string{"I cannot find that in the corpus."}}
	store := seededStore()
	store.searchErr = errors.New("store offline")
	svc := newChatFixture(store, llm)

	ans, err := svc.Answer(context.Background(), "what is theft", "sess-1")
	require.NoError(t, err)
	assert.Empty(t, ans.Supporting)
	assert.Contains(t, llm.calls[0][0].Content, "No supporting context")

	// The turn still completes and is recorded.
	assert.Equal(t, 1, svc.history.GetOrCreate("sess-1").Len())
}

func TestAnswer_ReformulationFailureFallsBackToRawQuery(t *testing.T) {
	llm := &mockCompletion{responses: []string{"first answer"}}
	store := seededStore()
	svc := newChatFixture(store, llm)

	_, err := svc.Answer(context.Background(), "what is theft", "sess-1")
	require.NoError(t, err)

	// Second turn: reformulation errors, synthesis succeeds.
	llm.err = errors.New("model unavailable")
	_, err = svc.Answer(context.Background(), "and the punishment?", "sess-1")
	require.ErrorIs(t, err, domain.ErrGenerationFailed)

	llm.err = nil
	llm.responses = []string{"", "second answer"}
	ans, err := svc.Answer(context.Background(), "and the punishment?", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "second answer", ans.Text)
	// Blank reformulation output falls back to the raw follow-up.
	assert.Equal(t, "and the punishment?", store.searches[len(store.searches)-1])
}

func TestAnswer_PreservesDroppedCitations(t *testing.T) {
	llm := &mockCompletion{responses: []string{
		"first answer",
		"what does that provision say", // reformulation drops the reference
		"second answer",
	}}
	store := seededStore()
	svc := newChatFixture(store, llm)

	_, err := svc.Answer(context.Background(), "what is theft", "sess-1")
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), "what about Section 101?", "sess-1")
	require.NoError(t, err)

	assert.Contains(t, store.searches[1], "Section 101")
}

func TestAnswer_SessionsDoNotShareHistory(t *testing.T) {
	llm := &mockCompletion{responses: []string{"a1", "b1"}}
	svc := newChatFixture(seededStore(), llm)

	_, err := svc.Answer(context.Background(), "what is theft", "sess-a")
	require.NoError(t, err)
	_, err = svc.Answer(context.Background(), "what is homicide", "sess-b")
	require.NoError(t, err)

	// Each session's first turn skipped reformulation: 2 calls total.
	assert.Len(t, llm.calls, 2)
	assert.Equal(t, 1, svc.history.GetOrCreate("sess-a").Len())
	assert.Equal(t, 1, svc.history.GetOrCreate("sess-b").Len())
}

func TestAnswer_HistoryOrdering(t *testing.T) {
	llm := &mockCompletion{responses: []string{"a1", "q2 standalone", "a2"}}
	svc := newChatFixture(seededStore(), llm)

	_, err := svc.Answer(context.Background(), "q1", "sess-1")
	require.NoError(t, err)
	_, err = svc.Answer(context.Background(), "q2", "sess-1")
	require.NoError(t, err)

	turns := svc.history.GetOrCreate("sess-1").Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "q1", turns[0].Query)
	assert.Equal(t, "a1", turns[0].Answer)
	assert.Equal(t, "q2", turns[1].Query)
	assert.Equal(t, "a2", turns[1].Answer)
}

func TestClearSession(t *testing.T) {
	llm := &mockCompletion{responses: []string{"a1"}}
	svc := newChatFixture(seededStore(), llm)

	_, err := svc.Answer(context.Background(), "what is theft", "sess-1")
	require.NoError(t, err)

	assert.True(t, svc.ClearSession("sess-1"))
	assert.False(t, svc.ClearSession("sess-1"))
	assert.Zero(t, svc.history.GetOrCreate("sess-1").Len())
}
