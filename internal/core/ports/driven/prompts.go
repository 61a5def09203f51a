package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptReformulate rewrites a follow-up question into a standalone
	// question using the conversation history. No format placeholders;
	// history and question are passed as chat messages.
	PromptReformulate = "reformulate"

	// PromptLegalSystem is the system instruction for answer synthesis:
	// answer strictly from context, cite sections, state insufficiency,
	// no legal advice. No format placeholders.
	PromptLegalSystem = "legal_system"
)
