package domain

const unknownDescription = "Unknown"

// CompletionProvider identifies a chat completion service provider.
type CompletionProvider string

// Available completion providers.
const (
	// CompletionProviderGroq is the Groq cloud API (OpenAI-compatible).
	CompletionProviderGroq CompletionProvider = "groq"

	// CompletionProviderOllama is a local Ollama instance.
	CompletionProviderOllama CompletionProvider = "ollama"
)

// IsValid returns true if the completion provider is recognised.
func (p CompletionProvider) IsValid() bool {
	switch p {
	case CompletionProviderGroq, CompletionProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p CompletionProvider) RequiresAPIKey() bool {
	return p == CompletionProviderGroq
}

// String returns the string representation.
func (p CompletionProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p CompletionProvider) Description() string {
	switch p {
	case CompletionProviderGroq:
		return "Groq (cloud)"
	case CompletionProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// VectorBackend identifies a vector store implementation.
type VectorBackend string

// Available vector store backends.
const (
	// VectorBackendChromem is the embedded chromem-go store.
	VectorBackendChromem VectorBackend = "chromem"

	// VectorBackendAstra is the hosted Astra DB Data API.
	VectorBackendAstra VectorBackend = "astra"

	// VectorBackendMemory is the non-persistent in-memory store.
	VectorBackendMemory VectorBackend = "memory"
)

// IsValid returns true if the vector backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendChromem, VectorBackendAstra, VectorBackendMemory:
		return true
	default:
		return false
	}
}

// IsPersistent returns true if the backend survives process restarts.
func (b VectorBackend) IsPersistent() bool {
	return b == VectorBackendChromem || b == VectorBackendAstra
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b VectorBackend) Description() string {
	switch b {
	case VectorBackendChromem:
		return "chromem-go (embedded)"
	case VectorBackendAstra:
		return "Astra DB (hosted)"
	case VectorBackendMemory:
		return "In-memory (volatile)"
	default:
		return unknownDescription
	}
}
