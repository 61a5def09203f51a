package driven

// Normaliser cleans raw extracted document text.
//
// Normalise must be best-effort and idempotent: applying it twice yields
// the same result as applying it once, and it never fails: malformed
// input produces the best partially-cleaned text available, empty input
// produces an empty string.
type Normaliser interface {
	Normalise(raw string) string
}

// Chunker splits normalised text into overlapping bounded-size pieces
// suitable for embedding. Adjacent pieces share a fixed overlap; the
// pieces cover the input with no gaps. Empty input produces no pieces.
type Chunker interface {
	Split(text string) []string
}
