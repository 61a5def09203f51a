// Package domain contains the core business entities and errors for
// the legal document Q&A pipeline: document inputs, chunks, conversation
// turns, and provider settings. It has no dependencies on adapters.
package domain
