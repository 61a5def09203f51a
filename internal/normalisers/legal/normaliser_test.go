package legal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalise_EmptyInput(t *testing.T) {
	n := New()
	assert.Equal(t, "", n.Normalise(""))
	assert.Equal(t, "", n.Normalise("   \n\t  "))
}

func TestNormalise_CollapsesWhitespace(t *testing.T) {
	n := New()
	got := n.Normalise("theft   is\tdefined\n\nas  follows")
	assert.Equal(t, "theft is defined as follows", got)
}

func TestNormalise_RemovesPageArtifacts(t *testing.T) {
	n := New()

	tests := []struct {
		name    string
		input   string
		absent  []string
		present []string
	}{
		{
			name:    "bare page number line",
			input:   "first provision\n42\nsecond provision",
			absent:  []string{"42"},
			present: []string{"first provision second provision"},
		},
		{
			name:    "page footer line",
			input:   "first provision\nPage 7 of 512\nsecond provision",
			absent:  []string{"Page 7"},
			present: []string{"first provision second provision"},
		},
		{
			name:    "numbers inside sentences survive",
			input:   "imprisonment of 7 years",
			present: []string{"imprisonment of 7 years"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalise(tt.input)
			for _, s := range tt.absent {
				assert.NotContains(t, got, s)
			}
			for _, s := range tt.present {
				assert.Contains(t, got, s)
			}
		})
	}
}

func TestNormalise_RejoinsHyphenatedWords(t *testing.T) {
	n := New()
	got := n.Normalise("the punish-\nment prescribed")
	assert.Contains(t, got, "punishment")

	// Hyphenated compounds on one line are left alone.
	got = n.Normalise("a state-of-the-art provision")
	assert.Contains(t, got, "state-of-the-art")
}

func TestNormalise_FormFieldNoise(t *testing.T) {
	n := New()

	got := n.Normalise("name of accused ________ shall appear")
	assert.NotContains(t, got, "_")

	got = n.Normalise("as specified.......")
	assert.True(t, strings.HasSuffix(got, "specified..."), "got %q", got)
}

func TestNormalise_CanonicalisesCitations(t *testing.T) {
	n := New()

	tests := []struct {
		input string
		want  string
	}{
		{"Sec. 103 applies", "Section 103 applies"},
		{"Sec 103 applies", "Section 103 applies"},
		{"Art. 21 guarantees", "Article 21 guarantees"},
		{"Art 21 guarantees", "Article 21 guarantees"},
		{"under Sec.302 read with Art.14", "under Section 302 read with Article 14"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, n.Normalise(tt.input))
	}

	// Already-canonical citations are untouched.
	assert.Equal(t, "Section 103 applies", n.Normalise("Section 103 applies"))
}

func TestNormalise_Idempotent(t *testing.T) {
	n := New()

	samples := []string{
		"Sec. 103 IPC defines theft.\n\n\nPage 12\nMore text.",
		"the punish-\nment under Art 21\n\n\n\nends here.   ",
		"plain already clean text",
		"dotted....... and ____ noisy\n9\nlines",
	}

	for _, s := range samples {
		once := n.Normalise(s)
		twice := n.Normalise(once)
		assert.Equal(t, once, twice, "input %q", s)
	}
}

func TestNormalise_EndToEndExample(t *testing.T) {
	n := New()

	got := n.Normalise("Sec. 103 IPC defines theft.\n\n\nPage 12\nMore text.")
	require.Contains(t, got, "Section 103 IPC defines theft.")
	assert.NotContains(t, got, "Page 12")
	assert.Contains(t, got, "More text.")
}
