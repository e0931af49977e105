package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "drops stop words", text: "The cell membrane", want: []string{"cell", "membrane"}},
		{name: "trims punctuation", text: "cell, membrane! (protein)", want: []string{"cell", "membrane", "protein"}},
		{name: "drops short tokens", text: "ab abc", want: []string{"abc"}},
		{name: "dedupes", text: "cell Cell CELL", want: []string{"cell"}},
		{name: "only stop words", text: "the and of", want: []string{}},
		{name: "empty", text: "   ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestLabelTerms(t *testing.T) {
	assert.Equal(t, []string{"cell", "membrane", "cell"}, LabelTerms("Cell-membrane/cell"))
	assert.Empty(t, LabelTerms("a b"))
}

func TestNodeIDs_Deterministic(t *testing.T) {
	assert.Equal(t, NodeIDFromSeed(7), NodeIDFromSeed(7))
	assert.NotEqual(t, NodeIDFromSeed(7), NodeIDFromSeed(8))
	assert.Equal(t, NodeIDForLabel("cell"), NodeIDForLabel("cell"))
	assert.NotEqual(t, NodeIDForLabel("cell"), NodeIDForDocument("cell"))
	assert.Equal(t, DocumentIDFromSeed(1), DocumentIDFromSeed(1))
	assert.NotEqual(t, DocumentIDFromSeed(1), DocumentIDFromSeed(2))
}
