package customform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	h := &Heading{Order: 2}
	p := &Prompt{Order: 1, Type: Text}
	tb := &TextBlock{Order: 3}

	got := Merge(Document{Headings: []*Heading{h}, Prompts: []*Prompt{p}, TextBlocks: []*TextBlock{tb}})
	assert.Equal(t, []Element{p, h, tb}, got)
	assert.Same(t, h, got[1], "merge keeps the original elements")
}

func TestMerge_ties(t *testing.T) {
	tb := &TextBlock{Order: 1}
	p := &Prompt{Order: 1, Type: Text}
	h := &Heading{Order: 1}
	noOrder := &Heading{}
	second := &Prompt{Order: 2, Type: Text}

	got := Merge(Document{
		Headings:   []*Heading{h, noOrder},
		Prompts:    []*Prompt{second, p},
		TextBlocks: []*TextBlock{tb},
	})
	// ties keep headings, prompts, textBlocks order; a missing order sorts as 1
	assert.Equal(t, []Element{h, noOrder, p, tb, second}, got)
}

func TestMerge_empty(t *testing.T) {
	assert.Empty(t, Merge(Document{}))
}

func TestMerge_nilElements(t *testing.T) {
	h := &Heading{Order: 1}
	p := &Prompt{Order: 2, Type: Text}

	var got []Element
	assert.NotPanics(t, func() {
		got = Merge(Document{Headings: []*Heading{nil, h}, Prompts: []*Prompt{p, nil}, TextBlocks: []*TextBlock{nil}})
	})
	assert.Equal(t, []Element{h, p}, got)
}
