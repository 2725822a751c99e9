package customform

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineRecorder struct {
	errs []error
	busy []bool
}

func newTestEngine(doc *Document) (*Engine, *engineRecorder) {
	rec := new(engineRecorder)
	e := NewEngine(
		NewDocumentState(doc),
		WithErrorSink(func(err error) { rec.errs = append(rec.errs, err) }),
		WithBusyNotifier(func(busy bool) { rec.busy = append(rec.busy, busy) }),
	)
	return e, rec
}

func TestEngine_Move(t *testing.T) {
	doc := sampleDoc()
	e, rec := newTestEngine(&doc)

	changed, err := e.Move(doc.Prompts[0], Up)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, map[string]int{"h:About you": 2, "p:Name": 1, "t:Thanks!": 3}, orders(doc))
	assert.Empty(t, rec.errs)
	assert.Empty(t, rec.busy, "only deletes are signalled")

	view, err := e.View()
	require.NoError(t, err)
	assert.Equal(t, KindPrompt, view[0].Kind())
}

func TestEngine_Move_noop(t *testing.T) {
	doc := sampleDoc()
	e, rec := newTestEngine(&doc)
	headings := doc.Headings

	changed, err := e.Move(doc.Headings[0], Up)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, map[string]int{"h:About you": 1, "p:Name": 2, "t:Thanks!": 3}, orders(doc))
	assert.Same(t, headings[0], doc.Headings[0], "state is not written back")

	changed, err = e.Move(nil, Down)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, rec.errs)
}

func TestEngine_Move_invalidDirection(t *testing.T) {
	doc := sampleDoc()
	e, rec := newTestEngine(&doc)

	_, err := e.Move(doc.Prompts[0], "left")
	assert.Error(t, err)
	require.Len(t, rec.errs, 1)
	assert.Equal(t, err, rec.errs[0])
}

func TestEngine_Delete(t *testing.T) {
	doc := Document{
		Headings:   []*Heading{{Order: 1, Text: "a"}, {Order: 3, Text: "c"}},
		Prompts:    []*Prompt{{Order: 2, Text: "b", Type: Text}},
		TextBlocks: []*TextBlock{{Order: 4, Text: "d"}},
	}
	e, rec := newTestEngine(&doc)

	changed, err := e.Delete(doc.Prompts[0])
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, map[string]int{"h:a": 1, "h:c": 2, "t:d": 3}, orders(doc))
	assert.Empty(t, doc.Prompts)
	assert.NotNil(t, doc.Prompts)
	assert.Equal(t, []bool{true, false}, rec.busy)

	// element no longer in the form
	changed, err = e.Delete(&Prompt{Order: 2})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []bool{true, false, true, false}, rec.busy)
}

func TestEngine_brokenState(t *testing.T) {
	doc := Document{
		Headings: []*Heading{{Order: 1}},
		Prompts:  []*Prompt{{Order: 1, Type: Text}},
	}
	e, rec := newTestEngine(&doc)

	_, err := e.Delete(doc.Headings[0])
	assert.ErrorIs(t, err, ErrOrderBroken)
	assert.Len(t, rec.errs, 1)
	assert.Equal(t, []bool{true, false}, rec.busy, "busy is cleared on failure")

	_, err = e.View()
	assert.ErrorIs(t, err, ErrOrderBroken)
}

type wrongKindState struct{}

func (wrongKindState) Get(c Collection) ([]Element, error) {
	if c == Headings {
		return []Element{&TextBlock{Order: 1}}, nil
	}
	return nil, nil
}

func (wrongKindState) Set(Collection, []Element) error { return errors.New("read only") }

func TestEngine_malformedCollection(t *testing.T) {
	e := NewEngine(wrongKindState{})
	_, err := e.View()
	assert.ErrorIs(t, err, ErrMalformedCollection)
}

func TestDocumentState_Set(t *testing.T) {
	doc := Document{}
	s := NewDocumentState(&doc)

	assert.ErrorIs(t, s.Set(Prompts, []Element{&Heading{Order: 1}}), ErrMalformedCollection)
	assert.ErrorIs(t, s.Set("footers", nil), ErrMalformedCollection)
	_, err := s.Get("footers")
	assert.ErrorIs(t, err, ErrMalformedCollection)

	require.NoError(t, s.Set(TextBlocks, []Element{&TextBlock{Order: 1}}))
	assert.Len(t, doc.TextBlocks, 1)
}
