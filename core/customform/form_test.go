package customform

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() Document {
	return Document{
		Headings:   []*Heading{{Order: 1, Text: "About you"}},
		Prompts:    []*Prompt{{Order: 2, Text: "Name", Type: Text, Required: true}},
		TextBlocks: []*TextBlock{{Order: 3, Text: "Thanks!"}},
	}
}

// orders returns the orders of doc keyed by "<kind>:<text>".
func orders(doc Document) map[string]int {
	res := make(map[string]int)
	for _, h := range doc.Headings {
		res["h:"+h.Text] = h.Order
	}
	for _, p := range doc.Prompts {
		res["p:"+p.Text] = p.Order
	}
	for _, tb := range doc.TextBlocks {
		res["t:"+tb.Text] = tb.Order
	}
	return res
}

func TestNewForm(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr error
	}{
		{name: "empty", doc: Document{}},
		{name: "contiguous", doc: sampleDoc()},
		{
			name: "duplicated order",
			doc: Document{
				Headings: []*Heading{{Order: 1}},
				Prompts:  []*Prompt{{Order: 1, Type: Text}},
			},
			wantErr: ErrOrderBroken,
		},
		{
			name:    "gap",
			doc:     Document{Headings: []*Heading{{Order: 1}, {Order: 3}}},
			wantErr: ErrOrderBroken,
		},
		{
			name:    "missing order",
			doc:     Document{TextBlocks: []*TextBlock{{}}},
			wantErr: ErrOrderBroken,
		},
		{
			name:    "nil element",
			doc:     Document{Headings: []*Heading{nil}},
			wantErr: ErrMalformedDocument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewForm(tt.doc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.doc.Len(), f.Len())
		})
	}
}

func TestNewForm_copiesDocument(t *testing.T) {
	doc := sampleDoc()
	f, err := NewForm(doc)
	require.NoError(t, err)

	f.Move(Ref{Kind: KindPrompt, Order: 2}, Up)
	assert.Equal(t, 1, doc.Headings[0].Order)
	assert.Equal(t, 2, doc.Prompts[0].Order)
}

func TestForm_Move(t *testing.T) {
	tests := []struct {
		name       string
		ref        Ref
		dir        Direction
		wantMoved  bool
		wantOrders map[string]int
	}{
		{
			name:       "prompt up swaps with heading",
			ref:        Ref{Kind: KindPrompt, Order: 2},
			dir:        Up,
			wantMoved:  true,
			wantOrders: map[string]int{"h:About you": 2, "p:Name": 1, "t:Thanks!": 3},
		},
		{
			name:       "prompt down swaps with text block",
			ref:        Ref{Kind: KindPrompt, Order: 2},
			dir:        Down,
			wantMoved:  true,
			wantOrders: map[string]int{"h:About you": 1, "p:Name": 3, "t:Thanks!": 2},
		},
		{
			name:       "first element up",
			ref:        Ref{Kind: KindHeading, Order: 1},
			dir:        Up,
			wantOrders: map[string]int{"h:About you": 1, "p:Name": 2, "t:Thanks!": 3},
		},
		{
			name:       "last element down",
			ref:        Ref{Kind: KindTextBlock, Order: 3},
			dir:        Down,
			wantOrders: map[string]int{"h:About you": 1, "p:Name": 2, "t:Thanks!": 3},
		},
		{
			name:       "kind mismatch",
			ref:        Ref{Kind: KindHeading, Order: 2},
			dir:        Up,
			wantOrders: map[string]int{"h:About you": 1, "p:Name": 2, "t:Thanks!": 3},
		},
		{
			name:       "unknown order",
			ref:        Ref{Kind: KindPrompt, Order: 9},
			dir:        Up,
			wantOrders: map[string]int{"h:About you": 1, "p:Name": 2, "t:Thanks!": 3},
		},
		{
			name:       "invalid direction",
			ref:        Ref{Kind: KindPrompt, Order: 2},
			dir:        "sideways",
			wantOrders: map[string]int{"h:About you": 1, "p:Name": 2, "t:Thanks!": 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewForm(sampleDoc())
			require.NoError(t, err)

			assert.Equal(t, tt.wantMoved, f.Move(tt.ref, tt.dir))
			if diff := cmp.Diff(tt.wantOrders, orders(f.Document())); diff != "" {
				t.Errorf("orders mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestForm_Delete(t *testing.T) {
	doc := Document{
		Headings:   []*Heading{{Order: 1, Text: "a"}},
		Prompts:    []*Prompt{{Order: 2, Text: "b", Type: Text}, {Order: 4, Text: "d", Type: Checkbox}},
		TextBlocks: []*TextBlock{{Order: 3, Text: "c"}},
	}
	f, err := NewForm(doc)
	require.NoError(t, err)

	assert.False(t, f.Delete(Ref{Kind: KindHeading, Order: 2}), "kind mismatch")
	assert.False(t, f.Delete(Ref{Kind: KindPrompt, Order: 5}), "unknown order")
	assert.Equal(t, 4, f.Len())

	require.True(t, f.Delete(Ref{Kind: KindPrompt, Order: 2}))
	got := f.Document()
	assert.Equal(t, 3, got.Len())
	if diff := cmp.Diff(map[string]int{"h:a": 1, "t:c": 2, "p:d": 3}, orders(got)); diff != "" {
		t.Errorf("orders mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, got.CheckContiguity())
}

func TestForm_Append(t *testing.T) {
	f, err := NewForm(sampleDoc())
	require.NoError(t, err)

	require.NoError(t, f.Append(&Heading{Order: 42, Text: "Next"}))
	el, ok := f.At(4)
	require.True(t, ok)
	assert.Equal(t, Ref{Kind: KindHeading, Order: 4}, RefOf(el))

	assert.ErrorIs(t, f.Append((*Prompt)(nil)), ErrMalformedDocument)
	assert.Equal(t, 4, f.Len())
}

func TestForm_Document(t *testing.T) {
	f, err := NewForm(Document{})
	require.NoError(t, err)

	doc := f.Document()
	assert.NotNil(t, doc.Headings)
	assert.NotNil(t, doc.Prompts)
	assert.NotNil(t, doc.TextBlocks)
}

// randomDoc builds a contiguous document of n elements of random kinds.
func randomDoc(rnd *rand.Rand, n int) Document {
	var doc Document
	perm := rnd.Perm(n)
	for i, p := range perm {
		order := p + 1
		switch i % 3 {
		case 0:
			doc.Headings = append(doc.Headings, &Heading{Order: order})
		case 1:
			doc.Prompts = append(doc.Prompts, &Prompt{Order: order, Type: Text})
		default:
			doc.TextBlocks = append(doc.TextBlocks, &TextBlock{Order: order})
		}
	}
	return doc
}

func sortedOrders(doc Document) []int {
	var res []int
	for _, c := range Collections {
		for _, el := range doc.Elements(c) {
			res = append(res, el.Position())
		}
	}
	sort.Ints(res)
	return res
}

func TestForm_contiguityUnderRandomEdits(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		f, err := NewForm(randomDoc(rnd, 1+rnd.Intn(12)))
		require.NoError(t, err)

		for step := 0; step < 30 && f.Len() > 0; step++ {
			el, _ := f.At(1 + rnd.Intn(f.Len()))
			before := f.Elements()
			ref := RefOf(el)

			switch rnd.Intn(3) {
			case 0:
				f.Delete(ref)
				// later elements move up by one, earlier ones keep their order
				for i, prev := range before {
					if i+1 < ref.Order {
						assert.Same(t, prev, f.Elements()[i])
					} else if i+1 > ref.Order {
						assert.Equal(t, i, prev.Position())
					}
				}
			case 1:
				f.Move(ref, Up)
			default:
				f.Move(ref, Down)
			}

			want := make([]int, f.Len())
			for i := range want {
				want[i] = i + 1
			}
			require.Equal(t, want, sortedOrders(f.Document()), "run %d step %d", run, step)
		}
	}
}
