package customform

import "github.com/pkg/errors"

// Direction is where Move sends an element.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func (d Direction) Valid() bool {
	return d == Up || d == Down
}

// Form is the ordered arena of a custom form: the element at index i has order i+1.
// Orders are kept contiguous by construction.
type Form struct {
	elems []Element
}

// NewForm builds a Form from a copy of doc.
// doc orders must be contiguous.
func NewForm(doc Document) (*Form, error) {
	if err := doc.checkNoNil(); err != nil {
		return nil, err
	}
	if err := doc.CheckContiguity(); err != nil {
		return nil, err
	}
	merged := Merge(doc)
	f := &Form{elems: make([]Element, 0, len(merged))}
	for _, el := range merged {
		f.elems = append(f.elems, el.clone())
	}
	return f, nil
}

// Len returns the number of elements N.
func (f *Form) Len() int {
	return len(f.elems)
}

// Elements returns the elements sorted by order.
func (f *Form) Elements() []Element {
	return append([]Element(nil), f.elems...)
}

// At returns the element at the given order.
func (f *Form) At(order int) (Element, bool) {
	if order < 1 || order > len(f.elems) {
		return nil, false
	}
	return f.elems[order-1], true
}

// Append adds el at the end of the form (order N+1).
func (f *Form) Append(el Element) error {
	if el == nil || isNilElement(el) {
		return errors.Wrap(ErrMalformedDocument, "appending an empty element")
	}
	el.setPosition(len(f.elems) + 1)
	f.elems = append(f.elems, el)
	return nil
}

func (f *Form) index(ref Ref) (int, bool) {
	el, ok := f.At(ref.Order)
	if !ok || el.Kind() != ref.Kind {
		return 0, false
	}
	return ref.Order - 1, true
}

// Move swaps the referenced element with its neighbour in direction dir,
// whatever the neighbour's kind. Moving the first element up, the last element down,
// or an element that does not exist is a no-op. It reports whether anything moved.
func (f *Form) Move(ref Ref, dir Direction) bool {
	i, ok := f.index(ref)
	if !ok {
		return false
	}

	var j int
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	default:
		return false
	}
	if j < 0 || j >= len(f.elems) {
		return false
	}

	f.elems[i], f.elems[j] = f.elems[j], f.elems[i]
	f.elems[i].setPosition(i + 1)
	f.elems[j].setPosition(j + 1)
	return true
}

// Delete removes the referenced element; every later element moves up by one.
// Deleting an element that does not exist is a no-op. It reports whether anything was deleted.
func (f *Form) Delete(ref Ref) bool {
	i, ok := f.index(ref)
	if !ok {
		return false
	}
	f.elems = append(f.elems[:i], f.elems[i+1:]...)
	for k := i; k < len(f.elems); k++ {
		f.elems[k].setPosition(k + 1)
	}
	return true
}

// Document splits the form back into its three collections.
// Each collection keeps the relative order of its elements.
func (f *Form) Document() Document {
	doc := Document{
		Headings:   []*Heading{},
		Prompts:    []*Prompt{},
		TextBlocks: []*TextBlock{},
	}
	for _, el := range f.elems {
		switch x := el.(type) {
		case *Heading:
			doc.Headings = append(doc.Headings, x)
		case *Prompt:
			doc.Prompts = append(doc.Prompts, x)
		case *TextBlock:
			doc.TextBlocks = append(doc.TextBlocks, x)
		}
	}
	return doc
}
