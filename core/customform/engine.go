package customform

import (
	"github.com/pkg/errors"
)

var ErrMalformedCollection = errors.New("malformed element collection")

// State gives the Engine access to the three collections of a form being edited.
type State interface {
	Get(c Collection) ([]Element, error)
	Set(c Collection, elems []Element) error
}

// DocumentState is a State backed by a Document.
type DocumentState struct {
	Doc *Document
}

var _ State = (*DocumentState)(nil) // interface compliance check

func NewDocumentState(doc *Document) *DocumentState {
	return &DocumentState{Doc: doc}
}

func (s *DocumentState) Get(c Collection) ([]Element, error) {
	if c.Kind() == "" {
		return nil, errors.Wrapf(ErrMalformedCollection, "unknown collection %q", c)
	}
	return s.Doc.Elements(c), nil
}

func (s *DocumentState) Set(c Collection, elems []Element) error {
	switch c {
	case Headings:
		list := make([]*Heading, 0, len(elems))
		for _, el := range elems {
			h, ok := el.(*Heading)
			if !ok {
				return errors.Wrapf(ErrMalformedCollection, "%s cannot hold a %s", c, el.Kind())
			}
			list = append(list, h)
		}
		s.Doc.Headings = list
	case Prompts:
		list := make([]*Prompt, 0, len(elems))
		for _, el := range elems {
			p, ok := el.(*Prompt)
			if !ok {
				return errors.Wrapf(ErrMalformedCollection, "%s cannot hold a %s", c, el.Kind())
			}
			list = append(list, p)
		}
		s.Doc.Prompts = list
	case TextBlocks:
		list := make([]*TextBlock, 0, len(elems))
		for _, el := range elems {
			tb, ok := el.(*TextBlock)
			if !ok {
				return errors.Wrapf(ErrMalformedCollection, "%s cannot hold a %s", c, el.Kind())
			}
			list = append(list, tb)
		}
		s.Doc.TextBlocks = list
	default:
		return errors.Wrapf(ErrMalformedCollection, "unknown collection %q", c)
	}
	return nil
}

type (
	// Engine applies ordering operations to the collections exposed by a State.
	// Every operation reads the current collections first and writes all three back.
	Engine struct {
		state   State
		onError func(error)
		onBusy  func(busy bool)
	}

	EngineOption func(*Engine)
)

// WithErrorSink sets the callback receiving every error raised by an operation.
func WithErrorSink(fn func(error)) EngineOption {
	return func(e *Engine) { e.onError = fn }
}

// WithBusyNotifier sets the callback signalled when a Delete starts (true) and finishes (false).
func WithBusyNotifier(fn func(busy bool)) EngineOption {
	return func(e *Engine) { e.onBusy = fn }
}

func NewEngine(state State, opts ...EngineOption) *Engine {
	e := &Engine{state: state}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// load reads the three collections into an arena.
func (e *Engine) load() (*Form, error) {
	var doc Document
	for _, c := range Collections {
		elems, err := e.state.Get(c)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", c)
		}
		for i, el := range elems {
			if el == nil || isNilElement(el) {
				return nil, errors.Wrapf(ErrMalformedCollection, "%s[%d] is empty", c, i)
			}
			if el.Kind() != c.Kind() {
				return nil, errors.Wrapf(ErrMalformedCollection, "%s[%d] is a %s", c, i, el.Kind())
			}
		}
		switch c {
		case Headings:
			for _, el := range elems {
				doc.Headings = append(doc.Headings, el.(*Heading))
			}
		case Prompts:
			for _, el := range elems {
				doc.Prompts = append(doc.Prompts, el.(*Prompt))
			}
		case TextBlocks:
			for _, el := range elems {
				doc.TextBlocks = append(doc.TextBlocks, el.(*TextBlock))
			}
		}
	}
	return NewForm(doc)
}

// store writes all three collections back, even those that did not change.
// Only called once an operation changed the form.
func (e *Engine) store(f *Form) error {
	doc := f.Document()
	for _, c := range Collections {
		if err := e.state.Set(c, doc.Elements(c)); err != nil {
			return errors.Wrapf(err, "writing %s", c)
		}
	}
	return nil
}

func (e *Engine) fail(err error) error {
	if e.onError != nil {
		e.onError(err)
	}
	return err
}

// View returns the merged, order-sorted elements of the current state.
func (e *Engine) View() ([]Element, error) {
	f, err := e.load()
	if err != nil {
		return nil, e.fail(errors.Wrap(err, "loading form"))
	}
	return f.Elements(), nil
}

// Move swaps el with its neighbour in direction dir. See Form.Move.
// It reports whether the state changed.
func (e *Engine) Move(el Element, dir Direction) (bool, error) {
	if el == nil || isNilElement(el) {
		return false, nil
	}
	if !dir.Valid() {
		return false, e.fail(errors.Errorf("invalid direction %q", dir))
	}
	f, err := e.load()
	if err != nil {
		return false, e.fail(errors.Wrap(err, "loading form"))
	}
	if !f.Move(RefOf(el), dir) {
		return false, nil
	}
	if err = e.store(f); err != nil {
		return false, e.fail(errors.Wrap(err, "storing form"))
	}
	return true, nil
}

// Delete removes el and shifts every later element up by one. See Form.Delete.
// It reports whether the state changed.
func (e *Engine) Delete(el Element) (bool, error) {
	if el == nil || isNilElement(el) {
		return false, nil
	}
	if e.onBusy != nil {
		e.onBusy(true)
		defer e.onBusy(false)
	}
	f, err := e.load()
	if err != nil {
		return false, e.fail(errors.Wrap(err, "loading form"))
	}
	if !f.Delete(RefOf(el)) {
		return false, nil
	}
	if err = e.store(f); err != nil {
		return false, e.fail(errors.Wrap(err, "storing form"))
	}
	return true, nil
}
