package customform

import (
	"fmt"
	"slices"
	"strings"
)

// Kind tags the three element variants of a custom form.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindTextBlock Kind = "textBlock"
	KindPrompt    Kind = "prompt"
)

var Kinds = []Kind{KindHeading, KindPrompt, KindTextBlock}

func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// ParseKind accepts a Kind or its collection name (eg. "text-blocks").
func ParseKind(s string) (Kind, error) {
	name := strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	name = strings.TrimSuffix(name, "s")
	for _, k := range Kinds {
		if strings.EqualFold(name, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown element kind %q", s)
}

// PromptType is the answer format of a Prompt.
type PromptType string

const (
	Likert3  PromptType = "3-likert"
	Likert5  PromptType = "5-likert"
	Likert7  PromptType = "7-likert"
	Text     PromptType = "text"
	Dropdown PromptType = "dropdown"
	Checkbox PromptType = "checkbox"
)

var PromptTypes = []PromptType{Likert3, Likert5, Likert7, Text, Dropdown, Checkbox}

func (t PromptType) Valid() bool {
	return slices.Contains(PromptTypes, t)
}

// LikertScale returns the number of points of a likert prompt type.
func (t PromptType) LikertScale() (int, bool) {
	switch t {
	case Likert3:
		return 3, true
	case Likert5:
		return 5, true
	case Likert7:
		return 7, true
	}
	return 0, false
}

// Element is one of *Heading, *TextBlock or *Prompt.
// Order is the 1-based position in the form, shared by all kinds.
type Element interface {
	Kind() Kind
	Position() int

	setPosition(order int)
	clone() Element
}

// Ref identifies an element by its kind and order.
type Ref struct {
	Kind  Kind
	Order int
}

func RefOf(el Element) Ref {
	return Ref{Kind: el.Kind(), Order: el.Position()}
}

func (r Ref) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.Order)
}

type Heading struct {
	Order int    `json:"order" yaml:"order"`
	Text  string `json:"text" yaml:"text"`
}

func (h *Heading) Kind() Kind            { return KindHeading }
func (h *Heading) Position() int         { return h.Order }
func (h *Heading) setPosition(order int) { h.Order = order }
func (h *Heading) clone() Element        { c := *h; return &c }

type TextBlock struct {
	Order int    `json:"order" yaml:"order"`
	Text  string `json:"text" yaml:"text"`
}

func (tb *TextBlock) Kind() Kind            { return KindTextBlock }
func (tb *TextBlock) Position() int         { return tb.Order }
func (tb *TextBlock) setPosition(order int) { tb.Order = order }
func (tb *TextBlock) clone() Element        { c := *tb; return &c }

// Option is a choice of a dropdown Prompt.
type Option struct {
	Value string `json:"value" yaml:"value" validate:"required,notblank"`
	Label string `json:"label" yaml:"label" validate:"required,notblank"`
}

type Prompt struct {
	Order    int        `json:"order" yaml:"order"`
	Text     string     `json:"promptText" yaml:"promptText"`
	Type     PromptType `json:"promptType" yaml:"promptType"`
	Required bool       `json:"promptRequired" yaml:"promptRequired"`
	Options  []Option   `json:"promptOptions,omitempty" yaml:"promptOptions,omitempty"`
	Value    Value      `json:"value" yaml:"value,omitempty"`
}

func (p *Prompt) Kind() Kind            { return KindPrompt }
func (p *Prompt) Position() int         { return p.Order }
func (p *Prompt) setPosition(order int) { p.Order = order }

func (p *Prompt) clone() Element {
	c := *p
	if p.Options != nil {
		c.Options = append([]Option(nil), p.Options...)
	}
	return &c
}

// sortKey is the order used for sorting; a missing order sorts first.
func sortKey(el Element) int {
	if order := el.Position(); order >= 1 {
		return order
	}
	return 1
}
