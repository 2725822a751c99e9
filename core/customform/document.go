package customform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// errors
	ErrMalformedDocument = errors.New("malformed form document")
	ErrOrderBroken       = errors.New("element orders are not contiguous")
)

// Collection names one of the three element lists of a Document.
type Collection string

const (
	Headings   Collection = "headings"
	Prompts    Collection = "prompts"
	TextBlocks Collection = "textBlocks"
)

var Collections = []Collection{Headings, Prompts, TextBlocks}

func (c Collection) Kind() Kind {
	switch c {
	case Headings:
		return KindHeading
	case Prompts:
		return KindPrompt
	case TextBlocks:
		return KindTextBlock
	}
	return ""
}

func CollectionOf(k Kind) Collection {
	switch k {
	case KindHeading:
		return Headings
	case KindPrompt:
		return Prompts
	case KindTextBlock:
		return TextBlocks
	}
	return ""
}

// Document is the persisted shape of a custom form: three lists sharing one order space.
type Document struct {
	Headings   []*Heading   `json:"headings" yaml:"headings"`
	Prompts    []*Prompt    `json:"prompts" yaml:"prompts"`
	TextBlocks []*TextBlock `json:"textBlocks" yaml:"textBlocks"`
}

// Len returns the total number of elements.
func (d Document) Len() int {
	return len(d.Headings) + len(d.Prompts) + len(d.TextBlocks)
}

// Clone deep copies the document.
func (d Document) Clone() Document {
	c := Document{
		Headings:   make([]*Heading, 0, len(d.Headings)),
		Prompts:    make([]*Prompt, 0, len(d.Prompts)),
		TextBlocks: make([]*TextBlock, 0, len(d.TextBlocks)),
	}
	for _, h := range d.Headings {
		c.Headings = append(c.Headings, h.clone().(*Heading))
	}
	for _, p := range d.Prompts {
		c.Prompts = append(c.Prompts, p.clone().(*Prompt))
	}
	for _, tb := range d.TextBlocks {
		c.TextBlocks = append(c.TextBlocks, tb.clone().(*TextBlock))
	}
	return c
}

// Elements returns the elements of collection c, in storage order.
func (d Document) Elements(c Collection) []Element {
	var elems []Element
	switch c {
	case Headings:
		elems = make([]Element, 0, len(d.Headings))
		for _, h := range d.Headings {
			elems = append(elems, h)
		}
	case Prompts:
		elems = make([]Element, 0, len(d.Prompts))
		for _, p := range d.Prompts {
			elems = append(elems, p)
		}
	case TextBlocks:
		elems = make([]Element, 0, len(d.TextBlocks))
		for _, tb := range d.TextBlocks {
			elems = append(elems, tb)
		}
	}
	return elems
}

// CheckContiguity checks that the orders of all elements are exactly 1..Len().
func (d Document) CheckContiguity() error {
	n := d.Len()
	counts := make([]int, n+1)
	var outOfRange []int
	for _, c := range Collections {
		for _, el := range d.Elements(c) {
			order := el.Position()
			if order < 1 || order > n {
				outOfRange = append(outOfRange, order)
				continue
			}
			counts[order]++
		}
	}

	var dups, missing []int
	for order := 1; order <= n; order++ {
		switch {
		case counts[order] == 0:
			missing = append(missing, order)
		case counts[order] > 1:
			dups = append(dups, order)
		}
	}
	if len(outOfRange) == 0 && len(dups) == 0 && len(missing) == 0 {
		return nil
	}

	details := make([]string, 0, 3)
	if len(dups) > 0 {
		details = append(details, fmt.Sprintf("duplicated %v", dups))
	}
	if len(missing) > 0 {
		details = append(details, fmt.Sprintf("missing %v", missing))
	}
	if len(outOfRange) > 0 {
		details = append(details, fmt.Sprintf("out of range %v", outOfRange))
	}
	return errors.Wrap(ErrOrderBroken, strings.Join(details, ", "))
}

func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	p := plain(d)
	if p.Headings == nil {
		p.Headings = []*Heading{}
	}
	if p.Prompts == nil {
		p.Prompts = []*Prompt{}
	}
	if p.TextBlocks == nil {
		p.TextBlocks = []*TextBlock{}
	}
	return json.Marshal(p)
}

// UnmarshalJSON fails with ErrMalformedDocument when a collection is not a list.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Headings   json.RawMessage `json:"headings"`
		Prompts    json.RawMessage `json:"prompts"`
		TextBlocks json.RawMessage `json:"textBlocks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(ErrMalformedDocument, err.Error())
	}

	var doc Document
	if err := decodeJSONList(Headings, raw.Headings, &doc.Headings); err != nil {
		return err
	}
	if err := decodeJSONList(Prompts, raw.Prompts, &doc.Prompts); err != nil {
		return err
	}
	if err := decodeJSONList(TextBlocks, raw.TextBlocks, &doc.TextBlocks); err != nil {
		return err
	}
	if err := doc.checkNoNil(); err != nil {
		return err
	}
	*d = doc
	return nil
}

func decodeJSONList(c Collection, raw json.RawMessage, dst interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] != '[' {
		return errors.Wrapf(ErrMalformedDocument, "%s is not a list", c)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(ErrMalformedDocument, "decoding %s: %v", c, err)
	}
	return nil
}

// UnmarshalYAML fails with ErrMalformedDocument when a collection is not a list.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Wrapf(ErrMalformedDocument, "line %d: expected a mapping", node.Line)
	}

	var doc Document
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		var dst interface{}
		switch Collection(key) {
		case Headings:
			dst = &doc.Headings
		case Prompts:
			dst = &doc.Prompts
		case TextBlocks:
			dst = &doc.TextBlocks
		default:
			continue
		}
		if val.Kind == yaml.ScalarNode && val.Tag == "!!null" {
			continue
		}
		if val.Kind != yaml.SequenceNode {
			return errors.Wrapf(ErrMalformedDocument, "line %d: %s is not a list", val.Line, key)
		}
		if err := val.Decode(dst); err != nil {
			return errors.Wrapf(ErrMalformedDocument, "decoding %s: %v", key, err)
		}
	}
	if err := doc.checkNoNil(); err != nil {
		return err
	}
	*d = doc
	return nil
}

func (d Document) checkNoNil() error {
	for _, c := range Collections {
		for i, el := range d.Elements(c) {
			if isNilElement(el) {
				return errors.Wrapf(ErrMalformedDocument, "%s[%d] is empty", c, i)
			}
		}
	}
	return nil
}

func isNilElement(el Element) bool {
	switch x := el.(type) {
	case nil:
		return true
	case *Heading:
		return x == nil
	case *TextBlock:
		return x == nil
	case *Prompt:
		return x == nil
	}
	return false
}
