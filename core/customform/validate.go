package customform

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// MaxTextResponseLength is the longest answer accepted by a text prompt, in characters.
const MaxTextResponseLength = 10000

var (
	// errors
	ErrResponseRequired  = errors.New("this prompt requires a response")
	ErrResponseTooLong   = errors.Errorf("response must not exceed %d characters", MaxTextResponseLength)
	ErrLikertOutOfRange  = errors.New("response is outside of the likert scale")
	ErrResponseBlank     = errors.New("response cannot be blank")
	ErrCheckboxUnchecked = errors.New("checkbox must be checked")
	ErrUnknownPromptType = errors.New("unknown prompt type")
)

// ResponseError reports the first invalid prompt response of a form.
type ResponseError struct {
	Order int
	Err   error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("prompt #%d: %v", e.Order, e.Err)
}

func (e *ResponseError) Cause() error  { return e.Err }
func (e *ResponseError) Unwrap() error { return e.Err }

// CheckResponse applies the response rules of the prompt's type to its Value.
func (p *Prompt) CheckResponse() error {
	if p.Value.IsEmpty() {
		if p.Required {
			return ErrResponseRequired
		}
		return nil
	}

	switch p.Type {
	case Text:
		if s, ok := p.Value.AsString(); ok {
			if utf8.RuneCountInString(s) > MaxTextResponseLength {
				return ErrResponseTooLong
			}
			if strings.TrimSpace(s) == "" {
				return ErrResponseBlank
			}
		}
	case Dropdown:
		if s, ok := p.Value.AsString(); ok && strings.TrimSpace(s) == "" {
			return ErrResponseBlank
		}
	case Likert3, Likert5, Likert7:
		scale, _ := p.Type.LikertScale()
		if n, ok := p.Value.AsInt(); !ok || n < 1 || n > scale {
			return ErrLikertOutOfRange
		}
	case Checkbox:
		// optional checkboxes must be checked too once answered
		if b, ok := p.Value.AsBool(); !ok || !b {
			return ErrCheckboxUnchecked
		}
	default:
		return ErrUnknownPromptType
	}
	return nil
}

// CheckResponses checks the prompts of elems in order and stops at the first invalid one,
// returned as a *ResponseError. Headings and text blocks are skipped.
func CheckResponses(elems []Element) error {
	for _, el := range elems {
		p, ok := el.(*Prompt)
		if !ok || p == nil {
			continue
		}
		if err := p.CheckResponse(); err != nil {
			return &ResponseError{Order: p.Order, Err: err}
		}
	}
	return nil
}

// Validate reports whether every prompt response of elems is valid.
func Validate(elems []Element) bool {
	return CheckResponses(elems) == nil
}
