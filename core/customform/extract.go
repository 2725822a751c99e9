package customform

import (
	"github.com/pkg/errors"
)

var ErrUnknownPrompt = errors.New("no prompt at this order")

// Response is the submitted answer of the prompt at order PromptNum.
type Response struct {
	PromptNum   int    `json:"promptNum"`
	ResponseVal string `json:"responseVal"`
}

// Extract collects the responses of every prompt of elems, in order.
// It does not validate them; run CheckResponses first.
func Extract(elems []Element) []Response {
	responses := make([]Response, 0)
	for _, el := range elems {
		p, ok := el.(*Prompt)
		if !ok || p == nil {
			continue
		}
		responses = append(responses, Response{PromptNum: p.Order, ResponseVal: p.Value.String()})
	}
	return responses
}

// SetResponses sets the value of the prompts of doc keyed by their order.
// Prompts missing from values are left untouched.
func SetResponses(doc Document, values map[int]Value) error {
	byOrder := make(map[int]*Prompt, len(doc.Prompts))
	for _, p := range doc.Prompts {
		byOrder[p.Order] = p
	}
	for order := range values {
		if _, ok := byOrder[order]; !ok {
			return &ResponseError{Order: order, Err: ErrUnknownPrompt}
		}
	}
	for order, val := range values {
		byOrder[order].Value = val
	}
	return nil
}
