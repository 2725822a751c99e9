package customform

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainPolicy     *bluemonday.Policy
	richPolicy      *bluemonday.Policy
	policiesInitter sync.Once
)

func initPolicies() {
	policiesInitter.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
		richPolicy = bluemonday.UGCPolicy()
	})
}

// SanitizePlain strips all markup from headings, prompt texts & option labels.
// The result stays HTML-escaped, so sanitizing it again is a no-op.
func SanitizePlain(s string) string {
	initPolicies()
	return strings.TrimSpace(plainPolicy.Sanitize(s))
}

// SanitizeRich keeps the user-generated-content safe markup of text blocks.
func SanitizeRich(s string) string {
	initPolicies()
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// Sanitize cleans every author-supplied text of doc in place.
func Sanitize(doc Document) {
	for _, h := range doc.Headings {
		h.Text = SanitizePlain(h.Text)
	}
	for _, tb := range doc.TextBlocks {
		tb.Text = SanitizeRich(tb.Text)
	}
	for _, p := range doc.Prompts {
		p.Text = SanitizePlain(p.Text)
		for i := range p.Options {
			p.Options[i].Label = SanitizePlain(p.Options[i].Label)
		}
	}
}
