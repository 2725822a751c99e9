package customform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{in: "heading", want: KindHeading},
		{in: " Headings ", want: KindHeading},
		{in: "textBlock", want: KindTextBlock},
		{in: "text-blocks", want: KindTextBlock},
		{in: "TEXTBLOCKS", want: KindTextBlock},
		{in: "prompts", want: KindPrompt},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseKind(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, in := range []string{"", "s", "option", "promptss"} {
		_, err := ParseKind(in)
		assert.Error(t, err, in)
	}
}

func TestEnums_Valid(t *testing.T) {
	for _, k := range Kinds {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, Kind("textblock").Valid())

	for _, pt := range PromptTypes {
		assert.True(t, pt.Valid(), pt)
	}
	assert.False(t, PromptType("likert5").Valid())
	assert.False(t, PromptType("").Valid())

	for _, p := range Purposes {
		assert.True(t, p.Valid(), p)
	}
	assert.False(t, Purpose("survey").Valid())
}
