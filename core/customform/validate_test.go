package customform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrompt_CheckResponse(t *testing.T) {
	tests := []struct {
		name    string
		prompt  Prompt
		wantErr error
	}{
		{name: "required absent", prompt: Prompt{Type: Likert3, Required: true}, wantErr: ErrResponseRequired},
		{name: "required empty string", prompt: Prompt{Type: Text, Required: true, Value: StringValue("")}, wantErr: ErrResponseRequired},
		{name: "optional absent", prompt: Prompt{Type: Text}},
		{name: "optional empty string", prompt: Prompt{Type: Dropdown, Value: StringValue("")}},

		{name: "text", prompt: Prompt{Type: Text, Value: StringValue("hello")}},
		{name: "text at max length", prompt: Prompt{Type: Text, Value: StringValue(strings.Repeat("é", MaxTextResponseLength))}},
		{name: "text too long", prompt: Prompt{Type: Text, Value: StringValue(strings.Repeat("a", MaxTextResponseLength+1))}, wantErr: ErrResponseTooLong},
		{name: "text blank", prompt: Prompt{Type: Text, Value: StringValue("   ")}, wantErr: ErrResponseBlank},
		{name: "text non string", prompt: Prompt{Type: Text, Value: NumberValue(3)}},

		{name: "dropdown", prompt: Prompt{Type: Dropdown, Value: StringValue("a")}},
		{name: "dropdown blank", prompt: Prompt{Type: Dropdown, Value: StringValue(" \t")}, wantErr: ErrResponseBlank},

		{name: "5-likert 0", prompt: Prompt{Type: Likert5, Value: NumberValue(0)}, wantErr: ErrLikertOutOfRange},
		{name: "5-likert 1", prompt: Prompt{Type: Likert5, Value: NumberValue(1)}},
		{name: "5-likert 5", prompt: Prompt{Type: Likert5, Value: NumberValue(5)}},
		{name: "5-likert 6", prompt: Prompt{Type: Likert5, Value: NumberValue(6)}, wantErr: ErrLikertOutOfRange},
		{name: "5-likert numeric string", prompt: Prompt{Type: Likert5, Value: StringValue("4")}},
		{name: "5-likert non numeric", prompt: Prompt{Type: Likert5, Value: StringValue("four")}, wantErr: ErrLikertOutOfRange},
		{name: "5-likert decimal string", prompt: Prompt{Type: Likert5, Value: StringValue("3.0")}, wantErr: ErrLikertOutOfRange},
		{name: "5-likert trailing garbage", prompt: Prompt{Type: Likert5, Value: StringValue("3abc")}, wantErr: ErrLikertOutOfRange},
		{name: "5-likert padded string", prompt: Prompt{Type: Likert5, Value: StringValue(" 3 ")}},
		{name: "5-likert decimal number", prompt: Prompt{Type: Likert5, Value: NumberValue(3.7)}},
		{name: "3-likert 4", prompt: Prompt{Type: Likert3, Value: NumberValue(4)}, wantErr: ErrLikertOutOfRange},
		{name: "7-likert 7", prompt: Prompt{Type: Likert7, Value: StringValue("7")}},
		{name: "likert bool", prompt: Prompt{Type: Likert7, Value: BoolValue(true)}, wantErr: ErrLikertOutOfRange},

		{name: "checkbox checked", prompt: Prompt{Type: Checkbox, Value: BoolValue(true)}},
		{name: "optional checkbox absent", prompt: Prompt{Type: Checkbox}},
		{name: "optional checkbox unchecked", prompt: Prompt{Type: Checkbox, Value: BoolValue(false)}, wantErr: ErrCheckboxUnchecked},
		{name: "required checkbox unchecked", prompt: Prompt{Type: Checkbox, Required: true, Value: BoolValue(false)}, wantErr: ErrCheckboxUnchecked},
		{name: "checkbox string", prompt: Prompt{Type: Checkbox, Value: StringValue("true")}, wantErr: ErrCheckboxUnchecked},

		{name: "unknown type", prompt: Prompt{Type: "slider", Value: NumberValue(1)}, wantErr: ErrUnknownPromptType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prompt.CheckResponse()
			if err != tt.wantErr {
				t.Errorf("CheckResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("required likert without value", func(t *testing.T) {
		elems := []Element{&Prompt{Order: 1, Type: Likert3, Required: true}}
		assert.False(t, Validate(elems))
	})

	t.Run("first invalid prompt wins", func(t *testing.T) {
		elems := []Element{
			&Heading{Order: 1},
			&Prompt{Order: 2, Type: Text, Value: StringValue("ok")},
			&Prompt{Order: 3, Type: Likert5, Required: true},
			&TextBlock{Order: 4},
			&Prompt{Order: 5, Type: Likert5, Value: NumberValue(9)},
		}
		err := CheckResponses(elems)
		var rErr *ResponseError
		if assert.ErrorAs(t, err, &rErr) {
			assert.Equal(t, 3, rErr.Order)
			assert.ErrorIs(t, err, ErrResponseRequired)
		}
		assert.False(t, Validate(elems))
	})

	t.Run("no prompts", func(t *testing.T) {
		assert.True(t, Validate([]Element{&Heading{Order: 1}, &TextBlock{Order: 2}}))
		assert.True(t, Validate(nil))
	})

	t.Run("all valid", func(t *testing.T) {
		elems := []Element{
			&Prompt{Order: 1, Type: Checkbox, Required: true, Value: BoolValue(true)},
			&Prompt{Order: 2, Type: Dropdown, Value: StringValue("b")},
			&Prompt{Order: 3, Type: Checkbox},
		}
		assert.True(t, Validate(elems))
	})
}
