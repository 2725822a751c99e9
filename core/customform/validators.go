package customform

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/fomu/core"
)

var (
	purposeTag  = "purpose"
	purposeText = "invalid purpose"

	promptTypeTag  = "prompttype"
	promptTypeText = "invalid prompt type"

	dropdownOptionsTag  = "dropdown_options"
	dropdownOptionsText = "a dropdown prompt requires options"

	uniqueOptionsTag  = "unique_options"
	uniqueOptionsText = "option values must be unique"
)

// InitValidators registers the custom form validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(purposeTag, purposeValidation)
	core.RegisterCustomTranslation(validate, translator, purposeTag, purposeText)

	_ = validate.RegisterValidation(promptTypeTag, promptTypeValidation)
	core.RegisterCustomTranslation(validate, translator, promptTypeTag, promptTypeText)

	validate.RegisterStructValidation(promptStructValidation, NewPrompt{})
	core.RegisterCustomTranslation(validate, translator, dropdownOptionsTag, dropdownOptionsText)
	core.RegisterCustomTranslation(validate, translator, uniqueOptionsTag, uniqueOptionsText)
}

// Custom Validators

func purposeValidation(fl validator.FieldLevel) bool {
	return Purpose(fl.Field().String()).Valid()
}

func promptTypeValidation(fl validator.FieldLevel) bool {
	return PromptType(fl.Field().String()).Valid()
}

// promptStructValidation checks the options of a NewPrompt:
// - a dropdown must have options
// - option values are unique
func promptStructValidation(sl validator.StructLevel) {
	np, ok := sl.Current().Interface().(NewPrompt)
	if !ok {
		return
	}
	if np.Type == Dropdown && len(np.Options) == 0 {
		sl.ReportError(np.Options, "promptOptions", "Options", dropdownOptionsTag, "")
		return
	}
	seen := make(map[string]struct{}, len(np.Options))
	for _, opt := range np.Options {
		if _, dup := seen[opt.Value]; dup {
			sl.ReportError(np.Options, "promptOptions", "Options", uniqueOptionsTag, "")
			return
		}
		seen[opt.Value] = struct{}{}
	}
}
