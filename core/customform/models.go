package customform

import (
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/fomu/core"
)

var ErrMissingOptions = errors.New("a dropdown prompt requires options")

// Purpose is what a custom form is used for.
type Purpose string

const (
	PurposeRegistration Purpose = "registration"
	PurposeRubric       Purpose = "rubric"
)

var Purposes = []Purpose{PurposeRegistration, PurposeRubric}

func (p Purpose) Valid() bool {
	return slices.Contains(Purposes, p)
}

type CustomForm struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Purpose     Purpose   `json:"purpose"`
	NotifyEmail string    `json:"notify_email"`
	Content     Document  `json:"content"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Elements returns the merged view of the form content.
func (f CustomForm) Elements() []Element {
	return Merge(f.Content)
}

// Clone deep copies the form so that edits never touch a stored snapshot.
func (f CustomForm) Clone() CustomForm {
	f.Content = f.Content.Clone()
	return f
}

type Submission struct {
	ID         string     `json:"id"`
	FormID     string     `json:"form_id"`
	Respondent string     `json:"respondent"`
	Responses  []Response `json:"responses"`
	CreatedAt  time.Time  `json:"created_at"` // UTC
}

// NewCustomForm contains information needed to create a new CustomForm.
type NewCustomForm struct {
	Title       string    `json:"title" validate:"required,notblank,max=255"`
	Purpose     Purpose   `json:"purpose" validate:"required,purpose"`
	NotifyEmail string    `json:"notify_email" validate:"omitempty,email"`
	Content     *Document `json:"content"`
}

func (nf *NewCustomForm) Validate(validate *validator.Validate) error {
	nf.Title = SanitizePlain(nf.Title)
	nf.NotifyEmail = core.CleanString(nf.NotifyEmail, true /* lower */)

	if err := validate.Struct(nf); err != nil {
		return err
	}
	if nf.Content != nil {
		return checkContent(*nf.Content)
	}
	return nil
}

// UpdateCustomForm defines what information may be provided to modify an existing CustomForm.
type UpdateCustomForm struct {
	Title       string  `json:"title" validate:"omitempty,max=255"`
	Purpose     Purpose `json:"purpose" validate:"omitempty,purpose"`
	NotifyEmail *string `json:"notify_email" validate:"omitempty,email"`
}

func (uf *UpdateCustomForm) Validate(orig CustomForm, validate *validator.Validate) error {
	if title := SanitizePlain(uf.Title); title != "" {
		uf.Title = title
	} else {
		uf.Title = orig.Title
	}
	if uf.Purpose == "" {
		uf.Purpose = orig.Purpose
	}
	if uf.NotifyEmail != nil {
		email := core.CleanString(*uf.NotifyEmail, true /* lower */)
		uf.NotifyEmail = &email
	}
	check := *uf
	if check.NotifyEmail != nil && *check.NotifyEmail == "" { // clears the notification email
		check.NotifyEmail = nil
	}
	return validate.Struct(check)
}

// ReplaceContent is a whole new document for a form, as saved by the form editor.
type ReplaceContent struct {
	Content Document `json:"content"`
}

func (rc *ReplaceContent) Validate() error {
	return checkContent(rc.Content)
}

func checkContent(doc Document) error {
	if err := doc.checkNoNil(); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "content", Error: err.Error()})
	}
	if err := doc.CheckContiguity(); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "content", Error: err.Error()})
	}
	for _, p := range doc.Prompts {
		var err error
		switch {
		case !p.Type.Valid():
			err = ErrUnknownPromptType
		case p.Type == Dropdown && len(p.Options) == 0:
			err = ErrMissingOptions
		}
		if err != nil {
			err = &ResponseError{Order: p.Order, Err: err}
			return core.NewValidationError(err, core.FieldError{Field: "content", Error: err.Error()})
		}
	}
	return nil
}

type NewHeading struct {
	Text string `json:"text" validate:"required,notblank"`
}

func (nh *NewHeading) Validate(validate *validator.Validate) error {
	nh.Text = SanitizePlain(nh.Text)
	return validate.Struct(nh)
}

type NewTextBlock struct {
	Text string `json:"text" validate:"required,notblank"`
}

func (ntb *NewTextBlock) Validate(validate *validator.Validate) error {
	ntb.Text = SanitizeRich(ntb.Text)
	return validate.Struct(ntb)
}

type NewPrompt struct {
	Text     string     `json:"promptText" validate:"required,notblank"`
	Type     PromptType `json:"promptType" validate:"required,prompttype"`
	Required bool       `json:"promptRequired"`
	Options  []Option   `json:"promptOptions" validate:"omitempty,dive"`
}

func (np *NewPrompt) Validate(validate *validator.Validate) error {
	np.Text = SanitizePlain(np.Text)
	for i := range np.Options {
		np.Options[i].Value = core.CleanString(np.Options[i].Value)
		np.Options[i].Label = SanitizePlain(np.Options[i].Label)
	}
	return validate.Struct(np)
}

type MoveElement struct {
	Direction Direction `json:"direction" validate:"required,oneof=up down"`
}

func (me MoveElement) Validate(validate *validator.Validate) error { return validate.Struct(me) }

// SubmitResponses holds the responses of a respondent, keyed by prompt order.
type SubmitResponses struct {
	Responses map[int]Value `json:"responses"`
}

type QueryFilter struct {
	Search  string  `query:"search"`
	Purpose Purpose `query:"purpose"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Purpose = Purpose(core.CleanString(string(qf.Purpose), true /* lower */))
}
