package customform

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/fomu/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = errors.New("custom form not found")
)

type (
	Repository interface {
		CreateForm(ctx context.Context, form CustomForm) (CustomForm, error)
		// QueryForms applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on CustomForm.Title.
		QueryForms(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]CustomForm, error)
		GetForm(ctx context.Context, id string) (CustomForm, error)
		UpdateForm(ctx context.Context, form CustomForm) (CustomForm, error)
		DeleteForms(ctx context.Context, ids ...string) error
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		QuerySubmissions(ctx context.Context, formID string) ([]Submission, error)
	}

	Service interface {
		Create(ctx context.Context, nf NewCustomForm) (CustomForm, error)
		Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]CustomForm, error)
		GetByID(ctx context.Context, id string) (CustomForm, error)
		Update(ctx context.Context, id string, uf UpdateCustomForm) (CustomForm, error)
		Delete(ctx context.Context, ids ...string) error

		ReplaceContent(ctx context.Context, id string, doc Document) (CustomForm, error)
		AddHeading(ctx context.Context, id string, nh NewHeading) (CustomForm, error)
		AddTextBlock(ctx context.Context, id string, ntb NewTextBlock) (CustomForm, error)
		AddPrompt(ctx context.Context, id string, np NewPrompt) (CustomForm, error)
		MoveElement(ctx context.Context, id string, ref Ref, dir Direction) (CustomForm, error)
		DeleteElement(ctx context.Context, id string, ref Ref) (CustomForm, error)

		Preview(ctx context.Context, id string, values map[int]Value) (PreviewResult, error)
		Submit(ctx context.Context, id, respondent string, values map[int]Value) (Submission, error)
		QuerySubmissions(ctx context.Context, id string) ([]Submission, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger

		// serializes edits so that each one starts from the latest stored content
		editMu sync.Mutex
	}
)

// PreviewResult is the outcome of validating responses without submitting them.
type PreviewResult struct {
	Valid      bool       `json:"valid"`
	PromptNum  int        `json:"prompt_num,omitempty"`
	Error      string     `json:"error,omitempty"`
	Responses  []Response `json:"responses"`
	FormLength int        `json:"form_length"`
}

var _ Service = (*service)(nil) // interface compliance check

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

func (svc *service) Create(ctx context.Context, nf NewCustomForm) (CustomForm, error) {
	now := NowFunc().UTC()
	form := CustomForm{
		ID:          uuid.New().String(),
		Title:       nf.Title,
		Purpose:     nf.Purpose,
		NotifyEmail: nf.NotifyEmail,
		Content:     Document{Headings: []*Heading{}, Prompts: []*Prompt{}, TextBlocks: []*TextBlock{}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if nf.Content != nil {
		if err := checkContent(*nf.Content); err != nil {
			return CustomForm{}, err
		}
		form.Content = nf.Content.Clone()
		Sanitize(form.Content)
	}
	return svc.repo.CreateForm(ctx, form)
}

func (svc *service) Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]CustomForm, error) {
	filter.Clean()
	return svc.repo.QueryForms(ctx, filter, ordering...)
}

func (svc *service) GetByID(ctx context.Context, id string) (CustomForm, error) {
	return svc.repo.GetForm(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, uf UpdateCustomForm) (CustomForm, error) {
	return svc.edit(ctx, id, func(form *CustomForm) (bool, error) {
		form.Title = uf.Title
		form.Purpose = uf.Purpose
		if uf.NotifyEmail != nil {
			form.NotifyEmail = *uf.NotifyEmail
		}
		return true, nil
	})
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteForms(ctx, ids...)
}

// edit applies fn to a copy of the latest stored form and saves it when fn reports a change.
func (svc *service) edit(ctx context.Context, id string, fn func(form *CustomForm) (bool, error)) (CustomForm, error) {
	svc.editMu.Lock()
	defer svc.editMu.Unlock()

	form, err := svc.repo.GetForm(ctx, id)
	if err != nil {
		return CustomForm{}, err
	}
	form = form.Clone()

	changed, err := fn(&form)
	if err != nil {
		return CustomForm{}, err
	}
	if !changed {
		return form, nil
	}
	form.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateForm(ctx, form)
}

func (svc *service) ReplaceContent(ctx context.Context, id string, doc Document) (CustomForm, error) {
	if err := checkContent(doc); err != nil {
		return CustomForm{}, err
	}
	return svc.edit(ctx, id, func(form *CustomForm) (bool, error) {
		form.Content = doc.Clone()
		Sanitize(form.Content)
		return true, nil
	})
}

func (svc *service) appendElement(ctx context.Context, id string, el Element) (CustomForm, error) {
	return svc.edit(ctx, id, func(form *CustomForm) (bool, error) {
		f, err := NewForm(form.Content)
		if err != nil {
			return false, errors.Wrapf(err, "loading form %s", form.ID)
		}
		if err = f.Append(el); err != nil {
			return false, err
		}
		form.Content = f.Document()
		return true, nil
	})
}

func (svc *service) AddHeading(ctx context.Context, id string, nh NewHeading) (CustomForm, error) {
	return svc.appendElement(ctx, id, &Heading{Text: nh.Text})
}

func (svc *service) AddTextBlock(ctx context.Context, id string, ntb NewTextBlock) (CustomForm, error) {
	return svc.appendElement(ctx, id, &TextBlock{Text: ntb.Text})
}

func (svc *service) AddPrompt(ctx context.Context, id string, np NewPrompt) (CustomForm, error) {
	return svc.appendElement(ctx, id, &Prompt{
		Text:     np.Text,
		Type:     np.Type,
		Required: np.Required,
		Options:  np.Options,
	})
}

func (svc *service) engine(form *CustomForm) *Engine {
	return NewEngine(
		NewDocumentState(&form.Content),
		WithErrorSink(func(err error) {
			svc.logger.Warn(fmt.Sprintf("custom form %s: %v", form.ID, err), err)
		}),
		WithBusyNotifier(func(busy bool) {
			if busy {
				svc.logger.Debug(fmt.Sprintf("custom form %s: deleting element", form.ID))
			} else {
				svc.logger.Debug(fmt.Sprintf("custom form %s: element deleted", form.ID))
			}
		}),
	)
}

func (svc *service) MoveElement(ctx context.Context, id string, ref Ref, dir Direction) (CustomForm, error) {
	return svc.edit(ctx, id, func(form *CustomForm) (bool, error) {
		el, ok := Lookup(form.Content, ref)
		if !ok {
			return false, nil
		}
		return svc.engine(form).Move(el, dir)
	})
}

func (svc *service) DeleteElement(ctx context.Context, id string, ref Ref) (CustomForm, error) {
	return svc.edit(ctx, id, func(form *CustomForm) (bool, error) {
		el, ok := Lookup(form.Content, ref)
		if !ok {
			return false, nil
		}
		return svc.engine(form).Delete(el)
	})
}

// fill returns the merged elements of a copy of form holding values.
func fill(form CustomForm, values map[int]Value) ([]Element, error) {
	doc := form.Content.Clone()
	if err := SetResponses(doc, values); err != nil {
		return nil, responseValidationError(err)
	}
	return Merge(doc), nil
}

func responseValidationError(err error) error {
	field := "responses"
	if rErr, ok := err.(*ResponseError); ok {
		field += "." + strconv.Itoa(rErr.Order)
		return core.NewValidationError(err, core.FieldError{Field: field, Error: rErr.Err.Error()})
	}
	return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
}

func (svc *service) Preview(ctx context.Context, id string, values map[int]Value) (PreviewResult, error) {
	form, err := svc.repo.GetForm(ctx, id)
	if err != nil {
		return PreviewResult{}, err
	}
	elems, err := fill(form, values)
	if err != nil {
		return PreviewResult{}, err
	}

	res := PreviewResult{Valid: true, Responses: Extract(elems), FormLength: len(elems)}
	if err = CheckResponses(elems); err != nil {
		res.Valid = false
		res.Error = err.Error()
		if rErr, ok := err.(*ResponseError); ok {
			res.PromptNum = rErr.Order
			res.Error = rErr.Err.Error()
		}
	}
	return res, nil
}

func (svc *service) Submit(ctx context.Context, id, respondent string, values map[int]Value) (Submission, error) {
	form, err := svc.repo.GetForm(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	elems, err := fill(form, values)
	if err != nil {
		return Submission{}, err
	}
	if err = CheckResponses(elems); err != nil {
		return Submission{}, responseValidationError(err)
	}

	sub, err := svc.repo.CreateSubmission(ctx, Submission{
		ID:         uuid.New().String(),
		FormID:     form.ID,
		Respondent: respondent,
		Responses:  Extract(elems),
		CreatedAt:  NowFunc().UTC(),
	})
	if err != nil {
		return Submission{}, errors.Wrap(err, "saving submission")
	}
	svc.notifyOwner(form, sub)
	return sub, nil
}

func (svc *service) notifyOwner(form CustomForm, sub Submission) {
	if form.NotifyEmail == "" || svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: form.NotifyEmail}},
		Subject:      "New response to " + form.Title,
		TemplateName: "new_submission",
		TemplateData: map[string]interface{}{
			"FormID":     form.ID,
			"FormTitle":  form.Title,
			"Respondent": sub.Respondent,
			"Responses":  sub.Responses,
		},
	})
}

func (svc *service) QuerySubmissions(ctx context.Context, id string) ([]Submission, error) {
	if _, err := svc.repo.GetForm(ctx, id); err != nil {
		return nil, err
	}
	return svc.repo.QuerySubmissions(ctx, id)
}

// Lookup finds the element of doc referenced by ref.
func Lookup(doc Document, ref Ref) (Element, bool) {
	for _, el := range doc.Elements(CollectionOf(ref.Kind)) {
		if !isNilElement(el) && el.Position() == ref.Order {
			return el, true
		}
	}
	return nil, false
}
