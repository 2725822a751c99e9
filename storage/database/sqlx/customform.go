package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/fomu/core"
	"github.com/trezcool/fomu/core/customform"
)

const (
	formColumns       = "id, title, purpose, notify_email, content, created_at, updated_at"
	submissionColumns = "id, form_id, respondent, responses, created_at"

	pqForeignKeyViolation = "23503"
)

// orderable maps the API ordering fields to custom_form columns.
var orderable = map[string]string{
	"title":      "title",
	"purpose":    "purpose",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type (
	formRow struct {
		ID          string         `db:"id"`
		Title       string         `db:"title"`
		Purpose     string         `db:"purpose"`
		NotifyEmail null.String    `db:"notify_email"`
		Content     types.JSONText `db:"content"`
		CreatedAt   time.Time      `db:"created_at"`
		UpdatedAt   time.Time      `db:"updated_at"`
	}

	submissionRow struct {
		ID         string         `db:"id"`
		FormID     string         `db:"form_id"`
		Respondent null.String    `db:"respondent"`
		Responses  types.JSONText `db:"responses"`
		CreatedAt  time.Time      `db:"created_at"`
	}
)

type customFormRepository struct {
	db *sqlx.DB
}

var _ customform.Repository = (*customFormRepository)(nil) // interface compliance check

func NewCustomFormRepository(db *sqlx.DB) customform.Repository {
	return &customFormRepository{db: db}
}

func toFormRow(form customform.CustomForm) (formRow, error) {
	content, err := json.Marshal(form.Content)
	if err != nil {
		return formRow{}, errors.Wrap(err, "encoding form content")
	}
	return formRow{
		ID:          form.ID,
		Title:       form.Title,
		Purpose:     string(form.Purpose),
		NotifyEmail: null.NewString(form.NotifyEmail, form.NotifyEmail != ""),
		Content:     content,
		CreatedAt:   form.CreatedAt.UTC(),
		UpdatedAt:   form.UpdatedAt.UTC(),
	}, nil
}

func (row formRow) toForm() (customform.CustomForm, error) {
	form := customform.CustomForm{
		ID:          row.ID,
		Title:       row.Title,
		Purpose:     customform.Purpose(row.Purpose),
		NotifyEmail: row.NotifyEmail.String,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
	if err := row.Content.Unmarshal(&form.Content); err != nil {
		return customform.CustomForm{}, errors.Wrapf(err, "decoding content of form %s", row.ID)
	}
	return form, nil
}

func (row submissionRow) toSubmission() (customform.Submission, error) {
	sub := customform.Submission{
		ID:         row.ID,
		FormID:     row.FormID,
		Respondent: row.Respondent.String,
		Responses:  []customform.Response{},
		CreatedAt:  row.CreatedAt.UTC(),
	}
	if err := row.Responses.Unmarshal(&sub.Responses); err != nil {
		return customform.Submission{}, errors.Wrapf(err, "decoding responses of submission %s", row.ID)
	}
	return sub, nil
}

// trapNoRowsErr maps psql "no rows" err to customform.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return customform.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *customFormRepository) CreateForm(ctx context.Context, form customform.CustomForm) (customform.CustomForm, error) {
	row, err := toFormRow(form)
	if err != nil {
		return customform.CustomForm{}, err
	}
	q := `INSERT INTO custom_form (` + formColumns + `)
		VALUES (:id, :title, :purpose, :notify_email, :content, :created_at, :updated_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return customform.CustomForm{}, errors.Wrap(err, "inserting custom form")
	}
	return row.toForm()
}

func (repo *customFormRepository) QueryForms(ctx context.Context, filter customform.QueryFilter, ordering ...core.DBOrdering) ([]customform.CustomForm, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, "title ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.Purpose != "" {
		args = append(args, string(filter.Purpose))
		where = append(where, "purpose = $"+strconv.Itoa(len(args)))
	}

	q := "SELECT " + formColumns + " FROM custom_form"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	orderBy := core.OrderByClause(ordering, orderable)
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	q += " ORDER BY " + orderBy

	var rows []formRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying custom forms")
	}
	forms := make([]customform.CustomForm, 0, len(rows))
	for _, row := range rows {
		form, err := row.toForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

func (repo *customFormRepository) GetForm(ctx context.Context, id string) (customform.CustomForm, error) {
	if _, err := uuid.Parse(id); err != nil {
		return customform.CustomForm{}, customform.ErrNotFound
	}
	var row formRow
	q := "SELECT " + formColumns + " FROM custom_form WHERE id = $1"
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return customform.CustomForm{}, trapNoRowsErr(err, "finding custom form by ID")
	}
	return row.toForm()
}

func (repo *customFormRepository) UpdateForm(ctx context.Context, form customform.CustomForm) (customform.CustomForm, error) {
	if _, err := uuid.Parse(form.ID); err != nil {
		return customform.CustomForm{}, customform.ErrNotFound
	}
	row, err := toFormRow(form)
	if err != nil {
		return customform.CustomForm{}, err
	}
	q := `UPDATE custom_form
		SET title = $2, purpose = $3, notify_email = $4, content = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + formColumns
	var updated formRow
	err = repo.db.GetContext(ctx, &updated, q, row.ID, row.Title, row.Purpose, row.NotifyEmail, row.Content, row.UpdatedAt)
	if err != nil {
		return customform.CustomForm{}, trapNoRowsErr(err, "updating custom form")
	}
	return updated.toForm()
}

func (repo *customFormRepository) DeleteForms(ctx context.Context, ids ...string) error {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	q, args, err := sqlx.In("DELETE FROM custom_form WHERE id IN (?)", valid)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting custom forms")
	}
	return nil
}

func (repo *customFormRepository) CreateSubmission(ctx context.Context, sub customform.Submission) (customform.Submission, error) {
	if _, err := uuid.Parse(sub.FormID); err != nil {
		return customform.Submission{}, customform.ErrNotFound
	}
	responses, err := json.Marshal(sub.Responses)
	if err != nil {
		return customform.Submission{}, errors.Wrap(err, "encoding responses")
	}
	row := submissionRow{
		ID:         sub.ID,
		FormID:     sub.FormID,
		Respondent: null.NewString(sub.Respondent, sub.Respondent != ""),
		Responses:  responses,
		CreatedAt:  sub.CreatedAt.UTC(),
	}
	q := `INSERT INTO custom_form_submission (` + submissionColumns + `)
		VALUES (:id, :form_id, :respondent, :responses, :created_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return customform.Submission{}, customform.ErrNotFound
		}
		return customform.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return row.toSubmission()
}

func (repo *customFormRepository) QuerySubmissions(ctx context.Context, formID string) ([]customform.Submission, error) {
	if _, err := uuid.Parse(formID); err != nil {
		return []customform.Submission{}, nil
	}
	var rows []submissionRow
	q := "SELECT " + submissionColumns + " FROM custom_form_submission WHERE form_id = $1 ORDER BY created_at"
	if err := repo.db.SelectContext(ctx, &rows, q, formID); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]customform.Submission, 0, len(rows))
	for _, row := range rows {
		sub, err := row.toSubmission()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
