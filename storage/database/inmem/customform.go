package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/fomu/core"
	"github.com/trezcool/fomu/core/customform"
)

type customFormRepository struct {
	db *DB
}

var _ customform.Repository = (*customFormRepository)(nil) // interface compliance check

func NewCustomFormRepository(db *DB) customform.Repository {
	return &customFormRepository{db: db}
}

func (repo *customFormRepository) CreateForm(_ context.Context, form customform.CustomForm) (customform.CustomForm, error) {
	repo.db.forms.mutex.Lock()
	defer repo.db.forms.mutex.Unlock()

	stored := form.Clone()
	repo.db.forms.table[form.ID] = &stored
	return stored.Clone(), nil
}

func (repo *customFormRepository) QueryForms(_ context.Context, filter customform.QueryFilter, ordering ...core.DBOrdering) ([]customform.CustomForm, error) {
	repo.db.forms.mutex.RLock()
	defer repo.db.forms.mutex.RUnlock()

	search := strings.ToLower(filter.Search)
	forms := make([]customform.CustomForm, 0, len(repo.db.forms.table))
	for _, f := range repo.db.forms.table {
		if search != "" && !strings.Contains(strings.ToLower(f.Title), search) {
			continue
		}
		if filter.Purpose != "" && f.Purpose != filter.Purpose {
			continue
		}
		forms = append(forms, f.Clone())
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at"}}
	}
	sort.SliceStable(forms, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareForms(forms[i], forms[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return forms, nil
}

func compareForms(a, b customform.CustomForm, field string) int {
	switch field {
	case "title":
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case "purpose":
		return strings.Compare(string(a.Purpose), string(b.Purpose))
	case "created_at":
		return compareTimes(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case "updated_at":
		return compareTimes(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	}
	return 0
}

func compareTimes(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (repo *customFormRepository) GetForm(_ context.Context, id string) (customform.CustomForm, error) {
	repo.db.forms.mutex.RLock()
	defer repo.db.forms.mutex.RUnlock()

	if f, ok := repo.db.forms.table[id]; ok {
		return f.Clone(), nil
	}
	return customform.CustomForm{}, customform.ErrNotFound
}

func (repo *customFormRepository) UpdateForm(_ context.Context, form customform.CustomForm) (customform.CustomForm, error) {
	repo.db.forms.mutex.Lock()
	defer repo.db.forms.mutex.Unlock()

	orig, ok := repo.db.forms.table[form.ID]
	if !ok {
		return customform.CustomForm{}, customform.ErrNotFound
	}
	stored := form.Clone()
	stored.CreatedAt = orig.CreatedAt
	repo.db.forms.table[form.ID] = &stored
	return stored.Clone(), nil
}

func (repo *customFormRepository) DeleteForms(_ context.Context, ids ...string) error {
	repo.db.forms.mutex.Lock()
	defer repo.db.forms.mutex.Unlock()
	repo.db.submissions.mutex.Lock()
	defer repo.db.submissions.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.forms.table, id)
		delete(repo.db.submissions.table, id)
	}
	return nil
}

func (repo *customFormRepository) CreateSubmission(_ context.Context, sub customform.Submission) (customform.Submission, error) {
	repo.db.forms.mutex.RLock()
	_, ok := repo.db.forms.table[sub.FormID]
	repo.db.forms.mutex.RUnlock()
	if !ok {
		return customform.Submission{}, customform.ErrNotFound
	}

	repo.db.submissions.mutex.Lock()
	defer repo.db.submissions.mutex.Unlock()

	sub.Responses = append([]customform.Response{}, sub.Responses...)
	repo.db.submissions.table[sub.FormID] = append(repo.db.submissions.table[sub.FormID], sub)
	return sub, nil
}

func (repo *customFormRepository) QuerySubmissions(_ context.Context, formID string) ([]customform.Submission, error) {
	repo.db.submissions.mutex.RLock()
	defer repo.db.submissions.mutex.RUnlock()

	subs := make([]customform.Submission, 0, len(repo.db.submissions.table[formID]))
	for _, s := range repo.db.submissions.table[formID] {
		s.Responses = append([]customform.Response{}, s.Responses...)
		subs = append(subs, s)
	}
	return subs, nil
}
