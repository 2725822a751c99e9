package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/fomu/core"
	"github.com/trezcool/fomu/core/customform"
)

func newForm(id, title string, purpose customform.Purpose, createdAt time.Time) customform.CustomForm {
	return customform.CustomForm{
		ID:      id,
		Title:   title,
		Purpose: purpose,
		Content: customform.Document{
			Headings: []*customform.Heading{{Order: 1, Text: title}},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func ids(forms []customform.CustomForm) []string {
	out := make([]string, 0, len(forms))
	for _, f := range forms {
		out = append(out, f.ID)
	}
	return out
}

func Test_customFormRepository_QueryForms(t *testing.T) {
	repo := NewCustomFormRepository(Open())
	ctx := context.Background()
	now := time.Now().UTC()

	for _, f := range []customform.CustomForm{
		newForm("a", "Spring registration", customform.PurposeRegistration, now),
		newForm("b", "code review rubric", customform.PurposeRubric, now.Add(time.Hour)),
		newForm("c", "Fall Registration", customform.PurposeRegistration, now.Add(2*time.Hour)),
	} {
		_, err := repo.CreateForm(ctx, f)
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		filter   customform.QueryFilter
		ordering []core.DBOrdering
		want     []string
	}{
		{name: "default ordering", want: []string{"c", "b", "a"}},
		{name: "search", filter: customform.QueryFilter{Search: "registration"}, want: []string{"c", "a"}},
		{name: "purpose", filter: customform.QueryFilter{Purpose: customform.PurposeRubric}, want: []string{"b"}},
		{name: "no match", filter: customform.QueryFilter{Search: "lol"}, want: []string{}},
		{
			name: "title (case-insensitive)", ordering: []core.DBOrdering{{Field: "title", Ascending: true}},
			want: []string{"b", "c", "a"},
		},
		{
			name:     "purpose then -created_at",
			ordering: []core.DBOrdering{{Field: "purpose", Ascending: true}, {Field: "created_at"}},
			want:     []string{"c", "a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forms, err := repo.QueryForms(ctx, tt.filter, tt.ordering...)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, ids(forms)); diff != "" {
				t.Errorf("QueryForms() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_customFormRepository_snapshots(t *testing.T) {
	repo := NewCustomFormRepository(Open())
	ctx := context.Background()
	now := time.Now().UTC()

	form := newForm("a", "Hackathon", customform.PurposeRegistration, now)
	_, err := repo.CreateForm(ctx, form)
	require.NoError(t, err)

	// edits of returned forms never reach the stored one
	form.Content.Headings[0].Text = "changed"
	got, err := repo.GetForm(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Hackathon", got.Content.Headings[0].Text)

	got.Content.Headings[0].Text = "changed again"
	got.CreatedAt = now.Add(time.Hour)
	_, err = repo.UpdateForm(ctx, got)
	require.NoError(t, err)

	got, err = repo.GetForm(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "changed again", got.Content.Headings[0].Text)
	assert.True(t, got.CreatedAt.Equal(now), "created_at is immutable")

	_, err = repo.GetForm(ctx, "missing")
	assert.Equal(t, customform.ErrNotFound, err)
	_, err = repo.UpdateForm(ctx, newForm("missing", "", "", now))
	assert.Equal(t, customform.ErrNotFound, err)
}

func Test_customFormRepository_submissions(t *testing.T) {
	repo := NewCustomFormRepository(Open())
	ctx := context.Background()

	_, err := repo.CreateForm(ctx, newForm("a", "Hackathon", customform.PurposeRegistration, time.Now()))
	require.NoError(t, err)

	_, err = repo.CreateSubmission(ctx, customform.Submission{ID: "s1", FormID: "missing"})
	assert.Equal(t, customform.ErrNotFound, err)

	responses := []customform.Response{{PromptNum: 2, ResponseVal: "4"}}
	_, err = repo.CreateSubmission(ctx, customform.Submission{ID: "s1", FormID: "a", Responses: responses})
	require.NoError(t, err)
	responses[0].ResponseVal = "changed"

	subs, err := repo.QuerySubmissions(ctx, "a")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "4", subs[0].Responses[0].ResponseVal)

	require.NoError(t, repo.DeleteForms(ctx, "a"))
	subs, err = repo.QuerySubmissions(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, subs)
	_, err = repo.GetForm(ctx, "a")
	assert.Equal(t, customform.ErrNotFound, err)
}
