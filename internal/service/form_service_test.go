package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formpilot/internal/model"
)

type formFixture struct {
	svc          *FormService
	formRepo     *stubFormRepo
	responseRepo *stubResponseRepo
	userRepo     *stubUserRepo
	formCache    *stubFormCache
	completer    *stubCompleter
}

func newFormFixture() *formFixture {
	f := &formFixture{
		formRepo:     newStubFormRepo(),
		responseRepo: newStubResponseRepo(),
		userRepo:     newStubUserRepo(),
		formCache:    newStubFormCache(),
		completer:    &stubCompleter{response: `{"spamScore": 0.1}`},
	}
	assistant := NewAssistantService(f.completer, f.formRepo, f.responseRepo)
	f.svc = NewFormService(f.formRepo, f.responseRepo, f.userRepo, f.formCache, assistant)
	return f
}

func textQuestions() []model.Question {
	return []model.Question{
		{Type: model.QuestionTypeText, Label: "Q1"},
		{Type: model.QuestionTypeText, Label: "Q2"},
	}
}

func TestFormCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("trims the title and applies the default theme color", func(t *testing.T) {
		f := newFormFixture()
		owner := f.userRepo.add(&model.User{Email: "a@b.co"})

		form := &model.Form{Title: "  Event Feedback  ", Questions: textQuestions()}
		id, err := f.svc.Create(ctx, owner.ID, form)
		require.NoError(t, err)
		assert.Equal(t, "Event Feedback", f.formRepo.forms[id].Title)
		assert.Equal(t, model.DefaultPrimaryColor, f.formRepo.forms[id].Theme.PrimaryColor)
		assert.Equal(t, owner.ID, f.formRepo.forms[id].OwnerID)
		assert.Equal(t, 1, owner.FormsCreated)
	})

	t.Run("rejects a duplicate title for the same owner", func(t *testing.T) {
		f := newFormFixture()
		owner := f.userRepo.add(&model.User{Email: "a@b.co"})
		f.formRepo.add(&model.Form{OwnerID: owner.ID, Title: "Event Feedback"})

		_, err := f.svc.Create(ctx, owner.ID, &model.Form{Title: "Event Feedback", Questions: textQuestions()})
		assert.ErrorIs(t, err, ErrDuplicateTitle)
	})

	t.Run("same title is fine for a different owner", func(t *testing.T) {
		f := newFormFixture()
		f.formRepo.add(&model.Form{OwnerID: "other", Title: "Event Feedback"})
		owner := f.userRepo.add(&model.User{Email: "a@b.co"})

		_, err := f.svc.Create(ctx, owner.ID, &model.Form{Title: "Event Feedback", Questions: textQuestions()})
		assert.NoError(t, err)
	})

	t.Run("free tier caps at three forms", func(t *testing.T) {
		f := newFormFixture()
		owner := f.userRepo.add(&model.User{Email: "a@b.co", FormsCreated: 3})

		_, err := f.svc.Create(ctx, owner.ID, &model.Form{Title: "Fourth", Questions: textQuestions()})
		assert.ErrorIs(t, err, ErrFormLimit)
		assert.Empty(t, f.formRepo.forms)
	})

	t.Run("empty title is invalid", func(t *testing.T) {
		f := newFormFixture()
		owner := f.userRepo.add(&model.User{Email: "a@b.co"})

		_, err := f.svc.Create(ctx, owner.ID, &model.Form{Title: "   ", Questions: textQuestions()})
		assert.ErrorIs(t, err, ErrInvalidForm)
	})
}

func TestFormGet(t *testing.T) {
	ctx := context.Background()

	t.Run("public form served to anonymous and cached", func(t *testing.T) {
		f := newFormFixture()
		form := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Open", IsPublic: true})

		got, err := f.svc.Get(ctx, form.ID, "")
		require.NoError(t, err)
		assert.Equal(t, form.ID, got.ID)
		assert.Contains(t, f.formCache.entries, form.ID)
	})

	t.Run("private form refused to anonymous", func(t *testing.T) {
		f := newFormFixture()
		form := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Closed"})

		_, err := f.svc.Get(ctx, form.ID, "")
		assert.ErrorIs(t, err, ErrPrivateForm)
	})

	t.Run("private form refused to non-owner", func(t *testing.T) {
		f := newFormFixture()
		form := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Closed"})

		_, err := f.svc.Get(ctx, form.ID, "user2")
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("private form served to owner without caching", func(t *testing.T) {
		f := newFormFixture()
		form := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Closed"})

		got, err := f.svc.Get(ctx, form.ID, "user1")
		require.NoError(t, err)
		assert.Equal(t, form.ID, got.ID)
		assert.NotContains(t, f.formCache.entries, form.ID)
	})

	t.Run("unknown form", func(t *testing.T) {
		f := newFormFixture()

		_, err := f.svc.Get(ctx, "missing", "user1")
		assert.ErrorIs(t, err, ErrFormNotFound)
	})
}

func TestFormUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("owner update invalidates the cache entry", func(t *testing.T) {
		f := newFormFixture()
		form := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Open", IsPublic: true})
		f.formCache.entries[form.ID] = form

		updated := &model.Form{ID: form.ID, Title: "Open v2", Questions: textQuestions(), IsPublic: true}
		require.NoError(t, f.svc.Update(ctx, "user1", updated))
		assert.Equal(t, "Open v2", f.formRepo.forms[form.ID].Title)
		assert.NotContains(t, f.formCache.entries, form.ID)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		f := newFormFixture()
		form := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Open"})

		err := f.svc.Update(ctx, "user2", &model.Form{ID: form.ID, Title: "Hijacked"})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("renaming onto an existing title is rejected", func(t *testing.T) {
		f := newFormFixture()
		f.formRepo.add(&model.Form{OwnerID: "user1", Title: "First"})
		second := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Second"})

		err := f.svc.Update(ctx, "user1", &model.Form{ID: second.ID, Title: "First"})
		assert.ErrorIs(t, err, ErrDuplicateTitle)
	})

	t.Run("keeping the same title skips the duplicate check", func(t *testing.T) {
		f := newFormFixture()
		form := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Keep"})

		err := f.svc.Update(ctx, "user1", &model.Form{ID: form.ID, Title: "Keep", Questions: textQuestions()})
		assert.NoError(t, err)
	})
}

func TestFormDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner delete removes the form, its responses and its cache entry", func(t *testing.T) {
		f := newFormFixture()
		form := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Doomed", IsPublic: true})
		f.formCache.entries[form.ID] = form
		require.NoError(t, f.responseRepo.Create(ctx, &model.Response{FormID: form.ID, OwnerID: "user1"}))

		require.NoError(t, f.svc.Delete(ctx, "user1", form.ID))
		assert.NotContains(t, f.formRepo.forms, form.ID)
		assert.Empty(t, f.responseRepo.byForm[form.ID])
		assert.NotContains(t, f.formCache.entries, form.ID)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		f := newFormFixture()
		form := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Safe"})

		assert.ErrorIs(t, f.svc.Delete(ctx, "user2", form.ID), ErrNotOwner)
		assert.Contains(t, f.formRepo.forms, form.ID)
	})

	t.Run("unknown form", func(t *testing.T) {
		f := newFormFixture()

		assert.ErrorIs(t, f.svc.Delete(ctx, "user1", "missing"), ErrFormNotFound)
	})
}

func TestFormSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the response with its spam score and owner stats", func(t *testing.T) {
		f := newFormFixture()
		owner := f.userRepo.add(&model.User{Email: "a@b.co"})
		form := f.formRepo.add(&model.Form{OwnerID: owner.ID, Title: "Open", IsPublic: true})

		data := map[string]interface{}{
			"Q1":     "hello",
			"Upload": map[string]interface{}{"name": "resume.pdf", "size": float64(2048)},
		}
		resp, err := f.svc.Submit(ctx, form.ID, data, "203.0.113.9")
		require.NoError(t, err)
		assert.Equal(t, 0.1, resp.SpamScore)
		assert.Equal(t, owner.ID, resp.OwnerID)
		assert.Equal(t, "203.0.113.9", resp.IP)
		assert.Len(t, f.responseRepo.byForm[form.ID], 1)
		assert.Equal(t, 1, owner.TotalResponses)
		assert.Equal(t, int64(2048), owner.TotalUploads)
	})

	t.Run("blocks above the spam threshold without storing", func(t *testing.T) {
		f := newFormFixture()
		f.completer.response = `{"spamScore": 0.95}`
		owner := f.userRepo.add(&model.User{Email: "a@b.co"})
		form := f.formRepo.add(&model.Form{OwnerID: owner.ID, Title: "Open", IsPublic: true})

		_, err := f.svc.Submit(ctx, form.ID, map[string]interface{}{"Q1": "SPAM"}, "")
		assert.ErrorIs(t, err, ErrSpamBlocked)
		assert.Empty(t, f.responseRepo.byForm[form.ID])
		assert.Equal(t, 0, owner.TotalResponses)
	})

	t.Run("a score at the threshold passes", func(t *testing.T) {
		f := newFormFixture()
		f.completer.response = `{"spamScore": 0.8}`
		owner := f.userRepo.add(&model.User{Email: "a@b.co"})
		form := f.formRepo.add(&model.Form{OwnerID: owner.ID, Title: "Open", IsPublic: true})

		resp, err := f.svc.Submit(ctx, form.ID, map[string]interface{}{"Q1": "borderline"}, "")
		require.NoError(t, err)
		assert.Equal(t, 0.8, resp.SpamScore)
	})

	t.Run("private form cannot be submitted to", func(t *testing.T) {
		f := newFormFixture()
		form := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Closed"})

		_, err := f.svc.Submit(ctx, form.ID, map[string]interface{}{}, "")
		assert.ErrorIs(t, err, ErrPrivateForm)
	})
}

func TestFormResponses(t *testing.T) {
	ctx := context.Background()
	f := newFormFixture()
	form := f.formRepo.add(&model.Form{OwnerID: "user1", Title: "Open", IsPublic: true})
	require.NoError(t, f.responseRepo.Create(ctx, &model.Response{FormID: form.ID, OwnerID: "user1"}))

	got, err := f.svc.Responses(ctx, form.ID, "user1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.svc.Responses(ctx, form.ID, "user2")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	f := newFormFixture()
	form := f.formRepo.add(&model.Form{
		OwnerID:  "user1",
		Title:    "Open",
		IsPublic: true,
		Questions: []model.Question{
			{Type: model.QuestionTypeText, Label: "Name"},
			{Type: model.QuestionTypeCheckbox, Label: "Toppings"},
			{Type: model.QuestionTypeRating, Label: "Rating"},
			{Type: model.QuestionTypeFile, Label: "Photo"},
		},
	})
	submitted := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, f.responseRepo.Create(ctx, &model.Response{
		FormID:    form.ID,
		OwnerID:   "user1",
		CreatedAt: submitted,
		Data: map[string]interface{}{
			"Name":     "Ada",
			"Toppings": []interface{}{"cheese", "basil"},
			"Rating":   float64(4),
			"Photo":    map[string]interface{}{"name": "pizza.jpg", "size": float64(1024)},
		},
	}))

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportCSV(ctx, form.ID, "user1", &buf))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Toppings,Rating,Photo,submittedAt", string(lines[0]))
	assert.Equal(t, "Ada,cheese; basil,4,pizza.jpg,2026-03-14 09:30:00", string(lines[1]))

	assert.ErrorIs(t, f.svc.ExportCSV(ctx, form.ID, "user2", &buf), ErrNotOwner)
}

func TestAnswerString(t *testing.T) {
	assert.Equal(t, "", answerString(nil))
	assert.Equal(t, "yes", answerString("yes"))
	assert.Equal(t, "a; b", answerString([]interface{}{"a", "b"}))
	assert.Equal(t, "4.5", answerString(float64(4.5)))
	assert.Equal(t, "doc.pdf", answerString(map[string]interface{}{"name": "doc.pdf"}))
	assert.Equal(t, "true", answerString(true))
}
