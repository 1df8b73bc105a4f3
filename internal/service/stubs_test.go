package service

import (
	"context"
	"fmt"
	"time"

	"formpilot/internal/model"
)

// stubCompleter is a scripted completion service that records calls
type stubCompleter struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (c *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

// stubFormRepo is an in-memory FormRepo
type stubFormRepo struct {
	forms map[string]*model.Form
	seq   int
}

func newStubFormRepo() *stubFormRepo {
	return &stubFormRepo{forms: map[string]*model.Form{}}
}

func (r *stubFormRepo) add(form *model.Form) *model.Form {
	if form.ID == "" {
		r.seq++
		form.ID = fmt.Sprintf("form%d", r.seq)
	}
	r.forms[form.ID] = form
	return form
}

func (r *stubFormRepo) Create(_ context.Context, form *model.Form) (string, error) {
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()
	return r.add(form).ID, nil
}

func (r *stubFormRepo) GetByID(_ context.Context, id string) (*model.Form, error) {
	return r.forms[id], nil
}

func (r *stubFormRepo) GetByOwnerID(_ context.Context, ownerID string) ([]*model.Form, error) {
	var out []*model.Form
	for _, f := range r.forms {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *stubFormRepo) FindByOwnerAndTitle(_ context.Context, ownerID, title string) (*model.Form, error) {
	for _, f := range r.forms {
		if f.OwnerID == ownerID && f.Title == title {
			return f, nil
		}
	}
	return nil, nil
}

func (r *stubFormRepo) Update(_ context.Context, form *model.Form) error {
	r.forms[form.ID] = form
	return nil
}

func (r *stubFormRepo) Delete(_ context.Context, id string) error {
	delete(r.forms, id)
	return nil
}

func (r *stubFormRepo) EnsureIndexes(_ context.Context) error { return nil }

// stubResponseRepo is an in-memory ResponseRepo with scriptable
// anomaly-write failures
type stubResponseRepo struct {
	byForm     map[string][]*model.Response
	anomalies  map[string]string
	failWrites map[string]bool
	seq        int
}

func newStubResponseRepo() *stubResponseRepo {
	return &stubResponseRepo{
		byForm:     map[string][]*model.Response{},
		anomalies:  map[string]string{},
		failWrites: map[string]bool{},
	}
}

func (r *stubResponseRepo) Create(_ context.Context, response *model.Response) error {
	r.seq++
	if response.ID == "" {
		response.ID = fmt.Sprintf("r%d", r.seq)
	}
	if response.CreatedAt.IsZero() {
		response.CreatedAt = time.Now()
	}
	r.byForm[response.FormID] = append(r.byForm[response.FormID], response)
	return nil
}

func (r *stubResponseRepo) GetByFormID(_ context.Context, formID string) ([]*model.Response, error) {
	return r.byForm[formID], nil
}

func (r *stubResponseRepo) UpdateAnomalyReason(_ context.Context, id, reason string) error {
	if r.failWrites[id] {
		return fmt.Errorf("write failed for %s", id)
	}
	r.anomalies[id] = reason
	return nil
}

func (r *stubResponseRepo) DeleteByFormID(_ context.Context, formID string) (int64, error) {
	deleted := int64(len(r.byForm[formID]))
	delete(r.byForm, formID)
	return deleted, nil
}

func (r *stubResponseRepo) DeleteExpired(_ context.Context, ownerID string, before time.Time) (int64, error) {
	var deleted int64
	for formID, responses := range r.byForm {
		kept := responses[:0]
		for _, resp := range responses {
			if resp.OwnerID == ownerID && resp.CreatedAt.Before(before) {
				deleted++
				continue
			}
			kept = append(kept, resp)
		}
		r.byForm[formID] = kept
	}
	return deleted, nil
}

// stubUserRepo is an in-memory UserRepo
type stubUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*model.User{}}
}

func (r *stubUserRepo) add(user *model.User) *model.User {
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user%d", r.seq)
	}
	r.users[user.ID] = user
	return user
}

func (r *stubUserRepo) Create(_ context.Context, user *model.User) (string, error) {
	return r.add(user).ID, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	return r.users[id], nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) IncrementFormsCreated(_ context.Context, id string) error {
	if u, ok := r.users[id]; ok {
		u.FormsCreated++
	}
	return nil
}

func (r *stubUserRepo) AddResponseStats(_ context.Context, id string, uploadBytes int64) error {
	if u, ok := r.users[id]; ok {
		u.TotalResponses++
		u.TotalUploads += uploadBytes
	}
	return nil
}

func (r *stubUserRepo) SetRetentionDays(_ context.Context, id string, days int) error {
	if u, ok := r.users[id]; ok {
		u.DataRetentionDays = days
	}
	return nil
}

func (r *stubUserRepo) ListWithRetention(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		if u.DataRetentionDays > 0 {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) EnsureIndexes(_ context.Context) error { return nil }

// stubFormCache is a pass-through FormCache
type stubFormCache struct {
	entries map[string]*model.Form
}

func newStubFormCache() *stubFormCache {
	return &stubFormCache{entries: map[string]*model.Form{}}
}

func (c *stubFormCache) Set(_ context.Context, form *model.Form) error {
	c.entries[form.ID] = form
	return nil
}

func (c *stubFormCache) Get(_ context.Context, id string) (*model.Form, error) {
	return c.entries[id], nil
}

func (c *stubFormCache) Delete(_ context.Context, id string) error {
	delete(c.entries, id)
	return nil
}
