package contact

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaitanyauthale5/portfolio/internal/emailrelay"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []emailrelay.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg emailrelay.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

type memStore struct {
	mu     sync.Mutex
	tokens map[string]string
	subs   map[string]*Submission
	order  []string
	err    error
}

func newMemStore() *memStore {
	return &memStore{tokens: map[string]string{}, subs: map[string]*Submission{}}
}

func (m *memStore) BeginSubmission(_ context.Context, sub Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if id, ok := m.tokens[sub.Token]; ok {
		if m.subs[id].Status != StatusFailed {
			return ErrDuplicate
		}
		delete(m.subs, id)
		for i, o := range m.order {
			if o == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	m.tokens[sub.Token] = sub.ID
	m.subs[sub.ID] = &sub
	m.order = append(m.order, sub.ID)
	return nil
}

func (m *memStore) CompleteSubmission(_ context.Context, id string, status Status, errText string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[id]
	if !ok {
		return errors.New("not found")
	}
	sub.Status = status
	sub.Error = errText
	return nil
}

func (m *memStore) ListSubmissions(_ context.Context, limit int) ([]Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Submission
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.subs[m.order[i]])
	}
	return out, nil
}

func validForm() Form {
	return Form{
		Token:   "tok-1",
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Analytical engine",
		Message: "Shall we build it?",
	}
}

func TestSubmitSuccessSendsOnceAndResetsForm(t *testing.T) {
	sender := &fakeSender{}
	store := newMemStore()
	svc := NewService(sender, store)

	res := svc.Submit(context.Background(), validForm())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, emailrelay.Message{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Analytical engine",
		Message: "Shall we build it?",
	}, sender.sent[0])
	assert.Equal(t, "Analytical engine", sender.sent[0].TemplateParams()["title"])

	assert.Equal(t, StatusSent, res.Status)
	assert.Equal(t, "Message sent!", res.Toast.Title)
	assert.Empty(t, res.Toast.Variant)
	assert.Empty(t, res.Form.Name)
	assert.Empty(t, res.Form.Email)
	assert.Empty(t, res.Form.Subject)
	assert.Empty(t, res.Form.Message)
	assert.NotEmpty(t, res.Form.Token)
	assert.NotEqual(t, "tok-1", res.Form.Token)

	subs, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, StatusSent, subs[0].Status)
	assert.Equal(t, res.SubmissionID, subs[0].ID)
}

func TestSubmitFailurePreservesForm(t *testing.T) {
	sender := &fakeSender{err: &emailrelay.APIError{StatusCode: 400, Body: "bad key"}}
	store := newMemStore()
	svc := NewService(sender, store)

	form := validForm()
	res := svc.Submit(context.Background(), form)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "Error", res.Toast.Title)
	assert.Equal(t, "Something went wrong. Please try again.", res.Toast.Description)
	assert.Equal(t, "destructive", res.Toast.Variant)
	assert.Equal(t, form.Name, res.Form.Name)
	assert.Equal(t, form.Email, res.Form.Email)
	assert.Equal(t, form.Subject, res.Form.Subject)
	assert.Equal(t, form.Message, res.Form.Message)
	assert.NotEqual(t, form.Token, res.Form.Token, "retry needs a fresh token")

	sub := store.subs[res.SubmissionID]
	assert.Equal(t, StatusFailed, sub.Status)
	assert.Contains(t, sub.Error, "bad key")
}

func TestSubmitRetryAfterFailureSendsAgain(t *testing.T) {
	sender := &fakeSender{err: errors.New("relay down")}
	store := newMemStore()
	svc := NewService(sender, store)

	failed := svc.Submit(context.Background(), validForm())
	require.Equal(t, StatusFailed, failed.Status)

	sender.err = nil
	retried := svc.Submit(context.Background(), validForm())

	assert.Equal(t, StatusSent, retried.Status)
	assert.Equal(t, "Message sent!", retried.Toast.Title)
	assert.Len(t, sender.sent, 2)
	assert.Equal(t, StatusSent, store.subs[retried.SubmissionID].Status)

	again := svc.Submit(context.Background(), validForm())
	assert.Equal(t, StatusDuplicate, again.Status)
	assert.Len(t, sender.sent, 2)
}

func TestSubmitInvalidDoesNotSend(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		field  string
	}{
		{"blank name", func(f *Form) { f.Name = "   " }, "name"},
		{"missing email", func(f *Form) { f.Email = "" }, "email"},
		{"malformed email", func(f *Form) { f.Email = "not-an-email" }, "email"},
		{"display-name email", func(f *Form) { f.Email = "Ada <ada@example.com>" }, "email"},
		{"blank subject", func(f *Form) { f.Subject = "\t" }, "subject"},
		{"blank message", func(f *Form) { f.Message = "" }, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			svc := NewService(sender, newMemStore())
			form := validForm()
			tt.mutate(&form)

			res := svc.Submit(context.Background(), form)

			assert.Empty(t, sender.sent)
			assert.Equal(t, StatusInvalid, res.Status)
			assert.Contains(t, res.FieldErrors, tt.field)
			assert.Equal(t, form, res.Form)
		})
	}
}

func TestSubmitDuplicateTokenSendsOnce(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, newMemStore())

	first := svc.Submit(context.Background(), validForm())
	second := svc.Submit(context.Background(), validForm())

	assert.Equal(t, StatusSent, first.Status)
	assert.Equal(t, StatusDuplicate, second.Status)
	assert.Len(t, sender.sent, 1)
}

func TestSubmitConcurrentDoubleClick(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, newMemStore())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Submit(context.Background(), validForm())
		}()
	}
	wg.Wait()

	assert.Len(t, sender.sent, 1)
}

func TestSubmitStoreFailureStillSends(t *testing.T) {
	sender := &fakeSender{}
	store := newMemStore()
	store.err = errors.New("database is locked")
	svc := NewService(sender, store)

	res := svc.Submit(context.Background(), validForm())

	assert.Equal(t, StatusSent, res.Status)
	assert.Len(t, sender.sent, 1)
}

func TestSubmitWithoutStore(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, nil)

	form := validForm()
	form.Token = ""
	res := svc.Submit(context.Background(), form)

	assert.Equal(t, StatusSent, res.Status)
	assert.Len(t, sender.sent, 1)

	subs, err := svc.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubmitTrimsValues(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, nil)

	form := validForm()
	form.Name = "  Ada  "
	form.Email = " ada@example.com "
	svc.Submit(context.Background(), form)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Ada", sender.sent[0].Name)
	assert.Equal(t, "ada@example.com", sender.sent[0].Email)
}
