package service

import (
	"context"
	"errors"
	"testing"

	"freedom_wall/internal/domain/contact/model"
	"freedom_wall/internal/domain/contact/repository"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, c *model.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, status model.Status) ([]model.Contact, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]model.Contact), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, c *model.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newService(repo repository.ContactRepository) ContactService {
	return NewContactService(repo, security.NewSanitizer(security.SanitizerConfig{EscapeHTML: true}))
}

func TestSubmit(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Contact")).Return(nil)
	svc := newService(repo)

	c, err := svc.Submit(context.Background(), SubmitInput{
		Name: "Ana", Email: " Ana@Example.com ", Subject: "Hi", Message: "<b>hello</b>",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, "&lt;b&gt;hello&lt;/b&gt;", c.Message)
	assert.Equal(t, model.StatusNew, c.Status)
	repo.AssertExpectations(t)
}

func TestSubmitValidation(t *testing.T) {
	svc := newService(new(mockRepo))
	valid := SubmitInput{Name: "n", Email: "a@b.co", Subject: "s", Message: "m"}

	cases := map[string]struct {
		mutate func(*SubmitInput)
		want   string
	}{
		"bad email":  {func(in *SubmitInput) { in.Email = "nope" }, "Invalid email format"},
		"no subject": {func(in *SubmitInput) { in.Subject = "" }, "Subject is required"},
		"long phone": {func(in *SubmitInput) { in.Phone = "012345678901234567890" }, "Phone must be 20 characters or less"},
		"script":     {func(in *SubmitInput) { in.Message = "<script>x</script>" }, "Content contains suspicious patterns"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := svc.Submit(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, tc.want, apperr.As(err).Message)
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetByID", mock.Anything, "c1").Return(&model.Contact{Status: model.StatusNew}, nil)
	repo.On("GetByID", mock.Anything, "zz").Return(nil, repository.ErrNotFound)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	svc := newService(repo)
	ctx := context.Background()

	status, notes, read := "resolved", "done", true
	c, err := svc.UpdateStatus(ctx, "c1", StatusInput{Status: &status, AdminNotes: &notes, IsRead: &read})
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, c.Status)
	assert.Equal(t, "done", c.AdminNotes)
	assert.True(t, c.IsRead)

	bogus := "closed"
	_, err = svc.UpdateStatus(ctx, "c1", StatusInput{Status: &bogus})
	assert.Equal(t, "Invalid status", apperr.As(err).Message)

	_, err = svc.UpdateStatus(ctx, "zz", StatusInput{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListAndDelete(t *testing.T) {
	repo := new(mockRepo)
	repo.On("List", mock.Anything, model.StatusArchived).Return([]model.Contact{{}}, nil)
	repo.On("Delete", mock.Anything, "c1").Return(true, nil)
	repo.On("Delete", mock.Anything, "c2").Return(false, nil)
	repo.On("Delete", mock.Anything, "c3").Return(false, errors.New("db down"))
	svc := newService(repo)
	ctx := context.Background()

	list, err := svc.List(ctx, "archived")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(ctx, "weird")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	assert.NoError(t, svc.Delete(ctx, "c1"))
	assert.True(t, apperr.Is(svc.Delete(ctx, "c2"), apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Delete(ctx, "c3"), apperr.KindInternal))
}
