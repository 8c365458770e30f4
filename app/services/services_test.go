package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"socialnet/app/logger"
	repomock "socialnet/app/repositories/mock"
)

var errStorage = errors.New("connection refused")

// mockImageStore records removals and can be told to fail.
type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Save(ctx context.Context, key string, r io.Reader) error {
	args := m.Called(ctx, key, r)
	return args.Error(0)
}

func (m *mockImageStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *mockImageStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type fixture struct {
	users   *repomock.UserRepository
	posts   *repomock.PostRepository
	images  *mockImageStore
	userSvc *UserService
	postSvc *PostService
}

func setupServices(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:  repomock.NewUserRepository(),
		posts:  repomock.NewPostRepository(),
		images: &mockImageStore{},
	}
	log := logger.NewNop()
	f.userSvc = NewUserService(f.users, f.images, log)
	f.userSvc.cost = bcrypt.MinCost
	f.postSvc = NewPostService(f.posts, f.users, f.images, log)
	t.Cleanup(func() { f.images.AssertExpectations(t) })
	return f
}
