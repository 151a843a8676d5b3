package service

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/ilucaslima/clubidulivro/internal/httpapi/models"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/repository"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListMembers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) StartBook(ctx context.Context, userID, title string, totalPages, dailyGoal int) error {
	args := m.Called(ctx, userID, title, totalPages, dailyGoal)
	return args.Error(0)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// fakeProgressRepo is a hand-rolled ProgressRepository. The transaction
// combinator does not fit call/return mocking: each RunRecordTx invocation
// re-reads the snapshot and runs the callback, so the fake replays a
// scripted error per attempt and captures the mutations the callback built.
type fakeProgressRepo struct {
	snap      repository.RecordSnapshot
	snaps     []repository.RecordSnapshot // optional per-attempt snapshots, overrides snap
	txErrs    []error                     // error returned per successive RunRecordTx call, nil commits
	mutations []repository.RecordMutation
	since     []models.DailyProgress
	sinceErr  error
}

func (f *fakeProgressRepo) ListByUser(ctx context.Context, userID string) ([]models.DailyProgress, error) {
	return nil, nil
}

func (f *fakeProgressRepo) ListSince(ctx context.Context, fromDate string) ([]models.DailyProgress, error) {
	return f.since, f.sinceErr
}

func (f *fakeProgressRepo) RunRecordTx(ctx context.Context, userID, dateKey string, fn func(snap repository.RecordSnapshot) (repository.RecordMutation, error)) error {
	attempt := len(f.mutations)
	snap := f.snap
	if len(f.snaps) > 0 {
		i := attempt
		if i >= len(f.snaps) {
			i = len(f.snaps) - 1
		}
		snap = f.snaps[i]
	}
	mut, err := fn(snap)
	if err != nil {
		return err
	}
	f.mutations = append(f.mutations, mut)
	if attempt < len(f.txErrs) {
		return f.txErrs[attempt]
	}
	return nil
}

// fakeCache records cache traffic in memory. It satisfies both
// RecorderCache and BoardCache.
type fakeCache struct {
	duplicate   bool
	acquireErr  error
	acquired    []string
	released    []string
	invalidated []string
	published   []string

	stored map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: map[string][]byte{}}
}

func (f *fakeCache) AcquireOnce(ctx context.Context, key string) (bool, error) {
	if f.acquireErr != nil {
		return false, f.acquireErr
	}
	f.acquired = append(f.acquired, key)
	return !f.duplicate, nil
}

func (f *fakeCache) ReleaseKey(ctx context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, keys ...string) error {
	f.invalidated = append(f.invalidated, keys...)
	return nil
}

func (f *fakeCache) PublishProfile(ctx context.Context, userID string, profile any) error {
	f.published = append(f.published, userID)
	return nil
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok := f.stored[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.stored[key] = raw
	return nil
}
