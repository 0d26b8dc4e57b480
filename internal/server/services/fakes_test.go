package services

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/dmitrijs2005/shadowinterview/internal/dbx"
	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/questions"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	nextID int

	createErr error
	getErr    error
	updateErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	u.ID = strconv.Itoa(f.nextID)
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.UserName == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return common.ErrorNotFound
	}
	for id, existing := range f.byID {
		if id != u.ID && existing.UserName == u.UserName {
			return common.ErrorAlreadyExists
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsersRepo) SetPasswordHash(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsersRepo) SetRole(_ context.Context, id, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Role = role
	return nil
}

// --- refresh tokens ---

type fakeRefreshRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken

	findErr      error
	delErr       error
	createErr    error
	deleteByUser []string
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID, token string, validity time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	rt, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteByUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleteByUser = append(f.deleteByUser, userID)
	for k, rt := range f.tokens {
		if rt.UserID == userID {
			delete(f.tokens, k)
		}
	}
	return nil
}

func (f *fakeRefreshRepo) countFor(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, rt := range f.tokens {
		if rt.UserID == userID {
			n++
		}
	}
	return n
}

// --- questions ---

type fakeQuestionsRepo struct {
	items []*models.Question
	err   error
}

func (f *fakeQuestionsRepo) Create(_ context.Context, q *models.Question) (*models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	q.ID = int64(len(f.items) + 1)
	f.items = append(f.items, q)
	return q, nil
}

func (f *fakeQuestionsRepo) List(context.Context) ([]*models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]*models.Question{}, f.items...), nil
}

func (f *fakeQuestionsRepo) Replace(_ context.Context, q *models.Question) error {
	if f.err != nil {
		return f.err
	}
	for i, it := range f.items {
		if it.ID == q.ID {
			f.items[i] = q
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- recordings ---

type fakeRecordingsRepo struct {
	items     []*models.Recording
	createErr error
	listErr   error
}

func (f *fakeRecordingsRepo) Create(_ context.Context, r *models.Recording) error {
	if f.createErr != nil {
		return f.createErr
	}
	r.CreatedAt = time.Now().Add(time.Duration(len(f.items)) * time.Second)
	f.items = append(f.items, r)
	return nil
}

func (f *fakeRecordingsRepo) ListByUser(_ context.Context, userID string) ([]*models.Recording, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Recording
	for _, r := range f.items {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- manager ---

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	q  *fakeQuestionsRepo
	rc *fakeRecordingsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u:  newFakeUsersRepo(),
		r:  newFakeRefreshRepo(),
		q:  &fakeQuestionsRepo{},
		rc: &fakeRecordingsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.r }
func (m *fakeRepoManager) Questions(dbx.DBTX) questions.Repository         { return m.q }
func (m *fakeRepoManager) Recordings(dbx.DBTX) recordings.Repository       { return m.rc }
