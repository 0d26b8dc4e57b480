package rest

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/dmitrijs2005/shadowinterview/internal/server/auth"
	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
	"github.com/dmitrijs2005/shadowinterview/internal/server/services"
)

const testSecret = "test-secret"

type fakeUsers struct {
	mu        sync.Mutex
	byName    map[string]*models.User
	refresh   map[string]string
	nextID    int
	loggedOut []string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]*models.User{}, refresh: map[string]string{}}
}

func (f *fakeUsers) byID(id string) *models.User {
	for _, u := range f.byName {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeUsers) Register(_ context.Context, username, password, role string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if username == "" || password == "" {
		return nil, common.ErrorValidation
	}
	if _, ok := f.byName[username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if role == "" {
		role = common.RoleUser
	}
	f.nextID++
	u := &models.User{ID: strconv.Itoa(f.nextID), UserName: username, PasswordHash: password, Role: role}
	f.byName[username] = u
	return u, nil
}

func (f *fakeUsers) Login(_ context.Context, username, password string) (*services.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byName[username]
	if !ok || u.PasswordHash != password {
		return nil, common.ErrorUnauthorized
	}
	return f.issue(u.ID)
}

func (f *fakeUsers) issue(userID string) (*services.TokenPair, error) {
	access, err := auth.GenerateToken(userID, []byte(testSecret), time.Minute)
	if err != nil {
		return nil, err
	}
	rt, err := common.MakeRandHexString(8)
	if err != nil {
		return nil, err
	}
	f.refresh[rt] = userID
	return &services.TokenPair{AccessToken: access, RefreshToken: rt}, nil
}

func (f *fakeUsers) RefreshToken(_ context.Context, token string) (*services.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.refresh[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	delete(f.refresh, token)
	return f.issue(userID)
}

func (f *fakeUsers) Logout(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, userID)
	return nil
}

func (f *fakeUsers) GetUser(_ context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID(userID)
	if u == nil {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, userID string, username, password *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID(userID)
	if u == nil {
		return common.ErrorNotFound
	}
	if username != nil && *username != u.UserName {
		if _, taken := f.byName[*username]; taken {
			return common.ErrorAlreadyExists
		}
		delete(f.byName, u.UserName)
		u.UserName = *username
		f.byName[u.UserName] = u
	}
	if password != nil {
		u.PasswordHash = *password
	}
	return nil
}

func (f *fakeUsers) ResetPassword(_ context.Context, username, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byName[username]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = newPassword
	return nil
}

func (f *fakeUsers) Promote(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byName[username]
	if !ok {
		return common.ErrorNotFound
	}
	u.Role = common.RoleAdmin
	return nil
}

type fakeQuestions struct {
	items []*models.Question
}

func (f *fakeQuestions) Add(_ context.Context, text, category string) (*models.Question, error) {
	if text == "" || category == "" {
		return nil, common.ErrorValidation
	}
	q := &models.Question{ID: int64(len(f.items) + 1), Text: text, Category: category}
	f.items = append(f.items, q)
	return q, nil
}

func (f *fakeQuestions) List(context.Context) ([]*models.Question, error) {
	return f.items, nil
}

func (f *fakeQuestions) Replace(_ context.Context, id int64, text, category string) error {
	for _, q := range f.items {
		if q.ID == id {
			q.Text, q.Category = text, category
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRecordings struct {
	mu       sync.Mutex
	active   map[string]bool
	startErr error
	stopErr  error
	views    []*services.RecordingView
}

func newFakeRecordings() *fakeRecordings {
	return &fakeRecordings{active: map[string]bool{}}
}

func (f *fakeRecordings) Start(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	if f.active[userID] {
		return common.ErrAlreadyRecording
	}
	f.active[userID] = true
	return nil
}

func (f *fakeRecordings) Stop(_ context.Context, userID string) (*services.RecordingResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopErr != nil {
		return nil, f.stopErr
	}
	if !f.active[userID] {
		return nil, common.ErrNoRecording
	}
	delete(f.active, userID)
	return &services.RecordingResult{
		FileName:      "recording_2024-01-02_03-04-05.wav",
		Transcription: "My greatest strength is persistence.",
	}, nil
}

func (f *fakeRecordings) List(context.Context, string) ([]*services.RecordingView, error) {
	return f.views, nil
}
