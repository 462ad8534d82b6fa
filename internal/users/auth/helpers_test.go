// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomitube/internal/platform/apperr"
	"github.com/taibuivan/yomitube/internal/platform/media"
	"github.com/taibuivan/yomitube/internal/platform/sec"
	"github.com/taibuivan/yomitube/internal/users/auth"
)

// # Accounts

// memoryAccounts is an in-memory AccountRepository.
type memoryAccounts struct {
	mu         sync.Mutex
	users      map[string]*auth.User
	tokens     map[string]string
	lookups    int
	failFind   error
	failCreate error
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{users: map[string]*auth.User{}, tokens: map[string]string{}}
}

func (m *memoryAccounts) find(match func(*auth.User) bool) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.failFind != nil {
		return nil, m.failFind
	}
	for _, user := range m.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.ID == id })
}

func (m *memoryAccounts) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.Email == email })
}

func (m *memoryAccounts) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.Username == username })
}

func (m *memoryAccounts) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict("Account already exists")
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memoryAccounts) UpdatePassword(_ context.Context, userID, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.PasswordHash = newHash
	return nil
}

func (m *memoryAccounts) FindRefreshToken(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return "", apperr.NotFound("Account")
	}
	return m.tokens[userID], nil
}

func (m *memoryAccounts) SetRefreshToken(_ context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return apperr.NotFound("Account")
	}
	m.tokens[userID] = token
	return nil
}

func (m *memoryAccounts) SwapRefreshToken(_ context.Context, userID, expected, next string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens[userID] != expected {
		return false, nil
	}
	m.tokens[userID] = next
	return true, nil
}

func (m *memoryAccounts) ClearRefreshToken(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, userID)
	return nil
}

func (m *memoryAccounts) remove(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
}

func (m *memoryAccounts) lookupCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups
}

// seed stores an account with a real bcrypt hash of password.
func (m *memoryAccounts) seed(t *testing.T, id, username, email, password string) *auth.User {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	user := &auth.User{ID: id, Username: username, Email: email, FullName: username, PasswordHash: hash, Avatar: "https://cdn/a.png"}
	m.mu.Lock()
	m.users[id] = user
	m.mu.Unlock()
	return user
}

// # Tokens

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCodec(t *testing.T, clock *testClock) *sec.TokenCodec {
	t.Helper()
	codec, err := sec.NewTokenCodec(sec.TokenConfig{
		AccessSecret:  "access-secret-for-tests",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "refresh-secret-for-tests",
		RefreshTTL:    10 * 24 * time.Hour,
		Issuer:        "yomitube.test",
		Clock:         clock.Now,
	})
	require.NoError(t, err)
	return codec
}

// # Observers & Media

type recordingObserver struct {
	mu        sync.Mutex
	logins    []bool
	rotations []string
}

func (o *recordingObserver) ObserveLogin(success bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logins = append(o.logins, success)
}

func (o *recordingObserver) ObserveRotation(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rotations = append(o.rotations, reason)
}

// fakeUploader removes the staged file like the real uploader does.
type fakeUploader struct {
	fail     bool
	uploaded []string
}

func (f *fakeUploader) Upload(_ context.Context, localPath string) *media.Asset {
	defer os.Remove(localPath)
	if f.fail {
		return nil
	}
	f.uploaded = append(f.uploaded, localPath)
	return &media.Asset{URL: "https://cdn.test/" + filepath.Base(localPath), Key: filepath.Base(localPath)}
}

func stageFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("image-bytes"), 0o600))
	return path
}
