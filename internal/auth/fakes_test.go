package auth

import (
	"context"
	"sync"
	"time"
)

// fakeUserStore is an in-memory UserStore. Reads return copies so mutations
// only take effect through an explicit save, like a real store.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*User)}
}

func (f *fakeUserStore) Create(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email || existing.PhoneNumber == u.PhoneNumber || existing.NationalID == u.NationalID {
			return ErrDuplicateIdentity
		}
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) Find(_ context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return stripSecrets(u), nil
}

func (f *fakeUserStore) FindWithSecrets(_ context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return stripSecrets(u), nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUserStore) FindByEmailWithSecrets(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUserStore) ExistsByIdentity(_ context.Context, email, phone, nationalID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email || u.PhoneNumber == phone || u.NationalID == nationalID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) SaveSensitive(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	stored.PasswordHash = u.PasswordHash
	stored.EmailOTP = u.EmailOTP
	stored.EmailOTPExpires = u.EmailOTPExpires
	stored.PhoneOTP = u.PhoneOTP
	stored.PhoneOTPExpires = u.PhoneOTPExpires
	stored.ResetPIN = u.ResetPIN
	stored.ResetPINExpires = u.ResetPINExpires
	stored.EmailVerified = u.EmailVerified
	stored.PhoneVerified = u.PhoneVerified
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	stored.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	stored.FirstName = u.FirstName
	stored.LastName = u.LastName
	stored.PhoneNumber = u.PhoneNumber
	stored.Roles = u.Roles
	stored.Status = u.Status
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) List(_ context.Context, filter UserFilter) ([]*User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*User
	for _, u := range f.users {
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		out = append(out, stripSecrets(u))
	}
	return out, len(out), nil
}

func (f *fakeUserStore) BasicInfo(_ context.Context) ([]*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*User
	for _, u := range f.users {
		out = append(out, stripSecrets(u))
	}
	return out, nil
}

func (f *fakeUserStore) BulkUpdateStatus(_ context.Context, ids []string, status string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			u.Status = status
			n++
		}
	}
	return n, nil
}

func (f *fakeUserStore) BulkDelete(_ context.Context, ids []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := f.users[id]; ok {
			delete(f.users, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeUserStore) Statistics(_ context.Context) (UserStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := UserStatistics{TotalUsers: len(f.users)}
	for _, u := range f.users {
		if u.Status == StatusActive {
			stats.ActiveUsers++
		} else {
			stats.InactiveUsers++
		}
	}
	return stats, nil
}

func stripSecrets(u *User) *User {
	cp := *u
	cp.PasswordHash = ""
	cp.EmailOTP = ""
	cp.EmailOTPExpires = nil
	cp.PhoneOTP = ""
	cp.PhoneOTPExpires = nil
	cp.ResetPIN = ""
	cp.ResetPINExpires = nil
	return &cp
}

type sentMessage struct {
	to      string
	subject string
	body    string
}

// fakeNotifier records every dispatch and can be told to fail.
type fakeNotifier struct {
	mu     sync.Mutex
	emails []sentMessage
	sms    []sentMessage
	fail   bool
}

func (n *fakeNotifier) SendEmail(_ context.Context, to, subject, html string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return false
	}
	n.emails = append(n.emails, sentMessage{to: to, subject: subject, body: html})
	return true
}

func (n *fakeNotifier) SendSMS(_ context.Context, phone, message string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return false
	}
	n.sms = append(n.sms, sentMessage{to: phone, body: message})
	return true
}

type loggedEntry struct {
	title    string
	message  string
	severity string
	actorID  string
}

type fakeAuditLog struct {
	mu      sync.Mutex
	entries []loggedEntry
}

func (l *fakeAuditLog) CreateLog(_ context.Context, title, message, severity, actorID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, loggedEntry{title: title, message: message, severity: severity, actorID: actorID})
}

func (l *fakeAuditLog) bySeverity(severity string) []loggedEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []loggedEntry
	for _, e := range l.entries {
		if e.severity == severity {
			out = append(out, e)
		}
	}
	return out
}
