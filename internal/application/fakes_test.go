package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	repo "github.com/lahjatuna/lahjatuna-api/internal/domain/repository"
	"github.com/lahjatuna/lahjatuna-api/pkg/mailer"
)

type fakeUsers struct {
	byID      map[string]*entity.User
	confirmed map[string]bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*entity.User{}, confirmed: map[string]bool{}}
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User, roles ...string) error {
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("%w: users_email_key", repo.ErrConflict)
		}
		if strings.EqualFold(existing.Username, u.Username) {
			return fmt.Errorf("%w: users_username_key", repo.ErrConflict)
		}
	}
	u.ID = uuid.NewString()
	u.Roles = append([]string(nil), roles...)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) find(match func(*entity.User) bool) (*entity.User, error) {
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return strings.EqualFold(u.Username, username) })
}

func (f *fakeUsers) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) SetEmailConfirmed(_ context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.EmailConfirmed = true
	return nil
}

type fakeAudit struct {
	actions []string
	entries []entity.AuditEntry
}

func (f *fakeAudit) Insert(_ context.Context, e entity.AuditEntry) error {
	f.actions = append(f.actions, e.Action)
	f.entries = append(f.entries, e)
	return nil
}

type fakePublisher struct {
	jobs []mailer.EmailJob
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if job, ok := body.(mailer.EmailJob); ok {
		f.jobs = append(f.jobs, job)
	}
	return nil
}

type fakeLanguages struct {
	byID  map[int]*entity.Language
	next  int
	inUse map[int]bool
}

func newFakeLanguages(langs ...entity.Language) *fakeLanguages {
	f := &fakeLanguages{byID: map[int]*entity.Language{}, inUse: map[int]bool{}}
	for i := range langs {
		l := langs[i]
		if l.ID > f.next {
			f.next = l.ID
		}
		f.byID[l.ID] = &l
	}
	return f
}

func (f *fakeLanguages) List(_ context.Context) ([]entity.Language, error) {
	out := make([]entity.Language, 0, len(f.byID))
	for _, l := range f.byID {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeLanguages) GetByID(_ context.Context, id int) (*entity.Language, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLanguages) GetByCode(_ context.Context, code string) (*entity.Language, error) {
	for _, l := range f.byID {
		if strings.EqualFold(l.Code, code) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeLanguages) codeTaken(code string, except int) bool {
	for id, l := range f.byID {
		if id != except && strings.EqualFold(l.Code, code) {
			return true
		}
	}
	return false
}

func (f *fakeLanguages) Create(_ context.Context, l *entity.Language) error {
	if f.codeTaken(l.Code, 0) {
		return fmt.Errorf("%w: languages_code_key", repo.ErrConflict)
	}
	f.next++
	l.ID = f.next
	cp := *l
	f.byID[l.ID] = &cp
	return nil
}

func (f *fakeLanguages) Update(_ context.Context, l *entity.Language) error {
	if _, ok := f.byID[l.ID]; !ok {
		return repo.ErrNotFound
	}
	if f.codeTaken(l.Code, l.ID) {
		return fmt.Errorf("%w: languages_code_key", repo.ErrConflict)
	}
	cp := *l
	f.byID[l.ID] = &cp
	return nil
}

func (f *fakeLanguages) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return repo.ErrNotFound
	}
	if f.inUse[id] {
		return fmt.Errorf("%w: translation_logs_source_language_id_fkey", repo.ErrInUse)
	}
	delete(f.byID, id)
	return nil
}

type fakeLogs struct {
	logs   []entity.TranslationLog
	next   int
	counts map[string]int
}

func newFakeLogs() *fakeLogs {
	return &fakeLogs{counts: map[string]int{}}
}

func (f *fakeLogs) ListByUser(_ context.Context, userID string) ([]entity.TranslationLog, error) {
	var out []entity.TranslationLog
	for _, t := range f.logs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeLogs) GetByIDForUser(_ context.Context, id int, userID string) (*entity.TranslationLog, error) {
	for _, t := range f.logs {
		if t.ID == id && t.UserID == userID {
			cp := t
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeLogs) Create(_ context.Context, t *entity.TranslationLog) error {
	f.next++
	t.ID = f.next
	f.logs = append(f.logs, *t)
	f.counts[t.UserID]++
	return nil
}

func (f *fakeLogs) DeleteForUser(_ context.Context, id int, userID string) error {
	for i, t := range f.logs {
		if t.ID == id && t.UserID == userID {
			f.logs = append(f.logs[:i], f.logs[i+1:]...)
			f.counts[userID]--
			return nil
		}
	}
	return repo.ErrNotFound
}

type fakeFeedback struct {
	items []entity.Feedback
	next  int
}

func (f *fakeFeedback) Create(_ context.Context, fb *entity.Feedback) error {
	f.next++
	fb.ID = f.next
	f.items = append(f.items, *fb)
	return nil
}

func (f *fakeFeedback) ListByUser(_ context.Context, userID string) ([]entity.Feedback, error) {
	var out []entity.Feedback
	for _, fb := range f.items {
		if fb.UserID == userID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeFeedback) DeleteForUser(_ context.Context, id int, userID string) error {
	for i, fb := range f.items {
		if fb.ID == id && fb.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

type fakeFavorites struct {
	items []entity.Favorite
	next  int
}

func (f *fakeFavorites) Create(_ context.Context, fav *entity.Favorite) error {
	for _, existing := range f.items {
		if existing.UserID == fav.UserID && existing.TranslationLogID == fav.TranslationLogID {
			return fmt.Errorf("%w: favorites_user_id_translation_log_id_key", repo.ErrConflict)
		}
	}
	f.next++
	fav.ID = f.next
	f.items = append(f.items, *fav)
	return nil
}

func (f *fakeFavorites) ListByUser(_ context.Context, userID string) ([]entity.Favorite, error) {
	var out []entity.Favorite
	for _, fav := range f.items {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	return out, nil
}

func (f *fakeFavorites) DeleteForUser(_ context.Context, id int, userID string) error {
	for i, fav := range f.items {
		if fav.ID == id && fav.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

type stubTranslator struct {
	out   string
	err   error
	calls int
}

func (s *stubTranslator) Translate(_ context.Context, text, src, dst string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if s.out != "" {
		return s.out, nil
	}
	return "[" + src + "->" + dst + "] " + text, nil
}

func (s *stubTranslator) Name() string { return "stub" }

var errBoom = errors.New("boom")
