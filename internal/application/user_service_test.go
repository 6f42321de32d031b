package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lahjatuna/lahjatuna-api/config"
	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	"github.com/lahjatuna/lahjatuna-api/pkg/helpers"
	mailtpl "github.com/lahjatuna/lahjatuna-api/pkg/mailer/templates"
)

func newUserFixture(requireConfirmed bool) (*UserService, *fakeUsers, *fakeAudit) {
	users := newFakeUsers()
	audit := &fakeAudit{}
	cfg := &config.Config{RequireConfirmedEmail: requireConfirmed}
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	return NewUserService(users, audit, jwt, nil, "", nil, nil, nil, cfg), users, audit
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, users, audit := newUserFixture(false)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "amira", Email: "Amira@Example.test", Password: "password123"}, RequestMeta{IP: "127.0.0.1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "amira@example.test" || !u.HasRole(entity.RoleUser) || u.PasswordHash == "password123" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if len(users.byID) != 1 {
		t.Fatalf("expected one stored user")
	}

	for _, login := range []string{"amira", "AMIRA@example.test"} {
		resp, pair, err := svc.Login(ctx, login, "password123", RequestMeta{})
		if err != nil {
			t.Fatalf("login %q: %v", login, err)
		}
		if resp.UserName != "amira" || resp.Token != pair.AccessToken || len(resp.Role) != 1 || resp.Role[0] != "user" {
			t.Fatalf("unexpected login response: %+v", resp)
		}
		claims, err := svc.JWT.ParseAccessToken(resp.Token)
		if err != nil || claims.UserID != u.ID || !claims.HasRole(entity.RoleUser) {
			t.Fatalf("bad access token: %v %+v", err, claims)
		}
	}

	if _, _, err := svc.Login(ctx, "amira", "wrong-password", RequestMeta{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "password123", RequestMeta{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}

	joined := strings.Join(audit.actions, ",")
	if !strings.Contains(joined, "register") || !strings.Contains(joined, "login_failed") {
		t.Fatalf("unexpected audit trail: %s", joined)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	t.Parallel()

	svc, _, _ := newUserFixture(false)
	ctx := context.Background()
	in := RegisterInput{Username: "omar", Email: "omar@example.test", Password: "password123"}
	if _, err := svc.Register(ctx, in, RequestMeta{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Register(ctx, RegisterInput{Username: "other", Email: "OMAR@example.test", Password: "password123"}, RequestMeta{}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "Omar", Email: "new@example.test", Password: "password123"}, RequestMeta{}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
}

func TestLoginRequiresConfirmedEmail(t *testing.T) {
	t.Parallel()

	svc, users, _ := newUserFixture(true)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Username: "lina", Email: "lina@example.test", Password: "password123"}, RequestMeta{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "lina", "password123", RequestMeta{}); !errors.Is(err, ErrEmailNotConfirmed) {
		t.Fatalf("expected unconfirmed error, got %v", err)
	}
	_ = users.SetEmailConfirmed(ctx, u.ID)
	if _, _, err := svc.Login(ctx, "lina", "password123", RequestMeta{}); err != nil {
		t.Fatalf("login after confirm: %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	t.Parallel()

	svc, _, _ := newUserFixture(false)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "sami", Email: "sami@example.test", Password: "password123"}, RequestMeta{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, pair, err := svc.Login(ctx, "sami", "password123", RequestMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	next, uid, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil || uid == "" || next.AccessToken == "" {
		t.Fatalf("refresh: %v", err)
	}
	if _, _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("access token must not refresh, got %v", err)
	}
}

func TestProfileUpdateAndTokensWithoutRedis(t *testing.T) {
	t.Parallel()

	svc, _, _ := newUserFixture(false)
	ctx := context.Background()
	a, _ := svc.Register(ctx, RegisterInput{Username: "a_user", Email: "a@example.test", Password: "password123"}, RequestMeta{})
	if _, err := svc.Register(ctx, RegisterInput{Username: "b_user", Email: "b@example.test", Password: "password123"}, RequestMeta{}); err != nil {
		t.Fatalf("register b: %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, a.ID, UpdateProfileInput{Username: "b_user"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
	u, err := svc.UpdateProfile(ctx, a.ID, UpdateProfileInput{Username: "a_renamed", AvatarURL: "https://cdn.test/a.png"})
	if err != nil || u.Username != "a_renamed" || u.AvatarURL != "https://cdn.test/a.png" {
		t.Fatalf("update: %v %+v", err, u)
	}
	if _, err := svc.GetProfile(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if _, err := svc.UploadAvatar(ctx, a.ID, strings.NewReader("png"), "a.png", "image/png"); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
	if err := svc.ConfirmEmail(ctx, a.ID, "token", RequestMeta{}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token without redis, got %v", err)
	}
	if err := svc.RequestPasswordReset(ctx, "unknown@example.test", RequestMeta{}); err != nil {
		t.Fatalf("reset for unknown email must succeed silently, got %v", err)
	}
	if err := svc.Logout(ctx, a.ID, RequestMeta{}); err != nil {
		t.Fatalf("logout: %v", err)
	}
}

type redisFixture struct {
	svc   *UserService
	users *fakeUsers
	audit *fakeAudit
	pub   *fakePublisher
	mr    *miniredis.Miniredis
}

func newRedisUserFixture(t *testing.T) redisFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := newFakeUsers()
	audit := &fakeAudit{}
	pub := &fakePublisher{}
	cfg := &config.Config{
		MailSendEnabled:  true,
		ConfirmEmailURL:  "https://app.test/confirm",
		ResetPasswordURL: "https://app.test/reset",
	}
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	svc := NewUserService(users, audit, jwt, nil, "", rdb, pub, nil, cfg)
	return redisFixture{svc: svc, users: users, audit: audit, pub: pub, mr: mr}
}

func TestConfirmEmailConsumesToken(t *testing.T) {
	t.Parallel()

	f := newRedisUserFixture(t)
	ctx := context.Background()
	u, err := f.svc.Register(ctx, RegisterInput{Username: "huda", Email: "huda@example.test", Password: "password123"}, RequestMeta{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := f.mr.Get(confirmKey(u.ID))
	if err != nil || token == "" {
		t.Fatalf("confirm token not stored: %v", err)
	}
	if ttl := f.mr.TTL(confirmKey(u.ID)); ttl != confirmTokenTTL {
		t.Fatalf("unexpected confirm ttl %v", ttl)
	}
	if len(f.pub.jobs) != 1 || f.pub.jobs[0].Template != mailtpl.ConfirmEmail || f.pub.jobs[0].To != "huda@example.test" {
		t.Fatalf("unexpected email jobs: %+v", f.pub.jobs)
	}

	if err := f.svc.ConfirmEmail(ctx, u.ID, token+"x", RequestMeta{}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if err := f.svc.ConfirmEmail(ctx, u.ID, token, RequestMeta{}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !f.users.byID[u.ID].EmailConfirmed {
		t.Fatalf("email should be confirmed")
	}
	if f.mr.Exists(confirmKey(u.ID)) {
		t.Fatalf("confirm token should be deleted")
	}
	if err := f.svc.ConfirmEmail(ctx, u.ID, token, RequestMeta{}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reused token must fail, got %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	t.Parallel()

	f := newRedisUserFixture(t)
	ctx := context.Background()
	u, err := f.svc.Register(ctx, RegisterInput{Username: "yusuf", Email: "yusuf@example.test", Password: "password123"}, RequestMeta{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := f.svc.Login(ctx, "yusuf", "password123", RequestMeta{}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !f.mr.Exists(sessionKey(u.ID)) {
		t.Fatalf("login should store a session")
	}

	if err := f.svc.RequestPasswordReset(ctx, "nobody@example.test", RequestMeta{}); err != nil {
		t.Fatalf("unknown email must succeed silently: %v", err)
	}
	if err := f.svc.RequestPasswordReset(ctx, " YUSUF@example.test ", RequestMeta{IP: "203.0.113.9"}); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	var token string
	for _, k := range f.mr.Keys() {
		if strings.HasPrefix(k, "user:reset:") {
			token = strings.TrimPrefix(k, "user:reset:")
		}
	}
	if token == "" {
		t.Fatalf("reset token not stored: %v", f.mr.Keys())
	}
	if got, _ := f.mr.Get(resetKey(token)); got != u.ID {
		t.Fatalf("reset token maps to %q", got)
	}

	oldHash := f.users.byID[u.ID].PasswordHash
	if err := f.svc.ResetPassword(ctx, token, "new-password-456", RequestMeta{}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if f.users.byID[u.ID].PasswordHash == oldHash {
		t.Fatalf("password hash should change")
	}
	if f.mr.Exists(resetKey(token)) || f.mr.Exists(sessionKey(u.ID)) {
		t.Fatalf("reset token and session should be gone: %v", f.mr.Keys())
	}
	if err := f.svc.ResetPassword(ctx, token, "another-password", RequestMeta{}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reused token must fail, got %v", err)
	}

	if _, _, err := f.svc.Login(ctx, "yusuf", "password123", RequestMeta{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, _, err := f.svc.Login(ctx, "yusuf", "new-password-456", RequestMeta{}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	last := f.pub.jobs[len(f.pub.jobs)-1]
	if last.Template != mailtpl.PasswordChanged {
		t.Fatalf("expected password changed email, got %q", last.Template)
	}
}

func TestLoginFailedAuditKeepsLoginInMetadata(t *testing.T) {
	t.Parallel()

	svc, _, audit := newUserFixture(false)
	if _, _, err := svc.Login(context.Background(), " ghost ", "password123", RequestMeta{IP: "198.51.100.4"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if len(audit.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(audit.entries))
	}
	e := audit.entries[0]
	if e.Action != "login_failed" || e.Email != "" || e.UserID != "" || e.Metadata["login"] != "ghost" || e.IP != "198.51.100.4" {
		t.Fatalf("unexpected audit entry: %+v", e)
	}
}
