package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/config"
	"github.com/lahjatuna/lahjatuna-api/internal/domain/entity"
	repo "github.com/lahjatuna/lahjatuna-api/internal/domain/repository"
	"github.com/lahjatuna/lahjatuna-api/pkg/helpers"
	"github.com/lahjatuna/lahjatuna-api/pkg/mailer"
	mailtpl "github.com/lahjatuna/lahjatuna-api/pkg/mailer/templates"
)

const (
	confirmTokenTTL = 24 * time.Hour
	resetTokenTTL   = time.Hour
	sessionTTL      = 24 * time.Hour
)

// Publisher enqueues background jobs (email delivery).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type UserService struct {
	Users     repo.UserRepository
	Audit     repo.AuditRepository
	JWT       *helpers.JWTManager
	GCS       *storage.Client
	GCSBucket string
	Redis     *redis.Client
	Publisher Publisher
	Logger    *logrus.Logger
	Cfg       *config.Config
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// LoginResponse is returned to the client after a successful login.
type LoginResponse struct {
	UserName string   `json:"user_name"`
	Email    string   `json:"email"`
	Role     []string `json:"role"`
	Token    string   `json:"token"`
}

// RequestMeta carries caller details recorded in audit logs and emails.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	Username  string
	AvatarURL string
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func confirmKey(userID string) string {
	return "user:confirm:" + userID
}

func resetKey(token string) string {
	return "user:reset:" + token
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(users repo.UserRepository, audit repo.AuditRepository, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, rdb *redis.Client, pub Publisher, logger *logrus.Logger, cfg *config.Config) *UserService {
	if cfg == nil {
		cfg = config.Load()
	}
	return &UserService{
		Users:     users,
		Audit:     audit,
		JWT:       jwt,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Redis:     rdb,
		Publisher: pub,
		Logger:    discardIfNil(logger),
		Cfg:       cfg,
	}
}

// Register creates a user with the default role and sends a confirmation email.
func (s *UserService) Register(ctx context.Context, in RegisterInput, meta RequestMeta) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.Users.Create(ctx, u, entity.RoleUser); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, conflictField(err)
		}
		return nil, err
	}

	s.sendConfirmation(ctx, u, meta)
	s.audit(ctx, u, "register", meta, nil)
	return u, nil
}

// conflictField tells a username clash from an email clash using the constraint name.
func conflictField(err error) error {
	if strings.Contains(err.Error(), "username") {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

func (s *UserService) sendConfirmation(ctx context.Context, u *entity.User, meta RequestMeta) {
	if s.Redis == nil {
		return
	}
	token, err := helpers.RandomToken(32)
	if err != nil {
		s.Logger.WithError(err).Warn("confirm token generation failed")
		return
	}
	if err := s.Redis.Set(ctx, confirmKey(u.ID), token, confirmTokenTTL).Err(); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("store confirm token failed")
		return
	}
	link := withQuery(s.Cfg.ConfirmEmailURL, url.Values{"user_id": {u.ID}, "token": {token}})
	data := mailtpl.NewConfirmEmailData(s.Cfg, u.Username, u.Email, link,
		mailtpl.WithIP(meta.IP), mailtpl.WithUserAgent(meta.UserAgent),
		mailtpl.WithTime(time.Now()), mailtpl.WithExpiresIn(confirmTokenTTL))
	s.enqueueEmail(ctx, u.Email, mailtpl.ConfirmEmail, data)
}

func (s *UserService) enqueueEmail(ctx context.Context, to, template string, data map[string]any) {
	if s.Publisher == nil || !s.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("enqueue email failed")
	}
}

func withQuery(base string, q url.Values) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}

// ConfirmEmail marks the address as confirmed when the token matches the one issued at registration.
func (s *UserService) ConfirmEmail(ctx context.Context, userID, token string, meta RequestMeta) error {
	if s.Redis == nil {
		return ErrInvalidToken
	}
	stored, err := s.Redis.Get(ctx, confirmKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return ErrInvalidToken
	}
	if err := s.Users.SetEmailConfirmed(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	_ = s.Redis.Del(ctx, confirmKey(userID)).Err()
	s.audit(ctx, &entity.User{ID: userID}, "confirm_email", meta, nil)
	return nil
}

// Authenticate validates login (email or username) and password without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*entity.User, error) {
	login = strings.TrimSpace(login)
	var (
		u   *entity.User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = s.Users.GetByEmail(ctx, strings.ToLower(login))
	} else {
		u, err = s.Users.GetByUsername(ctx, login)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if s.Cfg.RequireConfirmedEmail && !u.EmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.signPair(u, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"username":   u.Username,
			"avatar_url": u.AvatarURL,
			"roles":      strings.Join(u.Roles, ","),
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return pair, nil
}

func (s *UserService) signPair(u *entity.User, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid, u.Roles)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, login, password string, meta RequestMeta) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, login, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.audit(ctx, &entity.User{}, "login_failed", meta, map[string]any{"login": strings.TrimSpace(login)})
		}
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.audit(ctx, u, "login", meta, nil)
	resp := &LoginResponse{UserName: u.Username, Email: u.Email, Role: u.Roles, Token: pair.AccessToken}
	return resp, pair, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	// Validate current session id matches the token's sid
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	// Rotate session id and tokens
	sid := uuid.NewString()
	pair, err := s.signPair(u, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"roles":      strings.Join(u.Roles, ","),
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		_, _ = pipe.Exec(ctx)
	}
	return pair, u.ID, nil
}

// Logout drops the server-side session so outstanding tokens stop working.
func (s *UserService) Logout(ctx context.Context, userID string, meta RequestMeta) error {
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil {
			return err
		}
	}
	s.audit(ctx, &entity.User{ID: userID}, "logout", meta, nil)
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile renames the user or changes the avatar and mirrors the change into the live session.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Username); name != "" && name != u.Username {
		if other, gErr := s.Users.GetByUsername(ctx, name); gErr == nil && other.ID != u.ID {
			return nil, ErrUsernameTaken
		}
		u.Username = name
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	if err := s.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"username":   u.Username,
			"avatar_url": u.AvatarURL,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return u, nil
}

// UploadAvatar stores the image in GCS and points the profile at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrStorageUnavailable
	}
	objectPath := helpers.AvatarObjectPath(userID, filename)
	link, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = link
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	if s.Redis != nil {
		s.Redis.HSet(ctx, sessionKey(u.ID), map[string]any{
			"avatar_url": u.AvatarURL,
			"updated_at": nowRFC3339(),
		})
	}
	return link, nil
}

// RequestPasswordReset emails a reset link when the address is known. Unknown
// addresses succeed silently so the endpoint cannot be used to probe accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string, meta RequestMeta) error {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if s.Redis == nil {
		s.Logger.WithField("user_id", u.ID).Warn("password reset requested without redis")
		return nil
	}
	token, err := helpers.RandomToken(32)
	if err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, resetKey(token), u.ID, resetTokenTTL).Err(); err != nil {
		return err
	}
	link := withQuery(s.Cfg.ResetPasswordURL, url.Values{"token": {token}})
	data := mailtpl.NewResetPasswordData(s.Cfg, u.Username, u.Email, link,
		mailtpl.WithIP(meta.IP), mailtpl.WithUserAgent(meta.UserAgent),
		mailtpl.WithTime(time.Now()), mailtpl.WithExpiresIn(resetTokenTTL))
	s.enqueueEmail(ctx, u.Email, mailtpl.ResetPassword, data)
	s.audit(ctx, u, "reset_requested", meta, nil)
	return nil
}

// ResetPassword consumes a reset token, stores the new hash and ends active sessions.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string, meta RequestMeta) error {
	if s.Redis == nil {
		return ErrInvalidToken
	}
	userID, err := s.Redis.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	_ = s.Redis.Del(ctx, sessionKey(u.ID)).Err()

	data := mailtpl.NewPasswordChangedData(s.Cfg, u.Username, u.Email,
		mailtpl.WithIP(meta.IP), mailtpl.WithTime(time.Now()))
	s.enqueueEmail(ctx, u.Email, mailtpl.PasswordChanged, data)
	s.audit(ctx, u, "password_reset", meta, nil)
	return nil
}

// audit is best effort; failures are only logged.
func (s *UserService) audit(ctx context.Context, u *entity.User, action string, meta RequestMeta, extra map[string]any) {
	if s.Audit == nil {
		return
	}
	e := entity.AuditEntry{
		UserID:    u.ID,
		Email:     u.Email,
		Action:    action,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Metadata:  extra,
	}
	if err := s.Audit.Insert(ctx, e); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"action": action, "user_id": u.ID}).Warn("audit insert failed")
	}
}
