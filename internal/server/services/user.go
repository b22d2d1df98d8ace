// Package services contains the backend's business logic. UserService is the
// auth collaborator: sign-up, sign-in, session lookup, refresh-token rotation,
// sign-out and email confirmation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/veil/internal/common"
	"github.com/dmitrijs2005/veil/internal/cryptox"
	"github.com/dmitrijs2005/veil/internal/dbx"
	"github.com/dmitrijs2005/veil/internal/server/auth"
	"github.com/dmitrijs2005/veil/internal/server/config"
	"github.com/dmitrijs2005/veil/internal/server/models"
	"github.com/dmitrijs2005/veil/internal/server/repositories/repomanager"
)

const (
	minPasswordLength       = 6
	confirmationTokenTTL    = 24 * time.Hour
	refreshTokenRandomBytes = 32
)

// Session is an issued access/refresh token pair for a user.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *models.User
}

// SignUpResult carries a Session, or, when email confirmation is required,
// a ConfirmationToken and no Session.
type SignUpResult struct {
	User              *models.User
	Session           *Session
	ConfirmationToken string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	requireEmailConfirmation     bool
	now                          func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		requireEmailConfirmation:     cfg.RequireEmailConfirmation,
		now:                          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: malformed email", common.ErrorInvalidArgument)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorInvalidArgument, minPasswordLength)
	}
	return nil
}

// SignUp creates an account. A taken email yields common.ErrorAlreadyExists.
func (s *UserService) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, salt := cryptox.HashPassword([]byte(password))
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Confirmed:    !s.requireEmailConfirmation,
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	if s.requireEmailConfirmation {
		token, err := auth.GenerateConfirmationToken(u.ID, s.jwtSecret, confirmationTokenTTL)
		if err != nil {
			return nil, common.ErrorInternal
		}
		return &SignUpResult{User: u, ConfirmationToken: token}, nil
	}

	session, err := s.issueSession(ctx, u, s.db)
	if err != nil {
		return nil, err
	}
	return &SignUpResult{User: u, Session: session}, nil
}

// SignIn checks the credentials and issues a new session. Unknown email and
// wrong password are indistinguishable (common.ErrInvalidCredentials).
func (s *UserService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, common.ErrEmailNotConfirmed
	}

	return s.issueSession(ctx, user, s.db)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// RefreshToken validates a refresh token, rotates it transactionally and
// returns a fresh session. Expired tokens yield common.ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var session *Session
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return fmt.Errorf("error loading user: %w", err)
		}
		session, err = s.issueSession(ctx, user, tx)
		return err
	}); err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut revokes every refresh token of the user owning refreshToken.
// Unknown tokens are not an error.
func (s *UserService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	repo := s.repomanager.RefreshTokens(s.db)
	token, err := repo.Find(ctx, refreshToken)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error searching refresh token: %w", err)
	}
	if err := repo.DeleteByUser(ctx, token.UserID); err != nil {
		return fmt.Errorf("error revoking refresh tokens: %w", err)
	}
	return nil
}

// Confirm redeems a confirmation token and marks the account confirmed.
func (s *UserService) Confirm(ctx context.Context, token string) error {
	userID, err := auth.ParseConfirmationToken(token, s.jwtSecret)
	if err != nil {
		return err
	}
	if err := s.repomanager.Users(s.db).Confirm(ctx, userID); err != nil {
		return fmt.Errorf("error confirming user: %w", err)
	}
	return nil
}

func (s *UserService) issueSession(ctx context.Context, user *models.User, db dbx.DBTX) (*Session, error) {
	access, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(refreshTokenRandomBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}
	now := s.now()
	repo := s.repomanager.RefreshTokens(db)
	if _, err := repo.DeleteExpired(ctx, user.ID, now); err != nil {
		return nil, common.ErrorInternal
	}
	rt := &models.RefreshToken{Token: refresh, UserID: user.ID, ExpiresAt: now.Add(s.refreshTokenValidityDuration)}
	if err := repo.Create(ctx, rt); err != nil {
		return nil, common.ErrorInternal
	}

	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.accessTokenValidityDuration),
		User:         user,
	}, nil
}
