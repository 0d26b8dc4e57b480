// Package services contains server-side business logic. This file implements
// UserService: registration, login, token rotation and account management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/dmitrijs2005/shadowinterview/internal/dbx"
	"github.com/dmitrijs2005/shadowinterview/internal/server/auth"
	"github.com/dmitrijs2005/shadowinterview/internal/server/config"
	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/repomanager"
)

const (
	// maxUsernameLen matches users.username VARCHAR(150).
	maxUsernameLen = 150
	// maxPasswordBytes is the most bcrypt will hash.
	maxPasswordBytes = 72
)

// validateCredentials checks length limits; empty values are not checked.
func validateCredentials(username, password string) error {
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return fmt.Errorf("%w: username must be at most %d characters", common.ErrorValidation, maxUsernameLen)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrorValidation, maxPasswordBytes)
	}
	return nil
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication and account operations:
//   - Register / Login / Logout
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - UpdateProfile, ResetPassword, Promote
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	openAdminRegistration        bool

	// hashPassword is swapped in tests to keep bcrypt out of the hot path.
	hashPassword func(string) (string, error)
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		openAdminRegistration:        cfg.OpenAdminRegistration,
		hashPassword:                 auth.HashPassword,
	}
}

// Register creates an account. An empty role means "user"; "admin" is only
// honored when open admin registration is enabled and is silently downgraded
// otherwise. A taken username yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	switch role {
	case "", common.RoleUser:
		role = common.RoleUser
	case common.RoleAdmin:
		if !s.openAdminRegistration {
			role = common.RoleUser
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{UserName: username, PasswordHash: hash, Role: role}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks the password and, on success, returns a new TokenPair.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, userName, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return nil, fmt.Errorf("error deleting refresh token: %w", err)
		}
		return s.generateTokenPair(ctx, token.UserID, tx)
	})
}

// Logout revokes every refresh token of userID. Access tokens already issued
// stay valid until they expire.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repomanager.RefreshTokens(s.db).DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("error revoking refresh tokens: %w", err)
	}
	return nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, userID)
}

// UpdateProfile changes the username and/or password of userID. Nil fields
// are left alone.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, username, password *string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if username != nil {
		name := strings.TrimSpace(*username)
		if name == "" {
			return fmt.Errorf("%w: username must not be empty", common.ErrorValidation)
		}
		if err := validateCredentials(name, ""); err != nil {
			return err
		}
		user.UserName = name
	}
	if password != nil {
		if *password == "" {
			return fmt.Errorf("%w: password must not be empty", common.ErrorValidation)
		}
		if err := validateCredentials("", *password); err != nil {
			return err
		}
		hash, err := s.hashPassword(*password)
		if err != nil {
			return common.ErrorInternal
		}
		user.PasswordHash = hash
	}

	return repo.Update(ctx, user)
}

// ResetPassword sets a new password for username and revokes the user's
// refresh tokens in one transaction.
func (s *UserService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", common.ErrorValidation)
	}
	if err := validateCredentials("", newPassword); err != nil {
		return err
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetUserByLogin(ctx, username)
		if err != nil {
			return err
		}
		if err := s.repomanager.Users(tx).SetPasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, user.ID)
	})
}

// Promote gives username the admin role.
func (s *UserService) Promote(ctx context.Context, username string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		return err
	}
	if user.Role == common.RoleAdmin {
		return nil
	}
	return repo.SetRole(ctx, user.ID, common.RoleAdmin)
}

// EnsureAdmin creates username as an admin, or promotes an existing account
// and resets its password. Used to bootstrap the first administrator.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (created bool, err error) {
	if username == "" || password == "" {
		return false, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	if err := validateCredentials(username, password); err != nil {
		return false, err
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return false, common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetUserByLogin(ctx, username)
		if errors.Is(err, common.ErrorNotFound) {
			_, err = repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash, Role: common.RoleAdmin})
			created = err == nil
			return err
		}
		if err != nil {
			return err
		}

		if err := repo.SetPasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return repo.SetRole(ctx, user.ID, common.RoleAdmin)
	})

	return created, err
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
