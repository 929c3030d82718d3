package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"movieshelf/proj/internal/domain/models"
	"movieshelf/proj/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt cost factor used for new passwords.
const hashCost = 10

type UsersStorage interface {
	Insert(ctx context.Context, email, username string, passwordHash []byte) (*models.User, error)
	GetByIdentity(ctx context.Context, email, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type AuthService struct {
	log      *slog.Logger
	storage  UsersStorage
	secret   []byte
	tokenTTL time.Duration
}

func New(log *slog.Logger, storage UsersStorage, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		storage:  storage,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Register creates a user with a bcrypt-hashed password. At least one of
// email or username must be non-empty (enforced at the HTTP boundary, and
// again by the store's check constraint).
func (a *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	const op = "auth.AuthService.Register"
	log := a.log.With("op", op, "email", email, "username", username)

	_, err := a.storage.GetByIdentity(ctx, email, username)
	if err == nil {
		log.Info("identity already in use")
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Error(err.Error())
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	user, err := a.storage.Insert(ctx, email, username, passwordHash)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("identity already in use")
			return nil, ErrUserAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

// Login authenticates by whichever identity fields were supplied and
// returns the user together with a signed access token. Unknown identity
// and wrong password are deliberately indistinguishable to the caller.
func (a *AuthService) Login(ctx context.Context, email, username, password string) (*models.User, string, error) {
	const op = "auth.AuthService.Login"
	log := a.log.With("op", op, "email", email, "username", username)

	user, err := a.storage.GetByIdentity(ctx, email, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("unknown identity")
			return nil, "", ErrInvalidCredentials
		}
		log.Error(err.Error())
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("password mismatch")
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.issueToken(user.ID)
	if err != nil {
		log.Error(err.Error())
		return nil, "", err
	}
	return user, token, nil
}

func (a *AuthService) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid": userID,
		"iat": now.Unix(),
		"exp": now.Add(a.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// VerifyToken validates signature and expiry and returns the user id
// embedded in the claims.
func (a *AuthService) VerifyToken(token string) (int64, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int64(uid), nil
}

func (a *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "auth.AuthService.GetUser"
	user, err := a.storage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		a.log.With("op", op, "id", id).Error(err.Error())
		return nil, err
	}
	return user, nil
}
