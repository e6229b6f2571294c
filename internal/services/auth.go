package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Register(dbc dbctx.Context, in RegisterInput) (*types.User, error)
	Login(dbc dbctx.Context, email, password string) (*Tokens, error)
	Refresh(dbc dbctx.Context, refreshToken string) (*Tokens, error)
	Logout(dbc dbctx.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

var errBadCredentials = fmt.Errorf("%w: invalid email or password", pkgerrors.ErrUnauthorized)

// Register creates a pending student account.
func (as *authService) Register(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	created, err := as.userRepo.Create(dbc, []*types.User{{
		Email:     in.Email,
		Password:  string(hashed),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      types.RoleStudent,
		Status:    types.StatusPending,
	}})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", pkgerrors.ErrConflict)
		}
		return nil, err
	}
	as.log.Info("user registered", "user_id", created[0].ID)
	return created[0], nil
}

func (as *authService) Login(dbc dbctx.Context, email, password string) (*Tokens, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", pkgerrors.ErrInvalidArgument)
	}
	users, err := as.userRepo.GetByEmails(dbc, []string{email})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, errBadCredentials
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return as.issue(dbc, user)
}

// Refresh rotates the stored token row: a new pair is issued and the old row removed.
func (as *authService) Refresh(dbc dbctx.Context, refreshToken string) (*Tokens, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh_token is required", pkgerrors.ErrInvalidArgument)
	}
	var out *Tokens
	err := dbc.DB(as.db).Transaction(func(tx *gorm.DB) error {
		inner := dbc.WithTx(tx)
		found, err := as.userTokenRepo.GetByRefreshTokens(inner, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("load refresh token: %w", err)
		}
		if len(found) == 0 {
			return fmt.Errorf("%w: unknown refresh token", pkgerrors.ErrUnauthorized)
		}
		existing := found[0]
		if actor := ctxutil.ActorFrom(dbc.Ctx); actor.Authenticated() && actor.UserID != existing.UserID {
			return fmt.Errorf("%w: refresh token belongs to another user", pkgerrors.ErrUnauthorized)
		}
		if existing.ExpiresAt.Before(time.Now()) {
			_ = as.userTokenRepo.SoftDeleteByIDs(inner, []uuid.UUID{existing.ID})
			return fmt.Errorf("%w: refresh token expired", pkgerrors.ErrUnauthorized)
		}
		users, err := as.userRepo.GetByIDs(inner, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 {
			return fmt.Errorf("%w: user no longer exists", pkgerrors.ErrUnauthorized)
		}
		tokens, err := as.issue(inner, users[0])
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.SoftDeleteByIDs(inner, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("remove old token: %w", err)
		}
		out = tokens
		return nil
	})
	if err != nil {
		as.log.Warn("refresh failed", "error", err)
		return nil, err
	}
	return out, nil
}

func (as *authService) Logout(dbc dbctx.Context) error {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.TokenString == "" {
		return pkgerrors.ErrUnauthorized
	}
	found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{rd.TokenString})
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(found))
	for _, t := range found {
		ids = append(ids, t.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	return as.userTokenRepo.SoftDeleteByIDs(dbc, ids)
}

func (as *authService) issue(dbc dbctx.Context, user *types.User) (*Tokens, error) {
	access, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh := uuid.New().String()
	_, err = as.userTokenRepo.Create(dbc, []*types.UserToken{{
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(as.refreshTTL),
	}})
	if err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh, ExpiresIn: int64(as.accessTTL.Seconds())}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken verifies the token, loads the user once and attaches the actor.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, pkgerrors.ErrUnauthorized
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", pkgerrors.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("%w: invalid or expired token", pkgerrors.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid subject", pkgerrors.ErrUnauthorized)
	}

	dbc := dbctx.From(ctx)
	found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("load token: %w", err)
	}
	if len(found) == 0 {
		return ctx, fmt.Errorf("%w: token revoked", pkgerrors.ErrUnauthorized)
	}
	users, err := as.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return ctx, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return ctx, fmt.Errorf("%w: user no longer exists", pkgerrors.ErrUnauthorized)
	}
	u := users[0]
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      u.ID,
		Role:        u.Role,
		Status:      u.Status,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
