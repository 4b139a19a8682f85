package services

import (
	"context"
	"fmt"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/platform/sendgrid"
	"github.com/yungbote/orbit-backend/internal/repos"
	"github.com/yungbote/orbit-backend/internal/requestdata"
	"github.com/yungbote/orbit-backend/internal/types"
	"github.com/yungbote/orbit-backend/internal/utils"
)

const (
	verificationCodeTTL = 10 * time.Minute
	// demoBypassCode is accepted for any email when no mailer is
	// configured, so the app stays usable without SendGrid credentials.
	demoBypassCode = "123456"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

// AuthService implements passwordless login: a verification code is
// emailed to a campus address and exchanged for JWT access + refresh
// tokens.
type AuthService interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (string, string, error)
	RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	codeRepo      repos.VerificationCodeRepo
	mailer        sendgrid.Client
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	codeRepo repos.VerificationCodeRepo,
	mailer sendgrid.Client,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		codeRepo:      codeRepo,
		mailer:        mailer,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RequestCode(ctx context.Context, email string) error {
	email, err := utils.ValidateEduEmail(email)
	if err != nil {
		return fmt.Errorf("%s: %w", err.Error(), ErrValidation)
	}

	code, err := generateVerificationCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash verification code: %w", err)
	}

	now := time.Now().UTC()
	record := &types.VerificationCode{
		Email:     email,
		CodeHash:  string(hash),
		CreatedAt: now,
		ExpiresAt: now.Add(verificationCodeTTL),
	}
	if err := as.codeRepo.Upsert(ctx, nil, record); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if as.mailer == nil {
		as.log.Warn("No mailer configured, running in demo mode", "email", email)
		return nil
	}

	sendErr := as.mailer.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: email}},
		Subject: "Orbit - Your Verification Code",
		Text:    fmt.Sprintf("Your Orbit verification code is: %s\n\nThis code expires in 10 minutes.", code),
	})
	if sendErr != nil {
		return fmt.Errorf("failed to send verification email: %w", sendErr)
	}
	return nil
}

// generateVerificationCode draws a 6-digit code from crypto/rand so
// codes cannot be predicted from process state.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (as *authService) VerifyCode(ctx context.Context, email, code string) (string, string, error) {
	email, err := utils.ValidateEduEmail(email)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", err.Error(), ErrValidation)
	}
	if code == "" {
		return "", "", fmt.Errorf("verification code is required: %w", ErrValidation)
	}

	if !as.codeIsValid(ctx, email, code) {
		return "", "", fmt.Errorf("invalid or expired verification code: %w", ErrValidation)
	}
	if err := as.codeRepo.DeleteByEmail(ctx, nil, email); err != nil {
		as.log.Warn("Failed to delete used verification code", "error", err)
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := as.userRepo.GetByEmail(ctx, tx, email)
		if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}
		if user == nil {
			now := time.Now().UTC()
			user = &types.User{ID: uuid.New(), Email: email, CreatedAt: now, UpdatedAt: now}
			if _, err := as.userRepo.Create(ctx, tx, user); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			as.log.Info("Created new user", "user_id", user.ID)
		}
		accessToken, refreshToken, err = as.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) codeIsValid(ctx context.Context, email, code string) bool {
	// Demo bypass only applies when no mailer is configured.
	if as.mailer == nil && code == demoBypassCode {
		return true
	}
	record, err := as.codeRepo.GetByEmail(ctx, nil, email)
	if err != nil || record == nil {
		return false
	}
	if time.Now().UTC().After(record.ExpiresAt) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) == nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", fmt.Errorf("refresh token is required: %w", ErrValidation)
	}

	var accessToken, newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.userTokenRepo.GetByRefreshToken(ctx, tx, refreshToken)
		if err != nil {
			return fmt.Errorf("failed to look up refresh token: %w", err)
		}
		if existing == nil {
			return fmt.Errorf("unknown refresh token: %w", ErrNotFound)
		}
		if time.Now().UTC().After(existing.ExpiresAt) {
			if err := as.userTokenRepo.DeleteByID(ctx, tx, existing.ID); err != nil {
				as.log.Warn("Failed to delete expired refresh token", "error", err)
			}
			return fmt.Errorf("refresh token expired: %w", ErrConflict)
		}
		user, err := as.userRepo.GetByID(ctx, tx, existing.UserID)
		if err != nil {
			return fmt.Errorf("failed to load user for refresh: %w", err)
		}
		if user == nil {
			return fmt.Errorf("no user found for refresh token: %w", ErrNotFound)
		}
		accessToken, newRefreshToken, err = as.issueTokens(ctx, tx, user)
		if err != nil {
			return err
		}
		return as.userTokenRepo.DeleteByID(ctx, tx, existing.ID)
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return fmt.Errorf("no authenticated session: %w", ErrValidation)
	}
	token, err := as.userTokenRepo.GetByAccessToken(ctx, nil, rd.TokenString)
	if err != nil {
		return fmt.Errorf("failed to look up session token: %w", err)
	}
	if token == nil {
		return nil
	}
	return as.userTokenRepo.DeleteByID(ctx, nil, token.ID)
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (string, string, error) {
	accessToken, err := as.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken := uuid.New().String()
	now := time.Now().UTC()
	userToken := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(as.refreshTTL),
		CreatedAt:    now,
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, userToken); err != nil {
		return "", "", fmt.Errorf("failed to store user token: %w", err)
	}
	return accessToken, refreshToken, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("missing token: %w", ErrValidation)
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token: %w", ErrValidation)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", ErrValidation)
	}
	rd := &requestdata.RequestData{
		UserID:      userID,
		TokenString: tokenString,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}
