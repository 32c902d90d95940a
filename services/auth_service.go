package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"hotel-management/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Claims is the access token payload.
type Claims struct {
	Role      models.Role `json:"role"`
	Superuser bool        `json:"su,omitempty"`
	jwt.RegisteredClaims
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
	Redirect  string
}

// AuthService issues and checks access tokens. Group membership is
// reconciled with the user's role on every registration and login.
type AuthService struct {
	DB     *gorm.DB
	Users  *UserService
	Groups *GroupService
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthService(db *gorm.DB, users *UserService, groups *GroupService, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		DB:     db,
		Users:  users,
		Groups: groups,
		Secret: []byte(secret),
		TTL:    ttl,
		Now:    time.Now,
	}
}

// RedirectFor is the page the client should land on after login.
func RedirectFor(u *models.User) string {
	if u.IsHotelOwner() {
		return "/hotel/dashboard/"
	}
	return "/booking/"
}

// Register creates the account and puts it in the group for its role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := s.Users.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.Groups.Reconcile(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("User %s registered as %s", user.Username, user.Role)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if IsNotFound(err) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, models.ErrInactiveUser
	}
	if err := s.Groups.Reconcile(ctx, user); err != nil {
		return nil, err
	}

	token, exp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user, Redirect: RedirectFor(user)}, nil
}

func (s *AuthService) issue(user *models.User) (string, time.Time, error) {
	now := s.Now().UTC()
	exp := now.Add(s.TTL)
	claims := Claims{
		Role:      user.Role,
		Superuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// ParseToken verifies signature and expiry and rejects revoked token ids.
func (s *AuthService) ParseToken(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	tok, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (interface{}, error) {
		return s.Secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, models.ErrInvalidToken
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil, models.ErrInvalidToken
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.RevokedToken{}).Where("jti = ?", claims.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check revoked tokens: %w", err)
	}
	if count > 0 {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*models.User, *Claims, error) {
	claims, err := s.ParseToken(ctx, raw)
	if err != nil {
		return nil, nil, err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, nil, models.ErrInvalidToken
	}
	user, err := s.Users.GetByID(ctx, uint(id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil, models.ErrInvalidToken
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, models.ErrInactiveUser
	}
	return user, claims, nil
}

// Logout revokes the token id until it would have expired anyway and drops
// revocations that are no longer needed.
func (s *AuthService) Logout(ctx context.Context, userID uint, claims *Claims) error {
	db := s.DB.WithContext(ctx)
	revoked := models.RevokedToken{
		JTI:       claims.ID,
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if err := db.Where("jti = ?", revoked.JTI).FirstOrCreate(&revoked).Error; err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	if err := db.Where("expires_at < ?", s.Now().UTC()).Delete(&models.RevokedToken{}).Error; err != nil {
		log.Printf("failed to purge expired revocations: %v", err)
	}
	return nil
}
