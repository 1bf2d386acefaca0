package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/config"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns credential verification, token issuance and refresh
// rotation. One refresh token is valid per user at any time: issuing a pair
// overwrites the stored slot, so the last login wins and earlier sessions
// lose their ability to refresh. That is the intended single-session policy.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.FullName == "" || req.Password == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "all fields are required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to hash password")
	}

	user := models.User{
		Username: username,
		Email:    email,
		FullName: req.FullName,
		Password: string(hash),
	}

	// The unique indexes on username and email are the real guard; a
	// concurrent duplicate registration fails here, not at a pre-check.
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Wrap(apperr.ErrConflict, "username or email already registered")
		}
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to create user")
	}

	resp := dto.NewUserResponse(&user)
	return &resp, nil
}

// Login verifies credentials and issues a token pair. Unknown identity and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Email == "" && req.Username == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "email or username is required")
	}
	if req.Password == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "password is required")
	}

	var user models.User
	err := s.db.
		Where("email = ? OR username = ?", strings.ToLower(req.Email), strings.ToLower(req.Username)).
		First(&user).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Wrap(apperr.ErrUnauthorized, "invalid credentials")
	}

	pair, err := s.IssueTokenPair(&user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         dto.NewUserResponse(&user),
	}, nil
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// IssueTokenPair mints an access/refresh pair and persists the refresh value
// onto the user row in a single write, unconditionally overwriting any prior
// value (last writer wins).
func (s *AuthService) IssueTokenPair(user *models.User) (*TokenPair, error) {
	accessToken, err := s.signToken(user.ID, s.cfg.AccessTokenSecret, s.cfg.AccessTokenExpiry)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to sign access token")
	}

	refreshToken, err := s.signToken(user.ID, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiry)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to sign refresh token")
	}

	err = s.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("refresh_token", refreshToken).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to store refresh token")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a still-current refresh token for a new pair.
//
// The rotation is a single conditional update keyed on the presented value,
// so two concurrent refreshes with the same token cannot both succeed. A
// presented token that verifies but no longer matches the stored slot means
// reuse after rotation or theft; the slot is cleared entirely, forcing a
// fresh login.
func (s *AuthService) Refresh(presented string) (*dto.AuthResponse, error) {
	if presented == "" {
		return nil, apperr.Wrap(apperr.ErrUnauthorized, "invalid refresh token")
	}

	userID, err := s.verifyToken(presented, s.cfg.RefreshTokenSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUnauthorized, "invalid refresh token")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrUnauthorized, "invalid refresh token")
	}

	accessToken, err := s.signToken(user.ID, s.cfg.AccessTokenSecret, s.cfg.AccessTokenExpiry)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to sign access token")
	}
	refreshToken, err := s.signToken(user.ID, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiry)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to sign refresh token")
	}

	res := s.db.Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", user.ID, presented).
		Update("refresh_token", refreshToken)
	if res.Error != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to rotate refresh token")
	}
	if res.RowsAffected == 0 {
		// Superseded token presented: revoke whatever is stored.
		s.db.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("refresh_token", nil)
		return nil, apperr.Wrap(apperr.ErrUnauthorized, "invalid refresh token")
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserResponse(&user),
	}, nil
}

// Logout clears the stored refresh token so the session cannot refresh again.
func (s *AuthService) Logout(userID uuid.UUID) error {
	err := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", nil).Error
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, "failed to logout")
	}
	return nil
}

func (s *AuthService) signToken(userID uuid.UUID, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	// The jti makes every minted token unique even within the same second,
	// so rotation always produces a distinct refresh value.
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *AuthService) verifyToken(tokenString, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, errors.New("missing subject")
	}
	return uuid.Parse(sub)
}
