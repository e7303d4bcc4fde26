package services

import (
	"errors"
	"time"

	"github.com/humamchoudhary/burgnice-backend/entity"
	"github.com/humamchoudhary/burgnice-backend/repository"
	"github.com/humamchoudhary/burgnice-backend/utils"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	Repo      *repository.UserRepository
	JWTSecret string
	TokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo *repository.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	return &AuthService{
		Repo:      repo,
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

type RegisterIn struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthOut pairs the issued token with the public view of the account.
type AuthOut struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

func (s *AuthService) Register(in *RegisterIn) (*AuthOut, error) {
	if n, err := s.Repo.CountByEmail(in.Email); err != nil {
		return nil, err
	} else if n > 0 {
		return nil, ErrEmailTaken
	}
	if n, err := s.Repo.CountByUsername(in.Username); err != nil {
		return nil, err
	} else if n > 0 {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
		Role:     entity.RoleUser,
	}
	if err := s.Repo.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user registered")
	return s.issue(user)
}

func (s *AuthService) Login(in *LoginIn) (*AuthOut, error) {
	user, err := s.Repo.FindByEmail(in.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *entity.User) (*AuthOut, error) {
	token, err := utils.GenerateToken(user.ID, user.Role, s.JWTSecret, s.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthOut{Token: token, User: *user}, nil
}

func (s *AuthService) Profile(userID uint) (*entity.User, error) {
	return s.Repo.FindByID(userID)
}

type UpdateProfileIn struct {
	Username string `json:"username" binding:"omitempty,min=3,max=32"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

func (s *AuthService) UpdateProfile(userID uint, in *UpdateProfileIn) (*entity.User, error) {
	updates := map[string]any{}
	if in.Username != "" {
		current, err := s.Repo.FindByID(userID)
		if err != nil {
			return nil, err
		}
		if in.Username != current.Username {
			if n, err := s.Repo.CountByUsername(in.Username); err != nil {
				return nil, err
			} else if n > 0 {
				return nil, ErrUsernameTaken
			}
			updates["username"] = in.Username
		}
	}
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hashed)
	}
	if len(updates) > 0 {
		if err := s.Repo.Update(userID, updates); err != nil {
			return nil, err
		}
	}
	return s.Repo.FindByID(userID)
}
