package services

import (
	"errors"
	"strings"

	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/app/repositories"
	"github.com/hostelease/hostelease/pkg/auth"
	"github.com/hostelease/hostelease/pkg/logger"
	"gorm.io/gorm"
)

// AuthService handles registration and login.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// RegisterInput is the registration request body.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required,digits=10"`
	Role     string `json:"role"`
	Address  string `json:"address" validate:"required"`
}

// Register creates a new user. Emails are stored lowercased; a duplicate
// yields ErrEmailTaken. Unknown role values fall back to Student.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	taken, err := s.users.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role, ok := auth.ParseRole(input.Role)
	if !ok {
		role = auth.RoleStudent
	}

	user := &models.User{
		Name:     input.Name,
		Email:    email,
		Password: hash,
		Phone:    input.Phone,
		Role:     role,
		Address:  input.Address,
	}
	if err := s.users.Create(user); err != nil {
		// A concurrent registration can slip past the existence check and
		// land on the unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logger.Info("auth: user registered", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

// Login checks the credentials and returns a bearer token with the user.
// A wrong password and an unknown email are indistinguishable to the
// caller.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// LookupRole resolves a token subject to a live user's role. The auth
// middleware uses it so deleted accounts stop authenticating immediately.
func (s *AuthService) LookupRole(userID uint) (auth.Role, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
