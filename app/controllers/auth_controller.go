package controllers

import (
	"github.com/hostelease/hostelease/app/services"
	"github.com/hostelease/hostelease/pkg/auth"
	"github.com/hostelease/hostelease/pkg/ctx"
)

// AuthController exposes registration and login.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{auth: svc}
}

// Register handles POST /api/auth/register.
func (ac *AuthController) Register(c *ctx.Context) {
	var input services.RegisterInput
	if !c.BindJSON(&input) {
		return
	}

	user, err := ac.auth.Register(input)
	if err != nil {
		handleError(c, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Created(map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login.
func (ac *AuthController) Login(c *ctx.Context) {
	var input loginInput
	if !c.BindJSON(&input) {
		return
	}

	token, user, err := ac.auth.Login(input.Email, input.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Success(map[string]interface{}{
		"token": token,
		"user":  user,
	})
}
