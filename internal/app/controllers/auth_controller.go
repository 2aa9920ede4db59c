// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/schoolms/internal/app/auth"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/services"
	"github.com/yigit/schoolms/internal/middleware"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

// AuthService is the part of services.AuthService the controllers use
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*services.Identity, error)
	Logout(ctx context.Context, token string) error
}

// AuthController handles authentication related operations
type AuthController struct {
	authService AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// currentIdentity resolves the caller on public routes, where RequireAuth does not run.
func (c *AuthController) currentIdentity(ctx *gin.Context) *services.Identity {
	token := middleware.RequestToken(ctx)
	if token == "" {
		return nil
	}
	identity, err := c.authService.Authenticate(ctx.Request.Context(), token)
	if err != nil {
		return nil
	}
	return identity
}

// Home handles the landing page
// @Summary Landing page
// @Description Redirects logged-in users to the student listing
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AuthPage}
// @Success 302 {object} dto.APIResponse{data=dto.RedirectResponse}
// @Router / [get]
func (c *AuthController) Home(ctx *gin.Context) {
	if c.currentIdentity(ctx) != nil {
		middleware.Redirect(ctx, "/students")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AuthPage{Page: "home"}, middleware.Flashes(ctx)...))
}

// LoginPage renders the login page data and pending flash messages
// @Summary Login page
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AuthPage}
// @Router /login [get]
func (c *AuthController) LoginPage(ctx *gin.Context) {
	if identity := c.currentIdentity(ctx); identity != nil {
		middleware.Redirect(ctx, appauth.DashboardPath(identity.Role))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AuthPage{Page: "login"}, middleware.Flashes(ctx)...))
}

// Login handles user login
// @Summary Log in
// @Description Verifies credentials, resolves the role and starts a session. Form posts are redirected to the role's dashboard.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 401 {object} dto.APIResponse "Invalid credentials or no role assigned"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.Bind(ctx, &req) {
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		if !apperrors.Is(err, apperrors.ErrInvalidCredentials, apperrors.ErrNoProfile) {
			middleware.HandleAPIError(ctx, err)
			return
		}
		if errors.Is(err, apperrors.ErrNoProfile) {
			middleware.ClearSession(ctx)
		}
		if middleware.WantsJSON(ctx) {
			middleware.HandleAPIError(ctx, err)
			return
		}
		middleware.AddFlash(ctx, apperrors.UserMessage(err, services.MsgInvalidLogin))
		middleware.Redirect(ctx, middleware.LoginPath)
		return
	}

	if err := middleware.SaveSessionToken(ctx, result.Token); err != nil {
		c.logger.Error().Err(err).Msg("Failed to save session cookie")
		middleware.HandleAPIError(ctx, err)
		return
	}

	redirect := appauth.DashboardPath(result.Role)
	if !middleware.WantsJSON(ctx) {
		ctx.Redirect(http.StatusFound, redirect)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.LoginResponse{
		Token: dto.TokenResponse{
			AccessToken: result.Token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(time.Until(result.ExpiresAt).Seconds()),
			ExpiresAt:   result.ExpiresAt,
		},
		User:     services.SessionUser(&result.Identity),
		Redirect: redirect,
	}))
}

// Logout ends the session
// @Summary Log out
// @Description Revokes the session and clears the session cookie
// @Tags auth
// @Produce json
// @Success 302 {object} dto.APIResponse{data=dto.RedirectResponse}
// @Router /logout [get]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context(), middleware.RequestToken(ctx)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to revoke session")
	}
	middleware.ClearAndFlash(ctx, services.MsgLoggedOut)
	middleware.Redirect(ctx, middleware.LoginPath)
}

// RegisterPage renders the registration page data and pending flash messages
// @Summary Registration page
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AuthPage}
// @Router /register [get]
func (c *AuthController) RegisterPage(ctx *gin.Context) {
	page := dto.AuthPage{Page: "register", Authenticated: c.currentIdentity(ctx) != nil}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(page, middleware.Flashes(ctx)...))
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a login without a role. A staff member must link a profile before the account can log in.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 409 {object} dto.APIResponse "Username already taken"
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.Bind(ctx, &req) {
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		if middleware.WantsJSON(ctx) {
			middleware.HandleAPIError(ctx, err)
			return
		}
		status, _, message := middleware.ErrorStatus(err)
		if status >= http.StatusInternalServerError {
			middleware.HandleAPIError(ctx, err)
			return
		}
		middleware.AddFlash(ctx, apperrors.UserMessage(err, message))
		middleware.Redirect(ctx, "/register")
		return
	}

	if middleware.WantsJSON(ctx) {
		ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(user, services.MsgAccountCreated))
		return
	}
	middleware.AddFlash(ctx, services.MsgAccountCreated)
	middleware.Redirect(ctx, middleware.LoginPath)
}
