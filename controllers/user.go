package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/store"
	"go-storefront/utils"
)

// UserController handles user-related requests
type UserController struct {
	Users        store.UserRepository
	EmailService *utils.EmailService
	Google       utils.GoogleVerifier
	// DemoMode grants admin rights to any registered email containing "admin"
	DemoMode bool
}

// NewUserController creates a new UserController with EmailService
func NewUserController(s store.Store, emailService *utils.EmailService, google utils.GoogleVerifier, demoMode bool) *UserController {
	return &UserController{
		Users:        s.Users(),
		EmailService: emailService,
		Google:       google,
		DemoMode:     demoMode,
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	// Decode the request body into the registration request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := models.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Check if user already exists
	_, err := uc.Users.FindByEmail(ctx, req.Email)
	if err == nil {
		utils.WriteError(w, http.StatusBadRequest, "Email already exists")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		zap.L().Error("find user", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Hash the password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	user := models.User{
		ID:       utils.NewID(),
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		IsAdmin:  uc.DemoMode && strings.Contains(req.Email, "admin"),
	}

	// Insert the user into the database
	err = uc.Users.Create(ctx, &user)
	if errors.Is(err, store.ErrDuplicate) {
		utils.WriteError(w, http.StatusBadRequest, "Email already exists")
		return
	}
	if err != nil {
		zap.L().Error("create user", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	// Send welcome email
	go func(u models.User) {
		content := fmt.Sprintf("<p>Dear %s,</p><p>Welcome to Jojo's Store! Your account is ready.</p>", u.Name)
		if err := uc.EmailService.SendEmail(u.Email, "Welcome to Jojo's Store", content); err != nil {
			zap.L().Warn("failed to send welcome email", zap.String("to", u.Email), zap.Error(err))
		}
	}(user)

	uc.respondWithToken(w, http.StatusCreated, user)
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.LoginRequest
	// Decode the request body
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	creds.Email = strings.TrimSpace(strings.ToLower(creds.Email))
	if err := models.Validate(creds); err != nil {
		writeValidationError(w, err)
		return
	}

	// Find the user in the database
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	user, err := uc.Users.FindByEmail(ctx, creds.Email)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusBadRequest, "User not found")
		return
	}
	if err != nil {
		zap.L().Error("find user", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Google-only accounts carry no password
	if user.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "Please login with Google")
		return
	}

	// Compare the hashed password
	if !utils.CheckPassword(user.Password, creds.Password) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	uc.respondWithToken(w, http.StatusOK, *user)
}

// GoogleLogin exchanges a Google ID token for a session, creating the account on first use.
// It answers 400 when no verifier is configured.
func (uc *UserController) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if uc.Google == nil {
		utils.WriteError(w, http.StatusBadRequest, "Google login is not enabled")
		return
	}
	var req models.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := models.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	profile, err := uc.Google.Verify(ctx, req.Token)
	if err != nil {
		zap.L().Info("google token rejected", zap.Error(err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid Google token")
		return
	}

	user, err := uc.Users.FindByEmail(ctx, strings.ToLower(profile.Email))
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		user = &models.User{
			ID:    utils.NewID(),
			Name:  profile.Name,
			Email: strings.ToLower(profile.Email),
		}
		if err := uc.Users.Create(ctx, user); err != nil {
			zap.L().Error("create google user", zap.Error(err))
			utils.WriteError(w, http.StatusInternalServerError, "Error creating user")
			return
		}
	default:
		zap.L().Error("find user", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	uc.respondWithToken(w, http.StatusOK, *user)
}

// GetProfile retrieves the authenticated user's identity
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	// Extract user information from context
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Could not parse user from context")
		return
	}

	// Find the user in the database
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	user, err := uc.Users.FindByID(ctx, claims.UserID)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, user.Identity())
}

func (uc *UserController) respondWithToken(w http.ResponseWriter, status int, user models.User) {
	// Generate JWT token
	token, err := utils.GenerateJWT(user)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	utils.WriteJSON(w, status, models.AuthResponse{Token: token, User: user.Identity()})
}
