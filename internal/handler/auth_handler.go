package handler

import (
	"errors"
	"net/http"
	"regexp"

	"pmboard/internal/middleware"
	"pmboard/internal/model"
	"pmboard/internal/repository"
	"pmboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Session cookie lifetime in seconds (8 hours).
const sessionMaxAge = 8 * 60 * 60

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type AuthHandler struct {
	userRepo  repository.UserRepositoryInterface
	boardRepo repository.BoardRepositoryInterface
	sessions  *session.Store
}

func NewAuthHandler(
	userRepo repository.UserRepositoryInterface,
	boardRepo repository.BoardRepositoryInterface,
	sessions *session.Store,
) *AuthHandler {
	return &AuthHandler{
		userRepo:  userRepo,
		boardRepo: boardRepo,
		sessions:  sessions,
	}
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=30"`
	Password    string `json:"password" binding:"required,min=6,max=128"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=128"`
}

type UserResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Register creates a new account with its first board and logs it in.
// @Summary      Register a new user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration payload"
// @Success      201 {object} UserResponse
// @Failure      409 {object} map[string]string
// @Failure      422 {object} map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid registration payload"})
		return
	}
	if !usernamePattern.MatchString(req.Username) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Username may only contain letters, digits, and underscores"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username is already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	if _, err := h.boardRepo.Create(c.Request.Context(), user.ID, model.DefaultBoardName, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create initial board"})
		return
	}

	if err := h.startSession(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, UserResponse{
		Username:    user.Username,
		DisplayName: user.DisplayName,
	})
}

// Login authenticates username/password and issues a session cookie.
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} UserResponse
// @Failure      401 {object} map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid login payload"})
		return
	}

	user, err := h.userRepo.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if err := h.startSession(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		Username:    user.Username,
		DisplayName: user.DisplayName,
	})
}

// Logout revokes the session, if any, and clears the cookie. Calling it
// without a session still succeeds.
// @Summary      Log out
// @Tags         Auth
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookieName); err == nil && token != "" {
		h.sessions.Revoke(token)
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Me returns the authenticated identity.
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Success      200 {object} UserResponse
// @Failure      401 {object} map[string]string
// @Security     SessionCookie
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, UserResponse{
		Username:    user.Username,
		DisplayName: user.DisplayName,
	})
}

// UpdateProfile changes the display name and pushes it into the live
// session snapshot so /auth/me reflects it without a re-login.
// @Summary      Update profile
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "New display name"
// @Success      200 {object} UserResponse
// @Security     SessionCookie
// @Router       /auth/me [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	sessUser, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid profile payload"})
		return
	}

	user, err := h.userRepo.UpdateDisplayName(c.Request.Context(), sessUser.UserID, req.DisplayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	h.sessions.UpdateDisplayName(sessionToken(c), user.DisplayName)

	c.JSON(http.StatusOK, UserResponse{
		Username:    user.Username,
		DisplayName: user.DisplayName,
	})
}

// ChangePassword verifies the current password against the durable user
// record before storing the new hash. Other live sessions for the user stay
// valid.
// @Summary      Change password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Password change payload"
// @Success      200 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Security     SessionCookie
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	sessUser, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid password payload"})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), sessUser.UserID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := h.userRepo.UpdatePassword(c.Request.Context(), user.ID, string(hash)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) startSession(c *gin.Context, user *model.User) error {
	token, err := h.sessions.Create(session.User{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	})
	if err != nil {
		return err
	}
	setSessionCookie(c, token)
	return nil
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, sessionMaxAge, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
}
