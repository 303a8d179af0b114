package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/storage"
	"github.com/leo-park82/SMT-Management/utils"
)

// LoginHandler authenticates a user against the configured accounts
// @Summary Login user
// @Description Authenticate with user id and password, returns access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/login [post]
func LoginHandler(users *storage.UserStore, sessions *storage.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		user, err := users.Authenticate(req.UserID, req.Password)
		if err != nil {
			// Same message for unknown user and wrong password
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		accessToken, err := utils.GenerateJWT(user.ID, user.Name, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		sessionID := uuid.New().String()
		refreshToken, err := utils.GenerateRefreshToken(user.ID, sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
			return
		}

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		now := time.Now()
		err = sessions.SaveSession(ctx, &models.Session{
			UserID:                user.ID,
			SessionID:             sessionID,
			Role:                  user.Role,
			HostName:              c.Request.Host,
			IPAddress:             c.ClientIP(),
			Timestamp:             now,
			ExpiresAt:             now.Add(15 * time.Minute),
			RefreshToken:          refreshToken,
			RefreshTokenExpiresAt: now.Add(15 * 24 * time.Hour),
		}, false)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.LoginResponse{
			Message:      "User successfully logged in",
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			SessionID:    sessionID,
			User:         models.Actor{UserID: user.ID, Name: user.Name, Role: user.Role},
		})
	}
}

// RefreshTokenHandler exchanges a valid refresh token for a new access token
// @Summary Refresh access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/refresh-token [post]
func RefreshTokenHandler(users *storage.UserStore, sessions *storage.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
			return
		}

		parsed, err := utils.ValidateJWT(req.RefreshToken)
		if err != nil || !parsed.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}

		ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
		defer cancel()

		session, err := sessions.GetSessionByRefreshToken(ctx, req.RefreshToken)
		if err != nil {
			if errors.Is(err, storage.ErrStoreUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data store unavailable"})
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found or expired"})
			return
		}
		if time.Now().After(session.RefreshTokenExpiresAt) {
			_ = sessions.DeleteSessionByID(ctx, session.SessionID)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}

		user, err := users.GetUser(session.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		accessToken, err := utils.GenerateJWT(user.ID, user.Name, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, models.LoginResponse{
			Message:      "Token refreshed",
			AccessToken:  accessToken,
			RefreshToken: req.RefreshToken,
			SessionID:    session.SessionID,
			User:         models.Actor{UserID: user.ID, Name: user.Name, Role: user.Role},
		})
	}
}

// ValidateSessionHandler reports whether the presented access token is still valid
// @Summary Validate access token
// @Tags Authentication
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.ErrorResponse
// @Router /api/validate-session [get]
func ValidateSessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Missing token"})
			return
		}

		parsed, err := utils.ValidateJWT(token)
		if err != nil || !parsed.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Invalid or expired token"})
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Invalid token claims"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"valid":   true,
			"user_id": claims["user_id"],
			"name":    claims["name"],
			"role":    claims["role"],
		})
	}
}

// LogoutHandler deletes the caller's session so the refresh token stops working
// @Summary Logout user
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router /api/logout [post]
func LogoutHandler(sessions *storage.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		// Body is optional; logout without a token is still a 200
		_ = c.ShouldBindJSON(&req)

		if req.RefreshToken != "" {
			ctx, cancel := utils.GetDefaultStoreContext(c.Request.Context())
			defer cancel()
			if session, err := sessions.GetSessionByRefreshToken(ctx, req.RefreshToken); err == nil {
				_ = sessions.DeleteSessionByID(ctx, session.SessionID)
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
