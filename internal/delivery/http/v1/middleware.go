package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-daily-todo/internal/services"
)

const (
	userIDCtxKey    = "user_id"
	sessionIDCtxKey = "session_id"
)

// HandleAuthMiddleware authenticates the request by its access token.
// An expired access token is replaced using the refresh token cookie.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	accessToken, ok := extractAccessToken(c)
	if !ok {
		h.logger.Error().Msg("access token required")
		abort(c, newUnauthorizedError(errAuthorizationRequired.Error()))
		return
	}

	claims, err := h.auth.ParseJWTToken(accessToken)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			h.logger.Error().
				Err(err).
				Msg("failed to parse token")
			abort(c, newUnauthorizedError(errInvalidAccessToken.Error()))
			return
		}

		refreshToken, cookieErr := c.Cookie(refreshTokenCookie)
		if cookieErr != nil {
			h.logger.Error().
				Err(err).
				Msg("access token expired and no refresh token cookie")
			abort(c, newUnauthorizedError(errInvalidAccessToken.Error()))
			return
		}

		result, ok := h.refreshSession(c, refreshToken)
		if !ok {
			return
		}

		claims, err = h.auth.ParseJWTToken(result.AccessToken)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to parse fresh token")
			abort(c, newUnauthorizedError(errInvalidAccessToken.Error()))
			return
		}
	}

	session, err := h.sessions.GetSessionByID(c, claims.Subject)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			h.logger.Warn().
				Str("session_id", claims.Subject).
				Msg("session not found")
			abort(c, newUnauthorizedError(services.ErrSessionNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to fetch session")
		abort(c, newServiceError(err))
		return
	}

	browserFingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	if browserFingerprint != session.Fingerprint {
		h.logger.Error().
			Str("session_id", session.ID).
			Msg("fingerprint mismatch")
		abort(c, newUnauthorizedError(errInvalidAccessToken.Error()))
		return
	}

	user, err := h.auth.LoadUser(c, session.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newUnauthorizedError(services.ErrUserNotFound.Error()))
			return
		}

		abort(c, newServiceError(err))
		return
	}

	c.Set(userIDCtxKey, user.ID)
	c.Set(sessionIDCtxKey, session.ID)
	c.Next()
}

// extractAccessToken reads the bearer token from the Authorization
// header, falling back to the access token cookie.
func extractAccessToken(c *gin.Context) (string, bool) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header != "" {
		const bearerPrefix = "Bearer"
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	token, err := c.Cookie(accessTokenCookie)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}
