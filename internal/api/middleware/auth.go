package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/config"
	"github.com/pratham-8123/vaultbox/internal/models"
	"github.com/pratham-8123/vaultbox/internal/services"
	"github.com/pratham-8123/vaultbox/internal/utils"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	RoleKey   contextKey = "role"
)

var jwtSecret = config.Envs.JWTSecret

// AuthMiddleware validates the JWT cookie and stashes the caller identity
// in the request context. It never touches the database; the token claims
// are the identity.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr, err := r.Cookie("token")
		if err != nil {
			unauthorized(w)
			return
		}

		token, err := jwt.Parse(tokenStr.Value, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			unauthorized(w)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(w)
			return
		}

		userID, ok := claims["userId"].(string)
		if !ok || userID == "" {
			unauthorized(w)
			return
		}
		role, _ := claims["role"].(string)

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, RoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerFrom rebuilds the services.Caller placed by AuthMiddleware.
func CallerFrom(ctx context.Context) (services.Caller, bool) {
	rawID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return services.Caller{}, false
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return services.Caller{}, false
	}
	role, _ := ctx.Value(RoleKey).(string)
	return services.Caller{ID: id, Role: models.Role(role)}, true
}

func unauthorized(w http.ResponseWriter) {
	utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
		Success: false,
		Message: "Unauthorized",
	})
}
