package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/adityapratama/shopeasy-backend/api/responses"
	"github.com/adityapratama/shopeasy-backend/pkg/auth"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
)

type actorCtxKey struct{}

// Auth requires a valid bearer token and puts the resulting actor on the
// request context.
func Auth(tokens *auth.TokenManager, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				responses.Error(r.Context(), logg, w, apperrors.New(apperrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				responses.Error(r.Context(), logg, w, apperrors.New(apperrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			actor := auth.Actor{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
			}

			ctx := context.WithValue(r.Context(), actorCtxKey{}, actor)
			ctx = logg.WithUserID(ctx, actor.UserID.String())
			ctx = logg.WithRole(ctx, actor.Role.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (auth.Actor, bool) {
	actor, ok := ctx.Value(actorCtxKey{}).(auth.Actor)
	return actor, ok
}

// MustActor is for handlers behind Auth, where an actor is guaranteed.
func MustActor(ctx context.Context) auth.Actor {
	actor, _ := ActorFromContext(ctx)
	return actor
}
