package identity

import (
	"context"
	"net/http"

	commonhttp "github.com/AlibekovAA/jobboard/internal/common/http"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
)

// UserSyncer records a resolved identity in the user registry.
type UserSyncer interface {
	Sync(ctx context.Context, id Identity) error
}

// Middleware attaches the caller's identity to the request context. Missing
// or unusable tokens leave the request anonymous so public reads keep working;
// commands that need a caller reject it later with 401.
func Middleware(provider *Provider, users UserSyncer, errs *commonhttp.ErrorHandler, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := provider.ResolveHeader(r.Header.Get("Authorization"))
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"error":  err.Error(),
					"action": "identity_rejected",
				}).Warn("identity token rejected, continuing as anonymous")
				id = Identity{}
			}

			if !id.IsAnonymous() && users != nil {
				if err := users.Sync(r.Context(), id); err != nil {
					errs.HandleError(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RateLimitKey charges signed-in callers by user id and everyone else by IP.
func RateLimitKey(r *http.Request) string {
	if id := FromContext(r.Context()); !id.IsAnonymous() {
		return "user:" + id.UserID
	}
	return "ip:" + commonhttp.GetClientIP(r)
}
