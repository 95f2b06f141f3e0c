package app

import (
	"errors"
	"net/http"

	"github.com/Thucosta0/financepro-sub000/internal/config"
	"github.com/Thucosta0/financepro-sub000/internal/prefetch"
	"github.com/Thucosta0/financepro-sub000/pkg/subscription"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	r.Use(requestLogger)

	// Propagate X-User-Id header into context for downstream services
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			log.Debug("Propagating user ID header")

			userIdHeader := req.Header.Get("X-User-Id")
			ctx := req.Context()

			if userIdHeader != "" {
				u, err := deps.UserService.GetUserByUid(ctx, userIdHeader)
				if err != nil {
					if errors.Is(err, user.ErrUserNotFound) {
						log.Debugf("user not found: %s", userIdHeader)
						http.Error(w, "user not found", http.StatusForbidden)
						return
					} else {
						log.Errorf("failed to get user: %v", err)
						http.Error(w, err.Error(), http.StatusBadRequest)
						return
					}
				} else {
					log.Debugf("user found: %s", u.Uid)
					ctx = user.WithUser(ctx, u)
				}
			}
			log.Debug("Propagated user ID header")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	if cfg.Subscription.Enforce {
		log.Info("Rejecting mutations of accounts with expired trial")
		r.Use(subscription.RequireActive(deps.Evaluator, "/api/session", "/api/webhooks", "/api/user"))
	}

	r.Use(navigationPrefetch(deps.Advisor))
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, req)
		log.Debugf("%s %s %d %s", req.Method, req.URL.Path, m.Code, m.Duration)
	})
}

// navigationPrefetch warms the routes related to a page once the client
// successfully read it.
func navigationPrefetch(advisor *prefetch.Advisor) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method != http.MethodGet {
				next.ServeHTTP(w, req)
				return
			}
			m := httpsnoop.CaptureMetrics(next, w, req)
			if m.Code != http.StatusOK {
				return
			}
			if route, ok := prefetch.RouteForPath(req.URL.Path); ok {
				advisor.Navigated(req.Context(), route)
			}
		})
	}
}
