package main

import (
	"context"
	"discovery/internal/auth"
	"discovery/internal/domain/reviews"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

type ctxKey string

const (
	identityCtx ctxKey = "identity"
	targetCtx   ctxKey = "target"
)

func (app *application) BasicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// read the auth header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
				return
			}

			// parse it -> get the base64
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Basic" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is malformed"))
				return
			}

			// decode it
			decoded, err := base64.StdEncoding.DecodeString(parts[1])
			if err != nil {
				app.unauthorizedBasicErrorResponse(w, r, err)
				return
			}

			// check the credentials
			username := app.config.auth.basic.user
			pass := app.config.auth.basic.pass

			creds := strings.SplitN(string(decoded), ":", 2)
			if len(creds) != 2 || creds[0] != username || creds[1] != pass {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("invalid credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerIdentity returns (nil, nil) when no Authorization header is present.
func (app *application) bearerIdentity(r *http.Request) (*auth.Identity, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errors.New("authorization header is malformed")
	}

	id, err := app.authenticator.Identify(parts[1])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (app *application) AuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := app.bearerIdentity(r)
		if err != nil {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}
		if id == nil {
			app.unauthorizedErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
			return
		}

		ctx := context.WithValue(r.Context(), identityCtx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthTokenMiddleware attaches the caller's identity when a token is
// sent. A bad token is still rejected.
func (app *application) OptionalAuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := app.bearerIdentity(r)
		if err != nil {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}
		if id == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), identityCtx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) RequireModerator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := getIdentityFromContext(r)
		if id == nil || !id.CanModerate() {
			app.forbiddenResponse(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.config.rateLimiter.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		key := "ip:" + host
		if id := getIdentityFromContext(r); id != nil {
			key = "user:" + strconv.FormatInt(id.UserID, 10)
		}

		if allow, retryAfter := app.rateLimiter.Allow(r.Context(), key); !allow {
			app.rateLimitExceededResponse(w, r, retryAfter)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// targetContext resolves {targetID} for the place or event routes.
func (app *application) targetContext(kind reviews.TargetKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			targetID, err := strconv.ParseInt(chi.URLParam(r, "targetID"), 10, 64)
			if err != nil || targetID <= 0 {
				app.badRequestResponse(w, r, fmt.Errorf("invalid %s ID", kind))
				return
			}

			ctx := context.WithValue(r.Context(), targetCtx, reviews.Target{ID: targetID, Kind: kind})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getIdentityFromContext(r *http.Request) *auth.Identity {
	if id, ok := r.Context().Value(identityCtx).(*auth.Identity); ok {
		return id
	}
	return nil
}

func getTargetFromContext(r *http.Request) reviews.Target {
	target, _ := r.Context().Value(targetCtx).(reviews.Target)
	return target
}
