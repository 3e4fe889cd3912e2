package main

import (
	"context"
	"discovery/docs" //this is required to generate swagger docs
	"discovery/internal/auth"
	"discovery/internal/domain/reviews"
	"discovery/internal/domain/targets"
	"discovery/internal/params"
	"discovery/internal/ratelimiter"
	"discovery/internal/reviewing"
	"errors"
	"expvar"
	"fmt"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type reviewSubmitter interface {
	Submit(ctx context.Context, in reviewing.SubmitInput) (*reviews.Review, error)
}

type reviewFeed interface {
	Page(ctx context.Context, q reviewing.FeedQuery) (reviewing.FeedPage, error)
}

type moderationService interface {
	List(ctx context.Context, filter reviewing.ModerationFilter) ([]reviews.Review, params.Pagination, error)
	Transition(ctx context.Context, actor reviewing.Actor, reviewID int64, status reviews.Status) (*reviews.Review, error)
	BulkTransition(ctx context.Context, actor reviewing.Actor, ids []int64, status reviews.Status) (reviewing.BulkResult, error)
}

type aggregateReader interface {
	GetAggregate(ctx context.Context, target reviews.Target) (targets.Aggregate, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type application struct {
	config        config
	logger        *zap.SugaredLogger
	submitter     reviewSubmitter
	feed          reviewFeed
	moderation    moderationService
	aggregates    aggregateReader
	pinger        pinger
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	auth        authConfig
	redis       redisConfig
	media       mediaConfig
	cursorSalt  string
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}
type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
}
type basicConfig struct {
	user string
	pass string
}

type redisConfig struct {
	addr     string
	password string
}

type mediaConfig struct {
	backend       string
	cloudinaryURL string
	s3            s3Config
	maxBytes      int64
	uploadTimeout time.Duration
}

type s3Config struct {
	region    string
	bucket    string
	publicURL string
}

type dbConfig struct {
	addr         string
	maxOpenConns int32
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		for _, kind := range []reviews.TargetKind{reviews.TargetPlace, reviews.TargetEvent} {
			r.Route(fmt.Sprintf("/%ss/{targetID}/reviews", kind), func(r chi.Router) {
				r.Use(app.targetContext(kind))
				r.With(app.OptionalAuthTokenMiddleware, app.RateLimiterMiddleware).Post("/", app.createReviewHandler)
				r.Get("/", app.getTargetReviewsHandler)
			})
		}

		r.With(app.OptionalAuthTokenMiddleware).Get("/users/{userID}/reviews", app.getUserReviewsHandler)

		r.Route("/moderation/reviews", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireModerator)
			r.Get("/", app.listModerationQueueHandler)
			r.Post("/bulk", app.bulkModerateReviewsHandler)
			r.Patch("/{reviewID}", app.moderateReviewHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
