package main

import (
	"context"
	"discovery/internal/auth"
	"discovery/internal/db"
	"discovery/internal/domain/storage"
	"discovery/internal/media"
	"discovery/internal/params"
	"discovery/internal/ratelimiter"
	"discovery/internal/reviewing"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 20
	defaultEnabled := true

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            time.Minute,
		Enabled:              enabled,
	}
}

// LoadMediaConfig reads the attachment limits, falling back to media defaults.
func LoadMediaConfig() mediaConfig {
	cfg := mediaConfig{
		backend:       os.Getenv("MEDIA_BACKEND"),
		cloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		s3: s3Config{
			region:    os.Getenv("S3_REGION"),
			bucket:    os.Getenv("S3_BUCKET"),
			publicURL: os.Getenv("S3_PUBLIC_URL"),
		},
		maxBytes:      media.DefaultMaxSize,
		uploadTimeout: media.DefaultUploadTimeout,
	}
	if cfg.backend == "" {
		cfg.backend = "cloudinary"
	}
	if val, exists := os.LookupEnv("MEDIA_MAX_BYTES"); exists {
		if parsedVal, err := strconv.ParseInt(val, 10, 64); err == nil && parsedVal > 0 {
			cfg.maxBytes = parsedVal
		} else {
			fmt.Println("Invalid MEDIA_MAX_BYTES, defaulting to", media.DefaultMaxSize)
		}
	}
	if val, exists := os.LookupEnv("MEDIA_UPLOAD_TIMEOUT"); exists {
		if parsedVal, err := time.ParseDuration(val); err == nil && parsedVal > 0 {
			cfg.uploadTimeout = parsedVal
		} else {
			fmt.Println("Invalid MEDIA_UPLOAD_TIMEOUT, defaulting to", media.DefaultUploadTimeout)
		}
	}
	return cfg
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if err := level.Set(lvl); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", lvl, err)
		}
	}

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	return zap.New(core).Sugar(), nil
}

func newObjectStorage(ctx context.Context, cfg mediaConfig) (media.ObjectStorage, error) {
	switch cfg.backend {
	case "cloudinary":
		return media.NewCloudinaryStorage(cfg.cloudinaryURL)
	case "s3":
		return media.NewS3Storage(ctx, cfg.s3.region, cfg.s3.bucket, cfg.s3.publicURL)
	default:
		return nil, fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.backend)
	}
}

var version = "0.4.0"

//	@title			Discovery Reviews API
//	@description	Reviews, ratings and moderation for places and events.

//	@contact.name	API Support
//	@contact.url	http://www.swagger.io/support
//	@contact.email	support@swagger.io

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	maxOpenConns, err := strconv.Atoi(os.Getenv("DB_MAX_OPEN_CONNS"))
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_OPEN_CONNS: %v", err)
	}

	cfg := config{
		addr:   os.Getenv("ADDR"),
		env:    os.Getenv("ENV"),
		apiURL: os.Getenv("EXTERNAL_URL"),
		db: dbConfig{
			addr:         os.Getenv("DB_ADDR"),
			maxOpenConns: int32(maxOpenConns),
			maxIdleTime:  os.Getenv("DB_MAX_IDLE_TIME"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				exp:    time.Hour * 24 * 3, // 3 days
				iss:    "Discovery",
			},
		},
		redis: redisConfig{
			addr:     os.Getenv("REDIS_ADDR"),
			password: os.Getenv("REDIS_PASSWORD"),
		},
		cursorSalt:  os.Getenv("CURSOR_SALT"),
		media:       LoadMediaConfig(),
		rateLimiter: LoadRateLimiterConfig(),
	}

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database
	pool, err := db.New(cfg.db.addr, cfg.db.maxOpenConns, cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	store := storage.NewContainer(pool)

	// Media
	objects, err := newObjectStorage(context.Background(), cfg.media)
	if err != nil {
		logger.Fatal(err)
	}
	attachments := media.NewHandler(objects, media.Config{
		MaxSize:       cfg.media.maxBytes,
		UploadTimeout: cfg.media.uploadTimeout,
	})
	logger.Infow("media backend configured", "backend", cfg.media.backend, "max_bytes", cfg.media.maxBytes)

	codec, err := params.NewCursorCodec(cfg.cursorSalt)
	if err != nil {
		logger.Fatal(err)
	}

	// Rate limiter
	var limiter ratelimiter.Limiter
	if cfg.redis.addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.redis.addr,
			Password: cfg.redis.password,
			DB:       0,
		})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatalw("redis unreachable", "addr", cfg.redis.addr, "error", err)
		}
		limiter = ratelimiter.NewRedisFixedWindowLimiter(rdb, cfg.rateLimiter.RequestsPerTimeFrame, cfg.rateLimiter.TimeFrame, logger)
	} else {
		limiter = ratelimiter.NewFixedWindowLimiter(cfg.rateLimiter.RequestsPerTimeFrame, cfg.rateLimiter.TimeFrame)
	}

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.exp,
	)

	aggregator := reviewing.NewAggregator(store.Reviews, store.Targets, logger)
	manager := reviewing.NewManager(store.Reviews, aggregator, logger)

	app := &application{
		config:        cfg,
		logger:        logger,
		submitter:     reviewing.NewSubmitter(manager, attachments, logger),
		feed:          reviewing.NewFeed(store.Reviews, codec),
		moderation:    reviewing.NewModeration(store.Reviews, manager, logger),
		aggregates:    store.Targets,
		pinger:        store.Pool(),
		authenticator: jwtAuthenticator,
		rateLimiter:   limiter,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
			"max_conns":      s.MaxConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
