package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/tendant/simple-ads/migrations"
	"github.com/tendant/simple-ads/pkg/admin"
	"github.com/tendant/simple-ads/pkg/advertisement"
	advertisementapi "github.com/tendant/simple-ads/pkg/advertisement/api"
	"github.com/tendant/simple-ads/pkg/auth"
	"github.com/tendant/simple-ads/pkg/login"
	loginapi "github.com/tendant/simple-ads/pkg/login/api"
	"github.com/tendant/simple-ads/pkg/notice"
	"github.com/tendant/simple-ads/pkg/notification"
	"github.com/tendant/simple-ads/pkg/scheduler"
	"github.com/tendant/simple-ads/pkg/user"
	"github.com/tendant/simple-ads/pkg/verification"
	verificationapi "github.com/tendant/simple-ads/pkg/verification/api"
)

type AdsDbConfig struct {
	Host     string `env:"ADS_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"ADS_PG_PORT" env-default:"5432"`
	Database string `env:"ADS_PG_DATABASE" env-default:"ads_db"`
	User     string `env:"ADS_PG_USER" env-default:"ads"`
	Password string `env:"ADS_PG_PASSWORD" env-default:"pwd"`
}

func (d AdsDbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

func (d AdsDbConfig) toDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Database)
}

type JwtConfig struct {
	JwtSecret      string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	CookieHttpOnly bool   `env:"COOKIE_HTTP_ONLY" env-default:"true"`
	CookieSecure   bool   `env:"COOKIE_SECURE" env-default:"false"`
}

type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME" env-default:"noreply@example.com"`
	Password string `env:"EMAIL_PASSWORD" env-default:"pwd"`
	From     string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
}

type AuthConfig struct {
	// Verification token lifetime in seconds.
	VerifyTokenExpiration int `env:"VERIFY_TOKEN_EXPIRATION" env-default:"86400"`
}

type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME" env-default:"admin"`
	Password string `env:"ADMIN_PASSWORD" env-default:"admin-pwd"`
}

type Config struct {
	AdsDbConfig AdsDbConfig
	AppConfig   app.AppConfig
	JwtConfig   JwtConfig
	EmailConfig EmailConfig
	AuthConfig  AuthConfig
	AdminConfig AdminConfig
	BaseUrl     string `env:"BASE_URL" env-default:"http://localhost:4000"`
	CorsOrigins string `env:"CORS_ORIGINS" env-default:"http://localhost:5173,http://localhost:3000"`
}

// loadEnvFile loads environment variables from .env file if it exists
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("Failed to get current working directory", "err", err)
		return
	}
	envFile := filepath.Join(cwd, ".env")

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return
	}

	if err := godotenv.Load(envFile); err != nil {
		slog.Error("Failed to load .env file", "err", err, "path", envFile)
		return
	}
	slog.Info("Loaded configuration from .env file", "path", envFile)
}

func runMigrations(dbURL string) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	loadEnvFile()

	config := Config{}
	cleanenv.ReadEnv(&config)

	if err := runMigrations(config.AdsDbConfig.toDatabaseURL()); err != nil {
		slog.Error("Failed running migrations", "err", err)
		os.Exit(-1)
	}

	pool, err := dbutils.NewDbPool(context.Background(), config.AdsDbConfig.toDbConfig())
	if err != nil {
		slog.Error("Failed creating dbpool", "db", config.AdsDbConfig.Database,
			"host", config.AdsDbConfig.Host, "port", config.AdsDbConfig.Port,
			"user", config.AdsDbConfig.User)
		os.Exit(-1)
	}

	userRepo := user.NewPostgresUserRepository(pool)
	adRepo := advertisement.NewPostgresAdvertisementRepository(pool)

	notificationManager, err := notice.NewNotificationManager(config.BaseUrl)
	if err != nil {
		slog.Error("Failed creating notification manager", "err", err)
		os.Exit(-1)
	}
	emailNotifier, err := notification.NewEmailNotifier(notification.SMTPConfig{
		Host:     config.EmailConfig.Host,
		Port:     int(config.EmailConfig.Port),
		Username: config.EmailConfig.Username,
		Password: config.EmailConfig.Password,
		From:     config.EmailConfig.From,
		TLS:      config.EmailConfig.TLS,
	})
	if err != nil {
		slog.Error("Failed creating email notifier", "err", err)
		os.Exit(-1)
	}
	notificationManager.RegisterNotifier(notification.EmailSystem, emailNotifier)

	expiryScheduler := scheduler.NewExpiryScheduler(userRepo)
	defer expiryScheduler.Shutdown()

	verificationService := verification.NewService(
		userRepo,
		notice.NewVerificationDispatcher(notificationManager),
		expiryScheduler,
		verification.WithTokenTTL(time.Duration(config.AuthConfig.VerifyTokenExpiration)*time.Second),
	)
	if err := verificationService.RearmPending(context.Background()); err != nil {
		slog.Error("Failed re-arming pending verifications", "err", err)
		os.Exit(-1)
	}

	loginService := login.NewService(userRepo)
	jwtService := auth.NewJwtServiceOptions(config.JwtConfig.JwtSecret,
		auth.WithCookieHttpOnly(config.JwtConfig.CookieHttpOnly),
		auth.WithCookieSecure(config.JwtConfig.CookieSecure),
	)
	tokenAuth := jwtauth.New("HS256", []byte(config.JwtConfig.JwtSecret), nil)

	loginHandle := loginapi.NewHandle(loginService, verificationService, jwtService)
	verificationHandle := verificationapi.NewHandle(verificationService)
	advertisementHandle := advertisementapi.NewHandle(advertisement.NewService(adRepo))

	adminService := admin.NewService(admin.Credentials{
		Username: config.AdminConfig.Username,
		Password: config.AdminConfig.Password,
	})
	adminHandle := admin.NewHandle(adminService, userRepo, adRepo)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	server.R.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(config.CorsOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	server.R.Route("/auth", func(r chi.Router) {
		loginapi.Routes(r, loginHandle)

		// Public, but with the session parsed when present so an
		// already-verified account gets a conflict instead of a token
		// lookup.
		r.Group(func(r chi.Router) {
			r.Use(login.Verifier(tokenAuth))
			verificationapi.Routes(r, verificationHandle)
		})

		r.Group(func(r chi.Router) {
			r.Use(login.Verifier(tokenAuth))
			r.Use(login.AuthUserMiddleware)
			verificationapi.AuthRoutes(r, verificationHandle)
		})
	})

	server.R.Route("/api/v1/advertisement", func(r chi.Router) {
		advertisementapi.Routes(r, advertisementHandle)

		r.Group(func(r chi.Router) {
			r.Use(login.Verifier(tokenAuth))
			r.Use(login.AuthUserMiddleware)
			r.Use(login.RequireVerified)
			advertisementapi.AuthRoutes(r, advertisementHandle)
		})
	})

	server.R.Route("/admin", func(r chi.Router) {
		admin.Routes(r, adminHandle)
	})

	server.Run()
}

func splitOrigins(origins string) []string {
	var out []string
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
