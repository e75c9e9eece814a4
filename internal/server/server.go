package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "github.com/OFFIS-RIT/umlreview/internal/server/middleware"
	"github.com/OFFIS-RIT/umlreview/internal/setup"
	"github.com/OFFIS-RIT/umlreview/internal/util"
	"github.com/OFFIS-RIT/umlreview/pkg/critique"
	"github.com/OFFIS-RIT/umlreview/pkg/logger"

	"github.com/go-playground/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const DefaultPort = "5500"

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// Config holds the directories the frontend is served from. Empty
// directories are not mounted.
type Config struct {
	StaticDir string
	DrawioDir string
}

// ConfigFromEnv reads STATIC_DIR and DRAWIO_DIR.
func ConfigFromEnv() Config {
	return Config{
		StaticDir: util.GetEnv("STATIC_DIR"),
		DrawioDir: util.GetEnv("DRAWIO_DIR"),
	}
}

// Validate fails when a configured directory does not exist.
func (c Config) Validate() error {
	for name, dir := range map[string]string{"static": c.StaticDir, "draw.io": c.DrawioDir} {
		if dir == "" {
			continue
		}
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("%s directory %q does not exist", name, dir)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s directory %q is not a directory", name, dir)
		}
	}
	return nil
}

// New builds the echo instance with middleware and routes.
func New(analyzer *critique.Analyzer, cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(&mid.App{
		Analyzer:  analyzer,
		StaticDir: cfg.StaticDir,
	}))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("16M"))

	RegisterRoutes(e, cfg)
	return e
}

// Init builds the pipeline from the environment and serves until SIGINT or
// SIGTERM.
func Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid frontend configuration", "err", err)
	}

	analyzer, err := setup.NewAnalyzer(ctx, true)
	if err != nil {
		logger.Fatal("Failed to set up review pipeline", "err", err)
	}
	logger.Info("Corpus indexed", "documents", analyzer.Index().Len())

	e := New(analyzer, cfg)

	go func() {
		port := util.GetEnvString("PORT", DefaultPort)
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
