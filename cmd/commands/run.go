package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"blogd"
	"blogd/config"
	"blogd/internal/application/usecase"
	"blogd/internal/infrastructure/mailer"
	"blogd/internal/presentation"
	"blogd/internal/presentation/handler"
	"blogd/internal/presentation/middleware"
	"blogd/pkg/logger"
)

func HandleRun(args []string) {
	if len(args) < 3 {
		ExitOnError(errors.New("at least 1 arguments expected\nuse help command for more information"))
	}

	cfg, err := config.Load(args[2])
	if err != nil {
		ExitOnError(err)
	}

	logger.InitGlobalLogger(&cfg.Logger)

	logger.Info("running blogd", "version", blogd.StringVersion(), "storage", cfg.Storage.Driver,
		"notifier", cfg.Notifier.Mode)

	repos, closeStorage, err := openRepositories(cfg)
	if err != nil {
		ExitOnError(err)
	}

	uploader, remover, err := openImageHost(cfg)
	if err != nil {
		ExitOnError(err)
	}

	dispatcher, worker, closeBroker, err := openDispatcher(cfg, mailer.NewSendGrid(&cfg.Mailer))
	if err != nil {
		ExitOnError(err)
	}

	authors := usecase.NewAuthorService(repos.authors, uploader, remover)
	posts := usecase.NewBlogPostService(repos.posts, uploader, remover, dispatcher)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = presentation.HTTPErrorHandler
	e.Validator = presentation.NewValidator()

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderContentLength},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost,
			http.MethodDelete, http.MethodHead, http.MethodOptions},
		ExposeHeaders: []string{presentation.NotificationStatusTag, presentation.ReasonTag,
			echo.HeaderContentDisposition},
		MaxAge: 86400,
	}))
	e.Use(middleware.RequestLogger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.Secure())
	e.Use(echoMiddleware.BodyLimit(cfg.HTTP.BodyLimit))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	handler.NewAuthorHandler(authors).Register(e.Group("/authors"))
	handler.NewBlogPostHandler(posts).Register(e.Group("/blogPosts"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)

		if worker == nil {
			return
		}
		if err := worker.Run(ctx); err != nil {
			logger.Error("notification worker failed", "err", err)
		}
	}()

	go func() {
		if err := e.Start(cfg.HTTP.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ExitOnError(errors.Wrap(err, "shutting down server"))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}

	<-workerDone

	if err := closeBroker(); err != nil {
		logger.Error("closing broker", "err", err)
	}
	if err := closeStorage(); err != nil {
		logger.Error("closing storage", "err", err)
	}
}
