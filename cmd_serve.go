package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"calligraphy-cms/config"
	"calligraphy-cms/database"
	adminapi "calligraphy-cms/internal/api/admin"
	artistsapi "calligraphy-cms/internal/api/artists"
	authapi "calligraphy-cms/internal/api/auth"
	"calligraphy-cms/internal/api/billing"
	calendarapi "calligraphy-cms/internal/api/calendar"
	eventsapi "calligraphy-cms/internal/api/events"
	filesapi "calligraphy-cms/internal/api/files"
	"calligraphy-cms/internal/api/integrations"
	membershipapi "calligraphy-cms/internal/api/membership"
	stripewebhooks "calligraphy-cms/internal/api/stripewebhook"
	"calligraphy-cms/internal/api/users"
	worksapi "calligraphy-cms/internal/api/works"
	routes "calligraphy-cms/internal/app/http"
	"calligraphy-cms/internal/infra/kakao"
	"calligraphy-cms/internal/infra/logger"
	"calligraphy-cms/internal/infra/storage"
	"calligraphy-cms/internal/infra/stripe"
	"calligraphy-cms/internal/infra/unsplash"
	"calligraphy-cms/internal/scheduler"
	"calligraphy-cms/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background sweeps",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadEnv()
	log, err := setupLogger(cfg)
	if err != nil {
		return err
	}

	db, err := database.InitDB(cfg.DBURL, cfg.AppEnv == "development")
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	st := store.New(db)

	reports, err := st.Reports()
	if err != nil {
		return err
	}
	blob, err := storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return err
	}

	geo := kakao.NewGeocoder(cfg.KakaoRestAPIKey)
	photos := unsplash.NewClient(cfg.UnsplashAccessKey)
	payments := stripe.NewClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.AppURL)

	var (
		kakaoLogin authapi.KakaoLogin
		notifier   integrations.Broadcaster
	)
	if cfg.KakaoClientID != "" {
		l, err := kakao.NewLogin(ctx, kakao.OIDCConfig{
			ClientID:     cfg.KakaoClientID,
			ClientSecret: cfg.KakaoClientSecret,
			RedirectURL:  cfg.KakaoRedirectURL,
		})
		if err != nil {
			log.Warn("kakao login disabled: %v", err)
		} else {
			kakaoLogin = l
			// messages go out under each member's own login grant
			notifier = kakao.NewNotifier(kakao.NewMessageClient(l, st), cfg.NotifyWorkers, log)
		}
	}

	handlers := routes.Handlers{
		Auth: authapi.NewHandler(st, kakaoLogin, authapi.Options{
			JWTSecret:        cfg.JWTSecret,
			FrontendRedirect: cfg.KakaoFrontendRedirect,
			SecureCookies:    cfg.AppEnv == "production",
		}),
		Users:        users.NewHandler(st),
		Artists:      artistsapi.NewHandler(st, cfg.DefaultLang),
		Works:        worksapi.NewHandler(st, cfg.DefaultLang),
		Events:       eventsapi.NewHandler(st, geo, cfg.DefaultLang),
		Files:        filesapi.NewHandler(st, blob, cfg.DefaultLang),
		Membership:   membershipapi.NewHandler(st),
		Calendar:     calendarapi.NewHandler(),
		Billing:      billing.NewHandler(st, payments, cfg.DefaultLang),
		Webhook:      stripewebhooks.NewHandler(st, payments),
		Integrations: integrations.NewHandler(st, photos, geo, notifier),
		Admin:        adminapi.NewHandler(st, reports, cfg.DefaultLang),
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 8 << 20

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret: cfg.JWTSecret,
		UploadDir: blob.Dir(),
		Members:   st,
		Handlers:  handlers,
	})

	sched, err := scheduler.NewManager(time.Duration(cfg.SchedulerIntervalSeconds)*time.Second, log)
	if err != nil {
		return err
	}
	if err := sched.Register(scheduler.NewRegistrationCloserJob(st), scheduler.NewMembershipExpiryJob(st)); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening on :%s (%s)", cfg.Port, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
}

func setupLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, errors.Wrap(err, "init logger")
	}
	logger.SetDefault(log)
	return log, nil
}
