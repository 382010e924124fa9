// Command zyra runs the plan-gated optimization API. Merchant identity is
// established upstream by the dashboard gateway, which forwards the
// authenticated merchant ID in the X-Merchant-ID header.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zyra-ai/zyra/internal/db/migrations"
	"github.com/zyra-ai/zyra/modules/api"
	"github.com/zyra-ai/zyra/pkg/billing"
	"github.com/zyra-ai/zyra/pkg/config"
	"github.com/zyra-ai/zyra/pkg/httpserver"
	"github.com/zyra-ai/zyra/pkg/logger"
	"github.com/zyra-ai/zyra/pkg/notify"
	"github.com/zyra-ai/zyra/pkg/pg"
	"github.com/zyra-ai/zyra/pkg/plan"
	"github.com/zyra-ai/zyra/pkg/planstore"
	"github.com/zyra-ai/zyra/pkg/redis"
)

type appConfig struct {
	Env          string        `env:"APP_ENV" envDefault:"production"`
	CatalogPath  string        `env:"PLAN_CATALOG_PATH"`
	TierCacheTTL time.Duration `env:"TIER_CACHE_TTL" envDefault:"5m"`
}

func main() {
	var (
		appCfg    appConfig
		httpCfg   httpserver.Config
		pgCfg     pg.Config
		redisCfg  redis.Config
		paddleCfg billing.PaddleConfig
		notifyCfg notify.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&paddleCfg)
	config.MustLoad(&notifyCfg)

	logOpts := []logger.Option{logger.WithProduction("zyra")}
	if appCfg.Env == "development" {
		logOpts = []logger.Option{logger.WithDevelopment("zyra")}
	}
	logOpts = append(logOpts, logger.WithContextExtractors(plan.LoggerExtractor()))
	log := logger.New(logOpts...)

	if err := run(context.Background(), appCfg, httpCfg, pgCfg, redisCfg, paddleCfg, notifyCfg, log); err != nil {
		log.Error("zyra exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	appCfg appConfig,
	httpCfg httpserver.Config,
	pgCfg pg.Config,
	redisCfg redis.Config,
	paddleCfg billing.PaddleConfig,
	notifyCfg notify.Config,
	log *slog.Logger,
) error {
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, log); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("failed to close redis client", logger.Error(err))
		}
	}()

	catalog := plan.Default()
	if appCfg.CatalogPath != "" {
		catalog, err = plan.LoadCatalogFile(appCfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("plan catalog: %w", err)
		}
		log.Info("plan catalog loaded", slog.String("path", appCfg.CatalogPath))
	}

	store := planstore.NewPostgres(pool)
	tierSource := planstore.NewCachedSource(store, redisClient,
		planstore.WithTTL(appCfg.TierCacheTTL))

	provider, err := billing.NewPaddleProvider(paddleCfg)
	if err != nil {
		return fmt.Errorf("paddle: %w", err)
	}

	var notifier billing.Notifier = notify.Noop{}
	sender, err := notify.NewPostmarkSender(notifyCfg)
	switch {
	case err == nil:
		notifier = notify.New(sender, billingContactResolver(store))
		log.Info("plan change emails enabled")
	case errors.Is(err, notify.ErrInvalidConfig):
		log.Warn("postmark not configured, plan change emails disabled")
	default:
		return fmt.Errorf("postmark: %w", err)
	}

	guard := plan.NewGuard(tierSource, merchantIdentity, plan.WithCatalog(catalog))
	billingSvc := billing.NewService(catalog, provider, store,
		billing.WithNotifier(notifier),
		billing.WithCacheInvalidator(tierSource),
		billing.WithLogger(log))

	root := chi.NewRouter()
	root.Get("/health", httpserver.HealthHandler(log, map[string]func(context.Context) error{
		"postgres": pg.Healthcheck(pool),
		"redis":    redis.Healthcheck(redisClient),
	}))
	root.Mount("/", api.Router(api.Deps{
		Guard:        guard,
		Identity:     merchantIdentity,
		Billing:      billingSvc,
		Log:          log,
		Authenticate: trustedHeaderAuth,
	}))

	srv := httpserver.New(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, root)
}

// billingContactResolver resolves notification recipients from the email
// captured at checkout.
func billingContactResolver(store *planstore.Postgres) notify.EmailResolver {
	return func(ctx context.Context, merchantID uuid.UUID) (string, error) {
		sub, err := store.Get(ctx, merchantID)
		if err != nil {
			return "", err
		}
		if sub.Email == "" {
			return "", fmt.Errorf("merchant %s has no billing contact", merchantID)
		}
		return sub.Email, nil
	}
}

type merchantCtxKey struct{}

func merchantIdentity(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(merchantCtxKey{}).(uuid.UUID)
	return id, ok
}

// trustedHeaderAuth reads the merchant ID the gateway injects after
// verifying the dashboard session. Requests without a parseable ID stay
// anonymous and are rejected by the guards.
func trustedHeaderAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get("X-Merchant-ID"); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), merchantCtxKey{}, id))
			}
		}
		next.ServeHTTP(w, r)
	})
}
