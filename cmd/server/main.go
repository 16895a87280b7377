package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/app"
	"github.com/Spok95/tutorcenter-backend/internal/attendance"
	"github.com/Spok95/tutorcenter-backend/internal/config"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/geo"
	"github.com/Spok95/tutorcenter-backend/internal/httpapi"
	"github.com/Spok95/tutorcenter-backend/internal/jobs"
	"github.com/Spok95/tutorcenter-backend/internal/logging"
	"github.com/Spok95/tutorcenter-backend/internal/mirrorclient"
	"github.com/Spok95/tutorcenter-backend/internal/observability"
	"github.com/Spok95/tutorcenter-backend/internal/points"
	"github.com/joho/godotenv"
)

var release = "dev" // подставляется при сборке через -ldflags

func main() {
	// Загрузка переменных окружения
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		lg.Sugar.Warnw("sentry не инициализирован", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Sugar.Fatalw("ошибка подключения к БД", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		lg.Sugar.Fatalw("миграция не удалась", "err", err)
	}

	engine := points.NewEngine(database, cfg.Location)
	reconciler := attendance.NewReconciler(database, geo.NewResolver(cfg.GeocoderURL), lg.Sugar, cfg)

	// Фоновые джобы: авто-закрытие посещаемости и дренаж outbox в зеркало
	runner := jobs.New(ctx)
	jobs.StartAutoPunchOut(runner, reconciler, cfg)
	jobs.StartOutboxDrain(runner, database, mirrorclient.New(cfg.MirrorURL), lg.Sugar)

	// Служебный порт: /healthz, /metrics
	app.StartOps(ctx, cfg.OpsAddr, database)

	srv := httpapi.NewServer(database, lg, cfg, engine, reconciler)
	fiberApp := srv.App()

	go func() {
		<-ctx.Done()
		_ = fiberApp.ShutdownWithTimeout(5 * time.Second)
	}()

	lg.Sugar.Infow("сервер запущен", "addr", cfg.HTTPAddr, "env", cfg.Env,
		"sweep_trigger", cfg.AutoPunchOutTrigger.String(), "sweep_cutoff", cfg.AutoPunchOutCutoff.String())
	if err := fiberApp.Listen(cfg.HTTPAddr); err != nil {
		lg.Sugar.Fatalw("http сервер остановлен с ошибкой", "err", err)
	}
}
