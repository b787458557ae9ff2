package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-tracker/config"
	"shop-tracker/internal/api"
	"shop-tracker/internal/bot"
	"shop-tracker/internal/database"
	"shop-tracker/internal/monitor"
	"shop-tracker/internal/scraper"
	"shop-tracker/internal/store"
	"shop-tracker/internal/tracker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configurações: %v", err)
	}
	logger := cfg.NewLogger()
	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// Inicializar banco de dados
	db, err := database.New(cfg.DatabasePath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Erro ao inicializar banco de dados")
	}
	defer db.Close()

	st := store.New(db, store.WithMonthlyLimit(cfg.MonthlyLimit), store.WithLogger(logger))

	// Inicializar perfis de extração
	registry, err := scraper.DefaultRegistry(cfg.ProfilesPath)
	if err != nil {
		logger.WithError(err).Fatal("Erro ao carregar perfis de extração")
	}
	fetcher := scraper.NewFetcher(cfg.FetchRatePerMinute, logger)
	svc := tracker.New(st, registry, fetcher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sem token os alertas ficam apenas no log
	var notifier monitor.Notifier = monitor.LogNotifier{Logger: logger}
	if cfg.TelegramBotToken != "" {
		telegramBot, err := bot.Init(cfg.TelegramBotToken, logger)
		if err != nil {
			logger.WithError(err).Fatal("Erro ao inicializar bot do Telegram")
		}
		notifier = bot.NewTelegramNotifier(telegramBot, cfg.TelegramChatID, logger)

		handler := bot.NewHandler(telegramBot, svc, st, cfg.TelegramChatID, logger)
		go handler.Run(ctx, telegramBot)
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN não configurado, bot desativado")
	}

	// Iniciar monitoramento em background
	monitorInstance := monitor.New(st, notifier, svc, monitor.Config{
		AlertInterval:   cfg.AlertInterval,
		RefreshInterval: cfg.RefreshInterval,
		Icon:            cfg.NotificationIcon,
	}, logger)
	go monitorInstance.Start(ctx)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(svc, st, logger),
	}
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("Servidor HTTP iniciado")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Erro no servidor HTTP")
		}
	}()

	// Aguardar sinal de interrupção
	<-ctx.Done()
	logger.Info("Encerrando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Erro ao encerrar servidor HTTP")
	}
}
