package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/yourusername/exam-prep-api/internal/config"
	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	"github.com/yourusername/exam-prep-api/internal/domain/repository"
	"github.com/yourusername/exam-prep-api/internal/handler"
	"github.com/yourusername/exam-prep-api/internal/middleware"
	"github.com/yourusername/exam-prep-api/internal/repository/jsonfile"
	"github.com/yourusername/exam-prep-api/internal/repository/memory"
	pgRepo "github.com/yourusername/exam-prep-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/exam-prep-api/internal/repository/redis"
	sqliteRepo "github.com/yourusername/exam-prep-api/internal/repository/sqlite"
	"github.com/yourusername/exam-prep-api/internal/service"
	"github.com/yourusername/exam-prep-api/internal/service/session"
	ws "github.com/yourusername/exam-prep-api/internal/websocket"
	"github.com/yourusername/exam-prep-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Банк вопросов загружается один раз и дальше только читается
	bank, err := loadQuestionBank(cfg)
	if err != nil {
		log.Printf("Failed to load question bank: %v", err)
		os.Exit(1)
	}
	questionRepo := memory.NewQuestionRepo(bank)
	log.Printf("Банк вопросов загружен: %d вопросов, %d тем", len(bank.Questions), len(bank.TopicList())-1)

	// Хранилище состояния сессий и прогресса
	backend, err := openStateBackend(cfg)
	if err != nil {
		log.Printf("Failed to initialize state storage: %v", err)
		os.Exit(1)
	}
	if backend.closer != nil {
		defer backend.closer.Close()
	}
	store := session.NewStore(backend.repo)

	// Создаем контекст с отменой для корректного завершения работы горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionConfig := &session.Config{
		ExamQuestionCount:   cfg.Exam.QuestionCount,
		ExamDuration:        cfg.Exam.Duration(),
		TickInterval:        cfg.Exam.TickInterval(),
		HistoryLimit:        cfg.Exam.HistoryLimit,
		PracticeSizes:       cfg.Practice.Sizes,
		DefaultPracticeSize: cfg.Practice.DefaultSize,
	}

	// Инициализация WebSocket Hub
	wsHub := ws.NewHub(ws.HubConfig{
		MaxClients:        cfg.WebSocket.MaxClients,
		CleanupInterval:   time.Duration(cfg.WebSocket.CleanupIntervalSec) * time.Second,
		InactivityTimeout: time.Duration(cfg.WebSocket.InactivityTimeoutSec) * time.Second,
	})
	go wsHub.Run()
	wsManager := ws.NewManager(wsHub)

	// Инициализируем сервисы
	progressService := service.NewProgressService(store, questionRepo, sessionConfig.HistoryLimit)
	deps := session.Dependencies{Store: store, Progress: progressService}

	exam := session.NewExam(ctx, sessionConfig, deps)
	practice := session.NewPractice(sessionConfig, deps)

	examService := service.NewExamService(exam, questionRepo, wsManager)
	practiceService := service.NewPracticeService(practice, questionRepo, sessionConfig)

	// Восстанавливаем сессии после перезапуска
	examSnap := examService.Resume()
	log.Printf("Экзамен после восстановления: %s", examSnap.Status)
	practiceSnap := practiceService.Resume()
	log.Printf("Практика после восстановления: %s", practiceSnap.Status)

	// Инициализируем обработчики
	practiceHandler := handler.NewPracticeHandler(practiceService)
	examHandler := handler.NewExamHandler(examService)
	progressHandler := handler.NewProgressHandler(progressService)
	wsHandler := handler.NewWSHandler(wsHub, wsManager, examService, ws.ClientConfig{
		BufferSize:     cfg.WebSocket.ClientSendBuffer,
		PingInterval:   time.Duration(cfg.WebSocket.PingIntervalSec) * time.Second,
		PongWait:       time.Duration(cfg.WebSocket.PongWaitSec) * time.Second,
		WriteWait:      time.Duration(cfg.WebSocket.WriteWaitSec) * time.Second,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
	}, cfg.CORS.AllowedOrigins)

	// Инициализируем роутер Gin
	router := gin.Default()
	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		log.Printf("Failed to set trusted proxies: %v", err)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"questions": len(bank.Questions),
			"websocket": wsManager.GetMetrics(),
		})
	})

	// Rate limiting: счётчики в Redis, если он используется как хранилище, иначе в памяти
	rateLimiter := middleware.NewRateLimiter(backend.redis)
	api := router.Group("/api")
	api.Use(rateLimiter.LimitByIP(middleware.DefaultAPIRateLimitConfig()))
	handler.RegisterRoutes(api, practiceHandler, examHandler, progressHandler,
		rateLimiter.Limit(middleware.SessionStartRateLimitConfig()))
	router.GET("/ws", wsHandler.HandleConnection)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Останавливаем таймер экзамена; состояние уже сохранено и будет восстановлено при старте
	exam.Close()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	wsHub.Close()

	log.Println("Server exited properly")
}

// loadQuestionBank загружает банк вопросов из JSON файла или из PostgreSQL
func loadQuestionBank(cfg *config.Config) (*entity.QuestionBank, error) {
	switch cfg.Questions.Source {
	case config.QuestionSourcePostgres:
		db, err := database.NewPostgresDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		sqlDB, err := database.GetSQLDB(db)
		if err != nil {
			return nil, err
		}
		defer sqlDB.Close()

		if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
			return nil, err
		}
		return pgRepo.NewQuestionRepo(db).LoadBank()
	default:
		return jsonfile.LoadBank(cfg.Questions.Path)
	}
}

// stateBackend - выбранное хранилище состояния и ресурсы, которые нужно закрыть
type stateBackend struct {
	repo   repository.StateRepository
	closer io.Closer             // nil для памяти
	redis  redis.UniversalClient // не nil только для драйвера redis
}

// openStateBackend создает хранилище состояния по настроенному драйверу
func openStateBackend(cfg *config.Config) (*stateBackend, error) {
	switch cfg.Storage.Driver {
	case config.StorageRedis:
		client, err := database.NewUniversalRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Println("Successfully connected to Redis")
		repo, err := redisRepo.NewStateRepo(client, cfg.Storage.KeyPrefix)
		if err != nil {
			client.Close()
			return nil, err
		}
		return &stateBackend{repo: repo, closer: client, redis: client}, nil
	case config.StorageSQLite:
		db, err := database.NewSQLiteDB(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Printf("SQLite хранилище открыто: %s", cfg.Storage.SQLitePath)
		repo, err := sqliteRepo.NewStateRepo(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return &stateBackend{repo: repo, closer: db}, nil
	default:
		log.Println("Состояние хранится в памяти процесса и не переживёт перезапуск")
		return &stateBackend{repo: memory.NewStateRepo()}, nil
	}
}
