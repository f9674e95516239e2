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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/loyalty-api/internal/config"
	"github.com/yourusername/loyalty-api/internal/handler"
	"github.com/yourusername/loyalty-api/internal/middleware"
	pgRepo "github.com/yourusername/loyalty-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/loyalty-api/internal/repository/redis"
	"github.com/yourusername/loyalty-api/internal/service"
	ws "github.com/yourusername/loyalty-api/internal/websocket"
	"github.com/yourusername/loyalty-api/pkg/auth"
	"github.com/yourusername/loyalty-api/pkg/database"
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

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	userTypeRepo := pgRepo.NewUserTypeRepo(db)
	businessRepo := pgRepo.NewBusinessRepo(db)
	municipalityRepo := pgRepo.NewMunicipalityRepo(db)
	otcRepo := pgRepo.NewOneTimeCodeRepo(db)
	visitRepo := pgRepo.NewVisitRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	ticketService, err := auth.NewTicketService(cfg.JWT.Secret, time.Duration(cfg.JWT.TicketExpiryHrs)*time.Hour)
	if err != nil {
		log.Printf("Failed to initialize TicketService: %v", err)
		os.Exit(1)
	}

	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		log.Println("Email delivery enabled (Resend)")
	} else {
		emailService = service.NewNoopEmailService()
		log.Println("Email delivery disabled, codes will be logged only")
	}

	otcService, err := service.NewOTCService(otcRepo, 0)
	if err != nil {
		log.Printf("Failed to initialize OTCService: %v", err)
		os.Exit(1)
	}

	registrationOTC, err := service.NewRegistrationOTCService(otcService, userRepo, emailService)
	if err != nil {
		log.Printf("Failed to initialize RegistrationOTCService: %v", err)
		os.Exit(1)
	}

	passwordReset, err := service.NewPasswordResetService(otcService, userRepo, emailService)
	if err != nil {
		log.Printf("Failed to initialize PasswordResetService: %v", err)
		os.Exit(1)
	}

	feedHub := ws.NewVisitFeedHub()

	authService, err := service.NewAuthService(userRepo, userTypeRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}

	checkinService, err := service.NewCheckinService(ticketService, visitRepo, businessRepo, feedHub)
	if err != nil {
		log.Printf("Failed to initialize CheckinService: %v", err)
		os.Exit(1)
	}

	userService, err := service.NewUserService(userRepo, visitRepo)
	if err != nil {
		log.Printf("Failed to initialize UserService: %v", err)
		os.Exit(1)
	}

	businessService, err := service.NewBusinessService(businessRepo, municipalityRepo, cacheRepo)
	if err != nil {
		log.Printf("Failed to initialize BusinessService: %v", err)
		os.Exit(1)
	}

	reportService, err := service.NewReportService(visitRepo, businessRepo)
	if err != nil {
		log.Printf("Failed to initialize ReportService: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	otcHandler := handler.NewOTCHandler(registrationOTC, passwordReset)
	checkinHandler := handler.NewCheckinHandler(checkinService)
	userHandler := handler.NewUserHandler(userService)
	businessHandler := handler.NewBusinessHandler(businessService, reportService)
	wsHandler := handler.NewWSHandler(feedHub)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Общий rate limiter для чувствительных маршрутов (регистрация, логин, коды)
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
	})

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// Rate limiter ключуется по IP клиента, поэтому это важно
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:8000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация и одноразовые коды: общий лимит по IP
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit())
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/send-code", otcHandler.SendRegistrationCode)
			authGroup.POST("/verify-code", otcHandler.VerifyCode)
			authGroup.POST("/forgot-password", otcHandler.ForgotPassword)
			authGroup.POST("/reset-password", otcHandler.ResetPassword)
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetProfile)
			users.PUT("/me", userHandler.UpdateProfile)
			users.GET("/me/visits", userHandler.GetVisits)
		}

		// Визиты: выпуск билета и его погашение
		checkins := api.Group("/checkins")
		checkins.Use(authMiddleware.RequireAuth())
		{
			checkins.POST("/ticket", checkinHandler.IssueTicket)
			checkins.POST("/redeem", checkinHandler.Redeem)
		}

		// Бизнесы (публичные маршруты)
		businesses := api.Group("/businesses")
		{
			businesses.GET("", businessHandler.List)
			businesses.GET("/:id", businessHandler.Get)
			businesses.GET("/:id/menu", businessHandler.Menu)

			// Отчёт по визитам требует аутентификации
			businesses.GET("/:id/report", authMiddleware.RequireAuth(), businessHandler.Report)
		}

		api.GET("/municipalities", businessHandler.Municipalities)
	}

	// WebSocket маршрут для ленты визитов бизнеса
	router.GET("/ws/businesses/:id/feed", wsHandler.BusinessFeed)

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

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
