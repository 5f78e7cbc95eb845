package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/aulamarket/aulamarket-api/api/swagger"
	"github.com/aulamarket/aulamarket-api/internal/gateway"
	"github.com/aulamarket/aulamarket-api/internal/handler"
	internalmiddleware "github.com/aulamarket/aulamarket-api/internal/middleware"
	"github.com/aulamarket/aulamarket-api/internal/models"
	"github.com/aulamarket/aulamarket-api/internal/repository"
	"github.com/aulamarket/aulamarket-api/internal/service"
	"github.com/aulamarket/aulamarket-api/pkg/cache"
	"github.com/aulamarket/aulamarket-api/pkg/config"
	"github.com/aulamarket/aulamarket-api/pkg/database"
	"github.com/aulamarket/aulamarket-api/pkg/export"
	"github.com/aulamarket/aulamarket-api/pkg/logger"
	corsmiddleware "github.com/aulamarket/aulamarket-api/pkg/middleware/cors"
	reqidmiddleware "github.com/aulamarket/aulamarket-api/pkg/middleware/requestid"
	"github.com/aulamarket/aulamarket-api/pkg/storage"
)

// @title AulaMarket API
// @version 1.0.0
// @description Course marketplace backend
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// The catalog cache is optional. A missing Redis only costs
	// performance, never availability.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	paymentGateway := gateway.NewPaymentGateway(cfg.Payment, logr)
	presigner := storage.NewPresigner(
		cfg.Storage.CDNBaseURL,
		cfg.Storage.UploadBaseURL,
		cfg.Storage.AccessKey,
		cfg.Storage.SigningSecret,
		cfg.Storage.PresignTTL,
	)
	renderer := export.NewCertificateRenderer("AulaMarket")

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, redisClient != nil)
	authSvc := service.NewAuthService(userRepo, cfg.JWT, validate, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, enrollmentRepo, cacheSvc, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, logr)
	paymentSvc := service.NewPaymentService(transactionRepo, courseRepo, enrollmentRepo, paymentGateway, cfg.Payment.Currency, validate, logr)
	certificateSvc := service.NewCertificateService(enrollmentRepo, renderer, logr)
	adminSvc := service.NewAdminService(userRepo, statsRepo, validate, logr)
	settingsSvc := service.NewSettingsService(settingRepo, userRepo, cfg.Gate.SnapshotTTL, logr)
	uploadSvc := service.NewUploadService(presigner, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc, userSvc)
	courseHandler := handler.NewCourseHandler(courseSvc, cacheSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, metricsSvc)
	certificateHandler := handler.NewCertificateHandler(certificateSvc)
	adminHandler := handler.NewAdminHandler(adminSvc, courseSvc, settingsSvc)
	uploadHandler := handler.NewUploadHandler(uploadSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Claims are attached before the gate so admins keep access while
	// the platform is in maintenance.
	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.OptionalJWT(authSvc))
	api.Use(internalmiddleware.Maintenance(settingsSvc, metricsSvc))

	auth := api.Group("/auth")
	{
		auth.POST("/registro", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password/:token", authHandler.ResetPassword)

		perfil := auth.Group("/perfil", internalmiddleware.JWT(authSvc))
		perfil.GET("", authHandler.Profile)
		perfil.PUT("", authHandler.UpdateProfile)
	}

	cursos := api.Group("/cursos")
	{
		cursos.GET("", courseHandler.ListPublished)
		cursos.GET("/:id", courseHandler.Get)

		secured := cursos.Group("", internalmiddleware.JWT(authSvc))
		secured.GET("/mis-cursos", internalmiddleware.Require(models.ActionCourseManage), courseHandler.ListMine)
		secured.POST("", internalmiddleware.Require(models.ActionCourseCreate), courseHandler.Create)
		secured.PUT("/:id", internalmiddleware.Require(models.ActionCourseManage), courseHandler.Update)
		secured.DELETE("/:id", internalmiddleware.Require(models.ActionCourseManage), courseHandler.Delete)
		secured.GET("/:id/contenido", courseHandler.Content)
		secured.POST("/:id/modulos", internalmiddleware.Require(models.ActionCourseManage), courseHandler.CreateModule)
		secured.POST("/:id/inscripcion", internalmiddleware.Require(models.ActionEnroll), enrollmentHandler.Enroll)
		secured.POST("/:id/lecciones/:leccionId/completar", internalmiddleware.Require(models.ActionEnroll), enrollmentHandler.CompleteLesson)
	}

	modulos := api.Group("/modulos", internalmiddleware.JWT(authSvc), internalmiddleware.Require(models.ActionCourseManage))
	{
		modulos.PUT("/:id", courseHandler.UpdateModule)
		modulos.DELETE("/:id", courseHandler.DeleteModule)
		modulos.POST("/:id/lecciones", courseHandler.CreateLesson)
	}

	lecciones := api.Group("/lecciones", internalmiddleware.JWT(authSvc), internalmiddleware.Require(models.ActionCourseManage))
	{
		lecciones.PUT("/:id", courseHandler.UpdateLesson)
		lecciones.DELETE("/:id", courseHandler.DeleteLesson)
	}

	usuario := api.Group("/usuario", internalmiddleware.JWT(authSvc))
	{
		usuario.GET("/inscripciones", enrollmentHandler.ListMine)
		usuario.GET("/certificados", enrollmentHandler.ListCertificates)
	}

	pagos := api.Group("/pagos")
	{
		pagos.POST("/iniciar", internalmiddleware.JWT(authSvc), internalmiddleware.Require(models.ActionEnroll), paymentHandler.Initiate)
		// Gateway webhook, authenticated by the integrity signature.
		pagos.POST("/confirmar", paymentHandler.Confirm)
	}

	certificados := api.Group("/certificados")
	{
		certificados.GET("/:id/verificar", certificateHandler.Verify)
		certificados.GET("/:id/pdf", internalmiddleware.JWT(authSvc), certificateHandler.Download)
	}

	upload := api.Group("/upload", internalmiddleware.JWT(authSvc), internalmiddleware.Require(models.ActionUploadPresign))
	{
		upload.POST("/video/presign", uploadHandler.PresignVideo)
		upload.POST("/imagen/presign", uploadHandler.PresignImage)
	}

	admin := api.Group("/admin", internalmiddleware.JWT(authSvc))
	{
		admin.GET("/estadisticas", internalmiddleware.Require(models.ActionAdminStats), adminHandler.Stats)
		admin.GET("/ganancias", internalmiddleware.Require(models.ActionInstructorEarning), adminHandler.Earnings)

		usuarios := admin.Group("/usuarios", internalmiddleware.Require(models.ActionAdminUsers))
		usuarios.GET("", adminHandler.ListUsers)
		usuarios.PUT("/:id/rol", adminHandler.ChangeRole)
		usuarios.DELETE("/:id", adminHandler.DeleteUser)

		adminCursos := admin.Group("/cursos", internalmiddleware.Require(models.ActionAdminCourses))
		adminCursos.GET("", adminHandler.ListCourses)
		adminCursos.POST("/:id/inscripciones", internalmiddleware.Audit(userRepo, "ENROLLMENT_GRANT", "enrollments"), enrollmentHandler.Grant)
		adminCursos.DELETE("/:id", internalmiddleware.Audit(userRepo, "COURSE_DELETE", "courses"), adminHandler.DeleteCourse)

		// Review has its own policy action so the publish decision can
		// be granted separately from general course administration.
		admin.PUT("/cursos/:id/revisar",
			internalmiddleware.Require(models.ActionCourseReview),
			internalmiddleware.Audit(userRepo, "COURSE_REVIEW", "courses"),
			adminHandler.ReviewCourse)

		maintenance := admin.Group("/maintenance", internalmiddleware.Require(models.ActionAdminMaintenance))
		maintenance.GET("", adminHandler.GetMaintenance)
		maintenance.PUT("", adminHandler.SetMaintenance)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
