package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/classroom-api/api/swagger"
	"github.com/noah-isme/classroom-api/internal/handler"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/cache"
	"github.com/noah-isme/classroom-api/pkg/config"
	"github.com/noah-isme/classroom-api/pkg/database"
	"github.com/noah-isme/classroom-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/classroom-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/classroom-api/pkg/middleware/requestid"
	"github.com/noah-isme/classroom-api/pkg/storage"
)

// @title Classroom API
// @version 0.1.0
// @description Remote classroom backend: classes, attendance, assignments, announcements and materials
// @BasePath /api
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, list caching disabled", "error", err)
		redisClient = nil
	}

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload directory", "error", err)
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Cache.TTL, logr, cfg.Cache.Enabled)
	} else {
		cacheService = service.NewCacheService(nil, metricsService, cfg.Cache.TTL, logr, false)
	}

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "classroom-api",
	})
	classService := service.NewClassService(classRepo, validate, logr)
	announcementService := service.NewAnnouncementService(announcementRepo, classRepo, validate, logr)
	assignmentService := service.NewAssignmentService(assignmentRepo, classRepo, validate, logr)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, uploads, validate, logr)
	attendanceService := service.NewAttendanceService(attendanceRepo, classRepo, validate, logr)
	materialService := service.NewMaterialService(materialRepo, classRepo, uploads, cacheService, cfg.Cache.TTL, logr)
	dashboardService := service.NewDashboardService(classRepo, assignmentRepo, submissionRepo, attendanceRepo, logr)
	exportService := service.NewExportService(attendanceService, nil, nil, logr)

	authHandler := handler.NewAuthHandler(authService)
	classHandler := handler.NewClassHandler(classService)
	studentHandler := handler.NewStudentHandler(classService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, submissionService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, exportService)
	materialHandler := handler.NewMaterialHandler(materialService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, assignmentService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())
	r.MaxMultipartMemory = cfg.Uploads.MaxFileSizeBytes

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)
	r.Static("/uploads", uploads.Dir())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))

	teacherOnly := middleware.RequireRoles(models.RoleTeacher)
	studentOnly := middleware.RequireRoles(models.RoleStudent)
	uploadFilter := middleware.UploadFilter(cfg.Uploads.AllowedMIMEs)

	classes := authed.Group("/classes")
	{
		classes.POST("", teacherOnly, classHandler.Create)
		classes.GET("", classHandler.List)
		classes.GET("/:id", classHandler.Get)
		classes.PUT("/:id", teacherOnly, classHandler.Update)
		classes.DELETE("/:id", teacherOnly, classHandler.Delete)
		classes.GET("/:id/announcements", announcementHandler.ListForClass)
		classes.POST("/:id/announcements", teacherOnly, announcementHandler.CreateForClass)
	}

	announcements := authed.Group("/announcements")
	{
		announcements.GET("", announcementHandler.ListGlobal)
		announcements.POST("", teacherOnly, announcementHandler.CreateGlobal)
		announcements.PUT("/:id", teacherOnly, announcementHandler.Update)
		announcements.DELETE("/:id", teacherOnly, announcementHandler.Delete)
	}

	assignments := authed.Group("/assignments")
	{
		assignments.POST("", teacherOnly, assignmentHandler.Create)
		assignments.GET("/class/:classId", assignmentHandler.ListByClass)
		assignments.GET("/:id/submissions", teacherOnly, assignmentHandler.Submissions)
		assignments.POST("/:id/submit", studentOnly, uploadFilter, assignmentHandler.Submit)
		assignments.PUT("/submission/:id", teacherOnly, assignmentHandler.Grade)
	}

	attendance := authed.Group("/attendance")
	{
		attendance.POST("", teacherOnly, attendanceHandler.Mark)
		attendance.GET("/class/:classId", attendanceHandler.ClassAttendance)
		attendance.GET("/class/:classId/export", teacherOnly, attendanceHandler.Export)
		attendance.GET("/student", studentOnly, attendanceHandler.StudentReport)
	}

	materials := authed.Group("/materials")
	{
		materials.POST("/:classId", teacherOnly, uploadFilter, materialHandler.Upload)
		materials.GET("/:classId", materialHandler.List)
	}

	teacher := authed.Group("/teacher", teacherOnly)
	{
		teacher.GET("/dashboard", dashboardHandler.Teacher)
		teacher.GET("/assignments", dashboardHandler.TeacherAssignments)
	}

	student := authed.Group("/student", studentOnly)
	{
		student.GET("/dashboard", dashboardHandler.Student)
		student.GET("/assignments", dashboardHandler.StudentAssignments)
		student.GET("/classes", studentHandler.EnrolledClasses)
		student.POST("/classes/join", studentHandler.JoinClass)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
