package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study_session_gateway/internal/config"
	"study_session_gateway/internal/controller"
	"study_session_gateway/internal/service"
	"study_session_gateway/internal/upstream"
	"study_session_gateway/pkg/logger"
	"study_session_gateway/pkg/monitoring"
	"study_session_gateway/pkg/security"
	"study_session_gateway/pkg/tracing"

	"github.com/gin-gonic/gin"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	Upstream *upstream.Client
	services *services
}

type services struct {
	content    *service.ContentService
	quiz       *service.QuizService
	session    *service.SessionService
	progress   *service.ProgressService
	completion *service.CompletionService
	plan       *service.PlanService
	goal       *service.GoalService
}

type controllers struct {
	session   *controller.SessionController
	content   *controller.ContentController
	quiz      *controller.QuizController
	studyPlan *controller.StudyPlanController
	goal      *controller.GoalController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) initServices(client *upstream.Client) *services {
	s := &services{}

	s.progress = service.NewProgressService(client)
	s.content = service.NewContentService(client)
	s.quiz = service.NewQuizService(client, s.progress)
	s.session = service.NewSessionService(client, s.content, s.quiz)
	s.completion = service.NewCompletionService(client, s.session, s.progress)
	s.plan = service.NewPlanService(client, s.progress)
	s.goal = service.NewGoalService(client, s.progress)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		session:   controller.NewSessionController(s.session),
		content:   controller.NewContentController(s.session, s.content),
		quiz:      controller.NewQuizController(s.session, s.quiz),
		studyPlan: controller.NewStudyPlanController(s.plan, s.completion),
		goal:      controller.NewGoalController(s.goal),
		dashboard: controller.NewDashboardController(s.progress),
		health:    controller.NewHealthController(a.Config),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// ApplyConfig 配置热加载回调：上游参数整体替换
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Upstream.ApplyConfig(cfg.Upstream)
	logger.Log.Info("config reloaded")
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	app := &App{
		Config:   cfg,
		Upstream: upstream.NewClient(cfg.Upstream),
	}

	services := app.initServices(app.Upstream)
	app.services = services
	controllers := app.initControllers(services)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("study-session-gateway", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing")
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Gateway running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Gateway forced to shutdown:", err)
	}

	log.Println("Gateway exiting")
}
