package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/opsgrid/opsgrid-backend-go/internal/config"
	appHTTP "github.com/opsgrid/opsgrid-backend-go/internal/handler/http"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/cron"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/database"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/email"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/jwt"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/oauth"
	"github.com/opsgrid/opsgrid-backend-go/internal/pkg/sse"
	"github.com/opsgrid/opsgrid-backend-go/internal/repository/postgresql"
	attendanceService "github.com/opsgrid/opsgrid-backend-go/internal/service/attendance"
	authService "github.com/opsgrid/opsgrid-backend-go/internal/service/auth"
	delegationService "github.com/opsgrid/opsgrid-backend-go/internal/service/delegation"
	leaveService "github.com/opsgrid/opsgrid-backend-go/internal/service/leave"
	reportService "github.com/opsgrid/opsgrid-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	refreshRepo := postgresql.NewRefreshTokenRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}
	hub := sse.NewHub()

	engine, err := reportService.NewEngine(cfg.Shift.StartTime)
	if err != nil {
		log.Fatal("Failed to initialize scoring engine:", err)
	}

	authSvc := authService.NewAuthService(db, userRepo, jwtService, refreshRepo)
	attendanceSvc := attendanceService.NewAttendanceService(db, punchRepo)
	leaveSvc := leaveService.NewLeaveService(db, leaveRepo, userRepo, emailService, hub)
	delegationSvc := delegationService.NewDelegationService(db, taskRepo, userRepo, emailService, hub)
	reportSvc := reportService.NewReportService(engine, punchRepo, leaveRepo, userRepo)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc, googleService, cfg.App.FrontendURL)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	delegationHandler := appHTTP.NewDelegationHandler(delegationSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub, jwtService)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(punchRepo, hub).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{Env: cfg.App.Env, FrontendURL: cfg.App.FrontendURL},
		jwtService,
		authHandler,
		attendanceHandler,
		leaveHandler,
		delegationHandler,
		reportHandler,
		eventsHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	if err := server.Close(); err != nil {
		fmt.Println("Server close error:", err)
	}
}
