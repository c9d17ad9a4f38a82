package main

import (
	"context"
	"log"
	"time"

	"github.com/Eursukkul/canchas-booking/config"
	"github.com/Eursukkul/canchas-booking/internal/audit"
	"github.com/Eursukkul/canchas-booking/internal/availability"
	"github.com/Eursukkul/canchas-booking/internal/consumer"
	"github.com/Eursukkul/canchas-booking/internal/handler"
	"github.com/Eursukkul/canchas-booking/internal/middleware"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/service"
	"github.com/Eursukkul/canchas-booking/pkg/database"
	"github.com/Eursukkul/canchas-booking/pkg/obs"
	"github.com/Eursukkul/canchas-booking/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	shutdown, err := obs.InitTracer("canchas-booking", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	db := database.NewPostgresDB(cfg.DSN())

	// Repositories
	fieldTypeRepo := repository.NewFieldTypeRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	slotRepo := repository.NewWeeklySlotRepository(db)
	clientRepo := repository.NewClientRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Audit recorder, with a RabbitMQ retry queue when configured
	var recorderOpts []audit.Option
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		recorderOpts = append(recorderOpts, audit.WithRetryPublisher(publisher))

		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatalf("failed to start consuming: %v", err)
		}
		consumer.NewAuditConsumer(auditRepo).Start(msgs)
	} else {
		log.Println("[Audit] RABBIT_URL not set, failed audit writes will only be logged")
	}
	recorder := audit.NewRecorder(auditRepo, recorderOpts...)

	// Services
	engine := availability.NewEngine(fieldRepo, slotRepo, reservationRepo)
	fieldTypeSvc := service.NewFieldTypeService(fieldTypeRepo, recorder)
	fieldSvc := service.NewFieldService(fieldRepo, fieldTypeRepo, recorder)
	slotSvc := service.NewSlotService(slotRepo, fieldRepo, recorder)
	clientSvc := service.NewClientService(clientRepo, recorder)
	reservationSvc := service.NewReservationService(reservationRepo, engine, recorder)
	reportSvc := service.NewReportService(fieldRepo, reservationRepo)
	authSvc := service.NewAuthService(userRepo, service.NewBcryptAuthenticator(userRepo), recorder, service.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.JWTTTL,
	})

	if cfg.DefaultAdminEmail != "" {
		if err := authSvc.EnsureAdmin(context.Background(), cfg.DefaultAdminName, cfg.DefaultAdminEmail, cfg.DefaultAdminPassword); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "canchas-booking"})
	})

	api := e.Group("/api/v1", middleware.Authenticate(cfg.JWTSecret))

	handler.NewAuthHandler(authSvc).RegisterRoutes(e, api)
	handler.NewFieldHandler(fieldTypeSvc, fieldSvc, slotSvc).RegisterRoutes(api)
	handler.NewClientHandler(clientSvc).RegisterRoutes(api)
	handler.NewReservationHandler(reservationSvc).RegisterRoutes(api)
	handler.NewAuditHandler(recorder).RegisterRoutes(api)
	handler.NewReportHandler(reportSvc).RegisterRoutes(api)

	log.Printf("Canchas Booking starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
