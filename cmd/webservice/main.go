package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "time/tzdata"

	"github.com/alimikegami/event-management/payment-service/config"
	"github.com/alimikegami/event-management/payment-service/internal/controller"
	circuitbreaker "github.com/alimikegami/event-management/payment-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/event-management/payment-service/internal/infrastructure/database/postgres"
	"github.com/alimikegami/event-management/payment-service/internal/infrastructure/message-queue/kafka"
	paymentgateway "github.com/alimikegami/event-management/payment-service/internal/infrastructure/payment-gateway"
	"github.com/alimikegami/event-management/payment-service/internal/infrastructure/tracing"
	localmiddleware "github.com/alimikegami/event-management/payment-service/internal/middleware"
	"github.com/alimikegami/event-management/payment-service/internal/repository"
	"github.com/alimikegami/event-management/payment-service/internal/service"
	"github.com/alimikegami/event-management/payment-service/pkg/response"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	config := config.CreateNewConfig()
	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	cb := circuitbreaker.CreateCircuitBreaker("payment-service")
	jazzCashClient := paymentgateway.CreateJazzCashClient(config, cb)

	kafkaProducer := kafka.CreateKafkaProducer(config)

	db, err := postgres.GetDBInstance(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName)
	if err != nil {
		panic(err)
	}

	traceProvider, err := tracing.InitTracing(config.TracingConfig.CollectorHost)
	if err != nil {
		fmt.Println(err)
	}

	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			fmt.Println(err)
		}
	}()

	tracer := traceProvider.Tracer("payment-service")

	e := echo.New()
	g := e.Group("/api/v1")

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// span creation and naming
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			// add the context to the request
			req := c.Request()
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	})

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))
	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	e.Use(localmiddleware.Logger)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	paymentRepo := repository.CreatePaymentRepository(db)
	paymentSvc := service.CreatePaymentService(paymentRepo, jazzCashClient, kafkaProducer, config)
	controller.CreatePaymentController(g, paymentSvc)

	s, err := gocron.NewScheduler()
	if err != nil {
		panic(err)
	}

	// local expiry safety net: a gateway notification might never arrive
	_, err = s.NewJob(
		gocron.DurationJob(
			time.Minute,
		),
		gocron.NewTask(
			paymentSvc.ExpireStalePayments,
		),
	)
	if err != nil {
		panic(err)
	}

	s.Start()

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", config.ServicePort)))
}
