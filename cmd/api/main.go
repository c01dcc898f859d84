package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/student-bubble/internal/application/assignment"
	"github.com/student-bubble/internal/application/auth"
	"github.com/student-bubble/internal/application/note"
	"github.com/student-bubble/internal/application/otp"
	"github.com/student-bubble/internal/application/reminder"
	"github.com/student-bubble/internal/application/todo"
	"github.com/student-bubble/internal/config"
	"github.com/student-bubble/internal/infrastructure/dynamo"
	jwtinfra "github.com/student-bubble/internal/infrastructure/jwt"
	"github.com/student-bubble/internal/infrastructure/mail"
	"github.com/student-bubble/internal/infrastructure/rabbitmq"
	"github.com/student-bubble/internal/infrastructure/redisotp"
	s3infra "github.com/student-bubble/internal/infrastructure/s3"
	transporthttp "github.com/student-bubble/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	setupLogger(cfg.AppEnv)

	awsCfg, err := cfg.AWS(context.Background())
	if err != nil {
		slog.Error("aws config", "err", err)
		os.Exit(1)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(awsCfg, cfg.AWSEndpointURL)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		slog.Error("jwt provider", "err", err)
		os.Exit(1)
	}

	s3Store := s3infra.NewStore(s3infra.NewClient(awsCfg, cfg.AWSEndpointURL), cfg)

	var mailer mail.Mailer
	switch cfg.Mail.Transport {
	case config.MailTransportAMQP:
		pub, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
		if err != nil {
			slog.Error("rabbitmq publisher", "err", err)
			os.Exit(1)
		}
		defer pub.Close()
		mailer = pub
	default:
		mailer = mail.NewSMTPMailer(cfg.Mail)
	}

	var otpStore otp.Store
	switch cfg.OTP.Store {
	case config.OTPStoreDynamo:
		otpStore = dynamo.NewOTPStore(dynamoClient, cfg.DynamoTables.OTPCodes)
	case config.OTPStoreRedis:
		rdb := redisotp.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		otpStore = redisotp.NewStore(rdb)
	default:
		otpStore = otp.NewMemoryStore()
	}
	slog.Info("otp store selected", "store", cfg.OTP.Store, "ttl", cfg.OTP.TTL)

	clock := clockwork.NewRealClock()
	verifier := otp.NewVerifier(otp.Deps{Store: otpStore, Mailer: mailer, Clock: clock, TTL: cfg.OTP.TTL})
	scheduler := reminder.NewScheduler(mailer, clock)

	deps := &transporthttp.Deps{
		AuthService: auth.NewService(auth.ServiceDeps{
			Verifier:    verifier,
			UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
			JWTProvider: jwtProvider,
		}),
		NoteService: note.NewService(note.ServiceDeps{
			NoteRepo:    dynamo.NewNoteRepo(dynamoClient, cfg.DynamoTables.Notes),
			ObjectStore: s3Store,
			PresignTTL:  cfg.S3.PresignTTL,
			ListMaxKeys: cfg.S3.ListMaxKeys,
		}),
		AssignmentService: assignment.NewService(assignment.ServiceDeps{
			AssignmentRepo: dynamo.NewAssignmentRepo(dynamoClient, cfg.DynamoTables.Assignments),
			Mailer:         mailer,
			Scheduler:      scheduler,
			Clock:          clock,
		}),
		TodoService: todo.NewService(dynamo.NewTodoRepo(dynamoClient, cfg.DynamoTables.Todos)),
		JWTProvider: jwtProvider,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Armed reminders live in memory and are lost here.
	slog.Info("shutting down server", "pending_reminders", scheduler.Pending())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "err", err)
		return
	}
	slog.Info("server stopped")
}

func setupLogger(env string) {
	var h slog.Handler
	if env == "development" {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(h))
}
