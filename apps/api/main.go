package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/maischool/eduflow/apps/api/echo"
	"github.com/maischool/eduflow/core"
	"github.com/maischool/eduflow/core/attendance"
	"github.com/maischool/eduflow/core/user"
	emailsvc "github.com/maischool/eduflow/services/email"
	logsvc "github.com/maischool/eduflow/services/logger"
	messagingsvc "github.com/maischool/eduflow/services/messaging"
	"github.com/maischool/eduflow/storage/database"
	sqlxrepos "github.com/maischool/eduflow/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()
	if err = database.EnsureSchema(db); err != nil {
		logger.Fatal(fmt.Sprintf("ensuring schema: %v", err), err)
	}

	// set up services
	mailSvc := emailsvc.NewService(conf, logger)
	smsSender := messagingsvc.NewSMSSender(conf, logger)
	waSender := messagingsvc.NewWhatsAppSender(conf, logger)

	attRepo := sqlxrepos.NewAttendanceRepository(db)
	notifier := attendance.NewNotifier(attRepo, mailSvc, smsSender, waSender, logger)
	attSvc := attendance.NewService(attRepo, notifier)
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(ctx)
	defer notifier.Stop()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(conf.Server.Addr, echoapi.Deps{
		Conf:          conf,
		Logger:        logger,
		AttendanceSvc: attSvc,
		UserSvc:       usrSvc,
		MailSvc:       mailSvc,
		Validate:      validate,
		Translator:    translator,
	})

	go func() {
		logger.Info(fmt.Sprintf("API server listening on %s", conf.Server.Addr))
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		sdCtx, sdCancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer sdCancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(sdCtx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
