package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/maischool/eduflow/core"
	"github.com/maischool/eduflow/core/attendance"
	"github.com/maischool/eduflow/core/user"
)

type (
	Deps struct {
		Conf          *core.Config
		Logger        core.Logger
		AttendanceSvc attendance.ServiceInterface
		UserSvc       user.ServiceInterface
		MailSvc       core.EmailService
		Validate      *validator.Validate
		Translator    ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		addr    string
		deps    Deps
		app     *echo.Echo
		errChan chan error
		sdChan  chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(addr string, deps Deps) Server {
	s := &server{
		addr:    addr,
		deps:    deps,
		app:     echo.New(),
		errChan: make(chan error, 1),
		sdChan:  make(chan os.Signal, 1),
	}
	signal.Notify(s.sdChan, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	api := s.app.Group("/api")
	registerAttendanceAPI(api, s.deps.AttendanceSvc, s.deps.Validate)
	registerEmailAPI(api, s.deps.MailSvc, s.deps.Validate)
	registerUserAPI(api, s.deps.UserSvc, conf, s.deps.Validate)
}

func (s *server) Start() {
	s.errChan <- s.app.Start(s.addr)
}

func (s *server) Errors() <-chan error {
	return s.errChan
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.sdChan
}

// signalShutdown requests a graceful stop when an unrecoverable error
// bubbles up through the error handler.
func (s *server) signalShutdown() {
	s.sdChan <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to EduFlow API!")
}
