package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/maischool/eduflow/core"
	"github.com/maischool/eduflow/core/attendance"
	"github.com/maischool/eduflow/core/user"
)

// newAppHTTPErrorHandler knows how to unpack application errors into
// the JSON error shape clients expect. Unknown errors are reported and
// trigger a graceful shutdown when they are marked as such.
func newAppHTTPErrorHandler(logger core.Logger, trans ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var (
			code = http.StatusInternalServerError
			body interface{}
		)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			body = echo.Map{"error": origErr.Message}

		case validator.ValidationErrors:
			code = http.StatusBadRequest
			fields := make([]core.FieldError, 0, len(origErr))
			for _, fErr := range origErr {
				fields = append(fields, core.FieldError{
					Field: fErr.Field(),
					Error: fErr.Translate(trans),
				})
			}
			body = echo.Map{"error": "validation error", "fields": fields}

		case *core.ValidationError:
			code = http.StatusBadRequest
			if len(origErr.Fields) > 0 {
				body = echo.Map{"error": origErr.Error(), "fields": origErr.Fields}
			} else {
				body = echo.Map{"error": origErr.Error()}
			}

		default:
			switch {
			case errors.Is(origErr, attendance.ErrStudentNotFound), errors.Is(origErr, user.ErrNotFound):
				code = http.StatusNotFound
				body = echo.Map{"error": origErr.Error()}
			default:
				logger.Error(err.Error(), err)
				msg := http.StatusText(code)
				if ctx.Echo().Debug {
					msg = err.Error()
				}
				body = echo.Map{"error": msg}
			}
		}

		if rErr := respond(ctx, code, body); rErr != nil {
			logger.Error(rErr.Error(), rErr)
		}

		// shutdown gracefully on shutdown error
		if ok := core.IsShutdown(errors.Cause(err)); ok {
			signalShutdown()
		}
	}
}

func respond(ctx echo.Context, code int, body interface{}) error {
	if ctx.Request().Method == http.MethodHead {
		return ctx.NoContent(code)
	}
	return ctx.JSON(code, body)
}
