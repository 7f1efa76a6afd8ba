package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/maischool/eduflow/core"
	emailsvc "github.com/maischool/eduflow/services/email"
)

type emailApi struct {
	svc      core.EmailService
	validate *validator.Validate
}

func registerEmailAPI(g *echo.Group, svc core.EmailService, validate *validator.Validate) {
	api := &emailApi{svc: svc, validate: validate}
	g.POST("/email/send", api.send)
}

type SendEmailResponse struct {
	Success    bool   `json:"success"`
	MessageID  string `json:"messageId"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

func (api *emailApi) send(ctx echo.Context) error {
	var req SendEmailRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := req.Validate(api.validate); err != nil {
		return err
	}

	msg := core.NewNoticeEmail(mail.Address{Address: req.To}, req.Subject, req.Text)
	res := api.svc.Send(msg)
	if !res.Success {
		if errors.Is(res.Err, emailsvc.ErrDisabled) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "email service not ready")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to send email").SetInternal(res.Err)
	}
	return ctx.JSON(http.StatusOK, SendEmailResponse{
		Success:    true,
		MessageID:  res.MessageID,
		PreviewURL: res.PreviewURL,
	})
}
