package echoapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/maischool/eduflow/core"
	"github.com/maischool/eduflow/core/attendance"
)

type attendanceApi struct {
	svc      attendance.ServiceInterface
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, svc attendance.ServiceInterface, validate *validator.Validate) {
	api := &attendanceApi{svc: svc, validate: validate}

	ag := g.Group("/attendance")
	ag.POST("/mark", api.mark)
	ag.GET("/stats/:student_id", api.stats)
	ag.GET("/history", api.history)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	var req MarkAttendanceRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := req.Validate(api.validate); err != nil {
		return err
	}
	date, err := req.ParseDate()
	if err != nil {
		return err
	}

	rec, err := api.svc.Mark(ctx.Request().Context(), attendance.NewAttendance{
		StudentID:  req.StudentID,
		Date:       date,
		Status:     attendance.Status(req.Status),
		Remarks:    req.Remarks,
		RecordedBy: req.RecordedBy,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": rec})
}

func (api *attendanceApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context(), ctx.Param("student_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *attendanceApi) history(ctx echo.Context) error {
	classID := ctx.QueryParam("class_id")
	dateStr := ctx.QueryParam("date")
	if classID == "" || dateStr == "" {
		return core.NewValidationError(errors.New("class_id and date are required"))
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return err
	}

	recs, err := api.svc.History(ctx.Request().Context(), classID, date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, recs)
}
