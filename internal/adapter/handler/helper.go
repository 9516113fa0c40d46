package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/telmeet/conference-scheduler/errors"
	"github.com/telmeet/conference-scheduler/internal/adapter/dto/conference"
	"github.com/telmeet/conference-scheduler/internal/domain/repositories"
	usecaseErrors "github.com/telmeet/conference-scheduler/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    "OK",
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// mapDomainError converts usecase sentinels and gorm errors to AppErrors
func mapDomainError(err error) error {
	switch {
	case err == nil:
		return nil
	case stdErrors.Is(err, usecaseErrors.ErrNoParticipants):
		return errors.ErrNoParticipants()
	case stdErrors.Is(err, usecaseErrors.ErrMissingScheduleFields):
		return errors.ErrMissingScheduleFields()
	case stdErrors.Is(err, usecaseErrors.ErrSubjectRequired):
		return errors.ErrInvalidArgument("subject is required")
	case stdErrors.Is(err, usecaseErrors.ErrSubmitInProgress):
		return errors.ErrSubmitInProgress("")
	case stdErrors.Is(err, usecaseErrors.ErrNoDefaultAccount):
		return errors.ErrNoDefaultAccount()
	case stdErrors.Is(err, usecaseErrors.ErrEngineTimeout):
		return errors.ErrEngineTimeout()
	case stdErrors.Is(err, usecaseErrors.ErrEngineConstruction),
		stdErrors.Is(err, usecaseErrors.ErrEngineTerminal):
		return errors.ErrEngineFailure(err)
	case stdErrors.Is(err, usecaseErrors.ErrUnknownTimezoneIndex),
		stdErrors.Is(err, usecaseErrors.ErrUnknownDurationIndex):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrInvalidAddress):
		return errors.ErrInvalidArgument("invalid participant address")
	case stdErrors.Is(err, usecaseErrors.ErrDuplicateInvite):
		return errors.AppError{
			HTTPCode: http.StatusConflict,
			Code:     errors.ErrorCode_ALREADY_EXISTS,
			Message:  "participant already on the draft",
		}
	case stdErrors.Is(err, usecaseErrors.ErrDraftNotFound),
		stdErrors.Is(err, gorm.ErrRecordNotFound):
		return errors.ErrNotFound("draft")
	default:
		return errors.ErrInternal(err)
	}
}

// buildDraftFilters converts ListDraftsRequest to repository filters
func buildDraftFilters(req *conference.ListDraftsRequest) repositories.DraftFilters {
	return repositories.DraftFilters{
		Search:    req.Search,
		Editing:   req.Editing,
		Limit:     req.PageSize,
		Offset:    (req.Page - 1) * req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
}
