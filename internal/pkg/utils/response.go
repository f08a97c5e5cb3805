package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/school-georesolver/internal/pkg/errors"
)

// SuccessResponse - конверт успешного ответа
type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// ErrorResponse - конверт ответа с ошибкой
type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total    int     `json:"total,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

// NewMeta заполняет время обработки от started
func NewMeta(total int, started time.Time) *Meta {
	return &Meta{
		Total:    total,
		TimeMSec: float64(time.Since(started).Microseconds()) / 1000,
	}
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{Data: data, Meta: meta})
}

// SendError отдаёт AppError с его HTTP-статусом, прочие ошибки через errors.From
func SendError(c *fiber.Ctx, err error) error {
	appErr := errors.From(err)
	if appErr == nil {
		appErr = errors.ErrInternalServer
	}
	return c.Status(appErr.StatusCode).JSON(ErrorResponse{Error: appErr})
}
