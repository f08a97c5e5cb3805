package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/pkg/errors"
	"github.com/school-georesolver/internal/pkg/utils"
	"github.com/school-georesolver/internal/pkg/validator"
	"github.com/school-georesolver/internal/usecase/dto"
	"go.uber.org/zap"
)

// SchoolResolver - операции определения учреждений, используемые HTTP слоем
type SchoolResolver interface {
	Resolve(ctx context.Context, point domain.Point) (*domain.ResolutionResult, error)
	ResolveBatch(ctx context.Context, points []domain.Point) ([]*domain.ResolutionResult, error)
	SaveOverride(ctx context.Context, point domain.Point, originType, originID string) error
	RemoveOverride(ctx context.Context, point domain.Point) error
	ClearCache(point domain.Point) int
	CachedCount() int
}

// SchoolHandler - обработчик запросов определения учреждений
type SchoolHandler struct {
	resolver         SchoolResolver
	maxBatchSize     int
	selectionBackend string
	logger           *zap.Logger
}

// NewSchoolHandler - создание нового SchoolHandler
func NewSchoolHandler(resolver SchoolResolver, maxBatchSize int, selectionBackend string, logger *zap.Logger) *SchoolHandler {
	return &SchoolHandler{
		resolver:         resolver,
		maxBatchSize:     maxBatchSize,
		selectionBackend: selectionBackend,
		logger:           logger,
	}
}

// Health godoc
// @Summary Состояние сервиса
// @Tags Health
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.HealthResponse}
// @Router /api/v1/health [get]
func (h *SchoolHandler) Health(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.HealthResponse{
		Status:        "healthy",
		CachedResults: h.resolver.CachedCount(),
		Selection:     h.selectionBackend,
	}, nil)
}

// ResolveGET godoc
// @Summary Определение учебного заведения по координатам
// @Description Ищет учреждение рядом с точкой: OSM (Overpass), Nominatim, Wikidata, Wikimedia Commons и опциональный прокси Places API. Результат всегда полный, недостающие поля заполняются заглушками.
// @Tags Schools
// @Produce json
// @Param lat query number true "Широта"
// @Param lon query number true "Долгота"
// @Success 200 {object} utils.SuccessResponse{data=dto.ResolveResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/schools/resolve [get]
func (h *SchoolHandler) ResolveGET(c *fiber.Ctx) error {
	point, err := pointFromQuery(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	return h.resolve(c, point)
}

// ResolvePOST godoc
// @Summary Определение учебного заведения по координатам (POST)
// @Tags Schools
// @Accept json
// @Produce json
// @Param request body dto.ResolveRequest true "Координаты точки"
// @Success 200 {object} utils.SuccessResponse{data=dto.ResolveResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/schools/resolve [post]
func (h *SchoolHandler) ResolvePOST(c *fiber.Ctx) error {
	var req dto.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	return h.resolve(c, req.Point())
}

func (h *SchoolHandler) resolve(c *fiber.Ctx, point domain.Point) error {
	result, err := h.resolver.Resolve(c.Context(), point)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.NewResolveResponse(result), nil)
}

// BatchResolve godoc
// @Summary Пакетное определение учебных заведений
// @Description Определяет учреждения для нескольких точек; порядок результатов совпадает с порядком точек
// @Tags Schools
// @Accept json
// @Produce json
// @Param request body dto.BatchResolveRequest true "Массив координат"
// @Success 200 {object} utils.SuccessResponse{data=dto.BatchResolveResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/batch/schools/resolve [post]
func (h *SchoolHandler) BatchResolve(c *fiber.Ctx) error {
	started := time.Now()

	var req dto.BatchResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	if len(req.Points) > h.maxBatchSize {
		return utils.SendError(c, errors.ErrBatchTooLarge.WithDetails(map[string]interface{}{
			"max":      h.maxBatchSize,
			"received": len(req.Points),
		}))
	}

	points := make([]domain.Point, len(req.Points))
	for i, p := range req.Points {
		points[i] = p.Point()
	}

	results, err := h.resolver.ResolveBatch(c.Context(), points)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := dto.BatchResolveResponse{
		Results: make([]dto.ResolveResponse, len(results)),
		Total:   len(results),
	}
	for i, r := range results {
		resp.Results[i] = dto.NewResolveResponse(r)
	}

	return utils.SendSuccess(c, resp, utils.NewMeta(resp.Total, started))
}

// SaveSelection godoc
// @Summary Закрепить кандидата за точкой
// @Description Сохраняет ручной выбор (тип и id объекта OSM), сбрасывает кеш точки и возвращает новый результат
// @Tags Selection
// @Accept json
// @Produce json
// @Param request body dto.SelectionRequest true "Точка и выбранный объект"
// @Success 200 {object} utils.SuccessResponse{data=dto.ResolveResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/schools/selection [put]
func (h *SchoolHandler) SaveSelection(c *fiber.Ctx) error {
	var req dto.SelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	point := req.Point()
	if err := h.resolver.SaveOverride(c.Context(), point, req.OriginType, req.OriginID); err != nil {
		return utils.SendError(c, err)
	}

	return h.resolve(c, point)
}

// DeleteSelection godoc
// @Summary Удалить ручной выбор для точки
// @Tags Selection
// @Produce json
// @Param lat query number true "Широта"
// @Param lon query number true "Долгота"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/schools/selection [delete]
func (h *SchoolHandler) DeleteSelection(c *fiber.Ctx) error {
	point, err := pointFromQuery(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.resolver.RemoveOverride(c.Context(), point); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"removed": true}, nil)
}

// ClearCache godoc
// @Summary Сбросить кеш результатов для точки
// @Tags Schools
// @Produce json
// @Param lat query number true "Широта"
// @Param lon query number true "Долгота"
// @Success 200 {object} utils.SuccessResponse{data=dto.CacheClearResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/schools/cache [delete]
func (h *SchoolHandler) ClearCache(c *fiber.Ctx) error {
	point, err := pointFromQuery(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if !point.Valid() {
		return utils.SendError(c, errors.ErrInvalidCoordinates)
	}

	cleared := h.resolver.ClearCache(point)
	h.logger.Info("Cache cleared",
		zap.String("point", point.Key()),
		zap.Int("cleared", cleared))

	return utils.SendSuccess(c, dto.CacheClearResponse{Cleared: cleared}, nil)
}

// pointFromQuery читает lat/lon из query string
func pointFromQuery(c *fiber.Ctx) (domain.Point, error) {
	latRaw, lonRaw := c.Query("lat"), c.Query("lon")
	if latRaw == "" || lonRaw == "" {
		return domain.Point{}, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"lat": "required",
			"lon": "required",
		})
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return domain.Point{}, errors.ErrInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return domain.Point{}, errors.ErrInvalidCoordinates
	}

	return domain.Point{Lat: lat, Lon: lon}, nil
}
