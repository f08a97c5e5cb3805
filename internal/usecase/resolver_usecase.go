package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/domain/repository"
	"github.com/school-georesolver/internal/pkg/errors"
)

const (
	commonsRadiusMeters = 80
	wikidataNearKm      = 0.08
	wikidataWideKm      = 0.25
)

// ResolverOptions - параметры конвейера
type ResolverOptions struct {
	Radii            []int
	MaxCandidates    int
	BatchConcurrency int
	Vocabulary       domain.Vocabulary
}

// ResolverUseCase определяет учебное заведение для точки на карте
type ResolverUseCase struct {
	overpassRepo  repository.OverpassRepository
	geocoderRepo  repository.GeocoderRepository
	mediaRepo     repository.MediaRepository
	proxyRepo     repository.PlacesProxyRepository
	selectionRepo repository.SelectionRepository
	registry      repository.ResultRegistry
	opts          ResolverOptions
	logger        *zap.Logger
}

// NewResolverUseCase - создание нового ResolverUseCase
func NewResolverUseCase(
	overpassRepo repository.OverpassRepository,
	geocoderRepo repository.GeocoderRepository,
	mediaRepo repository.MediaRepository,
	proxyRepo repository.PlacesProxyRepository,
	selectionRepo repository.SelectionRepository,
	registry repository.ResultRegistry,
	opts ResolverOptions,
	logger *zap.Logger,
) *ResolverUseCase {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = 5
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 4
	}
	if len(opts.Radii) == 0 {
		opts.Radii = []int{5, 15, 30, 60, 120, 250}
	}

	return &ResolverUseCase{
		overpassRepo:  overpassRepo,
		geocoderRepo:  geocoderRepo,
		mediaRepo:     mediaRepo,
		proxyRepo:     proxyRepo,
		selectionRepo: selectionRepo,
		registry:      registry,
		opts:          opts,
		logger:        logger,
	}
}

// Resolve возвращает результат для точки; ошибка только для неверных координат
// или отмены ожидания вызывающим
func (uc *ResolverUseCase) Resolve(ctx context.Context, point domain.Point) (*domain.ResolutionResult, error) {
	ch, err := uc.ResolveAsync(ctx, point)
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res == nil {
			return nil, errors.ErrInternalServer
		}
		return res, nil
	}
}

// ResolveAsync регистрирует вычисление до возврата; параллельные вызовы
// для одного составного ключа получают одно и то же вычисление
func (uc *ResolverUseCase) ResolveAsync(ctx context.Context, point domain.Point) (<-chan *domain.ResolutionResult, error) {
	if !point.Valid() {
		return nil, errors.ErrInvalidCoordinates
	}

	sel := uc.loadSelection(ctx, point)
	key := domain.CompositeKey(point, sel)

	// Вычисление общее для всех ожидающих, отмена одного из них его не прерывает
	computeCtx := context.WithoutCancel(ctx)

	return uc.registry.Join(key, func() *domain.ResolutionResult {
		return uc.compute(computeCtx, point, sel)
	}), nil
}

// ResolveBatch разрешает точки параллельно; порядок результатов совпадает с входным
func (uc *ResolverUseCase) ResolveBatch(ctx context.Context, points []domain.Point) ([]*domain.ResolutionResult, error) {
	for _, p := range points {
		if !p.Valid() {
			return nil, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
				"lat": p.Lat,
				"lon": p.Lon,
			})
		}
	}

	results := make([]*domain.ResolutionResult, len(points))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.opts.BatchConcurrency)

	for i, p := range points {
		i, p := i, p
		g.Go(func() error {
			res, err := uc.Resolve(gctx, p)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	uc.logger.Info("Batch resolved", zap.Int("points", len(points)))
	return results, nil
}

// SaveOverride сохраняет ручной выбор и сбрасывает кеш точки
func (uc *ResolverUseCase) SaveOverride(ctx context.Context, point domain.Point, originType, originID string) error {
	if !point.Valid() {
		return errors.ErrInvalidCoordinates
	}

	t, ok := domain.ParseOriginType(originType)
	if !ok {
		return errors.ErrInvalidOriginType
	}

	sel := domain.SelectionOverride{OriginType: t, OriginID: originID, SavedAt: time.Now().UTC()}
	if !sel.Valid() {
		return errors.ErrInvalidOriginID
	}

	err := uc.selectionRepo.Save(ctx, point, sel)
	cleared := uc.ClearCache(point)

	if err != nil {
		uc.logger.Error("Failed to save selection",
			zap.String("point", point.Key()),
			zap.Error(err))
		return errors.ErrSelectionStore.WithDetails(map[string]interface{}{"reason": err.Error()})
	}

	uc.logger.Info("Selection saved",
		zap.String("point", point.Key()),
		zap.String("selection", sel.Identity()),
		zap.Int("cleared", cleared))
	return nil
}

// RemoveOverride удаляет ручной выбор и сбрасывает кеш точки
func (uc *ResolverUseCase) RemoveOverride(ctx context.Context, point domain.Point) error {
	if !point.Valid() {
		return errors.ErrInvalidCoordinates
	}

	err := uc.selectionRepo.Delete(ctx, point)
	uc.ClearCache(point)

	if err != nil {
		uc.logger.Error("Failed to delete selection",
			zap.String("point", point.Key()),
			zap.Error(err))
		return errors.ErrSelectionStore.WithDetails(map[string]interface{}{"reason": err.Error()})
	}

	return nil
}

// ClearCache удаляет готовые и выполняющиеся записи всех составных ключей точки
func (uc *ResolverUseCase) ClearCache(point domain.Point) int {
	return uc.registry.Invalidate(point.Key() + "|")
}

// CachedCount - число готовых результатов в кеше
func (uc *ResolverUseCase) CachedCount() int {
	return uc.registry.Len()
}

// loadSelection - ошибки хранилища трактуются как отсутствие выбора
func (uc *ResolverUseCase) loadSelection(ctx context.Context, point domain.Point) *domain.SelectionOverride {
	sel, err := uc.selectionRepo.Load(ctx, point)
	if err != nil {
		uc.logger.Warn("Failed to load selection, resolving without it",
			zap.String("point", point.Key()),
			zap.Error(err))
		return nil
	}
	return sel
}
