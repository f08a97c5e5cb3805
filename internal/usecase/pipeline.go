package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/pkg/metrics"
)

// compute выполняет конвейер этапов по порядку. Сбой этапа означает
// "этап ничего не нашёл"; результат всегда полностью заполнен.
func (uc *ResolverUseCase) compute(ctx context.Context, point domain.Point, sel *domain.SelectionOverride) *domain.ResolutionResult {
	start := time.Now()
	vocab := uc.opts.Vocabulary
	logger := uc.logger.With(zap.String("point", point.Key()))

	r := &domain.ResolutionResult{
		Point:      point,
		Kind:       vocab.KindGeneric,
		Candidates: []domain.CandidateSummary{},
	}
	stage := "none"

	// 1. Закреплённый кандидат
	var candidates []domain.Candidate
	if sel != nil {
		if pinned := uc.pinnedCandidate(ctx, point, sel, logger); pinned != nil {
			candidates = []domain.Candidate{*pinned}
			stage = "pinned"
		}
	}

	// 2-3. Поиск по лестнице радиусов и ранжирование
	if len(candidates) == 0 {
		var radius int
		candidates, radius = uc.proximitySearch(ctx, point, logger)
		if len(candidates) > 0 {
			r.FoundRadius = &radius
			stage = "overpass"
		}
	}

	// 4. Поля из тегов победителя
	if len(candidates) > 0 {
		uc.applyCandidate(ctx, r, candidates, logger)
	}

	// 5. Имя отсутствует или похоже на улицу
	if r.Name == "" || LooksLikeRoadOrArea(r.Name, vocab) {
		if uc.applyLocalSearch(ctx, r, logger) {
			stage = "nominatim"
		}
	}

	// 6. Только адрес
	if r.Address == "" {
		uc.applyReverse(ctx, r, logger)
		if stage == "none" && r.Address != "" {
			stage = "reverse"
		}
	}

	// 7. Фото: Wikidata рядом, затем Commons
	if r.ImageURL == "" {
		uc.applyWikidataNearby(ctx, r, logger)
	}
	if r.ImageURL == "" {
		uc.applyCommonsNearby(ctx, r, logger)
	}

	// 8. Прокси Places API
	if uc.proxyRepo != nil && uc.proxyRepo.Enabled() && (r.ImageURL == "" || IsPlaceholderName(r.Name, vocab)) {
		if uc.applyProxy(ctx, r, logger) {
			stage = "proxy"
		}
	}

	// 9. Заглушки
	uc.normalize(r)

	elapsed := time.Since(start)
	metrics.ResolutionsTotal.WithLabelValues(stage).Inc()
	metrics.ResolutionDurationMs.Observe(float64(elapsed.Milliseconds()))

	logger.Info("Point resolved",
		zap.String("stage", stage),
		zap.String("source", r.Source),
		zap.String("name", r.Name),
		zap.Int("candidates", len(r.Candidates)),
		zap.Duration("elapsed", elapsed))

	return r
}

func (uc *ResolverUseCase) decorate(c *domain.Candidate) {
	c.Name = DisplayName(c.Tags)
	c.Kind = KindLabel(c.Tags, uc.opts.Vocabulary)
}

func (uc *ResolverUseCase) pinnedCandidate(ctx context.Context, point domain.Point, sel *domain.SelectionOverride, logger *zap.Logger) *domain.Candidate {
	cand, err := uc.overpassRepo.CandidateByID(ctx, point, sel.OriginType, sel.OriginID)
	if err != nil {
		logger.Warn("Pinned candidate lookup failed",
			zap.String("selection", sel.Identity()),
			zap.Error(err))
		return nil
	}
	if cand == nil {
		logger.Debug("Pinned candidate not found", zap.String("selection", sel.Identity()))
		return nil
	}

	uc.decorate(cand)
	return cand
}

// proximitySearch останавливается на первом радиусе с кандидатами; сбой прерывает этап
func (uc *ResolverUseCase) proximitySearch(ctx context.Context, point domain.Point, logger *zap.Logger) ([]domain.Candidate, int) {
	for _, radius := range uc.opts.Radii {
		found, err := uc.overpassRepo.CandidatesAround(ctx, point, radius)
		if err != nil {
			logger.Warn("Proximity search failed",
				zap.Int("radius", radius),
				zap.Error(err))
			return nil, 0
		}
		if len(found) == 0 {
			continue
		}

		for i := range found {
			uc.decorate(&found[i])
		}
		return RankCandidates(found), radius
	}

	return nil, 0
}

// applyCandidate заполняет результат из лучшего кандидата (первого в ранжированном списке)
func (uc *ResolverUseCase) applyCandidate(ctx context.Context, r *domain.ResolutionResult, candidates []domain.Candidate, logger *zap.Logger) {
	vocab := uc.opts.Vocabulary
	best := candidates[0]
	tags := best.Tags

	dist := best.DistMeters
	r.Source = vocab.SourceOverpass
	r.Name = best.Name
	r.Kind = best.Kind
	r.DistMeters = &dist
	r.Links.OSMURL = domain.OSMURL(best.OriginType, best.OriginID)
	r.Links.Wikidata = tags["wikidata"]
	r.Links.Wikipedia = tags["wikipedia"]
	r.Address = BuildAddress(tags)
	r.Sector = ClassifySector(tags, r.Name, vocab)

	r.ImageURL = tags["image"]
	if r.ImageURL == "" && tags["wikipedia"] != "" {
		thumb, err := uc.mediaRepo.WikipediaThumbnail(ctx, tags["wikipedia"])
		if err != nil {
			logger.Debug("Wikipedia thumbnail failed", zap.Error(err))
		}
		r.ImageURL = thumb
	}
	if r.ImageURL == "" && tags["wikidata"] != "" {
		img, err := uc.mediaRepo.WikidataImage(ctx, tags["wikidata"])
		if err != nil {
			logger.Debug("Wikidata image failed", zap.Error(err))
		}
		r.ImageURL = img
	}

	limit := uc.opts.MaxCandidates
	if len(candidates) < limit {
		limit = len(candidates)
	}
	r.Candidates = make([]domain.CandidateSummary, 0, limit)
	for _, c := range candidates[:limit] {
		name := c.Name
		if name == "" {
			name = vocab.UnnamedCandidate
		}
		r.Candidates = append(r.Candidates, domain.CandidateSummary{
			OriginType: c.OriginType,
			OriginID:   c.OriginID,
			Name:       name,
			DistMeters: c.DistMeters,
		})
	}
}

// applyLocalSearch - текстовый поиск Nominatim по терминам и радиусам;
// первый радиус с подходящим результатом завершает поиск
func (uc *ResolverUseCase) applyLocalSearch(ctx context.Context, r *domain.ResolutionResult, logger *zap.Logger) bool {
	vocab := uc.opts.Vocabulary

	var best *nominatimMatch
	for _, radius := range vocab.SearchRadii {
		for _, term := range vocab.SearchTerms {
			places, err := uc.geocoderRepo.SearchBounded(ctx, r.Point, term, radius)
			if err != nil {
				logger.Warn("Local search failed, skipping stage",
					zap.String("term", term),
					zap.Int("radius", radius),
					zap.Error(err))
				return false
			}

			for _, p := range places {
				m, ok := scoreNominatim(r.Point, p, vocab)
				if !ok {
					continue
				}
				if best == nil || m.score < best.score {
					match := m
					best = &match
				}
			}
		}
		if best != nil {
			break
		}
	}

	if best == nil {
		return false
	}

	dist := best.dist
	r.Source = vocab.SourceNominatim
	r.Name = best.place.ShortName()
	if best.place.DisplayName != "" {
		r.Address = best.place.DisplayName
	}
	r.DistMeters = &dist
	r.Kind = vocab.KindSchool

	return true
}

func (uc *ResolverUseCase) applyReverse(ctx context.Context, r *domain.ResolutionResult, logger *zap.Logger) {
	place, err := uc.geocoderRepo.Reverse(ctx, r.Point)
	if err != nil {
		logger.Warn("Reverse geocoding failed", zap.Error(err))
		return
	}

	if place != nil && place.DisplayName != "" {
		r.Address = place.DisplayName
	}
	if r.Source == "" {
		r.Source = uc.opts.Vocabulary.SourceReverse
	}
}

func (uc *ResolverUseCase) applyWikidataNearby(ctx context.Context, r *domain.ResolutionResult, logger *zap.Logger) {
	vocab := uc.opts.Vocabulary

	items, err := uc.mediaRepo.NearbyEducation(ctx, r.Point, wikidataNearKm, true)
	if err != nil {
		logger.Debug("Wikidata nearby search failed", zap.Error(err))
		return
	}
	if len(items) == 0 {
		items, err = uc.mediaRepo.NearbyEducation(ctx, r.Point, wikidataWideKm, true)
		if err != nil {
			logger.Debug("Wikidata nearby search failed", zap.Error(err))
			return
		}
	}
	if len(items) == 0 {
		return
	}

	nearest := items[0]
	thumb, err := uc.mediaRepo.WikidataImage(ctx, nearest.QID)
	if err != nil || thumb == "" {
		return
	}

	r.ImageURL = thumb
	// ближайший элемент Wikidata не обязательно то же учреждение, что нашёл OSM
	if !IsPlaceholderName(r.Name, vocab) {
		return
	}
	if nearest.Label != "" {
		r.Name = nearest.Label
	}
	if r.Links.Wikidata == "" {
		r.Links.Wikidata = nearest.QID
	}
	r.Source += vocab.SourceWikidata
}

func (uc *ResolverUseCase) applyCommonsNearby(ctx context.Context, r *domain.ResolutionResult, logger *zap.Logger) {
	img, err := uc.mediaRepo.CommonsNearbyImage(ctx, r.Point, commonsRadiusMeters)
	if err != nil {
		logger.Debug("Commons geosearch failed", zap.Error(err))
		return
	}
	if img == "" {
		return
	}

	r.ImageURL = img
	r.Source += uc.opts.Vocabulary.SourceWikimedia
}

// applyProxy - непустые поля прокси перезаписывают результат, источник заменяется целиком
func (uc *ResolverUseCase) applyProxy(ctx context.Context, r *domain.ResolutionResult, logger *zap.Logger) bool {
	vocab := uc.opts.Vocabulary

	place, err := uc.proxyRepo.Lookup(ctx, r.Point)
	if err != nil {
		logger.Warn("Places proxy lookup failed", zap.Error(err))
		return false
	}
	if place == nil {
		return false
	}

	if place.Name != "" {
		r.Name = place.Name
	}
	if place.Address != "" {
		r.Address = place.Address
	}
	if place.PhotoURL != "" {
		r.ImageURL = place.PhotoURL
	}
	if place.Sector != "" {
		r.Sector = domain.Sector{Label: place.Sector, Method: vocab.MethodProxy}
	}
	if place.PlaceURL != "" {
		r.Links.PlaceURL = place.PlaceURL
	}
	r.Source = vocab.SourcePlacesProxy

	return true
}

func (uc *ResolverUseCase) normalize(r *domain.ResolutionResult) {
	vocab := uc.opts.Vocabulary

	if r.Name == "" {
		r.Name = vocab.NameNotIdentified
	}
	if r.Address == "" {
		r.Address = vocab.AddressNotFound
	}
	if r.Sector.Label == "" {
		r.Sector = domain.Sector{Label: vocab.SectorUnknown, Method: vocab.MethodNone}
	}
	if r.Kind == "" {
		r.Kind = vocab.KindGeneric
	}
}
