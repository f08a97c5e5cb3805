package usecase

import (
	"sort"
	"strings"

	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/pkg/utils"
)

const (
	unnamedPenalty = 75.0
	nonPOIPenalty  = 200.0
)

// ScoreCandidate - расстояние плюс штраф за отсутствие имени; меньше - лучше
func ScoreCandidate(c *domain.Candidate) float64 {
	if c.HasName() {
		return c.DistMeters
	}
	return c.DistMeters + unnamedPenalty
}

// RankCandidates сортирует кандидатов по оценке; при равенстве сохраняется входной порядок.
// Первый элемент результата - победитель.
func RankCandidates(candidates []domain.Candidate) []domain.Candidate {
	ranked := make([]domain.Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ScoreCandidate(&ranked[i]) < ScoreCandidate(&ranked[j])
	})
	return ranked
}

// nominatimMatch - лучший результат локального текстового поиска
type nominatimMatch struct {
	place domain.NominatimPlace
	dist  float64
	score float64
}

// scoreNominatim оценивает результат поиска; false, если он не подходит
func scoreNominatim(origin domain.Point, p domain.NominatimPlace, vocab domain.Vocabulary) (nominatimMatch, bool) {
	if p.Lat == 0 && p.Lon == 0 {
		return nominatimMatch{}, false
	}
	if LooksLikeRoadOrArea(p.ShortName(), vocab) {
		return nominatimMatch{}, false
	}

	dist := utils.DistanceMeters(origin.Lat, origin.Lon, p.Lat, p.Lon)
	class := strings.ToLower(p.Category + ":" + p.Type)

	score := dist + nonPOIPenalty
	if containsAny(class, vocab.POICategoryMarks) {
		score = dist
	}

	return nominatimMatch{place: p, dist: dist, score: score}, true
}
