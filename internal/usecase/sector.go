package usecase

import (
	"strings"

	"github.com/school-georesolver/internal/domain"
)

// ClassifySector определяет публичное/частное учреждение.
// Сначала явные теги собственности, затем эвристика по имени и оператору.
// Публичные термины проверяются раньше частных.
func ClassifySector(tags map[string]string, name string, vocab domain.Vocabulary) domain.Sector {
	ownership := ""
	for _, key := range vocab.OwnershipTagKeys {
		if v := strings.TrimSpace(tags[key]); v != "" {
			ownership = strings.ToLower(v)
			break
		}
	}

	if ownership != "" {
		if containsAny(ownership, vocab.PublicTagTerms) {
			return domain.Sector{Label: vocab.PublicLabel, Method: vocab.MethodTags}
		}
		if containsAny(ownership, vocab.PrivateTagTerms) {
			return domain.Sector{Label: vocab.PrivateLabel, Method: vocab.MethodTags}
		}
	}

	haystack := strings.ToLower(name) + " " + strings.ToLower(tags["operator"])
	if containsAny(haystack, vocab.PublicNameTerms) {
		return domain.Sector{Label: vocab.PublicLabel + vocab.ProbableSuffix, Method: vocab.MethodHeuristic}
	}
	if containsAny(haystack, vocab.PrivateNameTerms) {
		return domain.Sector{Label: vocab.PrivateLabel + vocab.ProbableSuffix, Method: vocab.MethodHeuristic}
	}

	return domain.Sector{Label: vocab.SectorUnknown, Method: vocab.MethodNone}
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(s, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
