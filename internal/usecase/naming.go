package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/school-georesolver/internal/domain"
)

var nameTagKeys = []string{"name", "name:pt", "official_name", "short_name", "operator"}

// DisplayName - первое непустое из name, name:pt, official_name, short_name, operator
func DisplayName(tags map[string]string) string {
	for _, key := range nameTagKeys {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return v
		}
	}
	return ""
}

// KindLabel - подпись типа учреждения по amenity; building=school без amenity считается школой
func KindLabel(tags map[string]string, vocab domain.Vocabulary) string {
	amenity := strings.ToLower(tags["amenity"])
	if amenity == "" && strings.ToLower(tags["building"]) == "school" {
		amenity = "school"
	}

	switch amenity {
	case "school":
		return vocab.KindSchool
	case "kindergarten":
		return vocab.KindKindergarten
	case "college":
		return vocab.KindCollege
	case "university":
		return vocab.KindUniversity
	}
	return vocab.KindGeneric
}

// BuildAddress собирает адрес из addr:* тегов.
// Строка 1: улица, номер; строка 2: район • город • штат.
func BuildAddress(tags map[string]string) string {
	line1 := joinNonEmpty(", ", tags["addr:street"], tags["addr:housenumber"])
	line2 := joinNonEmpty(" • ", tags["addr:suburb"], tags["addr:city"], tags["addr:state"])
	return joinNonEmpty(" — ", line1, line2)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// LooksLikeRoadOrArea - имя похоже на улицу, площадь или район, а не на учреждение
func LooksLikeRoadOrArea(name string, vocab domain.Vocabulary) bool {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return false
	}
	for _, prefix := range vocab.RoadPrefixes {
		if strings.HasPrefix(s, strings.ToLower(prefix)) {
			return true
		}
	}
	for _, sub := range vocab.AreaSubstrings {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// IsPlaceholderName - имя пустое или является заглушкой "не идентифицировано"
func IsPlaceholderName(name string, vocab domain.Vocabulary) bool {
	if strings.TrimSpace(name) == "" {
		return true
	}
	return vocab.PlaceholderMarker != "" && strings.Contains(name, vocab.PlaceholderMarker)
}

// ShortenName обрезает имя до max рун, заменяя хвост многоточием
func ShortenName(name string, max int) string {
	if max <= 3 || utf8.RuneCountInString(name) <= max {
		return name
	}
	runes := []rune(name)
	return string(runes[:max-3]) + "…"
}

// FormatDistance - "<1m", "37m" или "1.25km"
func FormatDistance(meters float64) string {
	switch {
	case meters < 1:
		return "<1m"
	case meters < 1000:
		return fmt.Sprintf("%.0fm", meters)
	default:
		return fmt.Sprintf("%.2fkm", meters/1000)
	}
}
