package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamSchoolResolve  = "stream:school:resolve"
	StreamSchoolResolved = "stream:school:resolved"
)

// ResolveRequestEvent - входящее событие на определение учреждения
type ResolveRequestEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
}

// Point возвращает точку запроса
func (e *ResolveRequestEvent) Point() Point {
	return Point{Lat: e.Lat, Lon: e.Lon}
}

// ResolveDoneEvent - результат обработки события
type ResolveDoneEvent struct {
	RequestID uuid.UUID         `json:"request_id"`
	Result    *ResolutionResult `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
