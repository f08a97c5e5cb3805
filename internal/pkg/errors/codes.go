package errors

import "net/http"

// Ошибки валидации входа
var (
	ErrInvalidCoordinates = New("INVALID_COORDINATES", "Invalid coordinates provided", http.StatusBadRequest)
	ErrInvalidOriginType  = New("INVALID_ORIGIN_TYPE", "Origin type must be one of node, way, relation", http.StatusBadRequest)
	ErrInvalidOriginID    = New("INVALID_ORIGIN_ID", "Origin id must be a positive integer", http.StatusBadRequest)
	ErrBatchTooLarge      = New("BATCH_TOO_LARGE", "Too many points in batch request", http.StatusBadRequest)
	ErrInvalidRequest     = New("INVALID_REQUEST", "Invalid request parameters", http.StatusBadRequest)
)

// Ошибки выполнения
var (
	ErrSelectionStore = New("SELECTION_STORE_ERROR", "Selection store operation failed", http.StatusInternalServerError)
	ErrResolveTimeout = New("RESOLVE_TIMEOUT", "Resolution did not finish in time", http.StatusGatewayTimeout)
	// 499 - нестандартный код nginx для закрытого клиентом запроса
	ErrRequestCanceled = New("REQUEST_CANCELED", "Request canceled by client", 499)
	ErrInternalServer  = New("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
)
