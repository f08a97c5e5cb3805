package repository

import "github.com/school-georesolver/internal/domain"

// ResultRegistry - кеш готовых результатов и реестр выполняющихся вычислений.
// Для одного ключа одновременно выполняется не более одного вычисления.
type ResultRegistry interface {
	// Join возвращает канал с результатом для ключа. Если результат уже
	// посчитан или вычисляется, новое вычисление не запускается.
	// Регистрация происходит до возврата из Join.
	Join(key string, compute func() *domain.ResolutionResult) <-chan *domain.ResolutionResult

	// Invalidate удаляет все готовые и выполняющиеся записи с префиксом
	Invalidate(prefix string) int

	// Len возвращает число готовых результатов
	Len() int
}
