package resolution

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/domain/repository"
	"github.com/school-georesolver/internal/worker"
	"go.uber.org/zap"
)

// staleAfter - через сколько неподтверждённое сообщение считается брошенным
const staleAfter = time.Minute

// BatchResolver - пакетное определение учреждений
type BatchResolver interface {
	ResolveBatch(ctx context.Context, points []domain.Point) ([]*domain.ResolutionResult, error)
}

// SchoolResolveWorker читает запросы из stream:school:resolve и публикует результаты
type SchoolResolveWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	resolver     BatchResolver
	consumerName string
	batchSize    int
}

// NewSchoolResolveWorker создает новый SchoolResolveWorker
func NewSchoolResolveWorker(
	streamRepo repository.StreamRepository,
	resolver BatchResolver,
	consumerGroup string,
	batchSize int,
	logger *zap.Logger,
) *SchoolResolveWorker {
	hostname, _ := os.Hostname()
	if batchSize <= 0 {
		batchSize = 20
	}

	return &SchoolResolveWorker{
		BaseWorker:   worker.NewBaseWorker("school-resolve", consumerGroup, logger),
		streamRepo:   streamRepo,
		resolver:     resolver,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:    batchSize,
	}
}

// Start запускает воркер
func (w *SchoolResolveWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SchoolResolveWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamSchoolResolve, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	return w.Poll(ctx, w.ProcessBatch, worker.DefaultBackoff)
}

// ProcessBatch читает и обрабатывает пачку сообщений.
// Возвращает количество прочитанных сообщений.
func (w *SchoolResolveWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.fetch(ctx)
	if err != nil {
		return 0, err
	}

	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	events := make([]*domain.ResolveRequestEvent, 0, len(messages))
	messageIDs := make([]string, 0, len(messages))
	skipIDs := make([]string, 0)

	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			skipIDs = append(skipIDs, msg.ID)
			continue
		}

		if !event.Point().Valid() {
			w.publish(ctx, &domain.ResolveDoneEvent{
				RequestID: event.RequestID,
				Error:     "invalid coordinates",
			})
			skipIDs = append(skipIDs, msg.ID)
			continue
		}

		events = append(events, event)
		messageIDs = append(messageIDs, msg.ID)
	}

	// Битые сообщения подтверждаются, чтобы не застревали
	if len(skipIDs) > 0 {
		if err := w.streamRepo.AckMessages(ctx, domain.StreamSchoolResolve, w.ConsumerGroup(), skipIDs); err != nil {
			logger.Error("Failed to ack skipped messages", zap.Error(err))
		}
	}

	if len(events) == 0 {
		return len(messages), nil
	}

	points := make([]domain.Point, len(events))
	for i, event := range events {
		points[i] = event.Point()
	}

	// Без ACK сообщения остаются в pending, fetch заберёт их через staleAfter
	results, err := w.resolver.ResolveBatch(ctx, points)
	if err != nil {
		return 0, fmt.Errorf("resolve batch failed: %w", err)
	}

	for i, event := range events {
		w.publish(ctx, &domain.ResolveDoneEvent{
			RequestID: event.RequestID,
			Result:    results[i],
		})
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamSchoolResolve, w.ConsumerGroup(), messageIDs); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	logger.Info("Batch processed",
		zap.Int("resolved", len(events)),
		zap.Int("skipped", len(skipIDs)))

	return len(messages), nil
}

// fetch - сначала зависшие в pending сообщения, затем новые
func (w *SchoolResolveWorker) fetch(ctx context.Context) ([]domain.StreamMessage, error) {
	group := w.ConsumerGroup()

	stale, err := w.streamRepo.ClaimStale(ctx, domain.StreamSchoolResolve, group, w.consumerName, staleAfter, w.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending messages: %w", err)
	}
	if len(stale) > 0 {
		return stale, nil
	}

	messages, err := w.streamRepo.ConsumeBatch(ctx, domain.StreamSchoolResolve, group, w.consumerName, w.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to consume batch: %w", err)
	}
	return messages, nil
}

func (w *SchoolResolveWorker) publish(ctx context.Context, event *domain.ResolveDoneEvent) {
	if err := w.streamRepo.PublishToStream(ctx, domain.StreamSchoolResolved, event); err != nil {
		w.Logger().Error("Failed to publish done event",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
	}
}

// parseMessage парсит сообщение из стрима в ResolveRequestEvent
func parseMessage(msg domain.StreamMessage) (*domain.ResolveRequestEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.ResolveRequestEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}
