package usecase_test

import (
	"context"

	"github.com/school-georesolver/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockOverpassRepository - мок для OverpassRepository
type MockOverpassRepository struct {
	mock.Mock
}

func (m *MockOverpassRepository) CandidatesAround(ctx context.Context, point domain.Point, radiusMeters int) ([]domain.Candidate, error) {
	args := m.Called(ctx, point, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockOverpassRepository) CandidateByID(ctx context.Context, point domain.Point, originType domain.OriginType, originID string) (*domain.Candidate, error) {
	args := m.Called(ctx, point, originType, originID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

// MockGeocoderRepository - мок для GeocoderRepository
type MockGeocoderRepository struct {
	mock.Mock
}

func (m *MockGeocoderRepository) Reverse(ctx context.Context, point domain.Point) (*domain.NominatimPlace, error) {
	args := m.Called(ctx, point)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NominatimPlace), args.Error(1)
}

func (m *MockGeocoderRepository) SearchBounded(ctx context.Context, point domain.Point, query string, radiusMeters int) ([]domain.NominatimPlace, error) {
	args := m.Called(ctx, point, query, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NominatimPlace), args.Error(1)
}

// MockMediaRepository - мок для MediaRepository
type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) WikipediaThumbnail(ctx context.Context, wikipediaTag string) (string, error) {
	args := m.Called(ctx, wikipediaTag)
	return args.String(0), args.Error(1)
}

func (m *MockMediaRepository) WikidataImage(ctx context.Context, qid string) (string, error) {
	args := m.Called(ctx, qid)
	return args.String(0), args.Error(1)
}

func (m *MockMediaRepository) NearbyEducation(ctx context.Context, point domain.Point, radiusKm float64, requireImage bool) ([]domain.WikidataItem, error) {
	args := m.Called(ctx, point, radiusKm, requireImage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WikidataItem), args.Error(1)
}

func (m *MockMediaRepository) CommonsNearbyImage(ctx context.Context, point domain.Point, radiusMeters int) (string, error) {
	args := m.Called(ctx, point, radiusMeters)
	return args.String(0), args.Error(1)
}

// MockPlacesProxyRepository - мок для PlacesProxyRepository
type MockPlacesProxyRepository struct {
	mock.Mock
}

func (m *MockPlacesProxyRepository) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockPlacesProxyRepository) Lookup(ctx context.Context, point domain.Point) (*domain.ProxyPlace, error) {
	args := m.Called(ctx, point)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProxyPlace), args.Error(1)
}

// MockSelectionRepository - мок для SelectionRepository
type MockSelectionRepository struct {
	mock.Mock
}

func (m *MockSelectionRepository) Load(ctx context.Context, point domain.Point) (*domain.SelectionOverride, error) {
	args := m.Called(ctx, point)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SelectionOverride), args.Error(1)
}

func (m *MockSelectionRepository) Save(ctx context.Context, point domain.Point, sel domain.SelectionOverride) error {
	args := m.Called(ctx, point, sel)
	return args.Error(0)
}

func (m *MockSelectionRepository) Delete(ctx context.Context, point domain.Point) error {
	args := m.Called(ctx, point)
	return args.Error(0)
}
