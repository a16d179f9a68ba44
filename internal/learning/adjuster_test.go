package learning

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/models"
	"github.com/mmamrila/aiquoting-sub000/internal/repository"
	"github.com/mmamrila/aiquoting-sub000/internal/store"
)

// MockPatternReader is a mock implementation of PatternReader
type MockPatternReader struct {
	mock.Mock
}

func (m *MockPatternReader) GetPatterns(ctx context.Context, industry, arch string) ([]repository.QuotePattern, error) {
	args := m.Called(ctx, industry, arch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.QuotePattern), args.Error(1)
}

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", store.ErrMiss
}

func (f *fakeKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func candidates() []models.Product {
	return []models.Product{
		{SKU: "R2-UHF-01", Category: models.CategoryRadio},
		{SKU: "R7-UHF-01", Category: models.CategoryRadio},
		{SKU: "XPR3300e-UHF", Category: models.CategoryRadio},
	}
}

func TestAdjustRadios_ReordersBySuccess(t *testing.T) {
	reader := &MockPatternReader{}
	reader.On("GetPatterns", mock.Anything, "Healthcare", "IPSiteConnect").Return([]repository.QuotePattern{
		{Industry: "Healthcare", Architecture: "IPSiteConnect", RadioSKU: "R7-UHF-01", SuccessCount: 14},
	}, nil)

	adjuster := NewAdjuster(reader, nil, zap.NewNop())
	reordered, annotations := adjuster.AdjustRadios(context.Background(), "Healthcare", models.ArchIPSiteConnect, candidates())

	require.Len(t, reordered, 3)
	assert.Equal(t, "R7-UHF-01", reordered[0].SKU)
	assert.Equal(t, "R2-UHF-01", reordered[1].SKU)
	assert.Equal(t, "XPR3300e-UHF", reordered[2].SKU)

	require.Len(t, annotations, 1)
	assert.Contains(t, annotations[0], "R7-UHF-01")
	assert.Contains(t, annotations[0], "14 time(s)")
}

func TestAdjustRadios_NoPatternsKeepsOrder(t *testing.T) {
	reader := &MockPatternReader{}
	reader.On("GetPatterns", mock.Anything, "Retail", "Conventional").Return([]repository.QuotePattern{}, nil)

	adjuster := NewAdjuster(reader, nil, zap.NewNop())
	reordered, annotations := adjuster.AdjustRadios(context.Background(), "Retail", models.ArchConventional, candidates())

	assert.Equal(t, candidates(), reordered)
	assert.Empty(t, annotations)
}

func TestAdjustRadios_ReaderFailureDegradesToNoop(t *testing.T) {
	reader := &MockPatternReader{}
	reader.On("GetPatterns", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	adjuster := NewAdjuster(reader, nil, zap.NewNop())
	reordered, annotations := adjuster.AdjustRadios(context.Background(), "Healthcare", models.ArchIPSiteConnect, candidates())

	assert.Equal(t, candidates(), reordered, "ranking must never fail the quote")
	assert.Empty(t, annotations)
}

func TestAdjustRadios_SingleCandidateSkipsLookup(t *testing.T) {
	reader := &MockPatternReader{}
	adjuster := NewAdjuster(reader, nil, zap.NewNop())

	one := candidates()[:1]
	reordered, _ := adjuster.AdjustRadios(context.Background(), "Healthcare", models.ArchIPSiteConnect, one)

	assert.Equal(t, one, reordered)
	reader.AssertNotCalled(t, "GetPatterns", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustRadios_PatternForAbsentSKUIgnored(t *testing.T) {
	reader := &MockPatternReader{}
	reader.On("GetPatterns", mock.Anything, "Healthcare", "IPSiteConnect").Return([]repository.QuotePattern{
		{RadioSKU: "DISCONTINUED-01", SuccessCount: 40},
		{RadioSKU: "R2-UHF-01", SuccessCount: 2},
	}, nil)

	adjuster := NewAdjuster(reader, nil, zap.NewNop())
	reordered, annotations := adjuster.AdjustRadios(context.Background(), "Healthcare", models.ArchIPSiteConnect, candidates())

	require.Len(t, reordered, 3, "a pattern for a radio no longer in the pool must not drop candidates")
	assert.Equal(t, "R2-UHF-01", reordered[0].SKU)
	assert.Len(t, annotations, 1)
}

func TestAdjustRadios_SecondCallServedFromCache(t *testing.T) {
	reader := &MockPatternReader{}
	reader.On("GetPatterns", mock.Anything, "Healthcare", "IPSiteConnect").Return([]repository.QuotePattern{
		{RadioSKU: "R7-UHF-01", SuccessCount: 14},
	}, nil).Once()

	adjuster := NewAdjuster(reader, newFakeKV(), zap.NewNop())

	first, _ := adjuster.AdjustRadios(context.Background(), "Healthcare", models.ArchIPSiteConnect, candidates())
	second, _ := adjuster.AdjustRadios(context.Background(), "Healthcare", models.ArchIPSiteConnect, candidates())

	assert.Equal(t, first, second)
	reader.AssertNumberOfCalls(t, "GetPatterns", 1)
}
