package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/smartsave/freshness/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockScorer is a mock implementation of domain.FreshnessScorer
type MockScorer struct {
	name     string
	result   *domain.RawScoreDocument
	err      error
	block    bool // wait for the context to end
	calls    int
	lastReq  *domain.AnalysisRequest
	callLock sync.Mutex
}

func NewMockScorer(result *domain.RawScoreDocument) *MockScorer {
	return &MockScorer{name: "mock", result: result}
}

func (m *MockScorer) Name() string {
	return m.name
}

func (m *MockScorer) Score(ctx context.Context, req *domain.AnalysisRequest) (*domain.RawScoreDocument, error) {
	m.callLock.Lock()
	m.calls++
	m.lastReq = req
	m.callLock.Unlock()

	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// MockCatalog is a mock implementation of domain.CatalogRepository
type MockCatalog struct {
	items []domain.InventoryItem
}

func (m *MockCatalog) All() []domain.InventoryItem {
	return m.items
}

func (m *MockCatalog) FindBySKU(sku string) (*domain.InventoryItem, bool) {
	for _, item := range m.items {
		if item.SKU == sku {
			found := item
			return &found, true
		}
	}
	return nil, false
}

// MockPricingStore is a mock implementation of domain.PricingStore
type MockPricingStore struct {
	updates []domain.ESLUpdate
	rules   []domain.PricingRule
	saveErr error
}

func (m *MockPricingStore) SaveESLUpdate(ctx context.Context, update *domain.ESLUpdate) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.updates = append(m.updates, *update)
	return nil
}

func (m *MockPricingStore) SavePricingRule(ctx context.Context, rule *domain.PricingRule) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rules = append(m.rules, *rule)
	return nil
}

func (m *MockPricingStore) ListPricingRules(ctx context.Context) ([]domain.PricingRule, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return m.rules, nil
}

// MockArchive is a mock implementation of domain.ImageArchive
type MockArchive struct {
	keys []string
	err  error
}

func (m *MockArchive) Store(ctx context.Context, key string, data []byte, contentType string) error {
	if m.err != nil {
		return m.err
	}
	m.keys = append(m.keys, key)
	return nil
}

func testCatalog() *MockCatalog {
	return &MockCatalog{items: []domain.InventoryItem{
		{
			Name:          "Organic Bananas",
			Category:      domain.CategoryFruits,
			Quantity:      120,
			Location:      "Produce Aisle 1",
			OriginalPrice: 10.00,
			SKU:           "PRD-BAN-001",
			Supplier:      "Green Valley Farms",
			ReceivedDate:  time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
			ExpiryDate:    time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			Keywords:      []string{"banana", "bananas"},
		},
		{
			Name:          "Roma Tomatoes",
			Category:      domain.CategoryVegetables,
			Quantity:      80,
			Location:      "Produce Aisle 2",
			OriginalPrice: 3.49,
			SKU:           "PRD-TOM-002",
			Supplier:      "Sunrise Growers",
			Keywords:      []string{"tomato", "tomatoes"},
		},
		{
			Name:          "Whole Milk",
			Category:      domain.CategoryDairy,
			Quantity:      40,
			Location:      "Dairy Cooler",
			OriginalPrice: 4.00,
			SKU:           "DRY-MLK-003",
			Supplier:      "Hillside Dairy",
			Keywords:      []string{"milk"},
		},
	}}
}
