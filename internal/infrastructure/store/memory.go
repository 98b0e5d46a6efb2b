package store

import (
	"context"
	"sync"

	"github.com/smartsave/freshness/internal/domain"
)

// MemoryStore keeps confirmed ESL updates and pricing rules in process memory.
// Everything is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	updates []domain.ESLUpdate
	rules   []domain.PricingRule
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveESLUpdate records an applied ESL update
func (s *MemoryStore) SaveESLUpdate(ctx context.Context, update *domain.ESLUpdate) error {
	u := *update
	u.Draft.Actions = append([]string(nil), update.Draft.Actions...)

	s.mu.Lock()
	s.updates = append(s.updates, u)
	s.mu.Unlock()
	return nil
}

// SavePricingRule records a created pricing rule
func (s *MemoryStore) SavePricingRule(ctx context.Context, rule *domain.PricingRule) error {
	r := *rule
	r.Summary = append([]string(nil), rule.Summary...)

	s.mu.Lock()
	s.rules = append(s.rules, r)
	s.mu.Unlock()
	return nil
}

// ListPricingRules returns rules in creation order
func (s *MemoryStore) ListPricingRules(ctx context.Context) ([]domain.PricingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PricingRule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

// ESLUpdates returns applied updates in order
func (s *MemoryStore) ESLUpdates() []domain.ESLUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ESLUpdate, len(s.updates))
	copy(out, s.updates)
	return out
}
