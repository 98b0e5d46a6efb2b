package usecase

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/smartsave/freshness/internal/domain"
)

const dateLayout = "2006-01-02"

// Simulated day ranges used when the product dates are unknown
const (
	minSimulatedHarvestDays = 1
	maxSimulatedHarvestDays = 5
	minSimulatedExpiryDays  = 2
	maxSimulatedExpiryDays  = 11
)

const noObservations = "No additional observations provided"

var (
	refrigeratedHints = []string{"cooler", "refriger", "fridge"}
	frozenHints       = []string{"freezer", "frozen"}
)

// ProductContext is the product information known for one analysis: the
// identified catalog item with any manual entry fields layered on top.
type ProductContext struct {
	Name             string
	SKU              string
	Category         domain.Category
	Quantity         *int
	Location         string
	Supplier         string
	OriginalPrice    *float64
	ReceivedDate     *time.Time
	ExpiryDate       *time.Time
	Observations     string
	StorageCondition string
	Keywords         []string
}

// Item returns the context as an inventory item for draft derivation
func (p *ProductContext) Item() *domain.InventoryItem {
	item := &domain.InventoryItem{
		Name:     p.Name,
		SKU:      p.SKU,
		Category: p.Category,
		Location: p.Location,
		Supplier: p.Supplier,
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.OriginalPrice != nil {
		item.OriginalPrice = *p.OriginalPrice
	}
	if p.ReceivedDate != nil {
		item.ReceivedDate = *p.ReceivedDate
	}
	if p.ExpiryDate != nil {
		item.ExpiryDate = *p.ExpiryDate
	}
	return item
}

// BuiltRequest is the scoring request plus what the pipeline needs after scoring
type BuiltRequest struct {
	Request         *domain.AnalysisRequest
	Product         ProductContext
	ImageData       []byte
	DaysUntilExpiry int
}

// RequestBuilder assembles scoring requests. The clock and the generator for
// simulated dates are injected.
type RequestBuilder struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewRequestBuilder creates a builder. nil arguments fall back to a fixed
// seed and the wall clock.
func NewRequestBuilder(rng *rand.Rand, now func() time.Time) *RequestBuilder {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if now == nil {
		now = time.Now
	}
	return &RequestBuilder{rng: rng, now: now}
}

// Build validates the inputs and assembles the scoring request. Missing image
// or product name fail before any network call is made.
func (b *RequestBuilder) Build(image string, detection domain.DetectionResult, manual domain.ManualEntry) (*BuiltRequest, error) {
	payload := stripDataURL(image)
	if payload == "" {
		return nil, domain.ErrMissingImage
	}
	data, err := domain.DecodeImage(payload)
	if err != nil {
		return nil, err
	}

	product, err := mergeProduct(detection, manual)
	if err != nil {
		return nil, err
	}
	if product.Name == "" {
		return nil, domain.ErrMissingProductName
	}

	now := b.now()

	var daysSinceHarvest int
	if product.ReceivedDate != nil {
		daysSinceHarvest = max(0, wholeDaysBetween(*product.ReceivedDate, now))
	} else {
		daysSinceHarvest = b.randomDays(minSimulatedHarvestDays, maxSimulatedHarvestDays)
	}

	var daysUntilExpiry int
	if product.ExpiryDate != nil {
		daysUntilExpiry = max(0, wholeDaysBetween(now, *product.ExpiryDate))
	} else {
		daysUntilExpiry = b.randomDays(minSimulatedExpiryDays, maxSimulatedExpiryDays)
	}

	return &BuiltRequest{
		Request: &domain.AnalysisRequest{
			Image:            base64.StdEncoding.EncodeToString(data),
			ProduceType:      product.Name,
			DaysSinceHarvest: daysSinceHarvest,
			StorageCondition: storageCondition(product),
			Observations:     observationNote(product),
		},
		Product:         product,
		ImageData:       data,
		DaysUntilExpiry: daysUntilExpiry,
	}, nil
}

func (b *RequestBuilder) randomDays(lo, hi int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return lo + b.rng.Intn(hi-lo+1)
}

// mergeProduct layers the manual entry over the identified item. The
// identified name wins; every other non-empty manual field overrides.
func mergeProduct(detection domain.DetectionResult, manual domain.ManualEntry) (ProductContext, error) {
	var p ProductContext
	p.Keywords = detection.Keywords

	if item := detection.Identified; item != nil {
		p.Name = item.Name
		p.SKU = item.SKU
		p.Category = item.Category
		qty := item.Quantity
		p.Quantity = &qty
		p.Location = item.Location
		p.Supplier = item.Supplier
		if item.OriginalPrice > 0 {
			price := item.OriginalPrice
			p.OriginalPrice = &price
		}
		if !item.ReceivedDate.IsZero() {
			received := item.ReceivedDate
			p.ReceivedDate = &received
		}
		if !item.ExpiryDate.IsZero() {
			expiry := item.ExpiryDate
			p.ExpiryDate = &expiry
		}
	}

	if p.Name == "" {
		p.Name = strings.TrimSpace(manual.ProductName)
	}
	if s := strings.TrimSpace(manual.SKU); s != "" {
		p.SKU = s
	}
	if manual.Category != "" {
		p.Category = manual.Category
	}
	if manual.Quantity != nil {
		qty := *manual.Quantity
		p.Quantity = &qty
	}
	if s := strings.TrimSpace(manual.Location); s != "" {
		p.Location = s
	}
	if s := strings.TrimSpace(manual.Supplier); s != "" {
		p.Supplier = s
	}
	if manual.OriginalPrice != nil {
		price := *manual.OriginalPrice
		p.OriginalPrice = &price
	}

	received, err := parseDate("receivedDate", manual.ReceivedDate)
	if err != nil {
		return p, err
	}
	if received != nil {
		p.ReceivedDate = received
	}
	expiry, err := parseDate("expiryDate", manual.ExpiryDate)
	if err != nil {
		return p, err
	}
	if expiry != nil {
		p.ExpiryDate = expiry
	}

	p.Observations = strings.TrimSpace(manual.Observations)
	p.StorageCondition = strings.TrimSpace(manual.StorageCondition)
	return p, nil
}

func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a YYYY-MM-DD date", domain.ErrInvalidRequest, field, value)
	}
	return &t, nil
}

// storageCondition infers the storage vocabulary entry from category and location
func storageCondition(p ProductContext) string {
	if domain.IsValidStorageCondition(p.StorageCondition) {
		return p.StorageCondition
	}

	location := strings.ToLower(p.Location)
	if p.Category == domain.CategoryDairy || containsAny(location, refrigeratedHints) {
		return domain.StorageRefrigerated
	}
	if containsAny(location, frozenHints) {
		return domain.StorageFrozen
	}
	return domain.StorageRoomTemperature
}

// observationNote prefers the manual note, then a summary of the known fields
func observationNote(p ProductContext) string {
	if p.Observations != "" {
		return p.Observations
	}

	var segments []string
	if len(p.Keywords) > 0 {
		segments = append(segments, "Detected keywords: "+strings.Join(p.Keywords, ", "))
	}
	if p.Quantity != nil {
		segments = append(segments, fmt.Sprintf("Qty %d", *p.Quantity))
	}
	if p.Location != "" {
		segments = append(segments, "Location: "+p.Location)
	}
	if p.Supplier != "" {
		segments = append(segments, "Supplier: "+p.Supplier)
	}
	if p.ExpiryDate != nil {
		segments = append(segments, "Expiry: "+p.ExpiryDate.Format(dateLayout))
	}

	if len(segments) == 0 {
		return noObservations
	}
	return strings.Join(segments, " | ")
}

// stripDataURL returns the base64 payload of a data URL, or s itself
func stripDataURL(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
		return ""
	}
	return s
}

func wholeDaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
