package usecase

import (
	"encoding/base64"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/smartsave/freshness/internal/domain"
)

var (
	testImageBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	testImage      = base64.StdEncoding.EncodeToString(testImageBytes)
	testNow        = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
)

func newTestBuilder() *RequestBuilder {
	return NewRequestBuilder(rand.New(rand.NewSource(3)), func() time.Time { return testNow })
}

func intPtr(v int) *int {
	return &v
}

func TestRequestBuilderIdentifiedItem(t *testing.T) {
	catalog := testCatalog()
	banana := catalog.items[0]
	detection := domain.DetectionResult{
		Keywords:   []string{"banana", "yellow", "fruit"},
		Confidence: 94,
		Identified: &banana,
	}

	built, err := newTestBuilder().Build(testImage, detection, domain.ManualEntry{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := built.Request
	if req.ProduceType != "Organic Bananas" {
		t.Errorf("ProduceType = %q, want Organic Bananas", req.ProduceType)
	}
	if req.DaysSinceHarvest != 3 {
		t.Errorf("DaysSinceHarvest = %d, want 3", req.DaysSinceHarvest)
	}
	if built.DaysUntilExpiry != 4 {
		t.Errorf("DaysUntilExpiry = %d, want 4", built.DaysUntilExpiry)
	}
	if req.StorageCondition != domain.StorageRoomTemperature {
		t.Errorf("StorageCondition = %q, want Room temperature", req.StorageCondition)
	}
	wantNote := "Detected keywords: banana, yellow, fruit | Qty 120 | Location: Produce Aisle 1 | Supplier: Green Valley Farms | Expiry: 2024-06-15"
	if req.Observations != wantNote {
		t.Errorf("Observations = %q\nwant %q", req.Observations, wantNote)
	}
	if built.Product.OriginalPrice == nil || *built.Product.OriginalPrice != 10.00 {
		t.Errorf("OriginalPrice = %v, want 10.00", built.Product.OriginalPrice)
	}
	if string(built.ImageData) != string(testImageBytes) {
		t.Error("ImageData does not match decoded image")
	}
}

func TestRequestBuilderManualEntry(t *testing.T) {
	t.Run("manual fields override identified item", func(t *testing.T) {
		milk := testCatalog().items[2]
		manual := domain.ManualEntry{
			ProductName:   "ignored when identified",
			OriginalPrice: price(3.25),
			Observations:  "  Carton slightly dented  ",
			ReceivedDate:  "2024-06-09",
		}

		built, err := newTestBuilder().Build(testImage, domain.DetectionResult{Identified: &milk}, manual)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if built.Request.ProduceType != "Whole Milk" {
			t.Errorf("ProduceType = %q, want Whole Milk", built.Request.ProduceType)
		}
		if *built.Product.OriginalPrice != 3.25 {
			t.Errorf("OriginalPrice = %v, want 3.25", *built.Product.OriginalPrice)
		}
		if built.Request.Observations != "Carton slightly dented" {
			t.Errorf("Observations = %q", built.Request.Observations)
		}
		if built.Request.DaysSinceHarvest != 1 {
			t.Errorf("DaysSinceHarvest = %d, want 1", built.Request.DaysSinceHarvest)
		}
		if built.Request.StorageCondition != domain.StorageRefrigerated {
			t.Errorf("StorageCondition = %q, want Refrigerated", built.Request.StorageCondition)
		}
	})

	t.Run("unidentified product uses manual name", func(t *testing.T) {
		manual := domain.ManualEntry{ProductName: "  Kale  ", Quantity: intPtr(12)}
		built, err := newTestBuilder().Build(testImage, domain.DetectionResult{}, manual)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if built.Request.ProduceType != "Kale" {
			t.Errorf("ProduceType = %q, want Kale", built.Request.ProduceType)
		}
		if built.Request.Observations != "Qty 12" {
			t.Errorf("Observations = %q, want Qty 12", built.Request.Observations)
		}
		if built.Product.OriginalPrice != nil {
			t.Errorf("OriginalPrice = %v, want nil", *built.Product.OriginalPrice)
		}
	})

	t.Run("simulated days when dates are unknown", func(t *testing.T) {
		builder := newTestBuilder()
		for i := 0; i < 50; i++ {
			built, err := builder.Build(testImage, domain.DetectionResult{}, domain.ManualEntry{ProductName: "Kale"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d := built.Request.DaysSinceHarvest; d < 1 || d > 5 {
				t.Fatalf("DaysSinceHarvest = %d, want 1-5", d)
			}
			if d := built.DaysUntilExpiry; d < 2 || d > 11 {
				t.Fatalf("DaysUntilExpiry = %d, want 2-11", d)
			}
			if built.Request.Observations != noObservations {
				t.Fatalf("Observations = %q, want default note", built.Request.Observations)
			}
		}
	})

	t.Run("past expiry clamps to zero", func(t *testing.T) {
		manual := domain.ManualEntry{ProductName: "Kale", ExpiryDate: "2024-06-01", ReceivedDate: "2024-07-01"}
		built, err := newTestBuilder().Build(testImage, domain.DetectionResult{}, manual)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if built.DaysUntilExpiry != 0 {
			t.Errorf("DaysUntilExpiry = %d, want 0", built.DaysUntilExpiry)
		}
		if built.Request.DaysSinceHarvest != 0 {
			t.Errorf("DaysSinceHarvest = %d, want 0", built.Request.DaysSinceHarvest)
		}
	})
}

func TestRequestBuilderErrors(t *testing.T) {
	named := domain.ManualEntry{ProductName: "Kale"}

	tests := []struct {
		name    string
		image   string
		manual  domain.ManualEntry
		wantErr error
	}{
		{"missing image", "", named, domain.ErrMissingImage},
		{"blank image", "   ", named, domain.ErrMissingImage},
		{"empty data URL", "data:image/jpeg;base64,", named, domain.ErrMissingImage},
		{"invalid base64", "not base64!!", named, domain.ErrInvalidImage},
		{"missing product name", testImage, domain.ManualEntry{}, domain.ErrMissingProductName},
		{"bad received date", testImage, domain.ManualEntry{ProductName: "Kale", ReceivedDate: "06/01/2024"}, domain.ErrInvalidRequest},
		{"bad expiry date", testImage, domain.ManualEntry{ProductName: "Kale", ExpiryDate: "soon"}, domain.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestBuilder().Build(tt.image, domain.DetectionResult{}, tt.manual)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequestBuilderDataURL(t *testing.T) {
	built, err := newTestBuilder().Build("data:image/jpeg;base64,"+testImage, domain.DetectionResult{}, domain.ManualEntry{ProductName: "Kale"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if built.Request.Image != testImage {
		t.Errorf("Image = %q, want bare base64 payload", built.Request.Image)
	}
}

func TestRequestBuilderLenientBase64(t *testing.T) {
	// testImage is "/9j/4AAQSkZJRg==" when padded
	wrapped := "/9j/4AAQ\nSkZJRg\n"
	built, err := newTestBuilder().Build(wrapped, domain.DetectionResult{}, domain.ManualEntry{ProductName: "Kale"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if built.Request.Image != testImage {
		t.Errorf("Image = %q, want canonical %q", built.Request.Image, testImage)
	}
	if string(built.ImageData) != string(testImageBytes) {
		t.Errorf("ImageData = %v, want %v", built.ImageData, testImageBytes)
	}
}

func TestStorageCondition(t *testing.T) {
	tests := []struct {
		name    string
		product ProductContext
		want    string
	}{
		{"dairy category", ProductContext{Category: domain.CategoryDairy, Location: "Aisle 4"}, domain.StorageRefrigerated},
		{"cooler location", ProductContext{Location: "Produce Cooler"}, domain.StorageRefrigerated},
		{"refrigerated location", ProductContext{Location: "Refrigerated Case 2"}, domain.StorageRefrigerated},
		{"fridge location", ProductContext{Location: "back fridge"}, domain.StorageRefrigerated},
		{"freezer location", ProductContext{Location: "Walk-in Freezer"}, domain.StorageFrozen},
		{"frozen location", ProductContext{Location: "Frozen Foods"}, domain.StorageFrozen},
		{"anything else", ProductContext{Location: "Produce Aisle 1"}, domain.StorageRoomTemperature},
		{"valid override wins", ProductContext{Category: domain.CategoryDairy, StorageCondition: domain.StorageControlledAtmosphere}, domain.StorageControlledAtmosphere},
		{"invalid override ignored", ProductContext{Location: "Freezer", StorageCondition: "chilly"}, domain.StorageFrozen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storageCondition(tt.product); got != tt.want {
				t.Errorf("storageCondition() = %q, want %q", got, tt.want)
			}
		})
	}
}
