// Package seed loads the initial rack catalogue into a place repository.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/rack-rental/internal/domains/inventory/domain"
	"github.com/Apurer/rack-rental/internal/domains/inventory/ports"
)

type catalogue struct {
	Places []placeEntry `yaml:"places"`
}

type placeEntry struct {
	ID          string `yaml:"id"`
	Section     string `yaml:"section"`
	Number      int    `yaml:"number"`
	Type        string `yaml:"type"`
	Status      string `yaml:"status"`
	PricePerDay string `yaml:"pricePerDay"`
	Dimensions  struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
		Depth  int `yaml:"depth"`
	} `yaml:"dimensions"`
	TenantID string `yaml:"tenantId"`
	OrderID  string `yaml:"orderId"`
}

// DefaultCatalogue is the sample warehouse used when no seed file is configured.
const DefaultCatalogue = `
places:
  - {id: r101, section: A, number: 101, type: STANDARD, status: OCCUPIED, pricePerDay: "50.00", dimensions: {width: 200, height: 300, depth: 100}, tenantId: u001}
  - {id: r102, section: A, number: 102, type: STANDARD, status: FREE, pricePerDay: "50.00", dimensions: {width: 200, height: 300, depth: 100}}
  - {id: r201, number: 201, type: REFRIGERATED, status: FREE, pricePerDay: "120.50", dimensions: {width: 250, height: 250, depth: 150}}
  - {id: r202, number: 202, type: REFRIGERATED, status: FREE, pricePerDay: "120.50", dimensions: {width: 250, height: 250, depth: 150}}
  - {id: r301, section: B, number: 301, type: SECURE, status: FREE, pricePerDay: "200.00", dimensions: {width: 300, height: 300, depth: 200}}
`

// Parse decodes a YAML catalogue into validated places.
func Parse(data []byte) ([]*domain.Place, error) {
	var doc catalogue
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode place catalogue: %w", err)
	}
	places := make([]*domain.Place, 0, len(doc.Places))
	for i, entry := range doc.Places {
		place, err := entry.toDomain()
		if err != nil {
			return nil, fmt.Errorf("place %d (%s): %w", i, entry.ID, err)
		}
		places = append(places, place)
	}
	return places, nil
}

// LoadFile parses the catalogue at path, or DefaultCatalogue when path is empty.
func LoadFile(path string) ([]*domain.Place, error) {
	if path == "" {
		return Parse([]byte(DefaultCatalogue))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read place catalogue: %w", err)
	}
	return Parse(data)
}

// Apply stores places only when the repository holds none, so restarts keep live occupancy.
func Apply(ctx context.Context, repo ports.Repository, places []*domain.Place) (int, error) {
	existing, err := repo.List(ctx, ports.Filter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, place := range places {
		if _, err := repo.Save(ctx, place); err != nil {
			return 0, fmt.Errorf("seed place %s: %w", place.ID, err)
		}
	}
	return len(places), nil
}

func (e placeEntry) toDomain() (*domain.Place, error) {
	placeType, err := domain.ParseType(e.Type)
	if err != nil {
		return nil, err
	}
	status := domain.Status(e.Status)
	if status == "" {
		status = domain.StatusFree
	}
	price := decimal.Zero
	if e.PricePerDay != "" {
		if price, err = decimal.NewFromString(e.PricePerDay); err != nil {
			return nil, fmt.Errorf("price per day: %w", err)
		}
	}
	place := &domain.Place{
		ID:          e.ID,
		SectionCode: e.Section,
		Number:      e.Number,
		Type:        placeType,
		Status:      status,
		PricePerDay: price,
		Dimensions: domain.Dimensions{
			Width:  e.Dimensions.Width,
			Height: e.Dimensions.Height,
			Depth:  e.Dimensions.Depth,
		},
		TenantID: e.TenantID,
		OrderID:  e.OrderID,
	}
	if err := place.Validate(); err != nil {
		return nil, err
	}
	return place, nil
}
