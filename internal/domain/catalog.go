package domain

import (
	"fmt"
)

// BundleFallbackImage is shown for bundles, which have no picture of their own.
const BundleFallbackImage = "https://images.unsplash.com/photo-1550751827-4bd374c3f58b?q=80&w=200&auto=format&fit=crop"

type BundleTier string

const (
	TierBase         BundleTier = "BASE"
	TierMedio        BundleTier = "MEDIO"
	TierImprenditore BundleTier = "IMPRENDITORE"
	TierFantasma     BundleTier = "FANTASMA"
)

var tierRanks = map[BundleTier]int{
	TierBase:         1,
	TierMedio:        2,
	TierImprenditore: 3,
	TierFantasma:     4,
}

// Rank orders tiers by intensity; unknown tiers rank 0.
func (t BundleTier) Rank() int {
	return tierRanks[t]
}

func (t BundleTier) Less(other BundleTier) bool {
	return t.Rank() < other.Rank()
}

func ParseBundleTier(s string) (BundleTier, error) {
	t := BundleTier(s)
	if t.Rank() == 0 {
		return "", fmt.Errorf("tier[%s] is not valid", s)
	}
	return t, nil
}

// CatalogEntity is anything that can be put into the cart.
type CatalogEntity interface {
	EntityID() string
	DisplayName() string
	UnitPrice() Money
	CartImage() string
	ItemType() ItemType
}

type Product struct {
	ID          string
	Name        string
	Description string
	Price       Money
	Icon        string
	Image       string
	Specs       []string
}

func (p Product) EntityID() string    { return p.ID }
func (p Product) DisplayName() string { return p.Name }
func (p Product) UnitPrice() Money    { return p.Price }
func (p Product) CartImage() string   { return p.Image }
func (p Product) ItemType() ItemType  { return ItemTypeProduct }

type Bundle struct {
	ID             string
	Tier           BundleTier
	Name           string
	Tagline        string
	Price          Money
	Features       []string
	RecommendedFor string
	// Items are display names; ProductIDs maps them positionally to catalog products.
	Items      []string
	ProductIDs []string
}

func (b Bundle) EntityID() string    { return b.ID }
func (b Bundle) DisplayName() string { return b.Name }
func (b Bundle) UnitPrice() Money    { return b.Price }
func (b Bundle) CartImage() string   { return BundleFallbackImage }
func (b Bundle) ItemType() ItemType  { return ItemTypeBundle }
