// Package catalog provides the static, localized product and bundle lists.
package catalog

import (
	"slices"
	"strings"

	"github.com/nikolayk812/ghostshop/internal/domain"
	"golang.org/x/text/language"
)

type locale int

const (
	localeIT locale = iota
	localeEN
)

// Supported lists the catalog languages; the first one is the fallback.
var Supported = []language.Tag{language.Italian, language.English}

var matcher = language.NewMatcher(Supported)

func localeFor(tag language.Tag) locale {
	_, index, _ := matcher.Match(tag)
	return locale(index)
}

// ParseLanguage accepts a BCP 47 tag or an Accept-Language header value.
func ParseLanguage(s string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return Supported[0]
	}
	return Supported[localeFor(tags[0])]
}

func Products(lang language.Tag) []domain.Product {
	loc := localeFor(lang)

	products := make([]domain.Product, 0, len(productBases))
	for _, base := range productBases {
		products = append(products, buildProduct(base, productTexts[loc][base.id]))
	}
	return products
}

func Bundles(lang language.Tag) []domain.Bundle {
	loc := localeFor(lang)

	bundles := make([]domain.Bundle, 0, len(bundleBases))
	for _, base := range bundleBases {
		bundles = append(bundles, buildBundle(base, bundleTexts[loc][base.id]))
	}
	return bundles
}

func Product(lang language.Tag, id string) (domain.Product, bool) {
	i := slices.IndexFunc(productBases, func(b productBase) bool { return b.id == id })
	if i < 0 {
		return domain.Product{}, false
	}
	return buildProduct(productBases[i], productTexts[localeFor(lang)][id]), true
}

func Bundle(lang language.Tag, id string) (domain.Bundle, bool) {
	i := slices.IndexFunc(bundleBases, func(b bundleBase) bool { return b.id == id })
	if i < 0 {
		return domain.Bundle{}, false
	}
	return buildBundle(bundleBases[i], bundleTexts[localeFor(lang)][id]), true
}

// Entity looks an id up among products first, then bundles.
func Entity(lang language.Tag, id string) (domain.CatalogEntity, bool) {
	if p, ok := Product(lang, id); ok {
		return p, true
	}
	if b, ok := Bundle(lang, id); ok {
		return b, true
	}
	return nil, false
}

// BundleItem is one line of a bundle's contents, resolved for display.
type BundleItem struct {
	Name      string
	ProductID string
	Image     string
}

// BundleItems resolves each bundle item to a product through the explicit
// ProductIDs mapping and falls back to name matching when no id is given.
func BundleItems(lang language.Tag, bundle domain.Bundle) []BundleItem {
	products := Products(lang)

	items := make([]BundleItem, 0, len(bundle.Items))
	for i, name := range bundle.Items {
		item := BundleItem{Name: name, Image: domain.BundleFallbackImage}

		var (
			p  domain.Product
			ok bool
		)
		if i < len(bundle.ProductIDs) && bundle.ProductIDs[i] != "" {
			p, ok = Product(lang, bundle.ProductIDs[i])
		} else {
			p, ok = MatchProductByName(products, name)
		}
		if ok {
			item.ProductID = p.ID
			item.Image = p.Image
		}

		items = append(items, item)
	}
	return items
}

// MatchProductByName returns the first product whose name contains name or is
// contained by it, case-insensitively. Ambiguous for overlapping names such as
// "Pixel Stealth" and "Pixel Stealth Pro"; prefer explicit ids.
func MatchProductByName(products []domain.Product, name string) (domain.Product, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return domain.Product{}, false
	}

	for _, p := range products {
		candidate := strings.ToLower(p.Name)
		if strings.Contains(needle, candidate) || strings.Contains(candidate, needle) {
			return p, true
		}
	}
	return domain.Product{}, false
}

func buildProduct(base productBase, text productText) domain.Product {
	return domain.Product{
		ID:          base.id,
		Name:        text.name,
		Description: text.description,
		Price:       base.price,
		Icon:        base.icon,
		Image:       base.image,
		Specs:       slices.Clone(text.specs),
	}
}

func buildBundle(base bundleBase, text bundleText) domain.Bundle {
	return domain.Bundle{
		ID:             base.id,
		Tier:           base.tier,
		Name:           text.name,
		Tagline:        text.tagline,
		Price:          base.price,
		Features:       slices.Clone(text.features),
		RecommendedFor: text.recommendedFor,
		Items:          slices.Clone(text.items),
		ProductIDs:     slices.Clone(base.productIDs),
	}
}
