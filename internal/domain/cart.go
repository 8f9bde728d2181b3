package domain

import "github.com/shopspring/decimal"

type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeBundle  ItemType = "bundle"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeProduct || t == ItemTypeBundle
}

type Cart struct {
	Items []CartItem
}

// CartItem is keyed by the catalog id of the product or bundle it was created from.
type CartItem struct {
	ID       string
	Name     string
	Price    Money
	Image    string
	Quantity int
	Type     ItemType
}

func (i CartItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}

func (c Cart) Count() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c Cart) Total() Money {
	total := EUR(decimal.Zero)
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (c Cart) Find(id string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CartItem{}, false
}
