package cart

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/ghostshop/internal/domain"
	"github.com/shopspring/decimal"
)

// snapshotItem is the persisted shape of a cart line: {id, name, price, image, quantity, type}.
type snapshotItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    json.Number     `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	Type     domain.ItemType `json:"type"`
}

func encodeSnapshot(items []domain.CartItem) ([]byte, error) {
	records := make([]snapshotItem, 0, len(items))
	for _, item := range items {
		records = append(records, snapshotItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    json.Number(item.Price.Amount.String()),
			Image:    item.Image,
			Quantity: item.Quantity,
			Type:     item.Type,
		})
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return raw, nil
}

// decodeSnapshot rejects the whole snapshot if any record breaks a cart invariant.
func decodeSnapshot(raw []byte) ([]domain.CartItem, error) {
	var records []snapshotItem
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	items := make([]domain.CartItem, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, record := range records {
		item, err := mapSnapshotItemToDomain(record)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}

		if _, ok := seen[item.ID]; ok {
			return nil, fmt.Errorf("item[%d]: id[%s] is duplicated", i, item.ID)
		}
		seen[item.ID] = struct{}{}

		items = append(items, item)
	}

	return items, nil
}

func mapSnapshotItemToDomain(record snapshotItem) (domain.CartItem, error) {
	if record.ID == "" {
		return domain.CartItem{}, fmt.Errorf("id is empty")
	}
	if record.Quantity < 1 {
		return domain.CartItem{}, fmt.Errorf("quantity[%d] is not valid", record.Quantity)
	}
	if !record.Type.Valid() {
		return domain.CartItem{}, fmt.Errorf("type[%s] is not valid", record.Type)
	}

	price, err := decimal.NewFromString(record.Price.String())
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("price[%s] is not valid: %w", record.Price, err)
	}
	if price.IsNegative() {
		return domain.CartItem{}, fmt.Errorf("price[%s] is negative", record.Price)
	}

	return domain.CartItem{
		ID:       record.ID,
		Name:     record.Name,
		Price:    domain.EUR(price),
		Image:    record.Image,
		Quantity: record.Quantity,
		Type:     record.Type,
	}, nil
}
