package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nikolayk812/ghostshop/internal/catalog"
	"github.com/nikolayk812/ghostshop/internal/checkout"
	"github.com/nikolayk812/ghostshop/internal/domain"
	"golang.org/x/text/language"
)

var demoShipping = checkout.ShippingInfo{
	Name:    "Neo Anderson",
	Address: "Via Nascosta 1",
	City:    "Milano",
	Zip:     "20100",
	Country: "IT",
}

// Demo adds the cheapest bundle and one product to the cart, then walks a
// checkout from shipping to success and prints every step to out.
func (a *App) Demo(ctx context.Context, lang language.Tag, out io.Writer) error {
	if err := a.Poller.Refresh(ctx); err != nil {
		fmt.Fprintf(out, "rates unavailable: %v\n", err)
	}

	bundles := catalog.Bundles(lang)
	products := catalog.Products(lang)
	if len(bundles) == 0 || len(products) == 0 {
		return errors.New("catalog is empty")
	}

	a.Cart.AddItem(ctx, bundles[0])
	for _, item := range catalog.BundleItems(lang, bundles[0]) {
		fmt.Fprintf(out, "  bundle item: %s (%s)\n", item.Name, item.ProductID)
	}
	a.Cart.AddItem(ctx, products[len(products)-1])
	a.Cart.UpdateQuantity(ctx, products[len(products)-1].ID, 1)

	for _, item := range a.Cart.Items() {
		fmt.Fprintf(out, "cart: %dx %s %s\n", item.Quantity, item.Name, item.Subtotal())
	}
	fmt.Fprintf(out, "total: %s (%d items)\n", a.Cart.Total(), a.Cart.Count())

	updates := make(chan checkout.Snapshot, 32)
	a.Checkout.Subscribe(func(s checkout.Snapshot) {
		select {
		case updates <- s:
		default:
		}
	})

	a.Checkout.Open(ctx)
	if err := a.Checkout.UpdateShipping(demoShipping); err != nil {
		return fmt.Errorf("a.Checkout.UpdateShipping: %w", err)
	}
	if err := a.Checkout.Continue(); err != nil {
		return fmt.Errorf("a.Checkout.Continue: %w", err)
	}

	quotes, err := a.Checkout.Quotes()
	if err != nil {
		return fmt.Errorf("a.Checkout.Quotes: %w", err)
	}
	for _, c := range domain.Cryptos {
		q := quotes[c]
		fmt.Fprintf(out, "pay %s %s to %s\n", q.Formatted(), c, q.Address)
	}

	if err := a.Checkout.ConfirmSent(ctx); err != nil {
		return fmt.Errorf("a.Checkout.ConfirmSent: %w", err)
	}

	printed := 0
	for {
		if err := ctx.Err(); err != nil {
			a.Checkout.Close()
			return err
		}

		select {
		case <-ctx.Done():
		case snap := <-updates:
			for _, line := range snap.Log[min(printed, len(snap.Log)):] {
				fmt.Fprintf(out, "> %s\n", line)
			}
			printed = max(printed, len(snap.Log))

			if snap.Step != checkout.StepSuccess {
				continue
			}

			if err := a.Checkout.Acknowledge(ctx); err != nil {
				return fmt.Errorf("a.Checkout.Acknowledge: %w", err)
			}
			fmt.Fprintf(out, "order %s confirmed, cart empty: %t\n", snap.OrderID, a.Cart.IsEmpty())
			return nil
		}
	}
}
