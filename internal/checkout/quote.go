package checkout

import (
	"github.com/nikolayk812/ghostshop/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultWallets are test addresses; nothing is ever sent to them.
var DefaultWallets = map[domain.Crypto]string{
	domain.CryptoBTC: "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
	domain.CryptoXMR: "44AFFq5kSiGBoZ4NMDwYtN18obc8AemS33DBLWs3H7otXft3XjrpDtQGv7SqSsaBYBb98uNbr2VBBEt7f2wfn3RVGQBEP3A",
}

// Quote is what the payment step displays for one crypto.
type Quote struct {
	Crypto  domain.Crypto
	Total   domain.Money
	Rate    decimal.Decimal
	Amount  decimal.Decimal
	Address string
}

// Formatted renders Amount with the crypto's fixed precision, e.g. "0.002000".
func (q Quote) Formatted() string {
	return q.Amount.StringFixed(q.Crypto.Precision())
}

// PaymentURI is the payload a QR code for this quote would carry.
func (q Quote) PaymentURI() string {
	scheme := "bitcoin"
	if q.Crypto == domain.CryptoXMR {
		scheme = "monero"
	}
	return scheme + ":" + q.Address + "?amount=" + q.Formatted()
}

// NewQuote divides total by rate. An unknown (zero or negative) rate yields a zero amount.
func NewQuote(total domain.Money, rates domain.Rates, crypto domain.Crypto, address string) Quote {
	rate := rates.For(crypto)
	amount := decimal.Zero
	if rate.IsPositive() {
		amount = total.Amount.DivRound(rate, crypto.Precision())
	}

	return Quote{
		Crypto:  crypto,
		Total:   total,
		Rate:    rate,
		Amount:  amount,
		Address: address,
	}
}
