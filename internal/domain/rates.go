package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Crypto string

const (
	CryptoBTC Crypto = "BTC"
	CryptoXMR Crypto = "XMR"
)

var Cryptos = []Crypto{CryptoBTC, CryptoXMR}

func ParseCrypto(s string) (Crypto, error) {
	c := Crypto(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("crypto[%s] is not supported", s)
	}
	return c, nil
}

func (c Crypto) Valid() bool {
	return c == CryptoBTC || c == CryptoXMR
}

// Precision is the number of decimals a payment amount is shown with.
func (c Crypto) Precision() int32 {
	if c == CryptoXMR {
		return 4
	}
	return 6
}

// Rates holds fiat quotes per coin. A zero value means the rate is unknown.
type Rates struct {
	BTC       decimal.Decimal
	XMR       decimal.Decimal
	UpdatedAt time.Time
}

func (r Rates) For(c Crypto) decimal.Decimal {
	switch c {
	case CryptoBTC:
		return r.BTC
	case CryptoXMR:
		return r.XMR
	default:
		return decimal.Zero
	}
}

func (r Rates) Known() bool {
	return r.BTC.IsPositive() || r.XMR.IsPositive()
}

// Merge takes every positive quote from next and keeps r's value otherwise.
func (r Rates) Merge(next Rates) Rates {
	merged := r
	if next.BTC.IsPositive() {
		merged.BTC = next.BTC
	}
	if next.XMR.IsPositive() {
		merged.XMR = next.XMR
	}
	if !next.UpdatedAt.IsZero() {
		merged.UpdatedAt = next.UpdatedAt
	}
	return merged
}
