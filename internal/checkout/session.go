package checkout

import (
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/ghostshop/internal/clock"
	"github.com/nikolayk812/ghostshop/internal/domain"
)

type Step string

const (
	StepShipping   Step = "shipping"
	StepPayment    Step = "payment"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
)

func (s Step) String() string {
	return string(s)
}

var (
	ErrNoSession         = errors.New("checkout session is not open")
	ErrInvalidTransition = errors.New("invalid checkout transition")
	ErrUnknownCrypto     = errors.New("unknown crypto")
)

// ShippingInfo is stored exactly as entered.
type ShippingInfo struct {
	Name    string
	Address string
	City    string
	Zip     string
	Country string
}

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	ID       uuid.UUID
	Step     Step
	Shipping ShippingInfo
	Crypto   domain.Crypto
	Log      []string
	OrderID  string
}

type session struct {
	id       uuid.UUID
	gen      uint64
	step     Step
	shipping ShippingInfo
	crypto   domain.Crypto
	log      []string
	orderID  string
	timer    clock.Timer
}

func newSession(gen uint64) *session {
	return &session{
		id:     uuid.New(),
		gen:    gen,
		step:   StepShipping,
		crypto: domain.CryptoBTC,
	}
}

func (s *session) snapshot() Snapshot {
	return Snapshot{
		ID:       s.id,
		Step:     s.step,
		Shipping: s.shipping,
		Crypto:   s.crypto,
		Log:      slices.Clone(s.log),
		OrderID:  s.orderID,
	}
}

func (s *session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
