package checkout

import (
	"fmt"
	"iter"

	"github.com/nikolayk812/ghostshop/internal/domain"
)

const confirmationsRequired = 3

// Sequence is the scripted verification log shown while a payment is "processing".
// Messages are built on demand and the sequence can be iterated any number of times.
type Sequence struct {
	amount string
	crypto domain.Crypto
}

func NewSequence(amount string, crypto domain.Crypto) Sequence {
	return Sequence{amount: amount, crypto: crypto}
}

func (s Sequence) Len() int {
	return 7 + confirmationsRequired
}

// Message returns the i-th message, or false once the sequence is exhausted.
func (s Sequence) Message(i int) (string, bool) {
	switch {
	case i < 0 || i >= s.Len():
		return "", false
	case i == 0:
		return "INITIATING_BLOCKCHAIN_SCAN...", true
	case i == 1:
		return fmt.Sprintf("SEARCHING_MEMPOOL FOR %s %s...", s.amount, s.crypto), true
	case i == 2:
		return "TRANSACTION_DETECTED [TXID: 8f3...a1b]", true
	case i == 3:
		return "VERIFYING_SIGNATURE...", true
	case i < 4+confirmationsRequired:
		n := i - 3
		if n == confirmationsRequired {
			return fmt.Sprintf("BLOCK_CONFIRMATION: %d/%d [CONFIRMED]", n, confirmationsRequired), true
		}
		return fmt.Sprintf("BLOCK_CONFIRMATION: %d/%d", n, confirmationsRequired), true
	case i == 4+confirmationsRequired:
		return "GENERATING_ONE_TIME_PAD...", true
	case i == 5+confirmationsRequired:
		return "ORDER_ENCRYPTED.", true
	default:
		return "PAYMENT_VERIFIED.", true
	}
}

func (s Sequence) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; ; i++ {
			msg, ok := s.Message(i)
			if !ok || !yield(msg) {
				return
			}
		}
	}
}
