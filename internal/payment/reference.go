package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Alphabet for manual reference codes. Upper-case, with 0/O/1/I dropped so
// a payer can read the code aloud or type it back without ambiguity.
const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewSessionID builds the opaque session key: method tag plus a random
// component, so ids never collide across methods.
func NewSessionID(m Method) string {
	tag := strings.ToLower(strings.ReplaceAll(string(m), "_", "-"))
	return fmt.Sprintf("ps-%s-%s", tag, uuid.NewString())
}

// NewReference produces the human-presentable code for a manual method.
// Generation never fails: if crypto/rand is unavailable it falls back to
// time-based entropy. Collisions are the caller's concern (detect via the
// store and regenerate).
func NewReference(m Method) string {
	switch m {
	case MethodWalletTransfer:
		return "WT-" + randomCode(8)
	case MethodEWallet:
		return "EW-" + randomCode(8)
	case MethodBankTransfer:
		// Bank references embed the timestamp for bank-statement matching;
		// the millisecond and random parts keep same-day codes distinct.
		now := time.Now().UTC()
		millis := now.Nanosecond() / int(time.Millisecond)
		return fmt.Sprintf("BT-%s-%03d-%04d", now.Format("20060102-150405"), millis, randomInt(10000))
	default:
		return "PY-" + randomCode(8)
	}
}

func randomCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(referenceAlphabet)))

	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// fallback: time-based entropy
			idx = big.NewInt(time.Now().UnixNano() % int64(len(referenceAlphabet)))
		}
		b[i] = referenceAlphabet[idx.Int64()]
	}

	return string(b)
}

func randomInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return time.Now().UnixNano() % max
	}
	return n.Int64()
}
