package eurocrypt

import (
	"math/rand"
	"sync"
	"time"
)

// Parity identifies which control word slot an ECM operation targets.
type Parity int

const (
	ParityOdd Parity = iota
	ParityEven
)

// offsets into the 42-byte ECM template, per the wire layout in
// spec §6.3.
const (
	offsetEvenCW = 16
	offsetOddCW  = 24
	offsetHash   = 34
	hashStart    = 5
	hashLen      = 27
)

// Context holds one channel's key and live ECM state: the 42-byte
// packet buffer and the two decoded control words it currently
// publishes. A Context is safe for concurrent use; GenerateECM and
// ECM/DecodedEvenCW/DecodedOddCW all take the same lock.
type Context struct {
	mu sync.Mutex

	key  [7]byte
	data [42]byte

	decodedEvenCW [8]byte
	decodedOddCW  [8]byte

	rng *rand.Rand
}

// NewContext creates an ECM context from a channel preset and
// generates both parities' initial control words, matching hacktv's
// eurocrypt_init: the odd CW is regenerated first, then the even CW.
// The PRNG seed is drawn fresh here rather than at process start, the
// same moment hacktv itself reseeds via srand(time(NULL)).
func NewContext(preset Preset) *Context {
	c := &Context{
		key:  preset.Key,
		data: preset.Template,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	c.GenerateECM(ParityOdd)
	c.GenerateECM(ParityEven)
	return c
}

// GenerateECM draws fresh random bytes for the requested parity's
// encrypted control word, decrypts both control word slots under the
// context's key, recomputes the 27-byte hash schedule over ECM bytes
// 5..31, and writes the result into the hash field at bytes 34..42.
func (c *Context) GenerateECM(parity Parity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offset := offsetOddCW
	if parity == ParityEven {
		offset = offsetEvenCW
	}
	for j := 0; j < 8; j++ {
		c.data[offset+j] = byte(c.rng.Intn(256))
	}

	var evenIn, oddIn [8]byte
	copy(evenIn[:], c.data[offsetEvenCW:offsetEvenCW+8])
	copy(oddIn[:], c.data[offsetOddCW:offsetOddCW+8])
	c.decodedEvenCW = transform(evenIn, c.key, ModeECM)
	c.decodedOddCW = transform(oddIn, c.key, ModeECM)

	var hash [8]byte
	for j := 0; j < hashLen; j++ {
		hash[j%8] ^= c.data[hashStart+j]
		if j%8 == 7 {
			hash = transform(hash, c.key, ModeHash)
		}
	}
	hash = transform(hash, c.key, ModeHash)

	copy(c.data[offsetHash:offsetHash+8], hash[:])
}

// ECM returns a copy of the current 42-byte ECM packet.
func (c *Context) ECM() [42]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// DecodedEvenCW returns the currently decoded even control word.
func (c *Context) DecodedEvenCW() [8]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decodedEvenCW
}

// DecodedOddCW returns the currently decoded odd control word.
func (c *Context) DecodedOddCW() [8]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decodedOddCW
}

// Key returns the context's 7-byte channel key.
func (c *Context) Key() [7]byte {
	return c.key
}
