package contract

import (
	"encoding/binary"
	"errors"

	"github.com/Cherrypick14/polkadot-hot-potato/sdk"
)

// ---------- Types & Constants ----------

// Storage keys. Config is written once at deployment; game state is
// rewritten on every successful transition.
const (
	metaKey  = "hp_meta"
	stateKey = "hp_state"
)

// codecVersion increments when the storage encoding changes.
// Used to detect incompatible on-chain state.
const codecVersion uint8 = 1

// maxIdentityLen is the longest identity the codec can store; addresses
// are written with a u16 length prefix. Operations reject anything longer
// before mutating state, so an encode can never truncate.
const maxIdentityLen = 65535

// Config is the immutable deployment configuration.
//
// Fields:
//   - DeadlineBlocks: blocks a holder may keep the potato before becoming
//     eliminable; fixed at deployment, always > 0
//   - AllowSelfPass: whether the holder may pass the potato to themselves
//   - DeployedAt: block height the contract was initialized at
type Config struct {
	DeadlineBlocks uint64
	AllowSelfPass  bool
	DeployedAt     uint64
}

// Game contains the mutable game state used at runtime and persisted via
// binary codec. Holder is set exactly when Active is true; Starter is set
// by the first StartGame and survives eliminations and manual resets so it
// stays inspectable until the next start overwrites it.
type Game struct {
	Active         bool
	Holder         *sdk.Address
	Starter        *sdk.Address
	LastTransferAt uint64 // block height of the most recent start or pass
}

// ---------- Binary State Codec (v1) ----------

// encodeConfig serializes the deployment config.
//
// Layout: version | DeadlineBlocks | AllowSelfPass | DeployedAt
func encodeConfig(cfg *Config) []byte {
	out := make([]byte, 0, 18)
	out = append(out, codecVersion)
	out = appendBEU64(out, cfg.DeadlineBlocks)
	if cfg.AllowSelfPass {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = appendBEU64(out, cfg.DeployedAt)
	return out
}

func decodeConfig(b []byte) (*Config, error) {
	r := &rd{b: b}
	if r.u8() != codecVersion {
		return nil, errors.New("unsupported config codec version")
	}
	cfg := &Config{}
	cfg.DeadlineBlocks = r.u64()
	cfg.AllowSelfPass = r.u8() == 1
	cfg.DeployedAt = r.u64()
	if err := r.mustEnd(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// encodeGame serializes the mutable game state.
//
// Layout: version | Active | Holder? | Starter? | LastTransferAt
//
// Optional addresses are stored as a flag byte followed by a
// u16-length-prefixed string when present.
func encodeGame(g *Game) []byte {
	out := make([]byte, 0, 16+optLen(g.Holder)+optLen(g.Starter))
	out = append(out, codecVersion)
	if g.Active {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = appendOptAddress(out, g.Holder)
	out = appendOptAddress(out, g.Starter)
	out = appendBEU64(out, g.LastTransferAt)
	return out
}

// decodeGame reconstructs a *Game from stored bytes, ensuring no trailing
// bytes remain.
func decodeGame(b []byte) (*Game, error) {
	r := &rd{b: b}
	if r.u8() != codecVersion {
		return nil, errors.New("unsupported state codec version")
	}
	g := &Game{}
	g.Active = r.u8() == 1
	g.Holder = r.optAddress()
	g.Starter = r.optAddress()
	g.LastTransferAt = r.u64()
	if err := r.mustEnd(); err != nil {
		return nil, err
	}
	if g.Active && g.Holder == nil {
		return nil, errors.New("stored state violates holder invariant")
	}
	return g, nil
}

func optLen(a *sdk.Address) int {
	if a == nil {
		return 1
	}
	return 3 + len(*a)
}

func appendOptAddress(out []byte, a *sdk.Address) []byte {
	if a == nil {
		return append(out, 0)
	}
	out = append(out, 1)
	return appendString16(out, string(*a))
}

func appendString16(out []byte, s string) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(len(s)))
	out = append(out, tmp[:]...)
	return append(out, s...)
}

func appendBEU64(out []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(out, tmp[:]...)
}

// rd is a binary reader utility over a byte slice, providing big-endian
// integer reads with bounds checks. The first short read latches an error;
// subsequent reads return zero values and mustEnd reports the failure.
type rd struct {
	b   []byte // raw buffer
	i   int    // current read index
	err error
}

// need ensures that n bytes are available from the current position.
func (r *rd) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.i+n > len(r.b) {
		r.err = errors.New("decode overflow")
		return false
	}
	return true
}

// u8 reads one byte.
func (r *rd) u8() byte {
	if !r.need(1) {
		return 0
	}
	v := r.b[r.i]
	r.i++
	return v
}

// u16 reads a uint16 in big-endian format.
func (r *rd) u16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.b[r.i : r.i+2])
	r.i += 2
	return v
}

// u64 reads a uint64 in big-endian format.
func (r *rd) u64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.BigEndian.Uint64(r.b[r.i : r.i+8])
	r.i += 8
	return v
}

// str reads a length-prefixed string (2-byte length).
func (r *rd) str() string {
	l := int(r.u16())
	if !r.need(l) {
		return ""
	}
	v := string(r.b[r.i : r.i+l])
	r.i += l
	return v
}

// optAddress reads a flag byte and, when set, an address string.
func (r *rd) optAddress() *sdk.Address {
	if r.u8() != 1 {
		return nil
	}
	a := sdk.Address(r.str())
	return &a
}

// mustEnd verifies that the reader consumed all bytes exactly.
func (r *rd) mustEnd() error {
	if r.err != nil {
		return r.err
	}
	if r.i != len(r.b) {
		return errors.New("trailing bytes")
	}
	return nil
}

// ---------- Load / Save ----------

// loadConfig reads the deployment config. A missing record means the
// contract was never initialized (domain error); a corrupt record is a
// host persistence fault.
func loadConfig(host sdk.Host) (*Config, error) {
	val, err := host.StateGet(metaKey)
	if err != nil {
		return nil, hostFault("state.get", err)
	}
	if val == nil || *val == "" {
		return nil, newError(CodeNotInitialized, "contract not initialized")
	}
	cfg, err := decodeConfig([]byte(*val))
	if err != nil {
		return nil, hostFault("state.decode", err)
	}
	return cfg, nil
}

// loadGame reads the mutable game state. Absence of a record is normal
// before the first start; it decodes to the inactive baseline.
func loadGame(host sdk.Host) (*Game, error) {
	val, err := host.StateGet(stateKey)
	if err != nil {
		return nil, hostFault("state.get", err)
	}
	if val == nil || *val == "" {
		return &Game{}, nil
	}
	g, err := decodeGame([]byte(*val))
	if err != nil {
		return nil, hostFault("state.decode", err)
	}
	return g, nil
}

func saveConfig(host sdk.Host, cfg *Config) error {
	if err := host.StateSet(metaKey, string(encodeConfig(cfg))); err != nil {
		return hostFault("state.set", err)
	}
	return nil
}

func saveGame(host sdk.Host, g *Game) error {
	if err := host.StateSet(stateKey, string(encodeGame(g))); err != nil {
		return hostFault("state.set", err)
	}
	return nil
}
