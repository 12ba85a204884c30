// Package sdk defines the narrow surface a hosting ledger exposes to the
// hot potato contract: caller identity, the block counter, and a string
// keyed state store. The contract never reaches past this interface, so
// any host (chain simulator, test fake, real ledger binding) can run it.
package sdk

// Address identifies a participant on the hosting chain.
type Address string

func (a Address) String() string { return string(a) }

// Env is the per-call environment supplied by the host: who sent the
// transaction, at which block height it executes, and its transaction id.
type Env struct {
	Sender      Address
	BlockHeight uint64
	TxId        string
}

// Host is the read/write surface the contract operates against. Every
// method that touches host infrastructure can fail; those failures are
// infrastructure faults, distinct from the contract's own domain errors.
//
// StateGet returns nil (and no error) when the key has never been written.
type Host interface {
	GetEnv() (Env, error)
	StateGet(key string) (*string, error)
	StateSet(key, value string) error
	Log(msg string)
}
