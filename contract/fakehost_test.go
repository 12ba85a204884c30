package contract

import (
	"maps"

	"github.com/Cherrypick14/polkadot-hot-potato/sdk"
)

// FakeHost is the test double for the hosting ledger: an in-memory state
// map, a settable environment, captured log lines, and injectable faults.
type FakeHost struct {
	state map[string]string
	env   sdk.Env
	logs  []string

	envErr error
	getErr error
	setErr error
}

func NewFakeHost(sender string) *FakeHost {
	return &FakeHost{
		state: make(map[string]string),
		env: sdk.Env{
			Sender: sdk.Address(sender),
			TxId:   "tx-test",
		},
	}
}

func (f *FakeHost) GetEnv() (sdk.Env, error) {
	if f.envErr != nil {
		return sdk.Env{}, f.envErr
	}
	return f.env, nil
}

func (f *FakeHost) StateGet(key string) (*string, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	val, ok := f.state[key]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

func (f *FakeHost) StateSet(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.state[key] = value
	return nil
}

func (f *FakeHost) Log(msg string) {
	f.logs = append(f.logs, msg)
}

func (f *FakeHost) setSender(sender string) { f.env.Sender = sdk.Address(sender) }
func (f *FakeHost) setHeight(h uint64)      { f.env.BlockHeight = h }

// snapshotState copies the raw stored bytes, for byte-for-byte rollback checks.
func (f *FakeHost) snapshotState() map[string]string {
	return maps.Clone(f.state)
}
