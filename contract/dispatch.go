package contract

import (
	"strings"

	"github.com/Cherrypick14/polkadot-hot-potato/sdk"
)

// Operation names a host drives the contract with.
const (
	OpInit      = "p_init"
	OpStart     = "p_start"
	OpPass      = "p_pass"
	OpCheck     = "p_check"
	OpEnd       = "p_end"
	OpGet       = "p_get"
	OpRemaining = "p_remaining"
)

// Dispatch routes an op name plus a '|'-separated payload to the matching
// operation. This is the surface a hosting ledger calls; Go callers can
// use the typed methods directly. The optional string result carries
// query output; transitions return nil.
//
// Payloads:
//
//	p_init:      <deadlineBlocks>[|<allowSelfPass 0/1>]
//	p_start:     <to>
//	p_pass:      <to>
//	p_check:     (empty) -> "1" if the holder was eliminated, else "0"
//	p_end:       (empty)
//	p_get:       (empty) -> snapshot as '|'-separated fields
//	p_remaining: (empty) -> remaining blocks as decimal
func (c *Contract) Dispatch(op, payload string) (*string, error) {
	switch op {
	case OpInit:
		return nil, c.dispatchInit(payload)
	case OpStart:
		to, err := oneAddressArg(payload)
		if err != nil {
			return nil, err
		}
		_, err = c.StartGame(to)
		return nil, err
	case OpPass:
		to, err := oneAddressArg(payload)
		if err != nil {
			return nil, err
		}
		_, err = c.PassPotato(to)
		return nil, err
	case OpCheck:
		if err := noArgs(payload); err != nil {
			return nil, err
		}
		res, err := c.CheckDeadline()
		if err != nil {
			return nil, err
		}
		out := "0"
		if res.Eliminated {
			out = "1"
		}
		return &out, nil
	case OpEnd:
		if err := noArgs(payload); err != nil {
			return nil, err
		}
		_, err := c.EndGame()
		return nil, err
	case OpGet:
		if err := noArgs(payload); err != nil {
			return nil, err
		}
		return c.dispatchGet()
	case OpRemaining:
		if err := noArgs(payload); err != nil {
			return nil, err
		}
		rem, err := c.Remaining()
		if err != nil {
			return nil, err
		}
		out := uintToString(rem)
		return &out, nil
	default:
		return nil, newError(CodeUnknownOperation, "unknown operation: "+op)
	}
}

func (c *Contract) dispatchInit(payload string) error {
	in := payload
	deadline, err := parseUintField(nextField(&in), "deadline blocks")
	if err != nil {
		return err
	}
	allowSelfPass := false
	// a separator means a flag field follows, even an empty one
	if strings.IndexByte(payload, '|') >= 0 {
		flag := nextField(&in)
		if in != "" {
			return newError(CodeBadPayload, "too many arguments")
		}
		switch flag {
		case "0":
		case "1":
			allowSelfPass = true
		default:
			return newError(CodeBadPayload, "self-pass flag must be 0 or 1")
		}
	}
	return c.Init(deadline, allowSelfPass)
}

// dispatchGet renders the snapshot as '|'-separated fields:
//
//	active|holder|starter|lastTransferAt|deadlineBlocks|allowSelfPass|remaining|blockHeight|deployedAt
//
// Optional addresses render as empty fields.
func (c *Contract) dispatchGet() (*string, error) {
	snap, err := c.GetSnapshot()
	if err != nil {
		return nil, err
	}
	meta := make([]byte, 0, 64)
	meta = appendBool(meta, snap.Active)
	meta = append(meta, '|')
	meta = appendOpt(meta, snap.Holder)
	meta = append(meta, '|')
	meta = appendOpt(meta, snap.Starter)
	meta = append(meta, '|')
	meta = appendU64(meta, snap.LastTransferAt)
	meta = append(meta, '|')
	meta = appendU64(meta, snap.DeadlineBlocks)
	meta = append(meta, '|')
	meta = appendBool(meta, snap.AllowSelfPass)
	meta = append(meta, '|')
	meta = appendU64(meta, snap.Remaining)
	meta = append(meta, '|')
	meta = appendU64(meta, snap.BlockHeight)
	meta = append(meta, '|')
	meta = appendU64(meta, snap.DeployedAt)
	s := string(meta)
	return &s, nil
}

func oneAddressArg(payload string) (sdk.Address, error) {
	in := payload
	to := nextField(&in)
	if in != "" {
		return "", newError(CodeBadPayload, "too many arguments")
	}
	return sdk.Address(to), nil
}

func noArgs(payload string) error {
	if payload != "" {
		return newError(CodeBadPayload, "too many arguments")
	}
	return nil
}
