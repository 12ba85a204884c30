package contract

import (
	"strconv"
	"strings"

	"github.com/Cherrypick14/polkadot-hot-potato/sdk"
)

// ---------- UInt/String Helpers ----------

func uintToString(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func parseUintField(s, name string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, newError(CodeBadPayload, "failed to parse "+name+": '"+s+"'")
	}
	return v, nil
}

// ---------- Payload Parsing ----------

// nextField consumes and returns the next '|'-separated field from s.
func nextField(s *string) string {
	i := strings.IndexByte(*s, '|')
	if i < 0 {
		f := *s
		*s = ""
		return f
	}
	f := (*s)[:i]
	*s = (*s)[i+1:]
	return f
}

// appendU64 appends the decimal representation of v.
func appendU64(dst []byte, v uint64) []byte {
	return strconv.AppendUint(dst, v, 10)
}

func appendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, '1')
	}
	return append(dst, '0')
}

func appendOpt(dst []byte, a *sdk.Address) []byte {
	if a != nil {
		dst = append(dst, *a...)
	}
	return dst
}
