package schema

import (
	"errors"
	"fmt"

	"github.com/maciejwalesiak/easyfix/internal/dictionary"
)

// Wire envelope constants. BeginString(8) and BodyLength(9) are handled
// by the low-level decoder; MsgType(35) must be the third field of
// every message. A misplaced MsgType or a begin-string mismatch is a
// garbled message; an unrecognized MsgType value is a distinct,
// recoverable rejection (ParseInvalidMsgType).
const (
	BeginStringTag uint16 = 8
	BodyLengthTag  uint16 = 9
	MsgTypeTag     uint16 = 35

	// MsgTypePosition is the 1-based position MsgType must occupy on
	// the wire.
	MsgTypePosition = 3
)

var ErrNoProtocolVersion = errors.New("neither FIX nor FIXT version defined")

// beginString derives the protocol's begin-string literal. Transport
// (FIXT) dictionaries take precedence over application (FIX) ones; at
// least one version must be declared. A zero service pack omits the SP
// suffix.
func beginString(dict *dictionary.Dictionary) ([]byte, error) {
	var protocol string
	var version *dictionary.Version
	switch {
	case dict.FixtVersion() != nil:
		protocol, version = "FIXT", dict.FixtVersion()
	case dict.FixVersion() != nil:
		protocol, version = "FIX", dict.FixVersion()
	default:
		return nil, ErrNoProtocolVersion
	}

	s := fmt.Sprintf("%s.%d.%d", protocol, version.Major, version.Minor)
	if version.ServicePack != 0 {
		s = fmt.Sprintf("%sSP%d", s, version.ServicePack)
	}
	return []byte(s), nil
}
