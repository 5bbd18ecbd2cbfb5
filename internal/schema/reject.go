package schema

import "fmt"

// ParseRejectReason classifies why the low-level parser rejected an
// inbound field or message. SessionRejectReason is the protocol-level
// classification reported to the counterparty in a session-level
// reject. The two domains share symbol names, so the default mapping is
// identity by name; dictionaries may override individual entries.

type ParseRejectReason int

const (
	ParseInvalidTagNumber ParseRejectReason = iota
	ParseRequiredTagMissing
	ParseTagNotDefinedForThisMessageType
	ParseUndefinedTag
	ParseTagSpecifiedWithoutAValue
	ParseValueIsIncorrect
	ParseIncorrectDataFormatForValue
	ParseDecryptionProblem
	ParseSignatureProblem
	ParseCompIDProblem
	ParseSendingTimeAccuracyProblem
	ParseInvalidMsgType
	ParseXMLValidationError
	ParseTagAppearsMoreThanOnce
	ParseTagSpecifiedOutOfRequiredOrder
	ParseRepeatingGroupFieldsOutOfOrder
	ParseIncorrectNumInGroupCountForRepeatingGroup
	ParseNonDataValueIncludesFieldDelimiter
	ParseOther

	numParseRejectReasons
)

type SessionRejectReason int

const (
	SessionInvalidTagNumber SessionRejectReason = iota
	SessionRequiredTagMissing
	SessionTagNotDefinedForThisMessageType
	SessionUndefinedTag
	SessionTagSpecifiedWithoutAValue
	SessionValueIsIncorrect
	SessionIncorrectDataFormatForValue
	SessionDecryptionProblem
	SessionSignatureProblem
	SessionCompIDProblem
	SessionSendingTimeAccuracyProblem
	SessionInvalidMsgType
	SessionXMLValidationError
	SessionTagAppearsMoreThanOnce
	SessionTagSpecifiedOutOfRequiredOrder
	SessionRepeatingGroupFieldsOutOfOrder
	SessionIncorrectNumInGroupCountForRepeatingGroup
	SessionNonDataValueIncludesFieldDelimiter
	SessionOther

	numSessionRejectReasons
)

var rejectReasonNames = [...]string{
	"InvalidTagNumber",
	"RequiredTagMissing",
	"TagNotDefinedForThisMessageType",
	"UndefinedTag",
	"TagSpecifiedWithoutAValue",
	"ValueIsIncorrect",
	"IncorrectDataFormatForValue",
	"DecryptionProblem",
	"SignatureProblem",
	"CompIDProblem",
	"SendingTimeAccuracyProblem",
	"InvalidMsgType",
	"XMLValidationError",
	"TagAppearsMoreThanOnce",
	"TagSpecifiedOutOfRequiredOrder",
	"RepeatingGroupFieldsOutOfOrder",
	"IncorrectNumInGroupCountForRepeatingGroup",
	"NonDataValueIncludesFieldDelimiter",
	"Other",
}

func (r ParseRejectReason) String() string {
	if r < 0 || int(r) >= len(rejectReasonNames) {
		return fmt.Sprintf("ParseRejectReason(%d)", int(r))
	}
	return rejectReasonNames[r]
}

func (r SessionRejectReason) String() string {
	if r < 0 || int(r) >= len(rejectReasonNames) {
		return fmt.Sprintf("SessionRejectReason(%d)", int(r))
	}
	return rejectReasonNames[r]
}

// ParseRejectReasons enumerates the full parse-reason domain in
// declaration order.
func ParseRejectReasons() []ParseRejectReason {
	out := make([]ParseRejectReason, numParseRejectReasons)
	for i := range out {
		out[i] = ParseRejectReason(i)
	}
	return out
}

func parseRejectReasonFromName(name string) (ParseRejectReason, bool) {
	for i, n := range rejectReasonNames {
		if n == name {
			return ParseRejectReason(i), true
		}
	}
	return 0, false
}

func sessionRejectReasonFromName(name string) (SessionRejectReason, bool) {
	for i, n := range rejectReasonNames {
		if n == name {
			return SessionRejectReason(i), true
		}
	}
	return 0, false
}

// buildRejectMap constructs the total parse-to-session reject mapping
// in two stages: identity by name over the whole parse domain, then
// dictionary overrides. An override naming a symbol that exists in
// neither domain is a configuration error, and any parse reason left
// without a session image aborts compilation.
func buildRejectMap(overrides map[string]string) (map[ParseRejectReason]SessionRejectReason, error) {
	m := make(map[ParseRejectReason]SessionRejectReason, numParseRejectReasons)
	for _, r := range ParseRejectReasons() {
		s, ok := sessionRejectReasonFromName(r.String())
		if !ok {
			return nil, fmt.Errorf("parse reject reason %s has no session counterpart", r)
		}
		m[r] = s
	}

	for parse, session := range overrides {
		p, ok := parseRejectReasonFromName(parse)
		if !ok {
			return nil, fmt.Errorf("reject reason override: unknown parse reason %q", parse)
		}
		s, ok := sessionRejectReasonFromName(session)
		if !ok {
			return nil, fmt.Errorf("reject reason override: unknown session reason %q", session)
		}
		m[p] = s
	}

	if len(m) != int(numParseRejectReasons) {
		return nil, fmt.Errorf("reject reason mapping is not total: %d of %d mapped", len(m), numParseRejectReasons)
	}
	return m, nil
}
