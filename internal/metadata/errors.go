package metadata

import "fmt"

// ArgumentErrorCode enumerates the forbidden shapes a host type can take
// at a function argument position
type ArgumentErrorCode string

const (
	ArgSetOfInArray ArgumentErrorCode = "SetOfInArray"
	ArgTableInArray ArgumentErrorCode = "TableInArray"
	ArgSkipInArray  ArgumentErrorCode = "SkipInArray"
	ArgBareU8       ArgumentErrorCode = "BareU8"
	ArgDatum        ArgumentErrorCode = "Datum"
)

// ArgumentError reports a host type that cannot appear at an argument position
type ArgumentError struct {
	Code     ArgumentErrorCode
	HostType string // host spelling of the offending type, when known
}

func (e *ArgumentError) Error() string {
	msg := map[ArgumentErrorCode]string{
		ArgSetOfInArray: "a set-returning shape cannot be an array element",
		ArgTableInArray: "a table shape cannot be an array element",
		ArgSkipInArray:  "a skipped internal value cannot be an array element",
		ArgBareU8:       "a bare byte has no SQL argument rendering; use a byte array",
		ArgDatum:        "a raw datum argument requires a user-specified SQL type",
	}[e.Code]
	if e.HostType != "" {
		return fmt.Sprintf("invalid argument type %s: %s", e.HostType, msg)
	}
	return "invalid argument type: " + msg
}

// ReturnsErrorCode enumerates the forbidden shapes a host type can take
// at a return position
type ReturnsErrorCode string

const (
	RetNestedSetOf          ReturnsErrorCode = "NestedSetOf"
	RetNestedTable          ReturnsErrorCode = "NestedTable"
	RetSetOfContainingTable ReturnsErrorCode = "SetOfContainingTable"
	RetTableContainingSetOf ReturnsErrorCode = "TableContainingSetOf"
	RetSetOfInArray         ReturnsErrorCode = "SetOfInArray"
	RetTableInArray         ReturnsErrorCode = "TableInArray"
	RetBareU8               ReturnsErrorCode = "BareU8"
	RetSkipInArray          ReturnsErrorCode = "SkipInArray"
	RetDatum                ReturnsErrorCode = "Datum"
)

// ReturnsError reports a host type that cannot appear at a return position
type ReturnsError struct {
	Code     ReturnsErrorCode
	HostType string
}

func (e *ReturnsError) Error() string {
	msg := map[ReturnsErrorCode]string{
		RetNestedSetOf:          "SETOF cannot contain another SETOF",
		RetNestedTable:          "TABLE cannot contain another TABLE",
		RetSetOfContainingTable: "SETOF cannot contain a TABLE shape",
		RetTableContainingSetOf: "TABLE cannot contain a SETOF shape",
		RetSetOfInArray:         "a set-returning shape cannot be an array element",
		RetTableInArray:         "a table shape cannot be an array element",
		RetBareU8:               "a bare byte has no SQL return rendering; use a byte array",
		RetSkipInArray:          "a skipped internal value cannot be an array element",
		RetDatum:                "a raw datum return requires a user-specified SQL type",
	}[e.Code]
	if e.HostType != "" {
		return fmt.Sprintf("invalid return type %s: %s", e.HostType, msg)
	}
	return "invalid return type: " + msg
}
