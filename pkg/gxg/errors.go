package gxg

import "errors"

// Sentinel errors of the GxG engine. Fatal conditions wrap ErrInvalidInput
// or ErrInvalidReferenceLevel; ErrUnknownFormula and ErrUnknownReferenceDate
// are returned only in strict mode, the default behavior being a collected
// warning plus a documented fallback.
var (
	ErrInvalidInput          = errors.New("invalid input series")
	ErrInvalidReferenceLevel = errors.New("invalid reference level")
	ErrUnknownFormula        = errors.New("unknown approximation formula")
	ErrUnknownReferenceDate  = errors.New("unknown spring reference date")
)
