package compiler

// Precedence orders binding strength low to high. OR and AND have no
// token that reaches them (the grammar never grew boolean short-circuit
// operators) but the rungs are kept so the ladder stays contiguous.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)
