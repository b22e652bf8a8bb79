// Package technique implements the per-technique analyzers that turn one
// specimen's curves into named material parameters.
//
// Each analyzer implements the [Technique] interface:
//
//   - [Tensile]: Young's modulus, UTS, strain at break, toughness
//   - [TGA]: T5, T50, Tmax, residue, total weight loss
//   - [DSC]: glass transition by onset, midpoint and inflection
//   - [DMA]: Tg from tan δ peak and E′ onset, modulus at temperature
//
// The set is closed; construct analyzers through [New] or iterate [Names].
// Analyze returns a [Record] mapping parameter names to values with
// per-parameter validity: a parameter the curve cannot support is marked
// invalid with a diagnostic note while the rest of the record is still
// computed. Only curve-level failures abort a trial, and those are wrapped
// in a [TrialError].
package technique
