// Package qef accumulates the per-cell Quadratic Error Function of §4.2
// and solves it via a truncated eigendecomposition of AtA, following the
// manifold-dual-contouring literature referenced by spec.md §4.4
// ([Gerstner 2000], [Ju 2002]) and resolved against original_source/libfive's
// QEF implementation for the exact numeric constants.
package qef

// EigenvalueCutoff is the fraction of the largest eigenvalue below which
// an eigenvalue is clamped to zero in the pseudoinverse (§4.2).
const EigenvalueCutoff = 0.1

// BisectIterations is the fixed iteration budget for the zero-crossing
// search along a sign-changing edge (§4.2 evalLeaf), matching
// original_source's fixed SEARCH_COUNT-style budget.
const BisectIterations = 8
