package routing

import "errors"

// Sentinel errors for the query-time error kinds spec §7 enumerates that
// can actually surface from Query (InputMalformed/GeometryDegenerate/
// IOFailure are construction-time concerns, handled in pkg/graph and
// pkg/coastline; Unreachable is not an error — it's a normal QueryResult
// with Reachable == false).
var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrDeadlineExceeded  = errors.New("query deadline exceeded")
)
