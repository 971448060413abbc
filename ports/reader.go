package ports

import "poolscreen/domain/pooling"

// CohortReader loads a cohort's parallel value/score arrays from an
// external source (spreadsheet, CSV).
type CohortReader interface {
	Read(path string) (pooling.Cohort, error)
}
