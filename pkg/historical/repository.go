package historical

import (
	"github.com/socintel/socintel/pkg/score"
)

// Repository provides access to ground truth outcome statistics for
// indicators of compromise. Get returns nil stats (and no error) when
// the store has no record for the IOC; a record with zero counts is
// returned as a non-nil value so the two cases stay distinguishable.
type Repository interface {
	Get(ioc string) (*score.HistoricalStats, error)
	Record(ioc string, truePositive bool) error
}
