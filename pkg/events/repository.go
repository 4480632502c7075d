package events

import (
	"github.com/socintel/socintel/pkg/data"
)

// Repository stores and retrieves the normalized event batches that make
// up a dataset
type Repository interface {
	CreateIndexes() error
	Insert(events []data.Event) error
	LoadAll() ([]data.Event, error)
	Count() (int, error)
}
