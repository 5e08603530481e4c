package store

import "github.com/sopiot/scheduling-framework-sub001/types"

// Store persists topology and simulation configs along with the results of
// completed trials.
type Store interface {
	Init(...Option) error
	Close() error

	List(...string) (types.Configs, error)
	Get(*types.Config) error
	Create(*types.Config) error
	Update(*types.Config) error
	Delete(*types.Config) error

	SaveResult(*types.TrialResult) error
	GetResult(string) (*types.TrialResult, error)
	ListResults() ([]types.TrialResult, error)
	DeleteResult(string) error
}
