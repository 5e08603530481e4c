package store

import (
	"github.com/sopiot/scheduling-framework-sub001/types"
)

var DefaultStore Store = NewBoltDB()

func Init(opts ...Option) error {
	return DefaultStore.Init(opts...)
}

func Close() error {
	return DefaultStore.Close()
}

func List(kinds ...string) (types.Configs, error) {
	return DefaultStore.List(kinds...)
}

func Get(config *types.Config) error {
	return DefaultStore.Get(config)
}

func Create(config *types.Config) error {
	return DefaultStore.Create(config)
}

func Update(config *types.Config) error {
	return DefaultStore.Update(config)
}

func Delete(config *types.Config) error {
	return DefaultStore.Delete(config)
}

func SaveResult(result *types.TrialResult) error {
	return DefaultStore.SaveResult(result)
}

func GetResult(id string) (*types.TrialResult, error) {
	return DefaultStore.GetResult(id)
}

func ListResults() ([]types.TrialResult, error) {
	return DefaultStore.ListResults()
}

func DeleteResult(id string) error {
	return DefaultStore.DeleteResult(id)
}
