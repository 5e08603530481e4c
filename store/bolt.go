package store

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/types"

	"github.com/mitchellh/go-homedir"
	"go.etcd.io/bbolt"
)

const resultBucket = "results"

type BoltDB struct {
	db *bbolt.DB
}

func NewBoltDB() Store {
	return new(BoltDB)
}

func (this *BoltDB) Init(opts ...Option) error {
	options := NewOptions(opts...)

	u, err := url.Parse(options.Endpoint)
	if err != nil {
		return fmt.Errorf("parsing BoltDB endpoint: %w", err)
	}

	if u.Scheme != "bolt" {
		return fmt.Errorf("invalid scheme '%s' for BoltDB endpoint", u.Scheme)
	}

	path, err := homedir.Expand(u.Host + u.Path)
	if err != nil {
		return fmt.Errorf("expanding BoltDB path: %w", err)
	}

	// Only one process at a time may hold the store, which also keeps two
	// comparison runs from sharing a fleet.
	this.db, err = bbolt.Open(path, 0600, &bbolt.Options{Timeout: options.Timeout, NoFreelistSync: true})
	if err != nil {
		return fmt.Errorf("opening BoltDB file %s: %w", path, err)
	}

	return nil
}

func (this BoltDB) Close() error {
	if this.db == nil {
		return nil
	}

	return this.db.Close()
}

func (this BoltDB) List(kinds ...string) (types.Configs, error) {
	var configs types.Configs

	for _, kind := range kinds {
		err := this.each(kind, func(v []byte) error {
			var c types.Config

			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("unmarshaling config JSON: %w", err)
			}

			configs = append(configs, c)

			return nil
		})

		if err != nil {
			return nil, fmt.Errorf("getting %s configs from store: %w", kind, err)
		}
	}

	return configs, nil
}

func (this BoltDB) Get(c *types.Config) error {
	v, err := this.get(c.Kind, c.Metadata.Name)
	if err != nil {
		return fmt.Errorf("getting config: %w", err)
	}

	if err := json.Unmarshal(v, c); err != nil {
		return fmt.Errorf("unmarshaling config JSON: %w", err)
	}

	return nil
}

func (this BoltDB) Create(c *types.Config) error {
	if _, err := this.get(c.Kind, c.Metadata.Name); err == nil {
		return fmt.Errorf("config %s/%s already exists", c.Kind, c.Metadata.Name)
	}

	now := time.Now().Format(time.RFC3339)

	c.Metadata.Created = now
	c.Metadata.Updated = now

	v, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config JSON: %w", err)
	}

	if err := this.put(c.Kind, c.Metadata.Name, v); err != nil {
		return fmt.Errorf("writing config JSON to Bolt: %w", err)
	}

	return nil
}

func (this BoltDB) Update(c *types.Config) error {
	if _, err := this.get(c.Kind, c.Metadata.Name); err != nil {
		return fmt.Errorf("config %s/%s does not exist", c.Kind, c.Metadata.Name)
	}

	c.Metadata.Updated = time.Now().Format(time.RFC3339)

	v, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config JSON: %w", err)
	}

	if err := this.put(c.Kind, c.Metadata.Name, v); err != nil {
		return fmt.Errorf("writing config JSON to Bolt: %w", err)
	}

	return nil
}

func (this BoltDB) Delete(c *types.Config) error {
	if err := this.delete(c.Kind, c.Metadata.Name); err != nil {
		return fmt.Errorf("deleting config %s/%s: %w", c.Kind, c.Metadata.Name, err)
	}

	return nil
}

func (this BoltDB) SaveResult(r *types.TrialResult) error {
	if r.ID == "" {
		return fmt.Errorf("trial result for %s has no ID", r.Label())
	}

	v, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling result JSON: %w", err)
	}

	if err := this.put(resultBucket, r.ID, v); err != nil {
		return fmt.Errorf("writing result JSON to Bolt: %w", err)
	}

	return nil
}

func (this BoltDB) GetResult(id string) (*types.TrialResult, error) {
	v, err := this.get(resultBucket, id)
	if err != nil {
		return nil, fmt.Errorf("getting result: %w", err)
	}

	var r types.TrialResult

	if err := json.Unmarshal(v, &r); err != nil {
		return nil, fmt.Errorf("unmarshaling result JSON: %w", err)
	}

	return &r, nil
}

// ListResults returns every stored result, oldest first.
func (this BoltDB) ListResults() ([]types.TrialResult, error) {
	var results []types.TrialResult

	err := this.each(resultBucket, func(v []byte) error {
		var r types.TrialResult

		if err := json.Unmarshal(v, &r); err != nil {
			return fmt.Errorf("unmarshaling result JSON: %w", err)
		}

		results = append(results, r)

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("getting results from store: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Created.Before(results[j].Created)
	})

	return results, nil
}

func (this BoltDB) DeleteResult(id string) error {
	if err := this.delete(resultBucket, id); err != nil {
		return fmt.Errorf("deleting result %s: %w", id, err)
	}

	return nil
}

func (this BoltDB) get(b, k string) ([]byte, error) {
	if err := this.ensureBucket(b); err != nil {
		return nil, err
	}

	var v []byte

	this.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket([]byte(b)).Get([]byte(k)); data != nil {
			// bbolt values are only valid for the life of the transaction.
			v = append([]byte(nil), data...)
		}

		return nil
	})

	if v == nil {
		return nil, fmt.Errorf("key %s does not exist in bucket %s", k, b)
	}

	return v, nil
}

func (this BoltDB) put(b, k string, v []byte) error {
	if err := this.ensureBucket(b); err != nil {
		return err
	}

	err := this.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(b)).Put([]byte(k), v)
	})

	if err != nil {
		return fmt.Errorf("updating value for key %s in bucket %s: %w", k, b, err)
	}

	return nil
}

func (this BoltDB) delete(b, k string) error {
	if err := this.ensureBucket(b); err != nil {
		return err
	}

	return this.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(b)).Delete([]byte(k))
	})
}

func (this BoltDB) each(b string, fn func([]byte) error) error {
	if err := this.ensureBucket(b); err != nil {
		return err
	}

	return this.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(b)).ForEach(func(_, v []byte) error {
			return fn(v)
		})
	})
}

func (this BoltDB) ensureBucket(name string) error {
	if this.db == nil {
		return fmt.Errorf("store not initialized")
	}

	return this.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return fmt.Errorf("creating bucket in Bolt: %w", err)
		}

		return nil
	})
}
