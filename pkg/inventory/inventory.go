package inventory

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/burrowvirt/burrow/pkg/types"
)

var (
	// Bucket names
	bucketVGs       = []byte("volume_groups")
	bucketLVs       = []byte("logical_volumes")
	bucketPVs       = []byte("physical_volumes")
	bucketSnapshots = []byte("snapshots")
)

// keyLatest points at the most recent snapshot metadata.
var keyLatest = []byte("latest")

// Store persists the last-seen storage inventory of this host in a local
// BoltDB file, so operators can inspect it when the shared storage is
// unreachable.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the inventory database under dataDir.
func Open(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "inventory.db")

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{bucketVGs, bucketLVs, bucketPVs, bucketSnapshots}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the persisted inventory with the given snapshot.
func (s *Store) Save(snap *types.InventorySnapshot) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := clearBucket(tx, bucketVGs); err != nil {
			return err
		}
		if err := clearBucket(tx, bucketLVs); err != nil {
			return err
		}
		if err := clearBucket(tx, bucketPVs); err != nil {
			return err
		}

		vgs := tx.Bucket(bucketVGs)
		for _, vg := range snap.VolumeGroups {
			if err := putJSON(vgs, []byte(vg.Name), vg); err != nil {
				return err
			}
		}

		lvs := tx.Bucket(bucketLVs)
		for _, lv := range snap.LogicalVolumes {
			key := []byte(lv.VGName + "/" + lv.Name)
			if err := putJSON(lvs, key, lv); err != nil {
				return err
			}
		}

		pvs := tx.Bucket(bucketPVs)
		for _, pv := range snap.PhysicalVolumes {
			if err := putJSON(pvs, []byte(pv.Name), pv); err != nil {
				return err
			}
		}

		meta := struct {
			TakenAt time.Time `json:"taken_at"`
			Devices []string  `json:"devices"`
		}{snap.TakenAt, snap.Devices}
		return putJSON(tx.Bucket(bucketSnapshots), keyLatest, meta)
	})
}

// Load returns the persisted inventory, or an empty snapshot if none was
// ever saved.
func (s *Store) Load() (*types.InventorySnapshot, error) {
	snap := &types.InventorySnapshot{}

	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(bucketSnapshots).Get(keyLatest); data != nil {
			meta := struct {
				TakenAt time.Time `json:"taken_at"`
				Devices []string  `json:"devices"`
			}{}
			if err := json.Unmarshal(data, &meta); err != nil {
				return fmt.Errorf("corrupt snapshot metadata: %w", err)
			}
			snap.TakenAt = meta.TakenAt
			snap.Devices = meta.Devices
		}

		err := tx.Bucket(bucketVGs).ForEach(func(_, v []byte) error {
			var vg types.VolumeGroup
			if err := json.Unmarshal(v, &vg); err != nil {
				return fmt.Errorf("corrupt volume group record: %w", err)
			}
			snap.VolumeGroups = append(snap.VolumeGroups, vg)
			return nil
		})
		if err != nil {
			return err
		}

		err = tx.Bucket(bucketLVs).ForEach(func(_, v []byte) error {
			var lv types.LogicalVolume
			if err := json.Unmarshal(v, &lv); err != nil {
				return fmt.Errorf("corrupt logical volume record: %w", err)
			}
			snap.LogicalVolumes = append(snap.LogicalVolumes, lv)
			return nil
		})
		if err != nil {
			return err
		}

		return tx.Bucket(bucketPVs).ForEach(func(_, v []byte) error {
			var pv types.PhysicalVolume
			if err := json.Unmarshal(v, &pv); err != nil {
				return fmt.Errorf("corrupt physical volume record: %w", err)
			}
			snap.PhysicalVolumes = append(snap.PhysicalVolumes, pv)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

func clearBucket(tx *bolt.Tx, name []byte) error {
	if err := tx.DeleteBucket(name); err != nil {
		return fmt.Errorf("failed to clear bucket %s: %w", name, err)
	}
	_, err := tx.CreateBucket(name)
	return err
}

func putJSON(b *bolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(key, data)
}
