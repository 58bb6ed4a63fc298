package bolt

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/brk3/consistent/internal/storage"
	"github.com/brk3/consistent/pkg/habit"
	"go.etcd.io/bbolt"
)

const (
	usersBucket  = "users"
	sharedBucket = "shared"

	habitsBucket  = "habits"
	entriesBucket = "entries"
	membersBucket = "members"
	metaKey       = "meta"

	defaultUserID = "default"
)

type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{usersBucket, sharedBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func normUser(userID string) string {
	if userID == "" {
		return defaultUserID
	}
	return userID
}

// userBucket returns users/<userID>/<name>, creating it in writable transactions.
// In read-only transactions a missing bucket yields nil.
func userBucket(tx *bbolt.Tx, userID, name string) (*bbolt.Bucket, error) {
	users := tx.Bucket([]byte(usersBucket))
	if !tx.Writable() {
		user := users.Bucket([]byte(normUser(userID)))
		if user == nil {
			return nil, nil
		}
		return user.Bucket([]byte(name)), nil
	}
	user, err := users.CreateBucketIfNotExists([]byte(normUser(userID)))
	if err != nil {
		return nil, err
	}
	return user.CreateBucketIfNotExists([]byte(name))
}

func entryKey(e habit.Entry) []byte {
	return fmt.Appendf(nil, "%s/%s/%s", e.HabitID, e.Date, e.ID)
}

func (s *Store) PutHabit(userID string, h habit.Habit) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		val, err := json.Marshal(h)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(h.ID), val)
	})
}

func (s *Store) GetHabit(userID, habitID string) (habit.Habit, error) {
	var h habit.Habit
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		if bucket == nil {
			return storage.ErrNotFound
		}
		v := bucket.Get([]byte(habitID))
		if v == nil {
			return storage.ErrNotFound
		}
		return json.Unmarshal(v, &h)
	})
	return h, err
}

func (s *Store) ListHabits(userID string) ([]habit.Habit, error) {
	out := []habit.Habit{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, userID, habitsBucket)
		if err != nil || bucket == nil {
			return err
		}
		return bucket.ForEach(func(_, v []byte) error {
			var h habit.Habit
			if err := json.Unmarshal(v, &h); err != nil {
				return err
			}
			out = append(out, h)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteHabit(userID, habitID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		habits, err := userBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		if habits.Get([]byte(habitID)) == nil {
			return storage.ErrNotFound
		}
		if err := habits.Delete([]byte(habitID)); err != nil {
			return err
		}

		entries, err := userBucket(tx, userID, entriesBucket)
		if err != nil {
			return err
		}
		c := entries.Cursor()
		prefix := []byte(habitID + "/")
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Seek(prefix) {
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) PutEntry(userID string, e habit.Entry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		habits, err := userBucket(tx, userID, habitsBucket)
		if err != nil {
			return err
		}
		if habits.Get([]byte(e.HabitID)) == nil {
			return fmt.Errorf("habit %s: %w", e.HabitID, storage.ErrNotFound)
		}
		bucket, err := userBucket(tx, userID, entriesBucket)
		if err != nil {
			return err
		}
		// the date is part of the key, so an edit that moves the entry
		// must drop the old key first
		if k, _ := findEntry(bucket, e.HabitID, e.ID); k != nil {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		val, err := json.Marshal(e)
		if err != nil {
			return err
		}
		return bucket.Put(entryKey(e), val)
	})
}

// findEntry scans a habit's entries for entryID. Keys are habitID/date/entryID,
// so the date is not needed to look an entry up.
func findEntry(bucket *bbolt.Bucket, habitID, entryID string) ([]byte, []byte) {
	if bucket == nil {
		return nil, nil
	}
	c := bucket.Cursor()
	prefix := []byte(habitID + "/")
	suffix := []byte("/" + entryID)
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if bytes.HasSuffix(k, suffix) {
			return k, v
		}
	}
	return nil, nil
}

func (s *Store) GetEntry(userID, habitID, entryID string) (habit.Entry, error) {
	var e habit.Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, userID, entriesBucket)
		if err != nil {
			return err
		}
		_, v := findEntry(bucket, habitID, entryID)
		if v == nil {
			return storage.ErrNotFound
		}
		return json.Unmarshal(v, &e)
	})
	return e, err
}

func (s *Store) ListEntries(userID, habitID string) ([]habit.Entry, error) {
	out := []habit.Entry{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, userID, entriesBucket)
		if err != nil || bucket == nil {
			return err
		}
		c := bucket.Cursor()
		prefix := []byte(habitID + "/")
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var e habit.Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteEntry(userID, habitID, entryID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := userBucket(tx, userID, entriesBucket)
		if err != nil {
			return err
		}
		k, _ := findEntry(bucket, habitID, entryID)
		if k == nil {
			return storage.ErrNotFound
		}
		return bucket.Delete(k)
	})
}

func sharedHabitBucket(tx *bbolt.Tx, id string) (*bbolt.Bucket, error) {
	shared := tx.Bucket([]byte(sharedBucket))
	if !tx.Writable() {
		return shared.Bucket([]byte(id)), nil
	}
	return shared.CreateBucketIfNotExists([]byte(id))
}

func (s *Store) PutSharedHabit(sh habit.SharedHabit) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := sharedHabitBucket(tx, sh.ID)
		if err != nil {
			return err
		}
		val, err := json.Marshal(sh)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(metaKey), val)
	})
}

func (s *Store) GetSharedHabit(id string) (habit.SharedHabit, error) {
	var sh habit.SharedHabit
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := sharedHabitBucket(tx, id)
		if err != nil {
			return err
		}
		if bucket == nil {
			return storage.ErrNotFound
		}
		v := bucket.Get([]byte(metaKey))
		if v == nil {
			return storage.ErrNotFound
		}
		return json.Unmarshal(v, &sh)
	})
	return sh, err
}

func (s *Store) DeleteSharedHabit(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		shared := tx.Bucket([]byte(sharedBucket))
		if shared.Bucket([]byte(id)) == nil {
			return storage.ErrNotFound
		}
		return shared.DeleteBucket([]byte(id))
	})
}

func (s *Store) PutMembership(m habit.Membership) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := sharedHabitBucket(tx, m.SharedHabitID)
		if err != nil {
			return err
		}
		if bucket.Get([]byte(metaKey)) == nil {
			return fmt.Errorf("shared habit %s: %w", m.SharedHabitID, storage.ErrNotFound)
		}
		members, err := bucket.CreateBucketIfNotExists([]byte(membersBucket))
		if err != nil {
			return err
		}
		val, err := json.Marshal(m)
		if err != nil {
			return err
		}
		return members.Put([]byte(m.UserID), val)
	})
}

func (s *Store) DeleteMembership(sharedHabitID, userID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sharedBucket)).Bucket([]byte(sharedHabitID))
		if bucket == nil {
			return storage.ErrNotFound
		}
		members := bucket.Bucket([]byte(membersBucket))
		if members == nil || members.Get([]byte(userID)) == nil {
			return storage.ErrNotFound
		}
		return members.Delete([]byte(userID))
	})
}

func (s *Store) ListMemberships(sharedHabitID string) ([]habit.Membership, error) {
	out := []habit.Membership{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := sharedHabitBucket(tx, sharedHabitID)
		if err != nil {
			return err
		}
		if bucket == nil {
			return storage.ErrNotFound
		}
		members := bucket.Bucket([]byte(membersBucket))
		if members == nil {
			return nil
		}
		return members.ForEach(func(_, v []byte) error {
			var m habit.Membership
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			out = append(out, m)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

var _ storage.Store = (*Store)(nil)
