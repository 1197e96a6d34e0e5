package tokens

import (
	"encoding/json"
	"log/slog"

	"go.etcd.io/bbolt"

	"inspecthub/internal/auth/models"
)

var bucketAuth = []byte("auth")

// BoltStore keeps tokens in a bbolt file so sessions survive process
// restarts. Pair writes and Clear run inside single bbolt transactions,
// which gives readers the atomic-pair guarantee for free.
type BoltStore struct {
	db     *bbolt.DB
	logger *slog.Logger
}

// OpenBolt opens (creating if needed) the bbolt database at path.
func OpenBolt(path string, logger *slog.Logger) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BoltStore{db: db, logger: logger}, nil
}

// OpenOrUnavailable opens the bolt store at path, degrading to the
// unavailable no-op store when the file cannot be opened. The session
// subsystem then behaves as always-anonymous instead of failing.
func OpenOrUnavailable(path string, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	store, err := OpenBolt(path, logger)
	if err != nil {
		logger.Warn("token storage unavailable, sessions will not persist",
			"path", path,
			"error", err,
		)
		return Unavailable()
	}
	return store
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) get(key string) []byte {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAuth)
		if b == nil {
			return nil
		}
		if data := b.Get([]byte(key)); data != nil {
			value = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("token storage read failed", "key", key, "error", err)
		return nil
	}
	return value
}

func (s *BoltStore) AccessToken() string {
	return string(s.get(keyAccessToken))
}

func (s *BoltStore) RefreshToken() string {
	return string(s.get(keyRefreshToken))
}

func (s *BoltStore) User() *models.User {
	data := s.get(keyCurrentUser)
	if len(data) == 0 {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Warn("stored user record is unreadable, discarding", "error", err)
		return nil
	}
	return &user
}

func (s *BoltStore) SetTokens(pair models.TokenPair) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketAuth)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(keyAccessToken), []byte(pair.AccessToken)); err != nil {
			return err
		}
		return b.Put([]byte(keyRefreshToken), []byte(pair.RefreshToken))
	})
	if err != nil {
		s.logger.Warn("token storage write failed", "error", err)
	}
}

func (s *BoltStore) SetUser(user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("failed to encode user record", "error", err)
		return
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketAuth)
		if err != nil {
			return err
		}
		return b.Put([]byte(keyCurrentUser), data)
	})
	if err != nil {
		s.logger.Warn("token storage write failed", "error", err)
	}
}

func (s *BoltStore) Clear() {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAuth)
		if b == nil {
			return nil
		}
		for _, key := range []string{keyAccessToken, keyRefreshToken, keyCurrentUser} {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("token storage clear failed", "error", err)
	}
}
