package store

import (
	"bytes"
	"encoding/binary"

	bolt "go.etcd.io/bbolt"
	. "src.numbox.dev/pkg/store/storedefs"
)

func init() {
	initDB["initialize submission history table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	}
	initDB["initialize submission session table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmdSession))
		return err
	}
}

// NextCmdSeq returns the next sequence number of the submission history.
func (s *dbStore) NextCmdSeq() (int, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		seq = b.Sequence() + 1
		return nil
	})
	return int(seq), err
}

// AddCmd adds a new submission to the history, tagged with the ID of the
// session that made it.
func (s *dbStore) AddCmd(text, session string) (int, error) {
	var (
		seq uint64
		err error
	)
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(marshalSeq(seq), []byte(text)); err != nil {
			return err
		}
		if session == "" {
			return nil
		}
		return tx.Bucket([]byte(bucketCmdSession)).Put(marshalSeq(seq), []byte(session))
	})
	return int(seq), err
}

// DelCmd deletes a history item with the given sequence number.
func (s *dbStore) DelCmd(seq int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		k := marshalSeq(uint64(seq))
		if err := tx.Bucket([]byte(bucketCmdSession)).Delete(k); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketCmd)).Delete(k)
	})
}

// Cmd queries the history item with the specified sequence number.
func (s *dbStore) Cmd(seq int) (string, error) {
	var text string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		v := b.Get(marshalSeq(uint64(seq)))
		if v == nil {
			return ErrNoMatchingCmd
		}
		text = string(v)
		return nil
	})
	return text, err
}

// IterateCmds iterates all the submissions in the specified range, and calls
// the callback with each of them sequentially.
func (s *dbStore) IterateCmds(from, upto int, f func(Cmd)) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		sessions := tx.Bucket([]byte(bucketCmdSession))
		c := b.Cursor()
		for k, v := c.Seek(marshalSeq(uint64(from))); k != nil && unmarshalSeq(k) < uint64(upto); k, v = c.Next() {
			f(makeCmd(sessions, k, v))
		}
		return nil
	})
}

// CmdsWithSeq returns all submissions within the specified range.
func (s *dbStore) CmdsWithSeq(from, upto int) ([]Cmd, error) {
	var cmds []Cmd
	err := s.IterateCmds(from, upto, func(cmd Cmd) {
		cmds = append(cmds, cmd)
	})
	return cmds, err
}

// NextCmd finds the first submission after the given sequence number
// (inclusive) with the given prefix.
func (s *dbStore) NextCmd(from int, prefix string) (Cmd, error) {
	return s.findCmd(prefix, func(c *bolt.Cursor) ([]byte, []byte) {
		return c.Seek(marshalSeq(uint64(from)))
	}, (*bolt.Cursor).Next)
}

// PrevCmd finds the last submission before the given sequence number
// (exclusive) with the given prefix.
func (s *dbStore) PrevCmd(upto int, prefix string) (Cmd, error) {
	return s.findCmd(prefix, func(c *bolt.Cursor) ([]byte, []byte) {
		if k, _ := c.Seek(marshalSeq(uint64(upto))); k == nil {
			return c.Last()
		}
		return c.Prev()
	}, (*bolt.Cursor).Prev)
}

// Walks the history from the position given by start, moving with step, and
// returns the first submission that has prefix.
func (s *dbStore) findCmd(prefix string, start, step func(*bolt.Cursor) ([]byte, []byte)) (Cmd, error) {
	var cmd Cmd
	p := []byte(prefix)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := start(c); k != nil; k, v = step(c) {
			if bytes.HasPrefix(v, p) {
				cmd = makeCmd(tx.Bucket([]byte(bucketCmdSession)), k, v)
				return nil
			}
		}
		return ErrNoMatchingCmd
	})
	return cmd, err
}

func makeCmd(sessions *bolt.Bucket, k, v []byte) Cmd {
	return Cmd{Text: string(v), Seq: int(unmarshalSeq(k)), Session: string(sessions.Get(k))}
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
