// Package recorder persists a session's batch stream to a file for offline
// replay and debugging.
//
// A recording is a bbolt database with two buckets: frames (monotonic
// sequence keys, one JSON-encoded [Frame] per batch) and metadata (scene
// name, creation time, format version). Frames carry the elapsed time since
// recording start, so replay can reproduce the original pacing.
//
// # Usage
//
//	w, err := recorder.Create(path, "demo")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	// on every arriving batch:
//	w.Append(batch)
//
//	r, err := recorder.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	err = r.Frames(func(f recorder.Frame) error { ... })
package recorder

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/rio-labs/rioterm/pkg/protocol"
)

const (
	bucketFrames = "frames"
	bucketMeta   = "meta"

	metaKeyScene   = "scene"
	metaKeyCreated = "created"
	metaKeyVersion = "version"

	// formatVersion guards against reading recordings written by an
	// incompatible build.
	formatVersion = "1"
)

// ErrBadRecording is returned when a file is not a recording or was written
// with an incompatible format version.
var ErrBadRecording = errors.New("not a rioterm recording")

// Frame is one recorded batch.
type Frame struct {
	// Seq is the 1-based position in the recording.
	Seq uint64 `json:"seq"`

	// Offset is the elapsed time between recording start and this batch's
	// arrival.
	Offset time.Duration `json:"offset"`

	// Batch is the recorded update batch, exactly as received.
	Batch protocol.UpdateBatch `json:"batch"`
}

// Meta describes a recording.
type Meta struct {
	Scene   string    `json:"scene"`
	Created time.Time `json:"created"`
}

// =============================================================================
// Writer
// =============================================================================

// Writer appends frames to a recording file. Safe for use from a single
// goroutine, which is all a session has.
type Writer struct {
	db    *bolt.DB
	start time.Time
}

// Create creates a recording file, truncating any existing file at path.
func Create(path, scene string) (*Writer, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open recording %s: %w", path, err)
	}

	now := time.Now()
	err = db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketFrames)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		if _, err := tx.CreateBucket([]byte(bucketFrames)); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		if err != nil {
			return err
		}
		if err := meta.Put([]byte(metaKeyScene), []byte(scene)); err != nil {
			return err
		}
		if err := meta.Put([]byte(metaKeyCreated), []byte(now.Format(time.RFC3339Nano))); err != nil {
			return err
		}
		return meta.Put([]byte(metaKeyVersion), []byte(formatVersion))
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize recording %s: %w", path, err)
	}
	return &Writer{db: db, start: now}, nil
}

// Append records one batch with the current elapsed offset.
func (w *Writer) Append(b protocol.UpdateBatch) error {
	offset := time.Since(w.start)
	return w.db.Update(func(tx *bolt.Tx) error {
		frames := tx.Bucket([]byte(bucketFrames))
		seq, err := frames.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(Frame{Seq: seq, Offset: offset, Batch: b})
		if err != nil {
			return fmt.Errorf("marshal frame %d: %w", seq, err)
		}
		return frames.Put(marshalSeq(seq), data)
	})
}

// Close flushes and closes the recording file.
func (w *Writer) Close() error { return w.db.Close() }

// =============================================================================
// Reader
// =============================================================================

// Reader reads a recording file.
type Reader struct {
	db *bolt.DB
}

// Open opens a recording read-only.
func Open(path string) (*Reader, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{
		Timeout:  time.Second,
		ReadOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open recording %s: %w", path, err)
	}

	err = db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(bucketMeta))
		if meta == nil || tx.Bucket([]byte(bucketFrames)) == nil {
			return ErrBadRecording
		}
		if v := string(meta.Get([]byte(metaKeyVersion))); v != formatVersion {
			return fmt.Errorf("%w: format version %q, expected %q", ErrBadRecording, v, formatVersion)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read recording %s: %w", path, err)
	}
	return &Reader{db: db}, nil
}

// Meta returns the recording's metadata.
func (r *Reader) Meta() (Meta, error) {
	var m Meta
	err := r.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(bucketMeta))
		m.Scene = string(meta.Get([]byte(metaKeyScene)))
		created, err := time.Parse(time.RFC3339Nano, string(meta.Get([]byte(metaKeyCreated))))
		if err != nil {
			return fmt.Errorf("%w: bad created timestamp", ErrBadRecording)
		}
		m.Created = created
		return nil
	})
	return m, err
}

// Len returns the number of recorded frames.
func (r *Reader) Len() (int, error) {
	var n int
	err := r.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketFrames)).Stats().KeyN
		return nil
	})
	return n, err
}

// Frames calls f for every frame in recording order. Returning an error from
// f stops the iteration and propagates the error.
func (r *Reader) Frames(f func(Frame) error) error {
	return r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketFrames)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var frame Frame
			if err := json.Unmarshal(v, &frame); err != nil {
				return fmt.Errorf("decode frame %d: %w", unmarshalSeq(k), err)
			}
			if err := f(frame); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the recording file.
func (r *Reader) Close() error { return r.db.Close() }

// marshalSeq encodes a sequence number big-endian so byte order matches
// numeric order under bbolt's cursor.
func marshalSeq(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
