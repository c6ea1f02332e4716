package diag

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	dbm "github.com/cometbft/cometbft-db"

	rterrors "github.com/nativert/rtaccount/internal/runtime/error"
	"github.com/nativert/rtaccount/internal/runtime/nmt"
)

const (
	// keyBias maps signed nanoseconds onto unsigned keys that sort in time
	// order, times before 1970 included.
	keyBias = 1 << 63

	historyName = "nmt_history"
	keyLen      = 8
	valueLen    = 32
)

var errCorruptSample = errors.New("corrupt sample")

// Sample is a ledger report taken at a point in time.
type Sample struct {
	At time.Time
	nmt.Report
}

// History stores samples keyed by time.
type History struct {
	db dbm.DB
}

// OpenHistory opens a history on the named cometbft-db backend.
func OpenHistory(backend, dir string) (*History, error) {
	db, err := dbm.NewDB(historyName, dbm.BackendType(backend), dir)
	if err != nil {
		return nil, &rterrors.RuntimeError{Msg: "failed to open history db", Err: err}
	}
	return NewHistory(db), nil
}

func NewHistory(db dbm.DB) *History {
	return &History{db: db}
}

// Record stores s, replacing any sample taken at the same instant.
func (h *History) Record(s Sample) error {
	if err := h.db.Set(encodeKey(s.At), encodeReport(s.Report)); err != nil {
		return fmt.Errorf("failed to record sample: %w", err)
	}
	return nil
}

// Samples returns the samples taken in [from, to), oldest first.
func (h *History) Samples(from, to time.Time) ([]Sample, error) {
	it, err := h.db.Iterator(encodeKey(from), encodeKey(to))
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []Sample
	for ; it.Valid(); it.Next() {
		s, err := decodeSample(it.Key(), it.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, it.Error()
}

// Latest returns the most recent sample.
func (h *History) Latest() (Sample, bool, error) {
	it, err := h.db.ReverseIterator(nil, nil)
	if err != nil {
		return Sample{}, false, err
	}
	defer it.Close()

	if !it.Valid() {
		return Sample{}, false, it.Error()
	}
	s, err := decodeSample(it.Key(), it.Value())
	if err != nil {
		return Sample{}, false, err
	}
	return s, true, nil
}

// Peak returns the largest reserved and committed sizes seen in any sample.
func (h *History) Peak() (reserved, committed int64, err error) {
	it, err := h.db.Iterator(nil, nil)
	if err != nil {
		return 0, 0, err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		s, err := decodeSample(it.Key(), it.Value())
		if err != nil {
			return 0, 0, err
		}
		reserved = max(reserved, s.PeakReserved)
		committed = max(committed, s.PeakCommitted)
	}
	return reserved, committed, it.Error()
}

func (h *History) Close() error {
	return h.db.Close()
}

func encodeKey(t time.Time) []byte {
	key := make([]byte, keyLen)
	binary.BigEndian.PutUint64(key, uint64(t.UnixNano())^keyBias)
	return key
}

func encodeReport(r nmt.Report) []byte {
	value := make([]byte, valueLen)
	binary.BigEndian.PutUint64(value[0:8], uint64(r.Reserved))
	binary.BigEndian.PutUint64(value[8:16], uint64(r.Committed))
	binary.BigEndian.PutUint64(value[16:24], uint64(r.PeakReserved))
	binary.BigEndian.PutUint64(value[24:32], uint64(r.PeakCommitted))
	return value
}

func decodeSample(key, value []byte) (Sample, error) {
	if len(key) != keyLen || len(value) != valueLen {
		return Sample{}, fmt.Errorf("%w: key %d bytes, value %d bytes", errCorruptSample, len(key), len(value))
	}
	return Sample{
		At: time.Unix(0, int64(binary.BigEndian.Uint64(key)^keyBias)),
		Report: nmt.Report{
			Reserved:      int64(binary.BigEndian.Uint64(value[0:8])),
			Committed:     int64(binary.BigEndian.Uint64(value[8:16])),
			PeakReserved:  int64(binary.BigEndian.Uint64(value[16:24])),
			PeakCommitted: int64(binary.BigEndian.Uint64(value[24:32])),
		},
	}, nil
}
