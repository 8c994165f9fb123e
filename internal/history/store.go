// Package history implements the persistent version store.
//
// Each edited document gets its own append-log file under the store
// directory. A log is an ordered sequence of framed records: magic,
// timestamp, word count, payload length, DEFLATE payload, payload CRC.
// An in-memory index of timestamps and payload offsets is built from the
// log on first access; payloads stay on disk until asked for, and
// decompressed snapshots are held in a TTL cache.
//
// Corruption degrades by record, never by file: a record that fails its
// frame or checksum is logged and skipped, and scanning resynchronizes
// on the next magic marker.
package history

import (
	"bytes"
	"compress/flate"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/hollow/internal/log"
)

// ErrCorruptRecord marks a record that failed its frame or checksum.
// Readers skip such records; the error surfaces only in logs.
var ErrCorruptRecord = errors.New("history: corrupt record")

// ErrNoSuchRecord is returned when a record's payload cannot be located,
// typically because eviction removed it between listing and reading.
var ErrNoSuchRecord = errors.New("history: no such record")

const (
	recordMagic  = uint32(0x48565231) // "HVR1"
	headerSize   = 4 + 8 + 4 + 4      // magic, timestamp, words, length
	trailerSize  = 4                  // payload CRC
	maxPayload   = 64 << 20           // sanity bound while scanning
	cacheTTL     = 10 * time.Minute
	cacheCleanup = 30 * time.Minute
)

// Record describes one stored version. The payload itself stays in the
// log file until fetched through Store.Content.
type Record struct {
	Timestamp time.Time
	WordCount int

	payloadOff int64
	payloadLen int
}

// Store manages the per-document version logs.
type Store struct {
	dir   string
	max   int
	now   func() time.Time
	cache *gocache.Cache
	logs  map[string]*docLog
}

type docLog struct {
	file    string
	records []Record // oldest first
}

// Open returns a store rooted at dir, keeping at most maxVersions
// records per document. The directory is created if missing.
func Open(dir string, maxVersions int) (*Store, error) {
	return OpenWithClock(dir, maxVersions, time.Now)
}

// OpenWithClock is Open with an injected clock for tests.
func OpenWithClock(dir string, maxVersions int, now func() time.Time) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating version store directory: %w", err)
	}
	if maxVersions < 1 {
		maxVersions = 1
	}
	return &Store{
		dir:   dir,
		max:   maxVersions,
		now:   now,
		cache: gocache.New(cacheTTL, cacheCleanup),
		logs:  make(map[string]*docLog),
	}, nil
}

// logFile maps a document path to its log file. The name is a digest so
// arbitrary paths stay filesystem-safe.
func (s *Store) logFile(path string) string {
	sum := sha256.Sum256([]byte(path))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:8])+".log")
}

// Record compresses content and appends a version record for path,
// evicting the oldest records once the cap is exceeded.
func (s *Store) Record(path, content string) error {
	dl, err := s.load(path)
	if err != nil {
		return err
	}

	payload, err := compress(content)
	if err != nil {
		return fmt.Errorf("compressing version: %w", err)
	}

	rec := Record{
		Timestamp:  s.now(),
		WordCount:  countWords(content),
		payloadLen: len(payload),
	}

	f, err := os.OpenFile(dl.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening version log: %w", err)
	}
	defer f.Close()

	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seeking version log: %w", err)
	}
	rec.payloadOff = end + headerSize

	if _, err := f.Write(frame(rec, payload)); err != nil {
		return fmt.Errorf("appending version record: %w", err)
	}

	dl.records = append(dl.records, rec)
	s.cache.Set(cacheKey(path, rec), content, gocache.DefaultExpiration)
	log.Debug(log.CatHistory, "version recorded", "path", path, "words", rec.WordCount, "bytes", rec.payloadLen)

	if len(dl.records) > s.max {
		if err := s.compact(path, dl); err != nil {
			return err
		}
	}
	return nil
}

// Versions returns the records for path, newest first.
func (s *Store) Versions(path string) ([]Record, error) {
	dl, err := s.load(path)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(dl.records))
	for i, rec := range dl.records {
		out[len(dl.records)-1-i] = rec
	}
	return out, nil
}

// Content returns the decompressed content of a record.
func (s *Store) Content(path string, rec Record) (string, error) {
	key := cacheKey(path, rec)
	if cached, ok := s.cache.Get(key); ok {
		if content, ok := cached.(string); ok {
			return content, nil
		}
	}

	dl, err := s.load(path)
	if err != nil {
		return "", err
	}
	found := false
	for _, r := range dl.records {
		if r.payloadOff == rec.payloadOff && r.Timestamp.Equal(rec.Timestamp) {
			found = true
			break
		}
	}
	if !found {
		return "", ErrNoSuchRecord
	}

	f, err := os.Open(dl.file)
	if err != nil {
		return "", fmt.Errorf("opening version log: %w", err)
	}
	defer f.Close()

	payload := make([]byte, rec.payloadLen)
	if _, err := f.ReadAt(payload, rec.payloadOff); err != nil {
		return "", fmt.Errorf("reading version payload: %w", err)
	}
	content, err := decompress(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	s.cache.Set(key, content, gocache.DefaultExpiration)
	return content, nil
}

// ContentDiffers reports whether content differs from the newest stored
// version. True when no version exists yet.
func (s *Store) ContentDiffers(path, content string) bool {
	dl, err := s.load(path)
	if err != nil || len(dl.records) == 0 {
		return true
	}
	newest := dl.records[len(dl.records)-1]
	stored, err := s.Content(path, newest)
	if err != nil {
		return true
	}
	return stored != content
}

// Restore snapshots current (so the restore itself stays reversible via
// the history) and returns the record's content. The caller replaces the
// live document and resets undo state.
func (s *Store) Restore(path string, rec Record, current string) (string, error) {
	restored, err := s.Content(path, rec)
	if err != nil {
		return "", err
	}
	if err := s.Record(path, current); err != nil {
		return "", fmt.Errorf("snapshotting pre-restore content: %w", err)
	}
	log.Info(log.CatHistory, "version restored", "path", path, "timestamp", rec.Timestamp)
	return restored, nil
}

// Count returns the number of records for path.
func (s *Store) Count(path string) (int, error) {
	dl, err := s.load(path)
	if err != nil {
		return 0, err
	}
	return len(dl.records), nil
}

// load builds or returns the in-memory index for path.
func (s *Store) load(path string) (*docLog, error) {
	if dl, ok := s.logs[path]; ok {
		return dl, nil
	}
	dl := &docLog{file: s.logFile(path)}

	data, err := os.ReadFile(dl.file)
	if err != nil {
		if os.IsNotExist(err) {
			s.logs[path] = dl
			return dl, nil
		}
		return nil, fmt.Errorf("reading version log: %w", err)
	}

	dl.records = scan(data, path)
	s.logs[path] = dl
	return dl, nil
}

// scan walks the raw log, collecting valid records and resynchronizing
// past corrupt ones.
func scan(data []byte, path string) []Record {
	var records []Record
	corrupt := 0
	for i := 0; i+headerSize+trailerSize <= len(data); {
		rec, next, err := parseRecord(data, i)
		if err != nil {
			corrupt++
			i++
			// Resync on the next magic marker.
			for i+headerSize+trailerSize <= len(data) && binary.BigEndian.Uint32(data[i:]) != recordMagic {
				i++
			}
			continue
		}
		records = append(records, rec)
		i = next
	}
	if corrupt > 0 {
		log.Warn(log.CatHistory, "skipped corrupt version records", "path", path, "count", corrupt)
	}
	return records
}

// parseRecord decodes the record framed at offset i, returning the
// offset of the following record.
func parseRecord(data []byte, i int) (Record, int, error) {
	if binary.BigEndian.Uint32(data[i:]) != recordMagic {
		return Record{}, 0, ErrCorruptRecord
	}
	ts := int64(binary.BigEndian.Uint64(data[i+4:]))
	words := int(binary.BigEndian.Uint32(data[i+12:]))
	plen := int(binary.BigEndian.Uint32(data[i+16:]))
	if plen < 0 || plen > maxPayload {
		return Record{}, 0, ErrCorruptRecord
	}
	start := i + headerSize
	end := start + plen + trailerSize
	if end > len(data) {
		return Record{}, 0, ErrCorruptRecord
	}
	payload := data[start : start+plen]
	if crc32.ChecksumIEEE(payload) != binary.BigEndian.Uint32(data[start+plen:]) {
		return Record{}, 0, ErrCorruptRecord
	}
	return Record{
		Timestamp:  time.UnixMilli(ts),
		WordCount:  words,
		payloadOff: int64(start),
		payloadLen: plen,
	}, end, nil
}

// frame encodes one record for appending.
func frame(rec Record, payload []byte) []byte {
	buf := make([]byte, headerSize+len(payload)+trailerSize)
	binary.BigEndian.PutUint32(buf, recordMagic)
	binary.BigEndian.PutUint64(buf[4:], uint64(rec.Timestamp.UnixMilli()))
	binary.BigEndian.PutUint32(buf[12:], uint32(rec.WordCount))
	binary.BigEndian.PutUint32(buf[16:], uint32(len(payload)))
	copy(buf[headerSize:], payload)
	binary.BigEndian.PutUint32(buf[headerSize+len(payload):], crc32.ChecksumIEEE(payload))
	return buf
}

// compact rewrites the log keeping only the newest max records, oldest
// evicted first. The rewrite goes through a temp file and rename so a
// crash never loses the log.
func (s *Store) compact(path string, dl *docLog) error {
	keep := dl.records[len(dl.records)-s.max:]
	evicted := len(dl.records) - len(keep)

	var buf bytes.Buffer
	rebuilt := make([]Record, 0, len(keep))
	f, err := os.Open(dl.file)
	if err != nil {
		return fmt.Errorf("opening version log for compaction: %w", err)
	}
	for _, rec := range keep {
		payload := make([]byte, rec.payloadLen)
		if _, err := f.ReadAt(payload, rec.payloadOff); err != nil {
			f.Close()
			return fmt.Errorf("reading record during compaction: %w", err)
		}
		rec.payloadOff = int64(buf.Len() + headerSize)
		buf.Write(frame(rec, payload))
		rebuilt = append(rebuilt, rec)
	}
	f.Close()

	temp, err := os.CreateTemp(s.dir, ".log.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp log: %w", err)
	}
	tempPath := temp.Name()
	if _, err := temp.Write(buf.Bytes()); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("writing temp log: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing temp log: %w", err)
	}
	if err := os.Rename(tempPath, dl.file); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replacing version log: %w", err)
	}

	dl.records = rebuilt
	log.Debug(log.CatHistory, "version log compacted", "path", path, "evicted", evicted, "kept", len(rebuilt))
	return nil
}

func cacheKey(path string, rec Record) string {
	return fmt.Sprintf("%s|%d|%d", path, rec.Timestamp.UnixMilli(), rec.payloadOff)
}

func compress(content string) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte(content)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(payload []byte) (string, error) {
	r := flate.NewReader(bytes.NewReader(payload))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func countWords(content string) int {
	return len(strings.Fields(content))
}
