package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/wordtower/pkg/gameapi"
)

// DefaultLimit is the number of buffered entries that triggers a flush.
const DefaultLimit = 100

// Entry kinds.
const (
	KindExchange = "exchange"
	KindEvent    = "event"
)

// Entry is one journal line.
type Entry struct {
	Run      string          `json:"run"`
	Seq      int             `json:"seq"`
	Time     time.Time       `json:"time"`
	Kind     string          `json:"kind"`
	Method   string          `json:"method,omitempty"`
	Path     string          `json:"path,omitempty"`
	Status   int             `json:"status,omitempty"`
	Request  json.RawMessage `json:"request,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
	Millis   int64           `json:"ms,omitempty"`
	Message  string          `json:"message,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

// Options configures a Journal.
type Options struct {
	Dir    string
	Limit  int
	Logger *log.Logger

	// RunID overrides the generated run id.
	RunID string
}

// Journal buffers entries and writes them out in batches. It is safe for
// concurrent use.
type Journal struct {
	dir    string
	limit  int
	run    string
	logger *log.Logger

	mu     sync.Mutex
	buf    []Entry
	seq    int
	files  []string
	closed bool
	now    func() time.Time
}

// New creates the journal directory if needed and returns an empty
// journal.
func New(opts Options) (*Journal, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("journal: empty directory")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Journal{
		dir:    opts.Dir,
		limit:  opts.Limit,
		run:    opts.RunID,
		logger: opts.Logger,
		now:    time.Now,
	}, nil
}

// RunID returns the id stamped on every entry.
func (j *Journal) RunID() string { return j.run }

// Dir returns the output directory.
func (j *Journal) Dir() string { return j.dir }

// Files returns the paths written so far, oldest first.
func (j *Journal) Files() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.files...)
}

// Pending returns the number of buffered entries.
func (j *Journal) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.buf)
}

// RecordExchange implements gameapi.Recorder. Write failures are logged,
// not returned.
func (j *Journal) RecordExchange(x gameapi.Exchange) {
	e := Entry{
		Time:     x.Time,
		Kind:     KindExchange,
		Method:   x.Method,
		Path:     x.Path,
		Status:   x.Status,
		Request:  validJSON(x.Request),
		Response: validJSON(x.Response),
		Error:    x.Err,
		Millis:   x.Duration.Milliseconds(),
	}
	if err := j.Add(e); err != nil {
		j.logger.Warn("journal write failed", "err", err)
	}
}

// Event records a free-form event with optional key/value fields.
func (j *Journal) Event(msg string, fields map[string]any) error {
	return j.Add(Entry{Kind: KindEvent, Message: msg, Fields: fields})
}

// Add buffers e, stamping run id and sequence number, and flushes when the
// buffer reaches the limit.
func (j *Journal) Add(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return fmt.Errorf("journal: closed")
	}
	j.seq++
	e.Run = j.run
	e.Seq = j.seq
	if e.Time.IsZero() {
		e.Time = j.now()
	}
	if e.Kind == "" {
		e.Kind = KindEvent
	}
	j.buf = append(j.buf, e)
	if len(j.buf) >= j.limit {
		return j.flushLocked()
	}
	return nil
}

// Flush writes buffered entries to a new file. It does nothing when the
// buffer is empty.
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.flushLocked()
}

// Close flushes and rejects further entries.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.flushLocked()
}

func (j *Journal) flushLocked() error {
	if len(j.buf) == 0 {
		return nil
	}
	path := j.nextPathLocked()
	if err := writeFile(path, j.buf); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	j.logger.Debug("journal flushed", "path", path, "entries", len(j.buf))
	j.files = append(j.files, path)
	j.buf = j.buf[:0]
	return nil
}

// nextPathLocked picks log<unix-ms>.jsonl.zst, bumping the timestamp when
// two flushes land in the same millisecond.
func (j *Journal) nextPathLocked() string {
	ms := j.now().UnixMilli()
	for {
		p := filepath.Join(j.dir, fmt.Sprintf("log%d.jsonl.zst", ms))
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p
		}
		ms++
	}
}

func writeFile(path string, entries []Entry) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w := bufio.NewWriterSize(enc, 64*1024)
	jw := json.NewEncoder(w)
	for _, e := range entries {
		if err := jw.Encode(e); err != nil {
			_ = enc.Close()
			_ = f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// validJSON drops bodies that are not JSON so a single bad response does
// not break the encoder.
func validJSON(b []byte) json.RawMessage {
	if len(b) == 0 || !json.Valid(b) {
		return nil
	}
	return json.RawMessage(b)
}
