package journal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/2beens/physiometrics/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps the journal in a single plain-text file, one record per line.
// Every append is one write of one whole line under an exclusive file lock, so
// independent processes sharing the file never interleave bytes. Readers take no
// lock and ignore a trailing line that is still being written.
type FileStore struct {
	path         string
	mutex        sync.Mutex
	skippedLines lineCounter
}

func NewFileStore(path string, skippedLines lineCounter) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("journal file path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	return &FileStore{
		path:         path,
		skippedLines: counterOrNoop(skippedLines),
	}, nil
}

func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) Append(ctx context.Context, record Record) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "journal.file.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrAppendFailed, err)
	}
	if record.UserName == "" {
		return fmt.Errorf("%w: %w", ErrAppendFailed, ErrEmptyUserName)
	}

	line := []byte(EncodeLine(record) + "\n")

	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	f, err := os.OpenFile(fs.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrAppendFailed, fs.path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrAppendFailed, fs.path, closeErr)
		}
	}()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("%w: lock %s: %w", ErrAppendFailed, fs.path, err)
	}
	defer func() {
		if unlockErr := unlockFile(f); unlockErr != nil {
			log.Errorf("journal: unlock %s: %s", fs.path, unlockErr)
		}
	}()

	terminated, err := endsWithNewline(f)
	if err != nil {
		return fmt.Errorf("%w: read tail %s: %w", ErrAppendFailed, fs.path, err)
	}
	if !terminated {
		// a torn tail left by a crashed writer stays its own malformed line
		line = append([]byte{'\n'}, line...)
	}

	n, err := f.Write(line)
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrAppendFailed, fs.path, err)
	}
	if n != len(line) {
		return fmt.Errorf("%w: short write %s: %d of %d bytes", ErrAppendFailed, fs.path, n, len(line))
	}

	log.Tracef("journal: appended record for [%s] to %s", record.UserName, fs.path)
	return nil
}

func (fs *FileStore) QueryByUser(ctx context.Context, name string) (_ []Record, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "journal.file.queryByUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	f, err := os.Open(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("%w: open %s: %w", ErrQueryFailed, fs.path, err)
	}
	defer func() { _ = f.Close() }()

	records, skipped, err := readRecords(bufio.NewReader(f), name, fs.skippedLines)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrQueryFailed, fs.path, err)
	}

	span.SetAttributes(
		attribute.Int("journal.records", len(records)),
		attribute.Int("journal.skipped", skipped),
	)
	return records, nil
}

// endsWithNewline reports whether the file is empty or its last byte is '\n'.
func endsWithNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] == '\n', nil
}

// readRecords reads newline-terminated lines and keeps the ones belonging to
// name. An unterminated last line is an append in flight and is ignored.
func readRecords(r *bufio.Reader, name string, skippedLines lineCounter) ([]Record, int, error) {
	records := []Record{}
	skipped := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return records, skipped, nil
			}
			return nil, skipped, err
		}

		line = strings.TrimSuffix(line, "\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		record, err := ParseLine(line)
		if err != nil {
			log.Tracef("journal: skipping line: %s", err)
			skippedLines.Inc()
			skipped++
			continue
		}
		if record.UserName == name {
			records = append(records, record)
		}
	}
}
