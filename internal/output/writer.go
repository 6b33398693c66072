package output

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"sync"
)

// Record is one emitted address.
type Record struct {
	IP     string `json:"ip"`
	Family string `json:"family"`
}

// AddrWriter is the interface for anything that accepts emitted addresses.
type AddrWriter interface {
	Write(rec *Record) error
}

// LineWriter writes one address per line, buffered.
type LineWriter struct {
	out *bufio.Writer
	mu  sync.Mutex
}

// NewLineWriter creates a plain-text writer over w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{out: bufio.NewWriterSize(w, 32768)}
}

func (w *LineWriter) Write(rec *Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.out.WriteString(rec.IP); err != nil {
		return err
	}
	return w.out.WriteByte('\n')
}

// Flush drains the buffer.
func (w *LineWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Flush()
}

// JSONLWriter streams one JSON object per line.
type JSONLWriter struct {
	out     *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONLWriter creates a JSONL writer over w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	buf := bufio.NewWriterSize(w, 32768)
	return &JSONLWriter{out: buf, encoder: json.NewEncoder(buf)}
}

func (w *JSONLWriter) Write(rec *Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.encoder.Encode(rec)
}

// Flush drains the buffer.
func (w *JSONLWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Flush()
}

// FileWriter owns a file and a formatted writer over it.
type FileWriter struct {
	file  *os.File
	inner AddrWriter
}

// NewFileWriter opens path for append and wraps it in the chosen format.
// Format "jsonl" selects JSON lines; anything else is plain text.
func NewFileWriter(path, format string) (*FileWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	var inner AddrWriter
	if format == "jsonl" {
		inner = NewJSONLWriter(f)
	} else {
		inner = NewLineWriter(f)
	}
	return &FileWriter{file: f, inner: inner}, nil
}

func (w *FileWriter) Write(rec *Record) error {
	return w.inner.Write(rec)
}

// Close flushes the format buffer and closes the file.
func (w *FileWriter) Close() error {
	if f, ok := w.inner.(interface{ Flush() error }); ok {
		f.Flush()
	}
	return w.file.Close()
}

// Sink fans out records to multiple writers.
type Sink struct {
	writers []AddrWriter
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Add(w AddrWriter) {
	s.writers = append(s.writers, w)
}

func (s *Sink) Write(rec *Record) error {
	for _, w := range s.writers {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes all writers that support it.
func (s *Sink) Close() error {
	var firstErr error
	for _, w := range s.writers {
		if f, ok := w.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if c, ok := w.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
