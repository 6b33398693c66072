package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLineWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(&buf)
	w.Write(&Record{IP: "10.0.0.1", Family: "ipv4"})
	w.Write(&Record{IP: "2001:db8::1", Family: "ipv6"})
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "10.0.0.1\n2001:db8::1\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf)
	w.Write(&Record{IP: "10.0.0.1", Family: "ipv4"})
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	var rec Record
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSONL: %v", err)
	}
	if rec.IP != "10.0.0.1" || rec.Family != "ipv4" {
		t.Errorf("round trip = %+v", rec)
	}
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addrs.txt")
	w, err := NewFileWriter(path, "text")
	if err != nil {
		t.Fatal(err)
	}
	w.Write(&Record{IP: "192.168.1.1", Family: "ipv4"})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "192.168.1.1\n" {
		t.Errorf("file contents = %q", data)
	}
}

func TestSinkFanOut(t *testing.T) {
	var a, b bytes.Buffer
	sink := NewSink()
	sink.Add(NewLineWriter(&a))
	sink.Add(NewJSONLWriter(&b))
	sink.Write(&Record{IP: "10.1.2.3", Family: "ipv4"})
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(a.String(), "10.1.2.3") {
		t.Error("line writer missed the record")
	}
	if !strings.Contains(b.String(), `"ip":"10.1.2.3"`) {
		t.Error("jsonl writer missed the record")
	}
}
