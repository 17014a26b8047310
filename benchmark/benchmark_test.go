// Package benchmark provides performance comparisons between the hackberry
// incremental parser and the standard library's net/http request parser.
package benchmark

import (
	"bufio"
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/blockberries/hackberry/pkg/hackberry"
)

// ============================================================================
// Test Data Construction
// ============================================================================

func makeSmallFrame() []byte {
	return []byte("GET /ping HTTP/1.1\r\nHost: bench.example\r\n\r\n")
}

func makeHeaderHeavyFrame() []byte {
	var sb strings.Builder
	sb.WriteString("GET /metrics HTTP/1.1\r\nHost: bench.example\r\n")
	for _, h := range []string{
		"accept: application/json",
		"accept-encoding: gzip, deflate",
		"user-agent: hackberry-bench/1.0",
		"x-req-id: 9f67cc17-0001",
		"x-forwarded-for: 10.1.2.3",
		"x-trace: a=1;b=2;c=3",
		"cache-control: no-cache",
		"connection: keep-alive",
	} {
		sb.WriteString(h)
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

func makeBodyFrame(bodySize int) []byte {
	m := hackberry.NewMessage("POST", "/ingest", "HTTP/1.1")
	m.Header.Set("host", "bench.example")
	m.Body = bytes.Repeat([]byte{'d'}, bodySize)
	wire, err := hackberry.EncodeFrame(m)
	if err != nil {
		panic(err)
	}
	return wire
}

// ============================================================================
// Parse Benchmarks
// ============================================================================

func benchmarkTryParse(b *testing.B, frame []byte) {
	buf := hackberry.NewBuffer(len(frame))
	p := hackberry.NewParser()
	b.SetBytes(int64(len(frame)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Append(frame)
		if _, err := p.TryParse(buf); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSmallFrame_Hackberry_Parse(b *testing.B) {
	benchmarkTryParse(b, makeSmallFrame())
}

func BenchmarkHeaderHeavyFrame_Hackberry_Parse(b *testing.B) {
	benchmarkTryParse(b, makeHeaderHeavyFrame())
}

func BenchmarkBodyFrame1K_Hackberry_Parse(b *testing.B) {
	benchmarkTryParse(b, makeBodyFrame(1024))
}

func BenchmarkBodyFrame64K_Hackberry_Parse(b *testing.B) {
	benchmarkTryParse(b, makeBodyFrame(64*1024))
}

func benchmarkNetHTTP(b *testing.B, frame []byte) {
	b.SetBytes(int64(len(frame)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		req, err := http.ReadRequest(bufio.NewReader(bytes.NewReader(frame)))
		if err != nil {
			b.Fatal(err)
		}
		req.Body.Close()
	}
}

func BenchmarkSmallFrame_NetHTTP_Parse(b *testing.B) {
	benchmarkNetHTTP(b, makeSmallFrame())
}

func BenchmarkHeaderHeavyFrame_NetHTTP_Parse(b *testing.B) {
	benchmarkNetHTTP(b, makeHeaderHeavyFrame())
}

func BenchmarkBodyFrame1K_NetHTTP_Parse(b *testing.B) {
	benchmarkNetHTTP(b, makeBodyFrame(1024))
}

// ============================================================================
// Fragmentation Benchmarks
// ============================================================================

// BenchmarkFragmentedParse measures the cost of re-deriving parse state when
// a frame arrives in small fragments.
func BenchmarkFragmentedParse(b *testing.B) {
	frame := makeHeaderHeavyFrame()
	const chunkSize = 16
	buf := hackberry.NewBuffer(len(frame))
	p := hackberry.NewParser()
	b.SetBytes(int64(len(frame)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for off := 0; off < len(frame); off += chunkSize {
			end := off + chunkSize
			if end > len(frame) {
				end = len(frame)
			}
			buf.Append(frame[off:end])
			if _, err := p.TryParse(buf); err != nil && !hackberry.IsIncomplete(err) {
				b.Fatal(err)
			}
		}
	}
}

// ============================================================================
// Encode and Buffer Benchmarks
// ============================================================================

func BenchmarkEncodeFrame(b *testing.B) {
	m := hackberry.NewMessage("POST", "/ingest", "HTTP/1.1")
	m.Header.Set("host", "bench.example")
	m.Header.Set("x-req-id", "9f67cc17-0001")
	m.Body = bytes.Repeat([]byte{'d'}, 512)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		w := hackberry.GetFrameWriter()
		w.WriteFrame(m)
		if _, err := w.Bytes(); err != nil {
			b.Fatal(err)
		}
		hackberry.PutFrameWriter(w)
	}
}

func BenchmarkBufferAppendDrain(b *testing.B) {
	buf := hackberry.NewBuffer(4096)
	chunk := bytes.Repeat([]byte{'x'}, 1024)
	b.SetBytes(int64(len(chunk)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Append(chunk)
		buf.AdvanceRead(len(chunk))
	}
}
