package hexdump

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/streamkit/testutil"
)

func TestDump_Header(t *testing.T) {
	var buf bytes.Buffer
	err := Dump(&buf, "E", "rx buffer", 0xDEADBEEF, []byte{0x01})
	require.NoError(t, err)

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "[E] rx buffer: @DEADBEEF/1:", lines[0])
}

func TestDump_EmptyData(t *testing.T) {
	var buf bytes.Buffer
	err := Dump(&buf, "N", "empty", 0, nil)
	require.NoError(t, err)

	// Header only, no frame lines
	assert.Equal(t, "[N] empty: @00000000/0:\n", buf.String())
}

func TestDump_FullLine(t *testing.T) {
	var buf bytes.Buffer
	err := Dump(&buf, "D", "frame", 0xBEEF, []byte("Hello, StreamKit"))
	require.NoError(t, err)

	want := "[D] frame: @0000BEEF/16:\n" +
		"  | 0000: 48 65 6C 6C 6F 2C 20 53  74 72 65 61 6D 4B 69 74  |Hello, StreamKit| \n"
	require.Equal(t, want, buf.String())
}

func TestDump_PartialLineKeepsFrame(t *testing.T) {
	var buf bytes.Buffer
	err := Dump(&buf, "D", "short", 0, []byte("Hi!"))
	require.NoError(t, err)

	want := "[D] short: @00000000/3:\n" +
		"  | 0000: 48 69 21" + strings.Repeat(" ", 42) +
		"|Hi!" + strings.Repeat(" ", 13) + "| \n"
	require.Equal(t, want, buf.String())
}

func TestDump_MultipleLines(t *testing.T) {
	data := append([]byte("0123456789ABCDEF"), []byte("WXYZ")...)

	var buf bytes.Buffer
	err := Dump(&buf, "D", "two lines", 0x1000, data)
	require.NoError(t, err)

	want := "[D] two lines: @00001000/20:\n" +
		"  | 0000: 30 31 32 33 34 35 36 37  38 39 41 42 43 44 45 46  |0123456789ABCDEF| \n" +
		"  | 0010: 57 58 59 5A" + strings.Repeat(" ", 39) +
		"|WXYZ" + strings.Repeat(" ", 12) + "| \n"
	require.Equal(t, want, buf.String())
}

func TestDump_NonPrintableBytes(t *testing.T) {
	data := []byte{0x00, 0x1F, 0x20, 0x7E, 0x7F, 0xFF}

	var buf bytes.Buffer
	err := Dump(&buf, "D", "gutter", 0, data)
	require.NoError(t, err)

	want := "[D] gutter: @00000000/6:\n" +
		"  | 0000: 00 1F 20 7E 7F FF" + strings.Repeat(" ", 33) +
		"|.. ~.." + strings.Repeat(" ", 10) + "| \n"
	require.Equal(t, want, buf.String())
}

func TestDump_FrameGeometry(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"one byte", []byte{0xAA}},
		{"five bytes", testutil.SamplePayloads[0]},
		{"seven bytes", bytes.Repeat([]byte{0x55}, 7)},
		{"nine bytes", bytes.Repeat([]byte{0x55}, 9)},
		{"one full line", testutil.SizedPayloads["small"]},
		{"two full lines", bytes.Repeat([]byte{0x55}, 32)},
		{"two and a half lines", testutil.Payload(40)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Dump(&buf, "D", "geometry", 0, test.data))

			out := strings.TrimSuffix(buf.String(), "\n")
			lines := strings.Split(out, "\n")

			wantLines := 1 + (len(test.data)+15)/16
			require.Len(t, lines, wantLines)

			for _, line := range lines[1:] {
				if len(line) != 79 {
					t.Errorf("frame line length = %d, want 79: %q", len(line), line)
				}
				if line[60] != '|' || line[77] != '|' {
					t.Errorf("limiters out of place in %q", line)
				}
			}
		})
	}
}

func TestDump_OffsetColumnAdvances(t *testing.T) {
	data := bytes.Repeat([]byte{0x00}, 48)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, "D", "offsets", 0, data))

	out := buf.String()
	assert.Contains(t, out, "  | 0000: ")
	assert.Contains(t, out, "  | 0010: ")
	assert.Contains(t, out, "  | 0020: ")
}

type failWriter struct {
	failAfter int // successful writes allowed before failing
	writes    int
}

var errWriteFailed = errors.New("write failed")

func (f *failWriter) Write(p []byte) (int, error) {
	if f.writes >= f.failAfter {
		return 0, errWriteFailed
	}
	f.writes++
	return len(p), nil
}

func TestDump_WriterErrors(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 32)

	// Header write fails
	err := Dump(&failWriter{failAfter: 0}, "D", "fail", 0, data)
	require.ErrorIs(t, err, errWriteFailed)

	// A later frame write fails
	err = Dump(&failWriter{failAfter: 2}, "D", "fail", 0, data)
	require.ErrorIs(t, err, errWriteFailed)
}

func TestString_MatchesDump(t *testing.T) {
	data := []byte("round trip")

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, "T", "stringer", 0x20, data))

	assert.Equal(t, buf.String(), String("T", "stringer", 0x20, data))
}

func BenchmarkDump(b *testing.B) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Dump(io.Discard, "B", "bench", 0, data)
	}
}
