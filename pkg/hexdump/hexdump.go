// Package hexdump formats byte slices as classic 16-bytes-per-line hex dumps
// with an address column and an ASCII gutter.
//
// The output shape is a header line followed by one framed line per 16 bytes:
//
//	[D] frame: @0000BEEF/16:
//	  | 0000: 48 65 6C 6C 6F 2C 20 53  74 72 65 61 6D 4B 69 74  |Hello, StreamKit|
//
// Every dump line is a fixed 79-character frame: offset column, two 8-byte
// hex halves separated by a double space, and the printable-ASCII gutter
// between pipe limiters. Partial trailing lines keep the full frame with the
// unused hex and gutter columns blank. Non-printable bytes show as '.'.
package hexdump

import (
	"fmt"
	"io"
	"strings"
)

const (
	bytesPerLine = 16
	lineWidth    = 79
	asciiOffset  = 61
	hexDigits    = "0123456789ABCDEF"
)

// Dump writes the header and framed hex lines for data to w. The tag is a
// short marker shown in brackets (the original logging utility used its
// severity letter), label names the dumped object, and addr is the address
// to display in the header. A zero-length data yields the header only.
func Dump(w io.Writer, tag, label string, addr uint32, data []byte) error {
	if _, err := fmt.Fprintf(w, "[%s] %s: @%08X/%d:\n", tag, label, addr, len(data)); err != nil {
		return err
	}

	// One reusable frame, line feed included
	line := make([]byte, lineWidth+1)

	for base := 0; base < len(data); base += bytesPerLine {
		chunk := data[base:]
		if len(chunk) > bytesPerLine {
			chunk = chunk[:bytesPerLine]
		}

		formatLine(line, base, chunk)
		if _, err := w.Write(line); err != nil {
			return err
		}
	}

	return nil
}

// String renders the dump into a string.
func String(tag, label string, addr uint32, data []byte) string {
	var sb strings.Builder
	// strings.Builder writes never fail
	_ = Dump(&sb, tag, label, addr, data)
	return sb.String()
}

// formatLine fills the fixed frame for one output line. chunk holds at most
// bytesPerLine bytes starting at the given offset into the dumped data.
func formatLine(line []byte, offset int, chunk []byte) {
	for i := range line {
		line[i] = ' '
	}
	line[60] = '|'
	line[77] = '|'
	line[lineWidth] = '\n'

	cp := copy(line, fmt.Sprintf("  | %04X: ", offset))

	for i, c := range chunk {
		if i == 8 {
			// Double space between the two 8-byte halves
			cp++
		}
		line[cp] = hexDigits[c>>4]
		line[cp+1] = hexDigits[c&0x0F]
		cp += 3

		if c >= 32 && c < 127 {
			line[asciiOffset+i] = c
		} else {
			line[asciiOffset+i] = '.'
		}
	}
}
