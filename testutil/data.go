package testutil

// Deterministic fixtures shared by package tests. Generators are pure
// functions of their arguments so a failing case reproduces exactly.

import "fmt"

// SampleLines contains short log lines for sink and buffer tests.
var SampleLines = []string{
	"service starting",
	"listening on :9090",
	"accepted client 7f3a",
	"flushed 128 lines",
	"client 7f3a detached",
	"service stopping",
}

// SamplePayloads contains binary payload patterns for buffer tests.
var SamplePayloads = [][]byte{
	{0x01, 0x02, 0x03, 0x04, 0x05},
	{0x0A, 0x0B, 0x0C, 0x0D, 0x0E},
	{0xFF, 0xFE, 0xFD, 0xFC, 0xFB},
}

// SizedPayloads contains payloads of various sizes for capacity testing.
var SizedPayloads = map[string][]byte{
	"small":  Payload(16),
	"medium": Payload(1024),
	"large":  Payload(10240),
}

// Ints returns the sequence 0..n-1.
func Ints(n int) []int {
	return IntsFrom(0, n)
}

// IntsFrom returns n consecutive ints starting at start.
func IntsFrom(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// Lines returns n distinct single-line strings with zero-padded
// sequence numbers, none containing a line feed.
func Lines(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line-%04d", i)
	}
	return out
}

// Payload returns n bytes filled with a rolling byte pattern.
func Payload(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % 251) // largest prime under 256, avoids period-256 aliasing
	}
	return out
}
