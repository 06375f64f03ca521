// Package testutil provides deterministic test fixtures for StreamKit
// package tests.
//
// # Overview
//
// The package holds two kinds of fixtures:
//
// Static samples - small hand-written datasets:
//   - SampleLines: short log lines for sink tests
//   - SamplePayloads: binary patterns for buffer tests
//   - SizedPayloads: small/medium/large payloads for capacity tests
//
// Generators - pure functions of their arguments, so a failing case
// reproduces exactly:
//   - Ints(n) / IntsFrom(start, n): consecutive int sequences
//   - Lines(n): distinct single-line strings with zero-padded counters
//   - Payload(n): a rolling byte pattern of length n
//
// # Usage
//
//	buf, _ := ring.New[int](8)
//	buf.PushSlice(testutil.Ints(8))
//
//	for _, line := range testutil.Lines(100) {
//	    sink.WriteLine(line)
//	}
//
// # Guidelines
//
// Keep domain-specific data out of this package. If a test needs data
// with particular semantics, build it in the test package itself and
// leave testutil generic.
package testutil
