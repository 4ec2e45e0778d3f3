// Package sound ships a small built-in join sound so the upload flow can
// be tried without hunting for an audio file first.
package sound

import (
	_ "embed"
)

//go:embed sample.wav
var sampleWAV []byte

// SampleName is the filename the embedded sample is uploaded under.
const SampleName = "sample.wav"

// SampleContentType is the MIME type of the embedded sample.
const SampleContentType = "audio/wav"

// Sample returns a copy of the embedded sample audio.
func Sample() []byte {
	out := make([]byte, len(sampleWAV))
	copy(out, sampleWAV)
	return out
}
