package player

// Playback is a handle to one in-flight playback inside the engine.
// Stop halts output and releases the decoder; it is safe to call more
// than once and after natural completion.
type Playback interface {
	Stop()
}

// Engine decodes raw audio bytes and plays them on the output device.
// onDone fires exactly once when playback ends on its own, with a nil
// error for natural completion or the decode/stream error otherwise.
// onDone does not fire for an explicit Stop.
type Engine interface {
	Play(data []byte, mimeType string, onDone func(err error)) (Playback, error)
}
