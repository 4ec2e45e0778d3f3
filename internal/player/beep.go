package player

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/mocbot/sounddash/internal/log"
)

// engineSampleRate is the speaker's fixed output rate; decoded streams are
// resampled to it.
const engineSampleRate = beep.SampleRate(44100)

// resampleQuality balances CPU cost against artifacts for short clips.
const resampleQuality = 4

// BeepEngine plays audio through the beep speaker. The speaker is a global
// device, initialized once on first use.
type BeepEngine struct {
	initOnce sync.Once
	initErr  error
}

// NewBeepEngine creates the engine without touching the audio device.
// Initialization is deferred to the first Play so headless environments can
// construct the dashboard without an output device.
func NewBeepEngine() *BeepEngine {
	return &BeepEngine{}
}

func (e *BeepEngine) init() error {
	e.initOnce.Do(func() {
		e.initErr = speaker.Init(engineSampleRate, engineSampleRate.N(time.Second/10))
		if e.initErr != nil {
			log.ErrorErr(log.CatAudio, "Speaker init failed", e.initErr)
		}
	})
	return e.initErr
}

// Play decodes data per its mime type and starts playback.
func (e *BeepEngine) Play(data []byte, mimeType string, onDone func(err error)) (Playback, error) {
	if err := e.init(); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}

	streamer, format, err := decode(data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("decoding audio: %w", err)
	}

	pb := &beepPlayback{streamer: streamer}
	resampled := beep.Resample(resampleQuality, format.SampleRate, engineSampleRate, streamer)
	pb.ctrl = &beep.Ctrl{Streamer: beep.Seq(resampled, beep.Callback(func() {
		// Natural end of clip. Release the decoder here so even clips
		// shorter than the caller's bookkeeping window are cleaned up.
		err := streamer.Err()
		pb.release()
		onDone(err)
	}))}

	speaker.Play(pb.ctrl)
	log.Debug(log.CatAudio, "Playback started", "mimeType", mimeType, "bytes", len(data))
	return pb, nil
}

// beepPlayback owns one decoded stream on the shared speaker.
type beepPlayback struct {
	ctrl     *beep.Ctrl
	streamer beep.StreamSeekCloser
	once     sync.Once
}

// Stop halts output and releases the decoder. Idempotent; also safe after
// the natural-completion callback already released the stream.
func (p *beepPlayback) Stop() {
	speaker.Lock()
	p.ctrl.Paused = true
	p.ctrl.Streamer = nil
	speaker.Unlock()
	p.release()
}

func (p *beepPlayback) release() {
	p.once.Do(func() {
		if err := p.streamer.Close(); err != nil {
			log.Warn(log.CatAudio, "Closing audio stream failed", "error", err)
		}
	})
}

// decode picks a decoder from the mime type. The dashboard only ever sees
// types the upload endpoint accepted, so unknown types default to mp3.
func decode(data []byte, mimeType string) (beep.StreamSeekCloser, beep.Format, error) {
	r := &byteStream{Reader: bytes.NewReader(data)}

	mt := mimeType
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	switch strings.TrimSpace(strings.ToLower(mt)) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return wav.Decode(r)
	default:
		return mp3.Decode(r)
	}
}

// byteStream adapts an in-memory buffer to the ReadSeekCloser the decoders
// expect.
type byteStream struct {
	*bytes.Reader
}

func (*byteStream) Close() error { return nil }
