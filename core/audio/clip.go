package audio

import "time"

// Clip is a fully decoded piece of audio ready to be handed to an output
// device. PCM holds interleaved samples described by EncodingInfo.
type Clip struct {
	EncodingInfo EncodingInfo
	PCM          []byte
}

func (c *Clip) Frames() int {
	if c == nil {
		return 0
	}
	bytesPerFrame := c.EncodingInfo.BytesPerFrame()
	if bytesPerFrame <= 0 {
		return 0
	}
	return len(c.PCM) / bytesPerFrame
}

func (c *Clip) Duration() time.Duration {
	if c == nil || c.EncodingInfo.SampleRate == 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.EncodingInfo.SampleRate)
}
