package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

var ErrUnsupportedContainer = errors.New("unsupported audio container")

type container string

const (
	containerMP3 container = "mp3"
	containerWAV container = "wav"
)

// Decode turns an encoded audio file into a linear16 [Clip].
//
// The container is picked from contentType first, then from the extension of
// name, then by sniffing the first bytes.
func Decode(data []byte, contentType, name string) (*Clip, error) {
	switch detectContainer(data, contentType, name) {
	case containerMP3:
		return decodeMP3(data)
	case containerWAV:
		return decodeWAV(data)
	}

	return nil, fmt.Errorf("%w: content type %q, name %q", ErrUnsupportedContainer, contentType, name)
}

func detectContainer(data []byte, contentType, name string) container {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "audio/mpeg", "audio/mp3":
			return containerMP3
		case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
			return containerWAV
		}
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".mp3":
		return containerMP3
	case ".wav":
		return containerWAV
	}

	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return containerWAV
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return containerMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return containerMP3
	}

	return ""
}

func decodeMP3(data []byte) (*Clip, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open mp3 stream: %w", err)
	}

	// go-mp3 always produces 16-bit little endian stereo
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3 stream: %w", err)
	}

	return &Clip{
		EncodingInfo: EncodingInfo{SampleRate: decoder.SampleRate(), Format: EncodingLinear16, Channels: 2},
		PCM:          pcm,
	}, nil
}

func decodeWAV(data []byte) (*Clip, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file")
	}

	buffer, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode wav stream: %w", err)
	}

	shift := 0
	switch bitDepth := int(decoder.BitDepth); {
	case bitDepth > 16:
		shift = bitDepth - 16
	case bitDepth == 8:
		// 8-bit wav is unsigned, everything else is signed
		shift = -8
	}

	pcm := make([]byte, 2*len(buffer.Data))
	for i, sample := range buffer.Data {
		switch {
		case shift > 0:
			sample >>= shift
		case shift < 0:
			sample = (sample - 128) << -shift
		}
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(int16(sample)))
	}

	return &Clip{
		EncodingInfo: EncodingInfo{
			SampleRate: int(decoder.SampleRate),
			Format:     EncodingLinear16,
			Channels:   int(decoder.NumChans),
		},
		PCM: pcm,
	}, nil
}
