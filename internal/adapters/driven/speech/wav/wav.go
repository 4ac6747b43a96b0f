// Package wav wraps raw PCM in a RIFF/WAVE container and encodes it as a
// data URI.
package wav

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
)

// DataURIPrefix precedes the base64 payload of every URI built here.
const DataURIPrefix = "data:audio/wav;base64,"

const (
	headerSize = 44
	formatPCM  = 1
)

// header is the canonical 44-byte PCM WAV header.
type header struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// Encode returns a complete WAV file for audio.
func Encode(audio driven.Audio) ([]byte, error) {
	if audio.SampleRate <= 0 || audio.Channels <= 0 || audio.BitsPerSample <= 0 || audio.BitsPerSample%8 != 0 {
		return nil, fmt.Errorf("wav: invalid format %d Hz, %d channels, %d bits",
			audio.SampleRate, audio.Channels, audio.BitsPerSample)
	}

	blockAlign := audio.Channels * audio.BitsPerSample / 8
	h := header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(headerSize - 8 + len(audio.PCM)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   formatPCM,
		NumChannels:   uint16(audio.Channels),
		SampleRate:    uint32(audio.SampleRate),
		ByteRate:      uint32(audio.SampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: uint16(audio.BitsPerSample),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(audio.PCM)),
	}

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(audio.PCM)))
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("wav: write header: %w", err)
	}
	buf.Write(audio.PCM)
	return buf.Bytes(), nil
}

// DataURI encodes audio as a data:audio/wav;base64 URI.
func DataURI(audio driven.Audio) (string, error) {
	data, err := Encode(audio)
	if err != nil {
		return "", err
	}
	return DataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}
