package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const wavHeaderSize = 44

// wavHeader is the canonical 44-byte RIFF/WAVE header for PCM data.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

// EncodeWAV wraps raw PCM bytes in a WAV container described by f.
func EncodeWAV(pcm []byte, f Format) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if len(pcm)%f.BlockAlign() != 0 {
		return nil, fmt.Errorf("pcm length %d is not a multiple of block align %d", len(pcm), f.BlockAlign())
	}

	dataSize := uint32(len(pcm))
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(f.Channels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(f.ByteRate()),
		BlockAlign:    uint16(f.BlockAlign()),
		BitsPerSample: uint16(f.BitsPerSample),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(pcm)))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	buf.Write(pcm)

	return buf.Bytes(), nil
}

// WAVInfo is the metadata of a canonical PCM WAV file.
type WAVInfo struct {
	Format   Format
	DataSize uint32
}

// ReadWAV validates a canonical PCM WAV file and returns its metadata and
// the PCM payload.
func ReadWAV(data []byte) (WAVInfo, []byte, error) {
	if len(data) < wavHeaderSize {
		return WAVInfo{}, nil, fmt.Errorf("WAV data too short: need at least %d bytes, got %d", wavHeaderSize, len(data))
	}

	var h wavHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return WAVInfo{}, nil, fmt.Errorf("failed to read WAV header: %w", err)
	}

	switch {
	case string(h.ChunkID[:]) != "RIFF":
		return WAVInfo{}, nil, fmt.Errorf("invalid WAV file: missing RIFF header")
	case string(h.Format[:]) != "WAVE":
		return WAVInfo{}, nil, fmt.Errorf("invalid WAV file: missing WAVE format")
	case string(h.Subchunk1ID[:]) != "fmt ":
		return WAVInfo{}, nil, fmt.Errorf("invalid WAV file: missing fmt chunk")
	case string(h.Subchunk2ID[:]) != "data":
		return WAVInfo{}, nil, fmt.Errorf("invalid WAV file: missing data chunk")
	case h.AudioFormat != 1:
		return WAVInfo{}, nil, fmt.Errorf("unsupported audio format: %d (only PCM is supported)", h.AudioFormat)
	}

	end := wavHeaderSize + int(h.Subchunk2Size)
	if end > len(data) {
		return WAVInfo{}, nil, fmt.Errorf("WAV data truncated: header declares %d bytes, have %d", h.Subchunk2Size, len(data)-wavHeaderSize)
	}

	info := WAVInfo{
		Format: Format{
			SampleRate:    int(h.SampleRate),
			Channels:      int(h.NumChannels),
			BitsPerSample: int(h.BitsPerSample),
		},
		DataSize: h.Subchunk2Size,
	}
	return info, data[wavHeaderSize:end], nil
}
