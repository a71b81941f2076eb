// Package render runs a plugin over a wav file block by block, the way a
// host would during an offline bounce.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultBlockSize is the number of frames handed to the plugin per call.
const DefaultBlockSize = 512

var (
	// ErrInvalidWav is returned when the input is not a readable wav file.
	ErrInvalidWav = errors.New("render: invalid wav file")
	// ErrUnsupportedBitDepth is returned for sample formats other than 16, 24 or 32 bit PCM.
	ErrUnsupportedBitDepth = errors.New("render: unsupported bit depth")
)

// Processor processes one block of non-interleaved audio in place of a host.
type Processor interface {
	Process(input, output [][]float32)
}

// Preparer is implemented by processors that need the stream's format
// before the first block.
type Preparer interface {
	Setup(sampleRate float64, maxBlockSize int) error
}

// Stats describes a finished render.
type Stats struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int64
}

// File renders the wav file at in through p and writes the result to out
// with the same format.
func File(in, out string, p Processor, blockSize int) (Stats, error) {
	src, err := os.Open(in)
	if err != nil {
		return Stats{}, err
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return Stats{}, err
	}

	stats, err := Stream(src, dst, p, blockSize)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	return stats, err
}

// Stream renders wav data from r through p into w.
func Stream(r io.ReadSeeker, w io.WriteSeeker, p Processor, blockSize int) (Stats, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return Stats{}, ErrInvalidWav
	}
	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case 16, 24, 32:
	default:
		return Stats{}, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	format := decoder.Format()
	stats := Stats{
		SampleRate: int(decoder.SampleRate),
		Channels:   format.NumChannels,
		BitDepth:   bitDepth,
	}
	if stats.Channels <= 0 {
		return stats, ErrInvalidWav
	}

	if prep, ok := p.(Preparer); ok {
		if err := prep.Setup(float64(stats.SampleRate), blockSize); err != nil {
			return stats, err
		}
	}

	encoder := wav.NewEncoder(w, stats.SampleRate, bitDepth, stats.Channels, 1)
	ib := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, blockSize*stats.Channels),
		SourceBitDepth: bitDepth,
	}
	data := ib.Data
	in := alloc(stats.Channels, blockSize)
	out := alloc(stats.Channels, blockSize)
	scale := float32(int64(1) << (bitDepth - 1))

	for {
		ib.Data = data
		n, err := decoder.PCMBuffer(ib)
		if err != nil && !errors.Is(err, io.EOF) {
			return stats, fmt.Errorf("read block: %w", err)
		}
		if n < stats.Channels {
			break
		}

		frames := n / stats.Channels
		resize(in, frames)
		resize(out, frames)
		deinterleave(data, in, scale)
		p.Process(in, out)
		interleave(out, data, scale)

		ib.Data = data[:frames*stats.Channels]
		if err := encoder.Write(ib); err != nil {
			return stats, fmt.Errorf("write block: %w", err)
		}
		stats.Frames += int64(frames)
	}

	if err := encoder.Close(); err != nil {
		return stats, err
	}
	return stats, nil
}

func alloc(channels, frames int) [][]float32 {
	b := make([][]float32, channels)
	for ch := range b {
		b[ch] = make([]float32, frames)
	}
	return b
}

// resize reslices every channel of b to n frames. n never exceeds the
// allocated block size.
func resize(b [][]float32, n int) {
	for ch := range b {
		b[ch] = b[ch][:n]
	}
}

func deinterleave(ints []int, dst [][]float32, scale float32) {
	channels := len(dst)
	for ch := range dst {
		for i := range dst[ch] {
			dst[ch][i] = float32(ints[i*channels+ch]) / scale
		}
	}
}

func interleave(src [][]float32, ints []int, scale float32) {
	channels := len(src)
	limit := float64(scale)
	for ch := range src {
		for i := range src[ch] {
			v := math.Round(float64(src[ch][i]) * limit)
			v = math.Max(-limit, math.Min(limit-1, v))
			ints[i*channels+ch] = int(v)
		}
	}
}
