package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog"
)

const (
	// WAV format constants
	wavHeaderSize      = 44 // Total WAV header size in bytes
	wavRiffHeaderSize  = 36 // RIFF header size (file size - 8 = riffHeaderSize + dataSize)
	wavPCMSubchunkSize = 16 // fmt subchunk size for PCM format
	wavFileSizeOffset  = 4  // Byte offset for file size field in header
	wavDataSizeOffset  = 40 // Byte offset for data size field in header

	bitsPerByte = 8

	// I/O buffer size for the output writer
	wavWriterBufferSize = 256 * 1024
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format
// information.
func openWAVInput(path string, logger zerolog.Logger) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	inputRate := format.SampleRate
	channels := format.NumChannels
	bitDepth := int(decoder.BitDepth)

	if sampleMaxValue(bitDepth) == 0 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported bit depth %d in %s", bitDepth, path)
	}

	logger.Info().
		Int("rate", inputRate).
		Int("channels", channels).
		Int("bit_depth", bitDepth).
		Str("path", path).
		Msg("input format")

	// Total duration for progress reporting; 0 disables it
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}
	totalFrames := int64(duration.Seconds() * float64(inputRate))

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        inputRate,
		channels:    channels,
		bitDepth:    bitDepth,
		totalFrames: totalFrames,
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// sampleMaxValue returns the full-scale sample value for a bit depth, or
// 0 when the depth is unsupported.
func sampleMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return 0
	}
}

// pcmBuffers holds the preallocated conversion buffers for the
// processing loop, so the hot path does not allocate.
type pcmBuffers struct {
	ints      *audio.IntBuffer
	floats    []float64
	outInts   []int
	maxVal    float64
	invMaxVal float64
}

func newPCMBuffers(channels, bitDepth int, format *audio.Format) *pcmBuffers {
	maxVal := sampleMaxValue(bitDepth)
	return &pcmBuffers{
		ints: &audio.IntBuffer{
			Data:   make([]int, bufferSize*channels),
			Format: format,
		},
		floats:    make([]float64, bufferSize*channels),
		maxVal:    maxVal,
		invMaxVal: 1.0 / maxVal,
	}
}

// normalize converts the first n decoded int samples to [-1.0, 1.0]
// floats, keeping them interleaved.
func (b *pcmBuffers) normalize(n int) []float64 {
	for i := 0; i < n; i++ {
		b.floats[i] = float64(b.ints.Data[i]) * b.invMaxVal
	}
	return b.floats[:n]
}

// denormalize clamps float samples to [-1.0, 1.0] and converts them back
// to ints at the output bit depth. The returned slice is reused across
// calls.
func (b *pcmBuffers) denormalize(samples []float64) []int {
	if cap(b.outInts) < len(samples) {
		b.outInts = make([]int, len(samples))
	}
	out := b.outInts[:len(samples)]
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		out[i] = int(s * b.maxVal)
	}
	return out
}

// wavWriter writes PCM data directly without per-sample allocations,
// patching the RIFF size fields on Close.
type wavWriter struct {
	f          *os.File
	w          *bufio.Writer
	sampleRate int
	bitDepth   int
	channels   int
	dataSize   uint32
	byteBuf    []byte
}

// createWAVOutput creates the output file with a placeholder header.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := &wavWriter{
		f:          f,
		w:          bufio.NewWriterSize(f, wavWriterBufferSize),
		sampleRate: sampleRate,
		bitDepth:   bitDepth,
		channels:   channels,
		byteBuf:    make([]byte, bufferSize*channels*(bitDepth/bitsPerByte)),
	}
	if err := w.writeHeader(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	return w, nil
}

func (w *wavWriter) writeHeader() error {
	byteRate := w.sampleRate * w.channels * (w.bitDepth / bitsPerByte)
	blockAlign := w.channels * (w.bitDepth / bitsPerByte)

	header := make([]byte, wavHeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 0) // Placeholder for file size - 8
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], wavPCMSubchunkSize)
	binary.LittleEndian.PutUint16(header[20:22], 1) // AudioFormat (1 = PCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(w.channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(w.sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(w.bitDepth))

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], 0) // Placeholder for data size

	_, err := w.w.Write(header)
	return err
}

// WriteSamples encodes samples at the writer's bit depth.
func (w *wavWriter) WriteSamples(samples []int) error {
	needed := len(samples) * (w.bitDepth / bitsPerByte)
	if len(w.byteBuf) < needed {
		w.byteBuf = make([]byte, needed)
	}
	buf := w.byteBuf[:needed]

	switch w.bitDepth {
	case bitsPerSample16:
		for i, s := range samples {
			binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(s)))
		}
	case bitsPerSample24:
		for i, s := range samples {
			buf[i*3] = byte(s)
			buf[i*3+1] = byte(s >> 8)
			buf[i*3+2] = byte(s >> 16)
		}
	case bitsPerSample32:
		for i, s := range samples {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(int32(s)))
		}
	default:
		return fmt.Errorf("unsupported bit depth %d", w.bitDepth)
	}

	written, err := w.w.Write(buf)
	w.dataSize += uint32(written)
	return err
}

// Close flushes buffered data, patches the RIFF size fields and closes
// the file.
func (w *wavWriter) Close() error {
	if err := w.w.Flush(); err != nil {
		_ = w.f.Close()
		return err
	}
	if err := w.patchHeader(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}

func (w *wavWriter) patchHeader() error {
	sizeBytes := make([]byte, 4)

	// File size at offset 4: total file size - 8
	if _, err := w.f.Seek(wavFileSizeOffset, io.SeekStart); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(sizeBytes, wavRiffHeaderSize+w.dataSize)
	if _, err := w.f.Write(sizeBytes); err != nil {
		return err
	}

	// Data size at offset 40
	if _, err := w.f.Seek(wavDataSizeOffset, io.SeekStart); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(sizeBytes, w.dataSize)
	_, err := w.f.Write(sizeBytes)
	return err
}

// progressTracker reports conversion progress at fixed percentage steps.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	logger       zerolog.Logger
}

func newProgressTracker(totalFrames int64, logger zerolog.Logger) *progressTracker {
	return &progressTracker{
		totalFrames: totalFrames,
		logger:      logger,
	}
}

// reportIfNeeded reports progress when another interval is crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		p.logger.Info().Int("percent", progress).Msg("progress")
		p.lastProgress = progress
	}
}
