package tofviz

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/x448/float16"
)

const exrMagic = 20000630

const (
	exrPixelUint  = 0
	exrPixelHalf  = 1
	exrPixelFloat = 2
)

const (
	exrChanOther = -2
	exrChanY     = -1
	exrChanR     = 0
	exrChanG     = 1
	exrChanB     = 2
)

type exrChannel struct {
	name      string
	pixelType int32
	xSampling int32
	ySampling int32
	role      int
}

func (ch exrChannel) bytesPerSample() int {
	if ch.pixelType == exrPixelHalf {
		return 2
	}
	return 4
}

type exrHeader struct {
	channels    []exrChannel
	dataWindow  [4]int32
	compression EXRCompression
}

func (h *exrHeader) size() (int, int) {
	return int(h.dataWindow[2]-h.dataWindow[0]) + 1, int(h.dataWindow[3]-h.dataWindow[1]) + 1
}

func (h *exrHeader) linesPerBlock() int {
	if h.compression == EXRCompressionZIP {
		return 16
	}
	return 1
}

// DecodeEXR decodes a single-part scanline OpenEXR image. R, G and B channels yield a
// three-channel buffer (a missing color channel stays zero), a lone Y channel yields a
// single-channel buffer. Alpha and other channels are ignored.
func DecodeEXR(data []byte) (*Buffer, error) {
	r := bytes.NewReader(data)
	h, err := readEXRHeader(r)
	if err != nil {
		return nil, err
	}
	width, height := h.size()
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid OpenEXR dimensions")
	}

	channels := 0
	for _, ch := range h.channels {
		switch ch.role {
		case exrChanR, exrChanG, exrChanB:
			channels = 3
		case exrChanY:
			if channels == 0 {
				channels = 1
			}
		}
	}
	if channels == 0 {
		return nil, errors.New("OpenEXR missing R/G/B or Y channels")
	}

	blockLines := h.linesPerBlock()
	blockCount := (height + blockLines - 1) / blockLines
	offsets := make([]uint64, blockCount)
	for i := range offsets {
		if offsets[i], err = readU64(r); err != nil {
			return nil, err
		}
	}

	out := NewBuffer(height, width, channels)
	baseY := int(h.dataWindow[1])
	for block := 0; block < blockCount; block++ {
		if offsets[block] == 0 {
			continue
		}
		if _, err := r.Seek(int64(offsets[block]), io.SeekStart); err != nil {
			return nil, err
		}
		y, err := readI32(r)
		if err != nil {
			return nil, err
		}
		dataSize, err := readI32(r)
		if err != nil {
			return nil, err
		}
		if dataSize < 0 || int64(dataSize) > int64(r.Len()) {
			return nil, errors.New("invalid OpenEXR block size")
		}
		raw := make([]byte, dataSize)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, err
		}

		startY := int(y) - baseY
		if startY < 0 || startY >= height {
			return nil, errors.New("OpenEXR scanline out of bounds")
		}
		lines := blockLines
		if startY+lines > height {
			lines = height - startY
		}

		unpacked, err := exrDecompress(h.compression, raw, exrBlockBytes(width, lines, h.channels))
		if err != nil {
			return nil, err
		}
		if err := exrDecodeBlock(out, h.channels, startY, lines, unpacked); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readEXRHeader(r *bytes.Reader) (*exrHeader, error) {
	magic, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if magic != exrMagic {
		return nil, errors.New("not an OpenEXR file")
	}
	version, err := readU32(r)
	if err != nil {
		return nil, err
	}
	switch {
	case version&0x00000200 != 0:
		return nil, errors.New("tiled OpenEXR not supported")
	case version&0x00000800 != 0:
		return nil, errors.New("deep OpenEXR not supported")
	case version&0x00001000 != 0:
		return nil, errors.New("multipart OpenEXR not supported")
	}

	h := &exrHeader{compression: EXRCompressionNone}
	hasDataWindow := false
	for {
		name, err := readNullString(r)
		if err != nil {
			return nil, err
		}
		if name == "" {
			break
		}
		typ, err := readNullString(r)
		if err != nil {
			return nil, err
		}
		size, err := readI32(r)
		if err != nil {
			return nil, err
		}
		if size < 0 || int64(size) > int64(r.Len()) {
			return nil, errors.New("invalid OpenEXR attribute size")
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}

		switch name {
		case "channels":
			if typ != "chlist" {
				return nil, errors.New("unexpected channels attribute type")
			}
			if h.channels, err = parseEXRChannels(payload); err != nil {
				return nil, err
			}
		case "dataWindow":
			if typ != "box2i" || len(payload) != 16 {
				return nil, errors.New("invalid dataWindow attribute")
			}
			for i := range h.dataWindow {
				h.dataWindow[i] = int32(binary.LittleEndian.Uint32(payload[i*4:]))
			}
			hasDataWindow = true
		case "compression":
			if typ != "compression" || len(payload) < 1 {
				return nil, errors.New("invalid compression attribute")
			}
			h.compression = EXRCompression(payload[0])
		case "tiles":
			return nil, errors.New("tiled OpenEXR not supported")
		}
	}

	if len(h.channels) == 0 {
		return nil, errors.New("OpenEXR missing channels")
	}
	if !hasDataWindow {
		return nil, errors.New("OpenEXR missing dataWindow")
	}
	for _, ch := range h.channels {
		if ch.xSampling != 1 || ch.ySampling != 1 {
			return nil, errors.New("OpenEXR subsampled channels are not supported")
		}
	}
	switch h.compression {
	case EXRCompressionNone, EXRCompressionZIPS, EXRCompressionZIP:
	default:
		return nil, fmt.Errorf("unsupported OpenEXR compression %d", h.compression)
	}
	return h, nil
}

func parseEXRChannels(data []byte) ([]exrChannel, error) {
	r := bytes.NewReader(data)
	var channels []exrChannel
	for {
		name, err := readNullString(r)
		if err != nil {
			return nil, err
		}
		if name == "" {
			break
		}
		pixelType, err := readI32(r)
		if err != nil {
			return nil, err
		}
		if pixelType != exrPixelHalf && pixelType != exrPixelFloat && pixelType != exrPixelUint {
			return nil, fmt.Errorf("unsupported OpenEXR pixel type %d", pixelType)
		}
		// pLinear and three reserved bytes.
		if _, err := r.Seek(4, io.SeekCurrent); err != nil {
			return nil, err
		}
		xSampling, err := readI32(r)
		if err != nil {
			return nil, err
		}
		ySampling, err := readI32(r)
		if err != nil {
			return nil, err
		}
		channels = append(channels, exrChannel{
			name:      name,
			pixelType: pixelType,
			xSampling: xSampling,
			ySampling: ySampling,
			role:      exrChannelRole(name),
		})
	}
	return channels, nil
}

// exrChannelRole maps "R", "G", "B", "Y" and layered names such as "beauty.R".
func exrChannelRole(name string) int {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	switch strings.ToUpper(name) {
	case "R":
		return exrChanR
	case "G":
		return exrChanG
	case "B":
		return exrChanB
	case "Y":
		return exrChanY
	}
	return exrChanOther
}

func exrBlockBytes(width, lines int, channels []exrChannel) int {
	total := 0
	for _, ch := range channels {
		total += width * lines * ch.bytesPerSample()
	}
	return total
}

func exrDecompress(compression EXRCompression, data []byte, expected int) ([]byte, error) {
	switch compression {
	case EXRCompressionNone:
		if len(data) != expected {
			return nil, errors.New("unexpected OpenEXR block size")
		}
		return data, nil
	case EXRCompressionZIPS, EXRCompressionZIP:
		// Blocks that did not shrink are stored raw.
		if len(data) == expected {
			return data, nil
		}
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		uncompressed, err := io.ReadAll(zr)
		if err != nil {
			return nil, err
		}
		if len(uncompressed) != expected {
			return nil, errors.New("unexpected OpenEXR decompressed size")
		}
		undoPredictor(uncompressed)
		return unshuffleBytes(uncompressed), nil
	default:
		return nil, errors.New("unsupported OpenEXR compression")
	}
}

func undoPredictor(data []byte) {
	for i := 1; i < len(data); i++ {
		data[i] = byte(int(data[i]) + int(data[i-1]) - 128)
	}
}

func unshuffleBytes(data []byte) []byte {
	half := (len(data) + 1) / 2
	out := make([]byte, len(data))
	for i := range out {
		if i%2 == 0 {
			out[i] = data[i/2]
		} else {
			out[i] = data[half+i/2]
		}
	}
	return out
}

func exrDecodeBlock(dst *Buffer, channels []exrChannel, startY, lines int, data []byte) error {
	offset := 0
	for row := 0; row < lines; row++ {
		y := startY + row
		for _, ch := range channels {
			lineBytes := dst.Width * ch.bytesPerSample()
			if offset+lineBytes > len(data) {
				return errors.New("OpenEXR block truncated")
			}
			line := data[offset : offset+lineBytes]
			offset += lineBytes

			if ch.role == exrChanOther || (ch.role == exrChanY && dst.Channels == 3) {
				continue
			}
			c := ch.role
			if c == exrChanY {
				c = 0
			}
			for x := 0; x < dst.Width; x++ {
				dst.Pix[(y*dst.Width+x)*dst.Channels+c] = exrSample(ch.pixelType, line, x)
			}
		}
	}
	return nil
}

func exrSample(pixelType int32, line []byte, x int) float32 {
	switch pixelType {
	case exrPixelHalf:
		return float16.Frombits(binary.LittleEndian.Uint16(line[x*2:])).Float32()
	case exrPixelFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(line[x*4:]))
	default:
		return float32(binary.LittleEndian.Uint32(line[x*4:]))
	}
}

// EncodeEXR writes b as a single-part scanline OpenEXR image. Three-channel buffers are
// stored as R, G, B and single-channel buffers as Y.
func EncodeEXR(b *Buffer, opts ...func(o *EXROptions)) ([]byte, error) {
	if err := requireChannels(b, 1, 3); err != nil {
		return nil, err
	}
	opt := EXROptions{Compression: EXRCompressionZIP}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	switch opt.Compression {
	case EXRCompressionNone, EXRCompressionZIPS, EXRCompressionZIP:
	default:
		return nil, fmt.Errorf("unsupported OpenEXR compression %d", opt.Compression)
	}

	pixelType := int32(exrPixelFloat)
	if opt.Half {
		pixelType = exrPixelHalf
	}
	// Channel lists are sorted by name.
	var channels []exrChannel
	if b.Channels == 3 {
		for _, name := range []string{"B", "G", "R"} {
			channels = append(channels, exrChannel{name: name, pixelType: pixelType, xSampling: 1, ySampling: 1, role: exrChannelRole(name)})
		}
	} else {
		channels = []exrChannel{{name: "Y", pixelType: pixelType, xSampling: 1, ySampling: 1, role: exrChanY}}
	}
	h := &exrHeader{
		channels:    channels,
		dataWindow:  [4]int32{0, 0, int32(b.Width - 1), int32(b.Height - 1)},
		compression: opt.Compression,
	}

	var out bytes.Buffer
	writeEXRHeader(&out, h)

	blockLines := h.linesPerBlock()
	blockCount := (b.Height + blockLines - 1) / blockLines
	blocks := make([][]byte, blockCount)
	for i := range blocks {
		startY := i * blockLines
		lines := blockLines
		if startY+lines > b.Height {
			lines = b.Height - startY
		}
		raw := exrEncodeBlock(b, channels, startY, lines)
		packed, err := exrCompress(h.compression, raw)
		if err != nil {
			return nil, err
		}
		blocks[i] = packed
	}

	offset := uint64(out.Len() + 8*blockCount)
	for _, blk := range blocks {
		_ = binary.Write(&out, binary.LittleEndian, offset)
		offset += uint64(8 + len(blk))
	}
	for i, blk := range blocks {
		_ = binary.Write(&out, binary.LittleEndian, int32(i*blockLines))
		_ = binary.Write(&out, binary.LittleEndian, int32(len(blk)))
		out.Write(blk)
	}
	return out.Bytes(), nil
}

func writeEXRHeader(w *bytes.Buffer, h *exrHeader) {
	_ = binary.Write(w, binary.LittleEndian, uint32(exrMagic))
	_ = binary.Write(w, binary.LittleEndian, uint32(2))

	var chlist bytes.Buffer
	for _, ch := range h.channels {
		chlist.WriteString(ch.name)
		chlist.WriteByte(0)
		_ = binary.Write(&chlist, binary.LittleEndian, ch.pixelType)
		chlist.Write([]byte{0, 0, 0, 0})
		_ = binary.Write(&chlist, binary.LittleEndian, ch.xSampling)
		_ = binary.Write(&chlist, binary.LittleEndian, ch.ySampling)
	}
	chlist.WriteByte(0)

	box := make([]byte, 16)
	for i, v := range h.dataWindow {
		binary.LittleEndian.PutUint32(box[i*4:], uint32(v))
	}
	f32 := func(v float32) []byte {
		p := make([]byte, 4)
		binary.LittleEndian.PutUint32(p, math.Float32bits(v))
		return p
	}

	writeEXRAttribute(w, "channels", "chlist", chlist.Bytes())
	writeEXRAttribute(w, "compression", "compression", []byte{byte(h.compression)})
	writeEXRAttribute(w, "dataWindow", "box2i", box)
	writeEXRAttribute(w, "displayWindow", "box2i", box)
	writeEXRAttribute(w, "lineOrder", "lineOrder", []byte{0})
	writeEXRAttribute(w, "pixelAspectRatio", "float", f32(1))
	writeEXRAttribute(w, "screenWindowCenter", "v2f", append(f32(0), f32(0)...))
	writeEXRAttribute(w, "screenWindowWidth", "float", f32(1))
	w.WriteByte(0)
}

func writeEXRAttribute(w *bytes.Buffer, name, typ string, payload []byte) {
	w.WriteString(name)
	w.WriteByte(0)
	w.WriteString(typ)
	w.WriteByte(0)
	_ = binary.Write(w, binary.LittleEndian, int32(len(payload)))
	w.Write(payload)
}

func exrEncodeBlock(b *Buffer, channels []exrChannel, startY, lines int) []byte {
	out := make([]byte, 0, exrBlockBytes(b.Width, lines, channels))
	for row := 0; row < lines; row++ {
		y := startY + row
		for _, ch := range channels {
			c := ch.role
			if c == exrChanY {
				c = 0
			}
			for x := 0; x < b.Width; x++ {
				v := b.Pix[(y*b.Width+x)*b.Channels+c]
				if ch.pixelType == exrPixelHalf {
					out = binary.LittleEndian.AppendUint16(out, float16.Fromfloat32(v).Bits())
				} else {
					out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
				}
			}
		}
	}
	return out
}

func exrCompress(compression EXRCompression, raw []byte) ([]byte, error) {
	if compression == EXRCompressionNone {
		return raw, nil
	}
	shuffled := shuffleBytes(raw)
	applyPredictor(shuffled)

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(shuffled); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	if buf.Len() >= len(raw) {
		return raw, nil
	}
	return buf.Bytes(), nil
}

// shuffleBytes moves even-indexed bytes to the first half and odd-indexed bytes to the second.
func shuffleBytes(data []byte) []byte {
	half := (len(data) + 1) / 2
	out := make([]byte, len(data))
	for i, v := range data {
		if i%2 == 0 {
			out[i/2] = v
		} else {
			out[half+i/2] = v
		}
	}
	return out
}

func applyPredictor(data []byte) {
	prev := byte(0)
	for i := range data {
		cur := data[i]
		if i > 0 {
			data[i] = byte(int(cur) - int(prev) + 128)
		}
		prev = cur
	}
}

// ReadEXRFile decodes the OpenEXR file at path.
func ReadEXRFile(path string) (*Buffer, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	b, err := DecodeEXR(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return b, nil
}

// WriteEXRFile encodes b to outputDir/filename, creating outputDir when missing.
func WriteEXRFile(b *Buffer, outputDir, filename string, opts ...func(o *EXROptions)) error {
	data, err := EncodeEXR(b, opts...)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(filepath.Join(outputDir, filename), data, filePerm)
}

func readNullString(r *bytes.Reader) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf), nil
}

func readU32(r *bytes.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readU64(r *bytes.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func readI32(r *bytes.Reader) (int32, error) {
	v, err := readU32(r)
	return int32(v), err
}
