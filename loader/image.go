package loader

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrUnsupportedFormat is returned for an unknown program format name.
var ErrUnsupportedFormat = errors.New("unsupported program format")

// Format identifies a program file format.
type Format int

// Supported formats.
const (
	// FormatAuto picks the format from the file contents and extension.
	FormatAuto Format = iota
	// FormatELF is a 32-bit RISC-V ELF executable.
	FormatELF
	// FormatBinary is a raw little-endian memory image.
	FormatBinary
	// FormatHex is a text image of 32-bit hex words, one or more per line,
	// as read by Verilog's $readmemh.
	FormatHex
)

var formatNames = map[Format]string{
	FormatAuto:   "auto",
	FormatELF:    "elf",
	FormatBinary: "bin",
	FormatHex:    "hex",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// ParseFormat maps a format name to a Format. The empty string means auto.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return FormatAuto, nil
	case "elf":
		return FormatELF, nil
	case "bin", "binary", "raw":
		return FormatBinary, nil
	case "hex", "mem":
		return FormatHex, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// DetectFormat guesses the format of the file at path from its magic number
// and extension.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open program: %w", err)
	}
	defer func() { _ = f.Close() }()

	magic := make([]byte, 4)
	n, _ := f.Read(magic)
	if n == 4 && bytes.Equal(magic, []byte{0x7f, 'E', 'L', 'F'}) {
		return FormatELF, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".mem":
		return FormatHex, nil
	default:
		return FormatBinary, nil
	}
}

// Load reads the program at path. Images without an entry point are placed
// at base and start there.
func Load(path string, format Format, base uint32) (*Program, error) {
	if format == FormatAuto {
		var err error
		format, err = DetectFormat(path)
		if err != nil {
			return nil, err
		}
	}

	switch format {
	case FormatELF:
		return LoadELF(path)
	case FormatBinary:
		return LoadBinary(path, base)
	case FormatHex:
		return LoadHex(path, base)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

// LoadBinary reads a raw little-endian memory image.
func LoadBinary(path string, base uint32) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read binary image: %w", err)
	}

	return &Program{
		EntryPoint: base,
		Segments: []Segment{{
			VirtAddr: base,
			Data:     data,
			MemSize:  uint32(len(data)),
			Flags:    SegmentFlagRead | SegmentFlagWrite | SegmentFlagExecute,
		}},
	}, nil
}

// LoadHex reads a hex word image. Each token is one 32-bit word, stored
// little-endian. "@n" moves the load point to word n relative to base.
// Comments start with "//" or "#" and run to the end of the line;
// underscores inside words are ignored.
func LoadHex(path string, base uint32) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hex image: %w", err)
	}
	defer func() { _ = f.Close() }()

	segments, err := parseHex(f, base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hex image: %w", err)
	}

	return &Program{
		EntryPoint: base,
		Segments:   segments,
	}, nil
}

func parseHex(r io.Reader, base uint32) ([]Segment, error) {
	var (
		segments []Segment
		current  *Segment
		addr     = base
	)

	flush := func() {
		if current != nil && len(current.Data) > 0 {
			current.MemSize = uint32(len(current.Data))
			segments = append(segments, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())

		for _, token := range strings.Fields(line) {
			if strings.HasPrefix(token, "@") {
				offset, err := strconv.ParseUint(strings.ReplaceAll(token[1:], "_", ""), 16, 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad address %q", lineNo, token)
				}
				flush()
				addr = base + uint32(offset)*4
				continue
			}

			word, err := strconv.ParseUint(strings.ReplaceAll(token, "_", ""), 16, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad word %q", lineNo, token)
			}

			if current == nil {
				current = &Segment{
					VirtAddr: addr,
					Flags:    SegmentFlagRead | SegmentFlagWrite | SegmentFlagExecute,
				}
			}
			current.Data = binary.LittleEndian.AppendUint32(current.Data, uint32(word))
			addr += 4
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	flush()

	return segments, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return line
}
