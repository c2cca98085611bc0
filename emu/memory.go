// Package emu provides functional RV32I emulation.
package emu

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// DefaultMemorySize is the capacity of a memory created without a size.
const DefaultMemorySize = 64 * mem.KB

// Memory is a byte-addressed little-endian memory backed by an akita
// storage. Accesses that run past the capacity fail with ErrBusFault.
type Memory struct {
	storage *mem.Storage
	size    uint64
}

// NewMemory creates a zero-filled memory of size bytes.
func NewMemory(size uint64) *Memory {
	if size == 0 {
		size = DefaultMemorySize
	}
	return &Memory{
		storage: mem.NewStorage(size),
		size:    size,
	}
}

// Size returns the memory capacity in bytes.
func (m *Memory) Size() uint64 {
	return m.size
}

func (m *Memory) read(addr uint32, n uint64) ([]byte, error) {
	if uint64(addr)+n > m.size {
		return nil, fmt.Errorf("%w: %d-byte read at 0x%08X", ErrBusFault, n, addr)
	}

	data, err := m.storage.Read(uint64(addr), n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBusFault, err)
	}

	return data, nil
}

func (m *Memory) write(addr uint32, data []byte) error {
	if uint64(addr)+uint64(len(data)) > m.size {
		return fmt.Errorf("%w: %d-byte write at 0x%08X", ErrBusFault, len(data), addr)
	}

	if err := m.storage.Write(uint64(addr), data); err != nil {
		return fmt.Errorf("%w: %v", ErrBusFault, err)
	}

	return nil
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint32) (uint8, error) {
	data, err := m.read(addr, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint32) (uint16, error) {
	data, err := m.read(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(data), nil
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint32) (uint32, error) {
	data, err := m.read(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint32, value uint8) error {
	return m.write(addr, []byte{value})
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint32, value uint16) error {
	return m.write(addr, binary.LittleEndian.AppendUint16(nil, value))
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) error {
	return m.write(addr, binary.LittleEndian.AppendUint32(nil, value))
}

// LoadProgram copies program bytes into memory starting at addr.
func (m *Memory) LoadProgram(addr uint32, program []byte) error {
	if len(program) == 0 {
		return nil
	}
	return m.write(addr, program)
}

// LoadWords copies little-endian instruction words into memory starting at
// addr.
func (m *Memory) LoadWords(addr uint32, words []uint32) error {
	buf := make([]byte, 0, 4*len(words))
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	return m.LoadProgram(addr, buf)
}
