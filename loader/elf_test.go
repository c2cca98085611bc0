package loader_test

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
	"github.com/sarchlab/rv32sim/loader"
)

const (
	emRISCV = 243
	emARM   = 40
)

type elfSegment struct {
	vaddr   uint32
	data    []byte
	memSize uint32
	flags   uint32
}

func code(words ...insts.Word) []byte {
	buf := make([]byte, 0, 4*len(words))
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(w))
	}
	return buf
}

var _ = Describe("ELF Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "elf-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	Describe("LoadELF", func() {
		Context("with a valid RV32 ELF binary", func() {
			var (
				elfPath string
				text    []byte
			)

			BeforeEach(func() {
				elfPath = filepath.Join(tempDir, "test.elf")
				text = code(insts.ADDI(10, 0, 42), insts.JAL(0, 0))
				createRV32ELF(elfPath, emRISCV, 0x80, elfSegment{
					vaddr: 0x80, data: text, memSize: uint32(len(text)), flags: 0x5,
				})
			})

			It("should extract the correct entry point", func() {
				prog, err := loader.LoadELF(elfPath)

				Expect(err).NotTo(HaveOccurred())
				Expect(prog.EntryPoint).To(Equal(uint32(0x80)))
			})

			It("should load segment contents and flags", func() {
				prog, err := loader.LoadELF(elfPath)

				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(HaveLen(1))
				seg := prog.Segments[0]
				Expect(seg.VirtAddr).To(Equal(uint32(0x80)))
				Expect(seg.Data).To(Equal(text))
				Expect(seg.Flags & loader.SegmentFlagExecute).NotTo(BeZero())
				Expect(seg.Flags & loader.SegmentFlagRead).NotTo(BeZero())
				Expect(seg.Flags & loader.SegmentFlagWrite).To(BeZero())
			})

			It("should run in the emulator", func() {
				prog, err := loader.LoadELF(elfPath)
				Expect(err).NotTo(HaveOccurred())

				e := emu.NewEmulator(emu.WithMemorySize(4096))
				Expect(prog.LoadInto(e.Memory())).To(Succeed())
				e.SetEntry(prog.EntryPoint)

				Expect(e.Run()).To(Succeed())
				Expect(e.RegFile().ReadReg(10)).To(Equal(uint32(42)))
			})
		})

		Context("with multiple segments", func() {
			It("should load code and data", func() {
				elfPath := filepath.Join(tempDir, "multi.elf")
				createRV32ELF(elfPath, emRISCV, 0,
					elfSegment{vaddr: 0, data: code(insts.JAL(0, 0)), memSize: 4, flags: 0x5},
					elfSegment{vaddr: 0x400, data: []byte{1, 2, 3, 4}, memSize: 4, flags: 0x6},
				)

				prog, err := loader.LoadELF(elfPath)

				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(HaveLen(2))
				Expect(prog.Segments[1].VirtAddr).To(Equal(uint32(0x400)))
				Expect(prog.Segments[1].Flags & loader.SegmentFlagWrite).NotTo(BeZero())
				Expect(prog.Size()).To(Equal(uint64(8)))
			})
		})

		Context("with a BSS segment", func() {
			It("should zero-fill past the file data", func() {
				elfPath := filepath.Join(tempDir, "bss.elf")
				createRV32ELF(elfPath, emRISCV, 0,
					elfSegment{vaddr: 0x100, data: []byte{0xAA, 0xBB}, memSize: 16, flags: 0x6},
				)

				prog, err := loader.LoadELF(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments[0].MemSize).To(Equal(uint32(16)))

				memory := emu.NewMemory(4096)
				Expect(memory.Write32(0x10C, 0xFFFFFFFF)).To(Succeed())
				Expect(prog.LoadInto(memory)).To(Succeed())

				Expect(memory.Read16(0x100)).To(Equal(uint16(0xBBAA)))
				Expect(memory.Read32(0x10C)).To(BeZero())
			})
		})

		Context("with no loadable segments", func() {
			It("should return an empty segment list", func() {
				elfPath := filepath.Join(tempDir, "empty-segs.elf")
				createRV32ELF(elfPath, emRISCV, 0x200)

				prog, err := loader.LoadELF(elfPath)

				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(BeEmpty())
				Expect(prog.EntryPoint).To(Equal(uint32(0x200)))
			})
		})

		Context("with an invalid file", func() {
			It("should return error for non-existent file", func() {
				_, err := loader.LoadELF("/nonexistent/path/to/file.elf")

				Expect(err).To(MatchError(ContainSubstring("failed to open")))
			})

			It("should return error for non-ELF file", func() {
				notElfPath := filepath.Join(tempDir, "not-elf.bin")
				Expect(os.WriteFile(notElfPath, []byte("not an elf file"), 0644)).To(Succeed())

				_, err := loader.LoadELF(notElfPath)

				Expect(err).To(MatchError(ContainSubstring("ELF")))
			})

			It("should return error for a non-RISC-V ELF", func() {
				elfPath := filepath.Join(tempDir, "arm.elf")
				createRV32ELF(elfPath, emARM, 0)

				_, err := loader.LoadELF(elfPath)

				Expect(err).To(MatchError(ContainSubstring("not a RISC-V")))
			})

			It("should return error for a 64-bit ELF", func() {
				elfPath := filepath.Join(tempDir, "elf64.elf")
				createMinimal64BitELF(elfPath)

				_, err := loader.LoadELF(elfPath)

				Expect(err).To(MatchError(ContainSubstring("not a 32-bit")))
			})
		})
	})

	Describe("LoadInto", func() {
		It("should report segments that do not fit", func() {
			prog := &loader.Program{Segments: []loader.Segment{{
				VirtAddr: 0xFF0, Data: make([]byte, 32), MemSize: 32,
			}}}

			err := prog.LoadInto(emu.NewMemory(4096))

			Expect(err).To(MatchError(emu.ErrBusFault))
		})
	})
})

// createRV32ELF writes a little-endian ELF32 executable with one PT_LOAD
// program header per segment.
func createRV32ELF(path string, machine uint16, entryPoint uint32, segs ...elfSegment) {
	const (
		ehSize = 52
		phSize = 32
	)

	elfHeader := make([]byte, ehSize)
	copy(elfHeader[0:4], []byte{0x7f, 'E', 'L', 'F'})
	elfHeader[4] = 1                                         // 32-bit
	elfHeader[5] = 1                                         // little endian
	elfHeader[6] = 1                                         // version
	binary.LittleEndian.PutUint16(elfHeader[16:18], 2)       // executable
	binary.LittleEndian.PutUint16(elfHeader[18:20], machine) // machine
	binary.LittleEndian.PutUint32(elfHeader[20:24], 1)       // version
	binary.LittleEndian.PutUint32(elfHeader[24:28], entryPoint)
	binary.LittleEndian.PutUint32(elfHeader[28:32], ehSize) // phoff
	binary.LittleEndian.PutUint16(elfHeader[40:42], ehSize) // ehsize
	binary.LittleEndian.PutUint16(elfHeader[42:44], phSize) // phentsize
	binary.LittleEndian.PutUint16(elfHeader[44:46], uint16(len(segs)))
	binary.LittleEndian.PutUint16(elfHeader[46:48], 40) // shentsize

	offset := uint32(ehSize + phSize*len(segs))
	var progHeaders, contents []byte
	for _, seg := range segs {
		ph := make([]byte, phSize)
		binary.LittleEndian.PutUint32(ph[0:4], 1) // PT_LOAD
		binary.LittleEndian.PutUint32(ph[4:8], offset)
		binary.LittleEndian.PutUint32(ph[8:12], seg.vaddr)
		binary.LittleEndian.PutUint32(ph[12:16], seg.vaddr)
		binary.LittleEndian.PutUint32(ph[16:20], uint32(len(seg.data)))
		binary.LittleEndian.PutUint32(ph[20:24], seg.memSize)
		binary.LittleEndian.PutUint32(ph[24:28], seg.flags)
		binary.LittleEndian.PutUint32(ph[28:32], 4)

		progHeaders = append(progHeaders, ph...)
		contents = append(contents, seg.data...)
		offset += uint32(len(seg.data))
	}

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()

	_, _ = file.Write(elfHeader)
	_, _ = file.Write(progHeaders)
	_, _ = file.Write(contents)
}

// createMinimal64BitELF creates a minimal 64-bit RISC-V ELF to test
// rejection.
func createMinimal64BitELF(path string) {
	elfHeader := make([]byte, 64)

	copy(elfHeader[0:4], []byte{0x7f, 'E', 'L', 'F'})
	elfHeader[4] = 2                                         // 64-bit
	elfHeader[5] = 1                                         // little endian
	elfHeader[6] = 1                                         // version
	binary.LittleEndian.PutUint16(elfHeader[16:18], 2)       // executable
	binary.LittleEndian.PutUint16(elfHeader[18:20], emRISCV) // RISC-V
	binary.LittleEndian.PutUint32(elfHeader[20:24], 1)       // version
	binary.LittleEndian.PutUint64(elfHeader[32:40], 64)      // phoff
	binary.LittleEndian.PutUint16(elfHeader[52:54], 64)      // ehsize
	binary.LittleEndian.PutUint16(elfHeader[54:56], 56)      // phentsize

	file, _ := os.Create(path)
	defer func() { _ = file.Close() }()
	_, _ = file.Write(elfHeader)
}
