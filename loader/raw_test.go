package loader_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vanilla/loader"
)

var _ = Describe("Raw Image Loader", func() {
	parse := func(image string) (*loader.Program, error) {
		return loader.Parse(strings.NewReader(image))
	}

	It("should load words from address 0", func() {
		prog, err := parse("v2.0 raw\n14100007 1b100000\n15000000\n")
		Expect(err).NotTo(HaveOccurred())

		Expect(prog.Entry).To(BeZero())
		Expect(prog.Segments).To(HaveLen(1))
		Expect(prog.Segments[0].Base).To(BeZero())
		Expect(prog.Segments[0].Words).To(Equal([]uint32{
			0x14100007, 0x1B100000, 0x15000000,
		}))
	})

	It("should expand run lengths", func() {
		prog, err := parse("v2.0 raw\n3*0 ffffffff\n")
		Expect(err).NotTo(HaveOccurred())

		Expect(prog.Segments[0].Words).To(Equal([]uint32{0, 0, 0, 0xFFFFFFFF}))
		Expect(prog.Size()).To(Equal(4))
		Expect(prog.Segments[0].End()).To(Equal(4))
	})

	It("should skip comments", func() {
		prog, err := parse("v2.0 raw # generated\n# header done\n01123000 # ADD r3, r1, r2\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Segments[0].Words).To(Equal([]uint32{0x01123000}))
	})

	It("should accept an empty image", func() {
		prog, err := parse("v2.0 raw\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Segments).To(BeEmpty())
		Expect(prog.Size()).To(BeZero())
	})

	DescribeTable("should reject malformed images",
		func(image string) {
			_, err := parse(image)
			Expect(err).To(MatchError(loader.ErrBadImage))
		},
		Entry("missing header", "01123000\n"),
		Entry("bad word", "v2.0 raw\nxyz\n"),
		Entry("word too wide", "v2.0 raw\n100000000\n"),
		Entry("bad run length", "v2.0 raw\nq*0\n"),
		Entry("zero run length", "v2.0 raw\n0*5\n"),
		Entry("too many words", "v2.0 raw\n65536*0 1\n"),
	)

	It("should fill all of memory", func() {
		prog, err := parse("v2.0 raw\n65535*0 1\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Size()).To(Equal(65536))
	})

	Describe("Load", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "raw-loader-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should load an image file", func() {
			path := filepath.Join(tempDir, "prog.img")
			Expect(os.WriteFile(path, []byte("v2.0 raw\n2*16\n"), 0644)).To(Succeed())

			prog, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments[0].Words).To(Equal([]uint32{0x16, 0x16}))
		})

		It("should name the file in parse errors", func() {
			path := filepath.Join(tempDir, "broken.img")
			Expect(os.WriteFile(path, []byte("v2.0 raw\nzz\n"), 0644)).To(Succeed())

			_, err := loader.Load(path)
			Expect(err).To(MatchError(loader.ErrBadImage))
			Expect(err.Error()).To(ContainSubstring("broken.img"))
			Expect(err.Error()).To(ContainSubstring("line 2"))
		})

		It("should return error for non-existent file", func() {
			_, err := loader.Load("/nonexistent/path/to/file.img")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to open"))
		})
	})
})
