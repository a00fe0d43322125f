package scanning

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// encodeTestImage produces a tiny image in the given format.
func encodeTestImage(format string) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	switch format {
	case "png":
		Expect(png.Encode(&buf, img)).To(Succeed())
	case "jpeg":
		Expect(jpeg.Encode(&buf, img, nil)).To(Succeed())
	}
	return buf.Bytes()
}

var _ = Describe("imageToPNG", func() {
	It("passes PNG input through untouched", func() {
		data := encodeTestImage("png")
		out, err := imageToPNG(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(data))
	})

	It("converts JPEG input to PNG", func() {
		out, err := imageToPNG(encodeTestImage("jpeg"))
		Expect(err).NotTo(HaveOccurred())
		Expect(isPNG(out)).To(BeTrue())

		_, err = png.Decode(bytes.NewReader(out))
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects data that is not an image", func() {
		_, err := imageToPNG([]byte("definitely not an image"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("preparePages", func() {
	It("yields a single PNG page in image mode", func() {
		pages, err := preparePages(encodeTestImage("jpeg"), ModeImage)
		Expect(err).NotTo(HaveOccurred())
		Expect(pages).To(HaveLen(1))
		Expect(isPNG(pages[0])).To(BeTrue())
	})
})

var _ = Describe("isHEIC", func() {
	// ISO-BMFF header: 4-byte box size, "ftyp", then the brand.
	header := func(brand string) []byte {
		return append(append([]byte{0, 0, 0, 24}, []byte("ftyp")...), []byte(brand)...)
	}

	It("recognizes HEIC/HEIF brands", func() {
		for _, brand := range []string{"heic", "heif", "mif1", "msf1"} {
			Expect(isHEIC(header(brand))).To(BeTrue(), "brand %s", brand)
		}
	})

	It("rejects other brands", func() {
		Expect(isHEIC(header("isom"))).To(BeFalse())
	})

	It("rejects short or non-BMFF data", func() {
		Expect(isHEIC([]byte("tiny"))).To(BeFalse())
		Expect(isHEIC(encodeTestImage("png"))).To(BeFalse())
	})
})

var _ = Describe("promptFor", func() {
	It("selects the multi-page prompt for documents", func() {
		Expect(promptFor(ModeDocument)).To(ContainSubstring("one image per page"))
	})

	It("selects the single-page prompt for images", func() {
		Expect(promptFor(ModeImage)).To(ContainSubstring("single bill or invoice page"))
	})
})
