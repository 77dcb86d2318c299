package resource

import (
	"io"
	"os"
	"path/filepath"
	"testing/fstest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FileSystemLoader", func() {
	var loader *FileSystemLoader

	BeforeEach(func() {
		loader = NewFileSystemLoader()
	})

	Describe("working-directory relative locations", func() {
		It("should resolve an existing file", func() {
			res, err := loader.Get("testdata/hello.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Exists()).To(BeTrue())
			Expect(res.Name()).To(Equal("testdata/hello.txt"))
		})

		It("should read the file content", func() {
			res, err := loader.Get("testdata/hello.txt")
			Expect(err).NotTo(HaveOccurred())

			rc, err := res.Open()
			Expect(err).NotTo(HaveOccurred())
			defer rc.Close()

			data, err := io.ReadAll(rc)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("hello from the filesystem loader"))
		})

		It("should treat a leading slash as working-directory relative", func() {
			res, err := loader.Get("/testdata/hello.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Exists()).To(BeTrue())
		})

		It("should report a missing file as not existing", func() {
			res, err := loader.Get("testdata/no-such-file.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Exists()).To(BeFalse())
		})

		It("should fail to open a missing file", func() {
			res, err := loader.Get("testdata/no-such-file.txt")
			Expect(err).NotTo(HaveOccurred())

			_, err = res.Open()
			Expect(err).To(HaveOccurred())
		})

		It("should report a directory as not existing", func() {
			res, err := loader.Get("testdata")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Exists()).To(BeFalse())
		})
	})

	Describe("fully qualified locations", func() {
		var tmpFile string

		BeforeEach(func() {
			dir := GinkgoT().TempDir()
			tmpFile = filepath.Join(dir, "qualified.txt")
			Expect(os.WriteFile(tmpFile, []byte("qualified content"), 0644)).To(Succeed())
		})

		It("should resolve a file:// location", func() {
			res, err := loader.Get(FileURLPrefix + tmpFile)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Exists()).To(BeTrue())

			rc, err := res.Open()
			Expect(err).NotTo(HaveOccurred())
			defer rc.Close()

			data, err := io.ReadAll(rc)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("qualified content"))
		})
	})

	It("should reject an empty location", func() {
		_, err := loader.Get("")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ModuleLoader", func() {
	var loader *ModuleLoader

	BeforeEach(func() {
		loader = NewModuleLoaderFS(fstest.MapFS{
			"webroot/index.html":      {Data: []byte("<h1>index</h1>")},
			"webroot/css/style.css":   {Data: []byte("body {}")},
			"config/application.yaml": {Data: []byte("server:\n  port: 8080\n")},
		})
	})

	It("should resolve an existing entry", func() {
		res, err := loader.Get("webroot/index.html")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Exists()).To(BeTrue())

		rc, err := res.Open()
		Expect(err).NotTo(HaveOccurred())
		defer rc.Close()

		data, err := io.ReadAll(rc)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("<h1>index</h1>"))
	})

	It("should strip a leading slash", func() {
		res, err := loader.Get("/webroot/css/style.css")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Exists()).To(BeTrue())
		Expect(res.Name()).To(Equal("webroot/css/style.css"))
	})

	It("should report a missing entry as not existing", func() {
		res, err := loader.Get("webroot/missing.html")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Exists()).To(BeFalse())
	})

	It("should reject locations escaping the root", func() {
		_, err := loader.Get("../outside.txt")
		Expect(err).To(HaveOccurred())
	})

	It("should reject an empty location", func() {
		_, err := loader.Get("")
		Expect(err).To(HaveOccurred())
	})
})
