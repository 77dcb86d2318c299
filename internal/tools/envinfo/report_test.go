package envinfo

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"webtestkit/webapp"
)

var _ = Describe("Report Handler", func() {
	var appCtx *webapp.AppContext

	BeforeEach(func() {
		appCtx = webapp.New()
		appCtx.Environment().SetActiveProfiles("demo", "fast")
		appCtx.Environment().AddPropertySource("test", map[string]string{
			"server.port": "8080",
		})
	})

	It("should report the context id and state", func() {
		handler := NewReportHandler(appCtx)

		_, output, err := handler(context.Background(), nil, ReportInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(output.ContextID).To(Equal(appCtx.ID()))
		Expect(output.State).To(Equal(string(webapp.StateConfigurable)))
	})

	It("should report the active profiles in sorted order", func() {
		handler := NewReportHandler(appCtx)

		_, output, err := handler(context.Background(), nil, ReportInput{})
		Expect(err).NotTo(HaveOccurred())
		Expect(output.ActiveProfiles).To(Equal([]string{"demo", "fast"}))
	})

	Describe("property lookup", func() {
		It("should resolve a known property", func() {
			handler := NewReportHandler(appCtx)

			_, output, err := handler(context.Background(), nil, ReportInput{PropertyKey: "server.port"})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.PropertyFound).To(BeTrue())
			Expect(output.PropertyValue).To(Equal("8080"))
		})

		It("should report an unknown property as not found", func() {
			handler := NewReportHandler(appCtx)

			_, output, err := handler(context.Background(), nil, ReportInput{PropertyKey: "missing"})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.PropertyFound).To(BeFalse())
			Expect(output.PropertyValue).To(BeEmpty())
		})

		It("should skip lookup when no key is given", func() {
			handler := NewReportHandler(appCtx)

			_, output, err := handler(context.Background(), nil, ReportInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(output.PropertyFound).To(BeFalse())
		})
	})
})
