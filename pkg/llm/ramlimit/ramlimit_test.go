package ramlimit_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/llm/ramlimit"
)

var _ = Describe("ramlimit", func() {
	DescribeTable("Fits",
		func(name string, ram int, want bool) {
			Expect(ramlimit.Fits(name, ram)).To(Equal(want))
		},
		Entry("small model on 4GB", "phi3.5", 4, true),
		Entry("tagged variant", "mistral:latest", 8, true),
		Entry("too big for 4GB", "mistral", 4, false),
		Entry("never fits", "dolphin-mixtral", 8, false),
		Entry("unknown model", "llama3.2:1b", 8, false),
		Entry("blank name", "  ", 8, false),
	)

	It("estimates by base name", func() {
		gb, ok := ramlimit.Estimate("gemma3:4b")
		Expect(ok).To(BeTrue())
		Expect(gb).To(Equal(6.5))
	})

	It("normalizes tiers", func() {
		Expect(ramlimit.Normalize(2)).To(Equal(2))
		Expect(ramlimit.Normalize(16)).To(Equal(4))
		Expect(ramlimit.IsAllowed(8)).To(BeTrue())
		Expect(ramlimit.IsAllowed(6)).To(BeFalse())
	})
})
