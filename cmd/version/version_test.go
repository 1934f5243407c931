package versioncmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	versioncmder "github.com/papercomputeco/disrello/cmd/version"
)

var _ = Describe("version", func() {
	run := func(args ...string) string {
		var out bytes.Buffer
		cmd := versioncmder.NewVersionCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		Expect(cmd.Execute()).To(Succeed())
		return out.String()
	}

	It("prints the build details", func() {
		out := run()
		Expect(out).To(HavePrefix("disrello dev\n"))
		Expect(out).To(ContainSubstring("commit: HEAD"))
		Expect(out).To(ContainSubstring("go:"))
	})

	It("prints only the version with --short", func() {
		Expect(run("--short")).To(Equal("dev\n"))
	})
})
