package mcp_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/api/mcp"
	"github.com/papercomputeco/disrello/pkg/contextmem"
	"github.com/papercomputeco/disrello/pkg/logger"
	"github.com/papercomputeco/disrello/pkg/storage/inmemory"
)

var _ = Describe("MCP Server", func() {
	var (
		driver *inmemory.Driver
		memory *contextmem.Memory
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		memory = contextmem.New(contextmem.DefaultBufferLimit)
	})

	Describe("NewServer", func() {
		It("returns an error when storage driver is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Memory: memory, Logger: logger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("storage driver is required")))
		})

		It("returns an error when memory is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Driver: driver, Logger: logger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("context memory is required")))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Driver: driver, Memory: memory})
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})

		It("creates a server with an HTTP handler", func() {
			server, err := mcp.NewServer(mcp.Config{Driver: driver, Memory: memory, Logger: logger.Nop()})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})

		It("creates an empty server in noop mode", func() {
			server, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})
	})
})
