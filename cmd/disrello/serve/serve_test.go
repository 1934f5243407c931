package servecmder_test

import (
	"bytes"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	servecmder "github.com/papercomputeco/disrello/cmd/disrello/serve"
	"github.com/papercomputeco/disrello/pkg/config"
	"github.com/papercomputeco/disrello/pkg/start"
)

var _ = Describe("Serve Command", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "serve-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("registers the flags from the shared registry", func() {
		cmd := servecmder.NewServeCmd()
		for _, key := range []string{config.FlagListen, config.FlagStorageDriver, config.FlagProvider, config.FlagEventStream} {
			Expect(cmd.Flags().Lookup(config.Flags[key].Name)).NotTo(BeNil(), key)
		}
		Expect(cmd.Flags().ShorthandLookup("l")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("listen").DefValue).To(Equal(":8090"))
	})

	It("refuses to start while another serve holds the data dir", func() {
		mgr, err := start.NewManager(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		lock, err := mgr.TryLock()
		Expect(err).NotTo(HaveOccurred())
		defer lock.Release()

		cmd := servecmder.NewServeCmd()
		cmd.PersistentFlags().Bool("debug", false, "")
		cmd.PersistentFlags().String("config-dir", "", "")
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config-dir", tmpDir, "--storage", "memory"})

		Expect(cmd.Execute()).To(MatchError(start.ErrLocked))
	})

	It("rejects an invalid configuration before starting", func() {
		cmd := servecmder.NewServeCmd()
		cmd.PersistentFlags().Bool("debug", false, "")
		cmd.PersistentFlags().String("config-dir", "", "")
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config-dir", tmpDir, "--storage", "tape"})

		Expect(cmd.Execute()).To(MatchError(ContainSubstring("unsupported storage.driver")))

		mgr, err := start.NewManager(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(mgr.LoadState()).To(BeNil())
	})
})
