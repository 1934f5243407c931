package statuscmder_test

import (
	"bytes"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	statuscmder "github.com/papercomputeco/disrello/cmd/disrello/status"
	"github.com/papercomputeco/disrello/pkg/start"
)

var _ = Describe("Status Command", func() {
	var (
		tmpDir string
		out    *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "status-test-*")
		Expect(err).NotTo(HaveOccurred())
		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	execute := func() error {
		cmd := statuscmder.NewStatusCmd()
		cmd.PersistentFlags().String("config-dir", "", "Override path to .disrello/ config directory")
		cmd.SetOut(out)
		cmd.SetArgs([]string{"--config-dir", tmpDir})
		return cmd.Execute()
	}

	It("reports that no serve is running", func() {
		Expect(execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("not running"))
		Expect(out.String()).NotTo(ContainSubstring("stale"))
	})

	It("prints the recorded state while the lock is held", func() {
		mgr, err := start.NewManager(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		lock, err := mgr.TryLock()
		Expect(err).NotTo(HaveOccurred())
		defer lock.Release()

		Expect(mgr.SaveState(&start.State{
			PID:           4242,
			Listen:        ":8090",
			StorageDriver: "sqlite",
			StorageTarget: "/data/disrello.db",
			StartedAt:     time.Now().Add(-time.Minute),
		})).To(Succeed())

		Expect(execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("is running"))
		Expect(out.String()).To(ContainSubstring("4242"))
		Expect(out.String()).To(ContainSubstring(":8090"))
		Expect(out.String()).To(ContainSubstring("sqlite /data/disrello.db"))
	})

	It("flags state left behind by a serve that is gone", func() {
		mgr, err := start.NewManager(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(mgr.SaveState(&start.State{PID: 99, StartedAt: time.Now()})).To(Succeed())

		Expect(execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("not running"))
		Expect(out.String()).To(ContainSubstring("stale state from pid 99"))
	})
})
