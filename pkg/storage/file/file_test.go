package file_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/storage/file"
	testutils "github.com/papercomputeco/disrello/pkg/utils/test"
)

var _ = Describe("Driver", func() {
	var (
		ctx context.Context
		dir string
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
	})

	It("loads an empty document when the file is absent", func() {
		d := file.NewDriver(filepath.Join(dir, "missing.json"))
		doc, err := d.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Guilds).To(BeEmpty())
	})

	It("round-trips a document", func() {
		d := file.NewDriver(filepath.Join(dir, "data.json"))
		want := testutils.NewTestDocument()
		Expect(d.Save(ctx, want)).To(Succeed())

		got, err := d.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(testutils.DocumentDiff(want, got)).To(BeEmpty())
	})

	It("creates missing parent directories", func() {
		d := file.NewDriver(filepath.Join(dir, "nested", "deeper", "data.json"))
		Expect(d.Save(ctx, model.NewDocument())).To(Succeed())
		_, err := os.Stat(d.Path())
		Expect(err).NotTo(HaveOccurred())
	})

	It("writes the file with owner-only permissions", func() {
		d := file.NewDriver(filepath.Join(dir, "data.json"))
		Expect(d.Save(ctx, model.NewDocument())).To(Succeed())
		info, err := os.Stat(d.Path())
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
	})

	It("replaces the previous snapshot wholesale", func() {
		d := file.NewDriver(filepath.Join(dir, "data.json"))
		Expect(d.Save(ctx, testutils.NewTestDocument())).To(Succeed())

		empty := model.NewDocument()
		empty.Guild("other")
		Expect(d.Save(ctx, empty)).To(Succeed())

		got, err := d.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Guilds).To(HaveLen(1))
		Expect(got.Guilds).To(HaveKey("other"))
	})

	It("removes the temp file and keeps the target when the rename fails", func() {
		target := filepath.Join(dir, "data.json")
		Expect(os.Mkdir(target, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0o600)).To(Succeed())

		d := file.NewDriver(target)
		Expect(d.Save(ctx, testutils.NewTestDocument())).NotTo(Succeed())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Name()).To(Equal("data.json"))
		Expect(filepath.Join(target, "keep")).To(BeAnExistingFile())
	})

	It("fails loudly when the directory cannot be created", func() {
		blocker := filepath.Join(dir, "blocker")
		Expect(os.WriteFile(blocker, []byte("x"), 0o600)).To(Succeed())

		d := file.NewDriver(filepath.Join(blocker, "data.json"))
		Expect(d.Save(ctx, model.NewDocument())).NotTo(Succeed())
	})

	It("rejects a nil document without touching disk", func() {
		d := file.NewDriver(filepath.Join(dir, "data.json"))
		Expect(d.Save(ctx, nil)).NotTo(Succeed())
		_, err := os.Stat(d.Path())
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("reports corrupt files", func() {
		target := filepath.Join(dir, "data.json")
		Expect(os.WriteFile(target, []byte("{not json"), 0o600)).To(Succeed())
		_, err := file.NewDriver(target).Load(ctx)
		Expect(err).To(HaveOccurred())
	})
})
