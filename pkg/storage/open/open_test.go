package open_test

import (
	"context"
	"path/filepath"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/storage/file"
	"github.com/papercomputeco/disrello/pkg/storage/inmemory"
	"github.com/papercomputeco/disrello/pkg/storage/open"
)

var _ = Describe("Open", func() {
	ctx := context.Background()

	It("opens a file driver at the given path", func() {
		path := filepath.Join(GinkgoT().TempDir(), "doc.json")
		d, err := open.Open(ctx, open.Options{Driver: open.File, Path: path})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&file.Driver{}))
		Expect(d.(*file.Driver).Path()).To(Equal(path))
	})

	It("defaults an empty driver name to file", func() {
		d, err := open.Open(ctx, open.Options{Path: filepath.Join(GinkgoT().TempDir(), "doc.json")})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&file.Driver{}))
	})

	It("opens the memory driver", func() {
		d, err := open.Open(ctx, open.Options{Driver: open.Memory})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&inmemory.Driver{}))
	})

	It("opens a sqlite driver that round trips", func() {
		d, err := open.Open(ctx, open.Options{Driver: open.SQLite, SQLitePath: filepath.Join(GinkgoT().TempDir(), "d.sqlite")})
		Expect(err).NotTo(HaveOccurred())
		defer d.Close()

		doc := model.NewDocument()
		doc.Guild("g1").AddBoard("Ops", "u1")
		Expect(d.Save(ctx, doc)).To(Succeed())

		loaded, err := d.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Guilds["g1"].Boards[0].Name).To(Equal("Ops"))
	})

	It("opens a redis driver", func() {
		mr := miniredis.RunT(GinkgoT())
		d, err := open.Open(ctx, open.Options{Driver: open.Redis, RedisAddr: mr.Addr(), RedisKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		defer d.Close()

		Expect(d.Save(ctx, model.NewDocument())).To(Succeed())
		Expect(mr.Exists("k")).To(BeTrue())
	})

	It("requires a target for every persistent driver", func() {
		for _, name := range []string{open.File, open.SQLite, open.Postgres, open.Redis} {
			_, err := open.Open(ctx, open.Options{Driver: name})
			Expect(err).To(HaveOccurred(), name)
		}
	})

	It("rejects unknown drivers", func() {
		_, err := open.Open(ctx, open.Options{Driver: "s3"})
		Expect(err).To(MatchError(open.ErrUnsupportedDriver))
		Expect(open.IsSupported("s3")).To(BeFalse())
		Expect(open.IsSupported(open.Postgres)).To(BeTrue())
	})
})
