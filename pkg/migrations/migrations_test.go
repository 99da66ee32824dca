package migrations_test

import (
	"fmt"
	"os"
	"path"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/propinspect/inspection-planner/internal/config"
	"github.com/propinspect/inspection-planner/internal/store"
	"github.com/propinspect/inspection-planner/pkg/migrations"
	"gorm.io/gorm"
)

var _ = Describe("migrations", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
	})

	AfterAll(func() {
		s.Close()
	})

	Context("migration folder", func() {
		It("fails when the folder does not exist", func() {
			err := migrations.MigrateStore(gormdb, "some folder")
			Expect(err).NotTo(BeNil())
		})

		It("fails when the path is a file", func() {
			currentFolder, err := os.Getwd()
			Expect(err).To(BeNil())
			err = migrations.MigrateStore(gormdb, path.Join(currentFolder, "migrations.go"))
			Expect(err).NotTo(BeNil())
			Expect(err.Error()).To(ContainSubstring("is not a folder"))
		})
	})

	Context("postgres", Ordered, func() {
		var pgdb *gorm.DB

		BeforeAll(func() {
			if os.Getenv("DB_TYPE") != "pgsql" {
				Skip("postgres is not configured")
			}
			cfg, err := config.New()
			Expect(err).To(BeNil())
			pgdb, err = store.InitDB(cfg)
			Expect(err).To(BeNil())
		})

		It("successfully migrates the db", func() {
			currentFolder, err := os.Getwd()
			Expect(err).To(BeNil())

			err = migrations.MigrateStore(pgdb, path.Join(currentFolder, "sql"))
			Expect(err).To(BeNil())

			tableExists := func(name string) bool {
				exists := false
				tx := pgdb.Raw(fmt.Sprintf("SELECT EXISTS (SELECT FROM pg_tables WHERE schemaname = 'public' and tablename = '%s');", name)).Scan(&exists)
				Expect(tx.Error).To(BeNil())
				return exists
			}

			for _, table := range []string{"persons", "properties", "inspections", "assignments"} {
				Expect(tableExists(table)).To(BeTrue())
			}
		})

		It("migrates from the embedded files", func() {
			Expect(migrations.MigrateStore(pgdb, "")).To(BeNil())
		})

		AfterAll(func() {
			if pgdb == nil {
				return
			}
			pgdb.Exec("DROP TABLE IF EXISTS assignments;")
			pgdb.Exec("DROP TABLE IF EXISTS inspections;")
			pgdb.Exec("DROP TABLE IF EXISTS properties;")
			pgdb.Exec("DROP TABLE IF EXISTS persons;")
			pgdb.Exec("DROP TABLE IF EXISTS goose_db_version;")
		})
	})
})
