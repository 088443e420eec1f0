package persistence_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/config"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/persistence"
)

var _ = Describe("IsPostgresDSN", func() {
	DescribeTable("detects postgres connection strings",
		func(dsn string, expected bool) {
			Expect(persistence.IsPostgresDSN(dsn)).To(Equal(expected))
		},
		Entry("url", "postgres://u:p@localhost:5432/helpdesk", true),
		Entry("postgresql url", "postgresql://localhost/helpdesk", true),
		Entry("keyword dsn", "host=localhost dbname=helpdesk sslmode=disable", true),
		Entry("sqlite file", "/var/lib/helpdesk/bot.db", false),
		Entry("empty", "", false),
	)
})

var _ = Describe("NewPostgres", func() {
	It("skips the connection when no DSN is set", func() {
		pg, err := persistence.NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(pg.PoolHandle()).To(BeNil())
		Expect(pg.Ping(context.Background())).To(HaveOccurred())
	})

	It("rejects a non-postgres DSN", func() {
		_, err := persistence.NewPostgres(context.Background(), config.PostgresConfig{DSN: "bot.db"}, zap.NewNop())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewSQLite", func() {
	It("creates the file, applies migrations and seeds departments", func() {
		path := filepath.Join(GinkgoT().TempDir(), "nested", "bot.db")
		store, err := persistence.NewSQLite(context.Background(), config.SQLiteConfig{Path: path}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		Expect(store.Ping(context.Background())).To(Succeed())
		var count int
		Expect(store.Handle().QueryRow(`SELECT COUNT(*) FROM departments`).Scan(&count)).To(Succeed())
		Expect(count).To(Equal(2))
	})

	It("returns an unconfigured store for an empty path", func() {
		store, err := persistence.NewSQLite(context.Background(), config.SQLiteConfig{}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Handle()).To(BeNil())
	})
})

var _ = Describe("NewRedis", func() {
	It("is disabled without an address", func() {
		Expect(persistence.NewRedis(config.RedisConfig{}, zap.NewNop())).To(BeNil())
	})
})
