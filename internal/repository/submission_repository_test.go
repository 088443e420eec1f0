package repository_test

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/config"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/persistence"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/repository"
)

// submissionContract runs the same behaviour against every backend.
func submissionContract(build func() repository.SubmissionRepository) {
	var (
		ctx  context.Context
		repo repository.SubmissionRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = build()
	})

	newSubmission := func(ref string) *domain.Submission {
		return &domain.Submission{
			Reference:    ref,
			Kind:         domain.KindDepartmentComplaint,
			SubjectName:  "Jane Doe",
			SubjectPhone: "919876543210",
			Department:   "MCA - Master of Computer Applications",
			Urgency:      "High",
			Description:  "Projector broken in room 3",
			Answers:      map[string]string{"urgency": "High"},
			Status:       domain.SubmissionStatusOpen,
			Source:       domain.SourceWhatsAppBot,
		}
	}

	It("stores and finds a submission by reference", func() {
		sub := newSubmission("DC-AAAA0001")
		Expect(repo.Create(ctx, sub)).To(Succeed())
		Expect(sub.ID).NotTo(BeEmpty())

		got, err := repo.GetByReference(ctx, "DC-AAAA0001")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Kind).To(Equal(domain.KindDepartmentComplaint))
		Expect(got.Description).To(Equal("Projector broken in room 3"))
		Expect(got.Answers).To(HaveKeyWithValue("urgency", "High"))
		Expect(got.Status).To(Equal(domain.SubmissionStatusOpen))
		Expect(got.AcknowledgedAt).To(BeNil())
	})

	It("reports unknown references as not found", func() {
		_, err := repo.GetByReference(ctx, "DC-MISSING")
		Expect(err).To(MatchError(repository.ErrNotFound))
	})

	It("acknowledges an open submission exactly once", func() {
		Expect(repo.Create(ctx, newSubmission("DC-AAAA0002"))).To(Succeed())
		at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

		Expect(repo.MarkAcknowledged(ctx, "DC-AAAA0002", "919741301245", at)).To(Succeed())
		got, err := repo.GetByReference(ctx, "DC-AAAA0002")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Status).To(Equal(domain.SubmissionStatusAcknowledged))
		Expect(*got.AcknowledgedBy).To(Equal("919741301245"))
		Expect(got.AcknowledgedAt.Equal(at)).To(BeTrue())

		Expect(repo.MarkAcknowledged(ctx, "DC-AAAA0002", "someone", at)).To(MatchError(repository.ErrNotFound))
		Expect(repo.MarkAcknowledged(ctx, "DC-MISSING", "someone", at)).To(MatchError(repository.ErrNotFound))
	})
}

var _ = Describe("MemorySubmissionRepository", func() {
	submissionContract(func() repository.SubmissionRepository {
		return repository.NewMemorySubmissionRepository()
	})
})

var _ = Describe("SQLiteSubmissionRepository", func() {
	submissionContract(func() repository.SubmissionRepository {
		store, err := persistence.NewSQLite(context.Background(),
			config.SQLiteConfig{Path: filepath.Join(GinkgoT().TempDir(), "bot.db")}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)
		return repository.NewSQLiteSubmissionRepository(store.Handle())
	})
})

var _ = Describe("Department repositories", func() {
	It("lists the seeded sqlite departments", func() {
		store, err := persistence.NewSQLite(context.Background(),
			config.SQLiteConfig{Path: filepath.Join(GinkgoT().TempDir(), "bot.db")}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)
		repo := repository.NewSQLiteDepartmentRepository(store.Handle())

		depts, err := repo.ListActive(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(depts).To(HaveLen(2))
		Expect(depts[0].Code).To(Equal("MCA"))
		Expect(depts[0].Name).To(Equal("MCA - Master of Computer Applications"))

		mca, err := repo.GetByCode(context.Background(), "MSC_AIML")
		Expect(err).NotTo(HaveOccurred())
		Expect(mca.HeadContact).To(Equal("919741301245"))

		_, err = repo.GetByCode(context.Background(), "LAW")
		Expect(err).To(MatchError(repository.ErrNotFound))
	})

	It("filters inactive departments in memory", func() {
		repo := repository.NewMemoryDepartmentRepository(
			domain.Department{Code: "MSC_AIML", Name: "AIML", IsActive: true},
			domain.Department{Code: "OLD", Name: "Retired", IsActive: false},
			domain.Department{Code: "MCA", Name: "MCA", IsActive: true},
		)
		depts, err := repo.ListActive(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(depts).To(HaveLen(2))
		Expect(depts[0].Code).To(Equal("MCA"))
	})
})

var _ = Describe("MemoryDedup", func() {
	It("accepts an id once", func() {
		dedup := repository.NewMemoryDedup(time.Hour)
		first, err := dedup.FirstSeen(context.Background(), "wamid.1")
		Expect(err).NotTo(HaveOccurred())
		Expect(first).To(BeTrue())
		again, err := dedup.FirstSeen(context.Background(), "wamid.1")
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(BeFalse())
		other, _ := dedup.FirstSeen(context.Background(), "wamid.2")
		Expect(other).To(BeTrue())
	})
})
