package acknowledgment_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/acknowledgment"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/actionid"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/messaging"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/questionnaire"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/repository"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/service"
	apperrors "github.com/spec-kit/wellness-helpdesk-bot/pkg/util/errorutil"
)

const (
	staff   = "919000000100"
	student = "919000000001"
)

type brokenRecords struct{ err error }

func (b brokenRecords) GetByReference(context.Context, string) (*domain.Submission, error) {
	return nil, b.err
}

func (b brokenRecords) Acknowledge(context.Context, string, string) (*domain.Submission, error) {
	return nil, b.err
}

// staleRecords reads the submission as open but loses the acknowledge race.
type staleRecords struct{}

func (staleRecords) GetByReference(_ context.Context, ref string) (*domain.Submission, error) {
	return &domain.Submission{Reference: ref, Kind: domain.KindCounseling, SubjectPhone: student, Status: domain.SubmissionStatusOpen}, nil
}

func (staleRecords) Acknowledge(context.Context, string, string) (*domain.Submission, error) {
	return nil, apperrors.NewConflict("submission is not open", nil)
}

var _ = Describe("Coordinator", func() {
	var (
		ctx         context.Context
		repo        *repository.MemorySubmissionRepository
		submissions *service.SubmissionService
		sender      *messaging.Recorder
		coordinator *acknowledgment.Coordinator
	)

	submit := func(kind domain.SubmissionKind, fields map[string]string) string {
		receipt, err := submissions.SubmitRecord(ctx, kind, fields)
		Expect(err).NotTo(HaveOccurred())
		return receipt.Reference
	}
	ackID := func(ref string) string {
		return actionid.EncodeAcknowledge(actionid.Acknowledgement{Reference: ref, Phone: student, Name: "Asha", Label: "counseling request"})
	}

	BeforeEach(func() {
		ctx = context.Background()
		repo = repository.NewMemorySubmissionRepository()
		submissions = service.NewSubmissionService(service.SubmissionDependencies{
			SubmissionRepo: repo,
			DepartmentRepo: repository.NewMemoryDepartmentRepository(),
			Hasher:         service.NewPhoneHasher("k"),
			Logger:         zap.NewNop(),
		})
		sender = messaging.NewRecorder()
		coordinator = acknowledgment.NewCoordinator(submissions, sender, zap.NewNop(), "")
	})

	It("ignores reply ids that are not staff actions", func() {
		Expect(coordinator.HandleAction(ctx, staff, "connect_counselors")).To(BeFalse())
		Expect(coordinator.HandleAction(ctx, staff, "")).To(BeFalse())
		Expect(sender.Sent()).To(BeEmpty())
	})

	It("acknowledges an open counseling request and tells both sides", func() {
		ref := submit(domain.KindCounseling, map[string]string{
			questionnaire.KeyIssueDescription: "exam stress",
			domain.FieldName:                  "Asha",
			domain.FieldPhone:                 student,
		})

		Expect(coordinator.HandleAction(ctx, staff, ackID(ref))).To(BeTrue())

		sub, err := repo.GetByReference(ctx, ref)
		Expect(err).NotTo(HaveOccurred())
		Expect(sub.Status).To(Equal(domain.SubmissionStatusAcknowledged))
		Expect(*sub.AcknowledgedBy).To(Equal(staff))

		toStudent := sender.SentTo(student)
		Expect(toStudent).To(HaveLen(1))
		Expect(toStudent[0].Body).To(ContainSubstring("Hello Asha"))
		Expect(toStudent[0].Body).To(ContainSubstring(ref))
		Expect(sender.SentTo(staff)[0].Body).To(ContainSubstring("marked as acknowledged"))
	})

	It("reports unknown references to the staff member only", func() {
		Expect(coordinator.HandleAction(ctx, staff, ackID("CS-MISSING1"))).To(BeTrue())
		Expect(sender.SentTo(student)).To(BeEmpty())
		Expect(sender.SentTo(staff)[0].Body).To(ContainSubstring("not found"))
	})

	It("does not acknowledge twice", func() {
		ref := submit(domain.KindCounseling, map[string]string{
			questionnaire.KeyIssueDescription: "exam stress",
			domain.FieldPhone:                 student,
		})
		coordinator.HandleAction(ctx, staff, ackID(ref))
		sender.Reset()

		coordinator.HandleAction(ctx, "919000000101", ackID(ref))

		Expect(sender.SentTo(student)).To(BeEmpty())
		Expect(sender.SentTo("919000000101")[0].Body).To(ContainSubstring("already acknowledged by " + staff))
	})

	It("never messages the author of an anonymous complaint", func() {
		ref := submit(domain.KindAnonymousComplaint, map[string]string{
			domain.FieldDescription: "bullying",
			domain.FieldPhone:       student,
		})
		Expect(coordinator.HandleAction(ctx, staff, ackID(ref))).To(BeTrue())
		Expect(sender.SentTo(student)).To(BeEmpty())
		Expect(sender.SentTo(staff)).To(HaveLen(1))
	})

	It("tells the slower staff member when another one acknowledged first", func() {
		coordinator = acknowledgment.NewCoordinator(staleRecords{}, sender, zap.NewNop(), "")
		Expect(coordinator.HandleAction(ctx, staff, ackID("CS-RACE0001"))).To(BeTrue())
		Expect(sender.SentTo(staff)[0].Body).To(Equal("CS-RACE0001 was already acknowledged."))
		Expect(sender.SentTo(student)).To(BeEmpty())
	})

	It("asks staff to retry when the store is unavailable", func() {
		coordinator = acknowledgment.NewCoordinator(brokenRecords{err: errors.New("timeout")}, sender, zap.NewNop(), "")
		Expect(coordinator.HandleAction(ctx, staff, ackID("CS-1"))).To(BeTrue())
		Expect(sender.SentTo(staff)[0].Body).To(ContainSubstring("try again"))
		Expect(sender.SentTo(student)).To(BeEmpty())
	})

	It("rejects acknowledge ids without a reference", func() {
		Expect(coordinator.HandleAction(ctx, staff, actionid.TypeAcknowledge)).To(BeTrue())
		Expect(sender.SentTo(staff)[0].Body).To(ContainSubstring("no longer valid"))
	})

	DescribeTable("contact shortcuts",
		func(raw, expected string) {
			Expect(coordinator.HandleAction(ctx, staff, raw)).To(BeTrue())
			Expect(sender.SentTo(staff)[0].Body).To(ContainSubstring(expected))
		},
		Entry("message", actionid.Encode(actionid.TypeMessage, student, "Asha"), "https://wa.me/"+student),
		Entry("call", actionid.Encode(actionid.TypeCall, student), "tel:+"+student),
	)

	It("links to the dashboard when one is configured", func() {
		coordinator = acknowledgment.NewCoordinator(submissions, sender, zap.NewNop(), "https://desk.example.edu/")
		coordinator.HandleAction(ctx, staff, actionid.Encode(actionid.TypeOpen, "CS-ABC"))
		Expect(sender.SentTo(staff)[0].Body).To(ContainSubstring("https://desk.example.edu/submissions/CS-ABC"))
	})

	It("summarizes the record when no dashboard is configured", func() {
		ref := submit(domain.KindAnonymousComplaint, map[string]string{domain.FieldDescription: "bullying"})
		coordinator.HandleAction(ctx, staff, actionid.Encode(actionid.TypeOpen, ref))
		Expect(sender.SentTo(staff)[0].Body).To(ContainSubstring("bullying"))
	})
})
