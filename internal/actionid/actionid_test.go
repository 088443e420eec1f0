package actionid_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/actionid"
)

var _ = Describe("Encode/Decode", func() {
	It("round-trips the acknowledge example", func() {
		fields := []string{"REF123", "9198765432", "Jane Doe", "MCA - Dept"}
		decoded, err := actionid.Decode(actionid.Encode("acknowledge", fields...))
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded).To(Equal(actionid.Action{Type: "acknowledge", Fields: fields}))
	})

	DescribeTable("round-trips awkward field values",
		func(actionType string, fields ...string) {
			raw := actionid.Encode(actionType, fields...)
			Expect(strings.Count(raw, actionid.Delimiter)).To(Equal(len(fields)))
			decoded, err := actionid.Decode(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded.Type).To(Equal(actionType))
			Expect(decoded.Fields).To(Equal(fields))
		},
		Entry("underscores inside fields", actionid.TypeMessage, "91_98", "snake_case_name"),
		Entry("plus and percent signs", actionid.TypeAcknowledge, "DC-1", "+919741301245", "A+B 100%", "R&D / Lab"),
		Entry("unicode", actionid.TypeAcknowledge, "CS-2", "91", "Zoë Ángel", "MSC AIML - MSc Artificial Intelligence & Machine Learning"),
		Entry("empty field", actionid.TypeCall, ""),
		Entry("single field", actionid.TypeOpen, "AC-9F2B11C0"),
	)

	It("decodes a bare type", func() {
		decoded, err := actionid.Decode("open")
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Type).To(Equal("open"))
		Expect(decoded.Fields).To(BeEmpty())
	})

	It("rejects empty and broken ids", func() {
		_, err := actionid.Decode("  ")
		Expect(err).To(MatchError(actionid.ErrEmpty))
		_, err = actionid.Decode("_REF")
		Expect(err).To(MatchError(actionid.ErrMalformed))
		_, err = actionid.Decode("acknowledge_%zz")
		Expect(err).To(MatchError(actionid.ErrMalformed))
	})

	It("recognises only staff action types", func() {
		for _, id := range []string{"connect_counselors", "anonymous_complaints", "dept_mca", "urgency_high"} {
			a, err := actionid.Decode(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Known()).To(BeFalse(), id)
		}
		a, _ := actionid.Decode(actionid.Encode(actionid.TypeCall, "91"))
		Expect(a.Known()).To(BeTrue())
	})
})

var _ = Describe("ParseAcknowledge", func() {
	It("reads the four documented fields", func() {
		want := actionid.Acknowledgement{Reference: "DC-1A2B3C4D", Phone: "919876543210", Name: "Jane Doe", Label: "MCA - Dept"}
		a, err := actionid.Decode(actionid.EncodeAcknowledge(want))
		Expect(err).NotTo(HaveOccurred())
		Expect(actionid.ParseAcknowledge(a)).To(Equal(want))
	})

	It("trusts only first and last fields when some are missing", func() {
		ack, err := actionid.ParseAcknowledge(actionid.Action{Type: "acknowledge", Fields: []string{"REF1", "x", "919000"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(ack).To(Equal(actionid.Acknowledgement{Reference: "REF1", Phone: "919000"}))
	})

	It("accepts a reference on its own", func() {
		ack, err := actionid.ParseAcknowledge(actionid.Action{Type: "acknowledge", Fields: []string{"REF1"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(ack.Reference).To(Equal("REF1"))
		Expect(ack.Phone).To(BeEmpty())
	})

	It("rejoins names split by raw delimiters", func() {
		a, err := actionid.Decode("acknowledge_REF1_9198_Mary_Ann_Lee_Dept")
		Expect(err).NotTo(HaveOccurred())
		ack, err := actionid.ParseAcknowledge(a)
		Expect(err).NotTo(HaveOccurred())
		Expect(ack).To(Equal(actionid.Acknowledgement{Reference: "REF1", Phone: "9198", Name: "Mary_Ann_Lee", Label: "Dept"}))
	})

	It("requires a reference", func() {
		_, err := actionid.ParseAcknowledge(actionid.Action{Type: "acknowledge", Fields: []string{" ", "", "", ""}})
		Expect(err).To(MatchError(actionid.ErrMalformed))
		_, err = actionid.ParseAcknowledge(actionid.Action{Type: "acknowledge"})
		Expect(err).To(MatchError(actionid.ErrMalformed))
	})

	It("refuses other action types", func() {
		_, err := actionid.ParseAcknowledge(actionid.Action{Type: "open", Fields: []string{"REF"}})
		Expect(err).To(MatchError(actionid.ErrMalformed))
	})
})
