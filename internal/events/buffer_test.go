package events

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("buffer", func() {
	It("keeps messages in insertion order", func() {
		b := newBuffer()

		Expect(b.PushBack(&message{Kind: InspectionScheduledKind, Data: []byte("msg1")})).To(Equal(1))
		Expect(b.PushBack(&message{Kind: InspectionScheduledKind, Data: []byte("msg2")})).To(Equal(2))
		Expect(b.PushBack(&message{Kind: InspectionScheduledKind, Data: []byte("msg3")})).To(Equal(3))
		Expect(b.head.Data).To(Equal([]byte("msg1")))
		Expect(b.tail.Data).To(Equal([]byte("msg3")))

		for _, expected := range []string{"msg1", "msg2", "msg3"} {
			m := b.Pop()
			Expect(m).NotTo(BeNil())
			Expect(string(m.Data)).To(Equal(expected))
		}

		Expect(b.Size()).To(Equal(0))
		Expect(b.head).To(BeNil())
		Expect(b.tail).To(BeNil())
		Expect(b.Pop()).To(BeNil())
	})

	It("accepts messages after being drained", func() {
		b := newBuffer()
		b.PushBack(&message{Data: []byte("a")})
		Expect(b.Pop()).NotTo(BeNil())

		b.PushBack(&message{Data: []byte("b")})
		Expect(b.Size()).To(Equal(1))
		Expect(string(b.Pop().Data)).To(Equal("b"))
	})
})
