package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vanilla/emu"
)

var _ = Describe("TaskQueue", func() {
	var q *emu.TaskQueue

	BeforeEach(func() {
		q = &emu.TaskQueue{}
	})

	It("should start empty", func() {
		Expect(q.IsEmpty()).To(BeTrue())
		_, ok := q.Dequeue()
		Expect(ok).To(BeFalse())
	})

	It("should dequeue in FIFO order", func() {
		q.Enqueue(emu.FetchTask())
		q.Enqueue(emu.WriteTask(0x10, 99))
		q.Enqueue(emu.SetRegisterTask(4))
		Expect(q.Len()).To(Equal(3))

		t, ok := q.Dequeue()
		Expect(ok).To(BeTrue())
		Expect(t.Kind).To(Equal(emu.TaskFetch))

		t, _ = q.Dequeue()
		Expect(t).To(Equal(emu.WriteTask(0x10, 99)))
		Expect(t.Address).To(Equal(uint32(0x10)))
		Expect(t.Value).To(Equal(int32(99)))

		t, _ = q.Dequeue()
		Expect(t.Kind).To(Equal(emu.TaskSetRegister))
		Expect(t.Register).To(Equal(uint8(4)))

		Expect(q.IsEmpty()).To(BeTrue())
	})

	It("should peek without removing", func() {
		q.Enqueue(emu.SetRegisterTask(2))

		t, ok := q.Peek()
		Expect(ok).To(BeTrue())
		Expect(t.Register).To(Equal(uint8(2)))
		Expect(q.Len()).To(Equal(1))
	})

	It("should return a copy of pending tasks", func() {
		q.Enqueue(emu.FetchTask())
		tasks := q.Tasks()
		tasks[0] = emu.SetRegisterTask(1)

		t, _ := q.Peek()
		Expect(t.Kind).To(Equal(emu.TaskFetch))
	})

	It("should describe tasks", func() {
		Expect(emu.WriteTask(0x0ABC, -1).String()).To(Equal("write [00ABC] <- FFFFFFFF"))
		Expect(emu.SetRegisterTask(5).String()).To(Equal("set-register r5"))
		Expect(emu.FetchTask().String()).To(Equal("fetch"))
	})
})
