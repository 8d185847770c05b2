package emu

import "fmt"

// TaskKind tags the micro-operation a Task performs.
type TaskKind uint8

// Task kinds.
const (
	// TaskFetch completes an instruction fetch: the word on the memory bus
	// is decoded and executed.
	TaskFetch TaskKind = iota
	// TaskWrite drives a raw address and a data word to finish a store.
	TaskWrite
	// TaskSetRegister latches the memory bus into a register to finish a
	// load.
	TaskSetRegister
)

func (k TaskKind) String() string {
	switch k {
	case TaskFetch:
		return "fetch"
	case TaskWrite:
		return "write"
	case TaskSetRegister:
		return "set-register"
	default:
		return fmt.Sprintf("task(%d)", uint8(k))
	}
}

// Task is a micro-operation the CPU owes the bus on a later clock edge.
// Only the fields that belong to Kind are meaningful.
type Task struct {
	Kind TaskKind

	// Write
	Address uint32
	Value   int32

	// SetRegister
	Register uint8
}

// FetchTask creates a fetch completion task.
func FetchTask() Task {
	return Task{Kind: TaskFetch}
}

// WriteTask creates a store completion task.
func WriteTask(address uint32, value int32) Task {
	return Task{Kind: TaskWrite, Address: address, Value: value}
}

// SetRegisterTask creates a load completion task.
func SetRegisterTask(reg uint8) Task {
	return Task{Kind: TaskSetRegister, Register: reg & 0xF}
}

func (t Task) String() string {
	switch t.Kind {
	case TaskWrite:
		return fmt.Sprintf("write [%05X] <- %08X", t.Address, uint32(t.Value))
	case TaskSetRegister:
		return fmt.Sprintf("set-register r%d", t.Register)
	default:
		return t.Kind.String()
	}
}

// TaskQueue is a FIFO of pending tasks.
type TaskQueue struct {
	tasks []Task
}

// Enqueue appends a task to the back of the queue.
func (q *TaskQueue) Enqueue(t Task) {
	q.tasks = append(q.tasks, t)
}

// Dequeue removes and returns the task at the front of the queue.
// ok is false when the queue is empty.
func (q *TaskQueue) Dequeue() (t Task, ok bool) {
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	t = q.tasks[0]
	q.tasks[0] = Task{}
	q.tasks = q.tasks[1:]
	if len(q.tasks) == 0 {
		q.tasks = q.tasks[:0:0]
	}
	return t, true
}

// Peek returns the task at the front of the queue without removing it.
func (q *TaskQueue) Peek() (Task, bool) {
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	return q.tasks[0], true
}

// Len returns the number of pending tasks.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// IsEmpty reports whether no task is pending.
func (q *TaskQueue) IsEmpty() bool {
	return len(q.tasks) == 0
}

// Tasks returns a copy of the pending tasks, front first.
func (q *TaskQueue) Tasks() []Task {
	out := make([]Task, len(q.tasks))
	copy(out, q.tasks)
	return out
}
