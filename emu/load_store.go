package emu

// LoadStoreUnit implements Vanilla-32 memory and port operations.
//
// The memory bus carries one transaction per clock edge, so every memory
// instruction is split: the issuing edge drives the address (loads) or
// queues the whole transaction (stores), and a queued task finishes the
// work on the following edge.
type LoadStoreUnit struct {
	regFile *RegFile
	tasks   *TaskQueue
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and task queue.
func NewLoadStoreUnit(regFile *RegFile, tasks *TaskQueue) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		tasks:   tasks,
	}
}

// Fetch issues an instruction fetch at PC and advances PC.
// Returns the 16-bit address that was requested.
func (lsu *LoadStoreUnit) Fetch(out *Assertions) uint32 {
	if lsu.regFile.PC > MaxPC {
		lsu.regFile.PC = MaxPC
	}
	addr := lsu.regFile.PC
	lsu.request(out, addr)
	if lsu.regFile.PC < MaxPC {
		lsu.regFile.PC++
	}
	lsu.tasks.Enqueue(FetchTask())
	return addr
}

// LOAD issues a read of the immediate address into Rd.
func (lsu *LoadStoreUnit) LOAD(rd uint8, addr uint16, out *Assertions) {
	lsu.tasks.Enqueue(SetRegisterTask(rd))
	lsu.request(out, uint32(addr))
}

// LOADR issues a read of the address held in Rn into Rd. Address bits above
// 15 merge with the request tag and are truncated to the address width.
func (lsu *LoadStoreUnit) LOADR(rd, rn uint8, out *Assertions) {
	lsu.tasks.Enqueue(SetRegisterTask(rd))
	lsu.request(out, uint32(lsu.regFile.ReadReg(rn)))
}

// STORE queues a write of Rn to the immediate address.
func (lsu *LoadStoreUnit) STORE(rn uint8, addr uint16) {
	lsu.tasks.Enqueue(WriteTask(uint32(addr), lsu.regFile.ReadReg(rn)))
}

// STORER queues a write of Rn to the address held in Rm.
func (lsu *LoadStoreUnit) STORER(rn, rm uint8) {
	lsu.tasks.Enqueue(WriteTask(uint32(lsu.regFile.ReadReg(rm)), lsu.regFile.ReadReg(rn)))
}

// Write drives a queued store onto the bus. The address is not tagged.
func (lsu *LoadStoreUnit) Write(t Task, out *Assertions) {
	out.drive(SignalAddress, Known(AddressWidth, t.Address))
	out.drive(SignalMemory, Known(DataWidth, uint32(t.Value)))
}

// SetRegister latches the memory bus into the register of a queued load.
func (lsu *LoadStoreUnit) SetRegister(t Task, memory Value) {
	lsu.regFile.WriteReg(t.Register, memory.Int32())
}

// IN copies the stdin port into Rd.
func (lsu *LoadStoreUnit) IN(rd uint8, stdin Value) {
	lsu.regFile.WriteReg(rd, stdin.Int32())
}

// OUT drives Rn onto the stdout port.
func (lsu *LoadStoreUnit) OUT(rn uint8, out *Assertions) {
	out.drive(SignalStdout, Known(DataWidth, uint32(lsu.regFile.ReadReg(rn))))
}

// request drives a tagged read address and releases the memory bus so the
// memory can answer.
func (lsu *LoadStoreUnit) request(out *Assertions, addr uint32) {
	out.drive(SignalAddress, Known(AddressWidth, AddressTag|addr))
	out.drive(SignalMemory, Unknown(DataWidth))
}
