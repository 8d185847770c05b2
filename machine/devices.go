package machine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/vanilla/bus"
	"github.com/sarchlab/vanilla/emu"
)

// Port returns the level the CPU sees on p.
func (m *Machine) Port(p bus.Port) emu.Value {
	switch p {
	case bus.PortClock:
		return m.clock
	case bus.PortReset:
		return m.reset
	case bus.PortMemory:
		return m.memoryLine()
	case bus.PortStdin:
		return m.stdinValue()
	default:
		return m.driven[p]
	}
}

// SetPort schedules a CPU output to take effect after delay.
func (m *Machine) SetPort(p bus.Port, v emu.Value, delay int) {
	m.events.push(event{
		time:  m.now + delay,
		kind:  eventDrive,
		port:  p,
		value: v,
	})
}

// memoryLine resolves the shared memory line. A known CPU drive wins over
// the RAM.
func (m *Machine) memoryLine() emu.Value {
	if v := m.driven[bus.PortMemory]; v.IsKnown() {
		return v
	}
	return m.ramDrive
}

func (m *Machine) stdinValue() emu.Value {
	if len(m.stdin) == 0 {
		return emu.Unknown(emu.DataWidth)
	}
	return emu.Known(emu.DataWidth, uint32(m.stdin[0]))
}

// propagate evaluates the CPU against the current levels. When the CPU
// consumed stdin, the next word is presented and the CPU evaluated again.
func (m *Machine) propagate() error {
	if err := m.adapter.Propagate(m); err != nil {
		return fmt.Errorf("t=%d: %w", m.now, err)
	}

	inputs := m.cpu.Stats().Inputs
	if inputs == m.consumed {
		return nil
	}

	n := min(inputs-m.consumed, uint64(len(m.stdin)))
	m.stdin = m.stdin[n:]
	m.consumed = inputs

	if n == 0 {
		return nil
	}
	return m.propagate()
}

// settle applies pending events up to and including time until.
func (m *Machine) settle(until int) error {
	for {
		t, ok := m.events.next()
		if !ok || t > until {
			break
		}

		m.now = t
		if err := m.apply(m.events.popAt(t)); err != nil {
			return err
		}
	}

	m.now = until
	return nil
}

// apply handles every event of one time step, lets the RAM react once, and
// re-evaluates the CPU if the memory line changed.
func (m *Machine) apply(batch []event) error {
	before := m.memoryLine()
	busChanged := false

	for _, e := range batch {
		switch e.kind {
		case eventDrive:
			m.driven[e.port] = e.value
			switch e.port {
			case bus.PortAddress, bus.PortMemory:
				busChanged = true
			case bus.PortStdout:
				m.emit(e.value)
			}
		case eventMemory:
			if e.gen == m.ramGen {
				m.ramDrive = e.value
			}
		}
	}

	if busChanged {
		m.serveMemory()
	}

	if m.memoryLine() != before {
		return m.propagate()
	}
	return nil
}

// serveMemory is the RAM device. A tagged address is a read answered after
// the memory latency. An untagged address with known data is a write. The
// RAM releases the line in every other case, and while a read is pending.
func (m *Machine) serveMemory() {
	m.ramGen++
	m.ramDrive = emu.Unknown(emu.DataWidth)

	addr := m.driven[bus.PortAddress]
	data := m.driven[bus.PortMemory]
	if !addr.IsKnown() {
		return
	}

	word := uint16(addr.Uint32())

	if addr.Uint32()&emu.AddressTag != 0 {
		v := m.store.Read(word)
		m.events.push(event{
			time:  m.now + m.cfg.MemoryLatency,
			kind:  eventMemory,
			value: emu.Known(emu.DataWidth, v),
			gen:   m.ramGen,
		})
		m.log.WithFields(logrus.Fields{
			"address": word,
			"value":   v,
		}).Trace("memory read")
		return
	}

	if data.IsKnown() {
		m.store.Write(word, data.Uint32())
		m.log.WithFields(logrus.Fields{
			"address": word,
			"value":   data.Uint32(),
		}).Debug("memory write")
	}
}

func (m *Machine) emit(v emu.Value) {
	m.output = append(m.output, v.Uint32())
	m.log.WithField("value", v.Int32()).Debug("stdout")
	if m.stdout != nil {
		_, _ = fmt.Fprintln(m.stdout, v.Int32())
	}
}
