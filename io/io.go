// Package io defines the interface a bus uses to expose an input peripheral
// (e.g. an NES controller shift register) to the CPU without the bus or CPU
// knowing anything about the peripheral's internals.
package io

// Port8 is a single 8-bit input port. Each read may have side effects (a
// shift register advances), matching real controller hardware.
type Port8 interface {
	// Input returns the next 8-bit value visible on the port.
	Input() uint8
}
