package node

import (
	"fmt"
	"strings"
)

// ComputeUnit is the execution target a node declares. It is advisory: the
// schedulers log it but never use it for placement.
type ComputeUnit int

const (
	// CPU marks a node meant for general purpose cores.
	CPU ComputeUnit = iota
	// GPU marks a node meant for a graphics processor.
	GPU
	// NPU marks a node meant for a neural processing unit.
	NPU
)

var unitNames = map[ComputeUnit]string{
	CPU: "CPU",
	GPU: "GPU",
	NPU: "NPU",
}

// String returns the canonical upper-case name of the unit.
func (u ComputeUnit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("ComputeUnit(%d)", int(u))
}

// ParseComputeUnit converts a case-insensitive name into a ComputeUnit.
func ParseComputeUnit(s string) (ComputeUnit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CPU":
		return CPU, nil
	case "GPU":
		return GPU, nil
	case "NPU":
		return NPU, nil
	}
	return CPU, fmt.Errorf("unknown compute unit %q: must be one of 'cpu', 'gpu', 'npu'", s)
}
