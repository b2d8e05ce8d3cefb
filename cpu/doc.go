// Package cpu defines the application processor contract used by the
// subsystem composer, a reference Cortex-A72 configuration model, and the
// core factory that creates, configures and realizes each core in order.
//
// Each core is configured with its multiprocessor affinity, the total core
// count, fixed L1 cache geometry, the PSCI conduit, and optionally the EL3/EL2
// extension toggles. Realize is always the last step; a core that fails to
// realize is released and never reachable from the subsystem.
package cpu
