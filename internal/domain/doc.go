// Package domain contains the core entities of a serial transfer session.
//
// It has no dependencies on the serial transport, the clock or logging.
//
// # Entities
//
//   - [TransferSession]: phase and byte counters of one send/receive exchange
//   - [ThroughputSample]: bytes observed over one reporting window
//   - [Summary]: the result surfaced when a session ends
package domain
