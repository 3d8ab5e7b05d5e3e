// Package ports defines the interfaces that connect the transfer session to
// infrastructure adapters.
//
//   - [Channel]: byte-level access to an opened serial connection
//   - [Opener]: opens a Channel from a [ChannelConfig]
//   - [Clock]: time source driving polling, throughput windows and timeouts
//   - [Reporter]: the human-readable progress output of a session
//
// The application layer (internal/app) depends only on these interfaces.
// internal/adapters/serial and internal/sim provide the channels,
// internal/clock the clocks and internal/adapters/console the reporter.
package ports
