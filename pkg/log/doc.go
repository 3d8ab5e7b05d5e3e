// Package log provides the structured logging abstraction used by serialbench.
//
// Components accept a [Logger] so the transfer session can run silently in
// tests ([NewNoopLogger]) or log through zerolog in the command-line tool:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//	logger.Info("channel opened", log.String("port", "/dev/ttyACM0"), log.Int("baud", 2400))
//
// Any other logging library can be plugged in by implementing the four
// level methods of [Logger].
package log
