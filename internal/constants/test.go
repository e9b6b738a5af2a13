package constants

import "time"

// Test Constants
//
// IMPORTANT: These constants are for testing only. DO NOT use in production code.

const (
	// TestPacketTimeout bounds waiting for a single packet in end-to-end tests
	TestPacketTimeout = 2 * time.Second

	// TestLoopSettle is long enough for a few logic loop ticks to run queued tasks
	TestLoopSettle = 50 * time.Millisecond
)
