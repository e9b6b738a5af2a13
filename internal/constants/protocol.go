package constants

// Block-game play protocol constants (1.14 / 1.15 generation).

// Protocol numbers of the supported client builds.
const (
	// ProtocolVersion1_14_4 is the protocol number of release 1.14.4.
	ProtocolVersion1_14_4 = 498

	// ProtocolVersion1_15_2 is the protocol number of release 1.15.2.
	ProtocolVersion1_15_2 = 578
)

// Limits
const (
	// MaxChatLength is the longest chat message a client may send.
	MaxChatLength = 256

	// MaxPlayers is advertised in JoinGame; the server does not enforce it.
	MaxPlayers = 100

	// ViewDistance is advertised in JoinGame (chunks).
	ViewDistance = 10
)

// Network defaults
const (
	// DefaultCompressionThreshold is the payload size at which frames get compressed.
	DefaultCompressionThreshold = 256

	// DefaultSendQueueSize is the per-client outbound queue length.
	DefaultSendQueueSize = 256

	// ReadBufferSize is the bufio buffer size of a client connection reader.
	ReadBufferSize = 4096

	// MaxBatchFrames is the maximum number of frames flushed in one write.
	MaxBatchFrames = 64
)
