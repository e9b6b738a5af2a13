package gameserver

// ClientConnectionState represents the state machine for a client connection.
type ClientConnectionState int32

const (
	ClientStateConnected    ClientConnectionState = iota // TCP connected, waiting for Login
	ClientStateEntering                                  // Login accepted, loading player data
	ClientStateInGame                                    // Player spawned in world
	ClientStateDisconnected                              // Connection closed
)

func (s ClientConnectionState) String() string {
	switch s {
	case ClientStateConnected:
		return "CONNECTED"
	case ClientStateEntering:
		return "ENTERING"
	case ClientStateInGame:
		return "IN_GAME"
	case ClientStateDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}
