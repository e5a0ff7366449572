package request

// OpenSessionRequest opens (or lazily creates) the session with a peer.
type OpenSessionRequest struct {
	PeerId string `json:"peer_id" binding:"required"`
}
