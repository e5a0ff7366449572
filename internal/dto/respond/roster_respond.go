package respond

// RosterPeerRespond identifies the other participant of a session.
type RosterPeerRespond struct {
	Uuid      string `json:"uuid"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Status    string `json:"status"`
}

// RosterLastMessageRespond is the preview of a session's newest
// message. Text already has the deleted placeholder or the attachment
// tag applied.
type RosterLastMessageRespond struct {
	Text     string `json:"text"`
	SenderId string `json:"sender_id"`
	Status   string `json:"status"`
	SentAt   string `json:"sent_at"`
}

// RosterEntryRespond is one session from the signed-in user's
// perspective.
type RosterEntryRespond struct {
	SessionId   string                    `json:"session_id"`
	Peer        RosterPeerRespond         `json:"peer"`
	LastMessage *RosterLastMessageRespond `json:"last_message,omitempty"`
	UnreadCount int64                     `json:"unread_count"`
	Typing      bool                      `json:"typing"`
}

// OpenSessionRespond returns the session key after open/create.
type OpenSessionRespond struct {
	SessionId string            `json:"session_id"`
	Peer      RosterPeerRespond `json:"peer"`
}
