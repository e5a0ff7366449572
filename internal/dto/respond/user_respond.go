package respond

// UserRespond is a directory entry: identity, name parts and presence.
type UserRespond struct {
	Uuid      string `json:"uuid"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	LastSeen  string `json:"last_seen,omitempty"`
}
