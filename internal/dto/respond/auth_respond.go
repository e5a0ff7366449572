package respond

// RegisterRespond returns the created account identity.
type RegisterRespond struct {
	Uuid      string `json:"uuid"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
}

// LoginRespond returns the identity plus the token pair.
type LoginRespond struct {
	Uuid         string `json:"uuid"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenPairRespond is the refresh-endpoint result.
type TokenPairRespond struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
