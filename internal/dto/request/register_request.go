package request

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Firstname string `json:"firstname" binding:"required,max=50"`
	Lastname  string `json:"lastname" binding:"max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
}
