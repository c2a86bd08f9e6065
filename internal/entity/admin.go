package entity

// AdminLoginData is the identity carried in a verified admin token.
type AdminLoginData struct {
	Username string
}
