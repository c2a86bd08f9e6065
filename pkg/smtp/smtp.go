package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"os"
)

type ItfSmtp interface {
	SendResultLink(name string, userEmail string, resultURL string) error
}

type smtp struct {
	auth smtpPkg.Auth
	mail string
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	auth := smtpPkg.PlainAuth("", mail, password, "smtp.gmail.com")

	return &smtp{auth: auth, mail: mail}
}

// SendResultLink mails the public result locator to the visitor so the
// photo stays reachable after the kiosk session ends.
func (s *smtp) SendResultLink(name string, userEmail string, resultURL string) error {
	to := []string{userEmail}

	message := []byte(fmt.Sprintf(
		"To: %s\r\nSubject: Your photobooth picture\r\n\r\nHi %s, your swapped photo is ready. Download it here: %s",
		userEmail, name, resultURL))

	if err := smtpPkg.SendMail("smtp.gmail.com:587", s.auth, s.mail, to, message); err != nil {
		return err
	}

	return nil
}
