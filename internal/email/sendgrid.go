package email

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendViaSendgrid delivers the rendered message through the Sendgrid API.
// Sendgrid acknowledges accepted mail with 202; anything else is a failure
// even when the request itself succeeded.
func (s *Service) sendViaSendgrid(data EmailData, htmlContent, textContent string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(data.FromName, data.From),
		data.Subject,
		mail.NewEmail("", data.To),
		textContent,
		htmlContent,
	)

	response, err := s.sendgridClient.Send(message)
	if err != nil {
		return fmt.Errorf("sending via Sendgrid: %w", err)
	}
	if response.StatusCode != http.StatusAccepted {
		return fmt.Errorf("Sendgrid rejected message: status %d, body %s", response.StatusCode, response.Body)
	}
	return nil
}
