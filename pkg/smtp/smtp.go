package smtp

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/campushub/clubs-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Client is the outgoing mail client.
type Client struct {
	dialer *gomail.Dialer
}

func NewClient(dialer *gomail.Dialer) *Client {
	return &Client{dialer: dialer}
}

// SendConfirmationEmail sends an email confirmation code.
func (c *Client) SendConfirmationEmail(to string, code string) {
	msg := c.newMessage(to, "Email Confirmation")
	msg.SetBody("text/plain", fmt.Sprintf("Your confirmation code: %s", code))
	if err := c.dialer.DialAndSend(msg); err != nil {
		logger.Log.Errorf("failed to send confirmation email to %s: %v", to, err)
		return
	}

	logger.Log.Infof("Confirmation email sent to %s", to)
}

// Send sends a message with an optional attachment.
func (c *Client) Send(to, subject, body, attachmentName string, attachment *bytes.Buffer) {
	msg := c.newMessage(to, subject)
	msg.SetBody("text/plain", body)
	if attachment != nil {
		msg.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment.Bytes())
			return err
		}))
	}

	if err := c.dialer.DialAndSend(msg); err != nil {
		logger.Log.Errorf("failed to send email to %s: %v", to, err)
		return
	}

	logger.Log.Infof("Email sent to %s", to)
}

func (c *Client) newMessage(to, subject string) *gomail.Message {
	msg := gomail.NewMessage()

	domain := viper.GetString("service.smtp.domain")
	msg.SetHeader("Message-ID", generateMessageID(domain))
	msg.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	msg.SetHeader("From", viper.GetString("service.smtp.email"))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	return msg
}

func generateMessageID(domain string) string {
	uniqueID := uuid.New().String()
	return fmt.Sprintf("<%s@%s>", uniqueID, domain)
}
