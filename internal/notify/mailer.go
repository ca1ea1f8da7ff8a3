// Package notify sends customer emails over SMTP.
package notify

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/config"
)

// Sender delivers prepared messages. *gomail.Dialer implements it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer composes storefront emails. Without a Sender it only logs.
type Mailer struct {
	sender Sender
	from   string
}

// NewMailer returns a Mailer for the SMTP settings. An empty user disables
// delivery.
func NewMailer(cfg config.SMTP) *Mailer {
	if cfg.User == "" || cfg.Pass == "" {
		log.Println("SMTP credentials not set, email delivery disabled")
		return &Mailer{from: cfg.From}
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &Mailer{sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass), from: from}
}

// NewMailerWithSender is used by tests.
func NewMailerWithSender(s Sender, from string) *Mailer {
	return &Mailer{sender: s, from: from}
}

// Send delivers an HTML email.
func (m *Mailer) Send(to, subject, html string) error {
	if m.sender == nil {
		log.Printf("email disabled, not sending %q to %s", subject, to)
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %q: %w", subject, err)
	}
	return nil
}

// SendWelcome greets a newly registered customer.
func (m *Mailer) SendWelcome(to, name string) error {
	body := fmt.Sprintf(`
		<h2>Welcome!</h2>
		<p>Hi %s,</p>
		<p>Thanks for creating an account. You can now save your cart and track your orders.</p>
	`, name)
	return m.Send(to, "Welcome to the store", body)
}

// SendOrderConfirmation tells the customer their order was placed.
func (m *Mailer) SendOrderConfirmation(to, name, orderID string, total float64, items int) error {
	body := fmt.Sprintf(`
		<h2>Order confirmed</h2>
		<p>Hi %s,</p>
		<p>We received your order <strong>%s</strong> with %d item(s), total $%.2f.</p>
		<p>We will let you know when it ships.</p>
	`, name, orderID, items, total)
	return m.Send(to, "Order confirmation "+orderID, body)
}

// SendRefundDecision reports the outcome of a return/refund request.
func (m *Mailer) SendRefundDecision(to, name, orderID, status string) error {
	body := fmt.Sprintf(`
		<h2>Return request %s</h2>
		<p>Hi %s,</p>
		<p>Your return request for order <strong>%s</strong> was %s.</p>
	`, status, name, orderID, status)
	return m.Send(to, "Your return request was "+status, body)
}
