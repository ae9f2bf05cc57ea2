package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

const fromAddress = "Bidhaus Auction <updates@resend.dev>"

// Sender delivers transactional email. Outbid and winner notices are
// best-effort at the call site; only the caller decides what a failure means.
type Sender interface {
	SendMagicLink(ctx context.Context, to, link string) error
	SendOutbid(ctx context.Context, to, itemTitle, itemLink string, newAmount, oldAmount float64) error
	SendWinner(ctx context.Context, to, itemTitle string, amount float64) error
}

// Resend sends email through the Resend API.
type Resend struct {
	client *resend.Client
}

func NewResend(apiKey string) (*Resend, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key is required")
	}
	return &Resend{client: resend.NewClient(apiKey)}, nil
}

func (r *Resend) send(ctx context.Context, to, subject, html string) error {
	_, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    fromAddress,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

func (r *Resend) SendMagicLink(ctx context.Context, to, link string) error {
	html := fmt.Sprintf(`<p>Click here to login: <a href="%s">%s</a></p>`, link, link)
	return r.send(ctx, to, "Your Login Link", html)
}

func (r *Resend) SendOutbid(ctx context.Context, to, itemTitle, itemLink string, newAmount, oldAmount float64) error {
	html := fmt.Sprintf(`
		<h1>Outbid Alert</h1>
		<p>A new bid of <strong>%s</strong> has been placed on <strong>%s</strong>.</p>
		<p>Your bid was: %s.</p>
		<p><a href="%s">Click here to place a new bid</a></p>`,
		FormatAmount(newAmount), itemTitle, FormatAmount(oldAmount), itemLink)
	return r.send(ctx, to, fmt.Sprintf("You have been outbid on %s", itemTitle), html)
}

func (r *Resend) SendWinner(ctx context.Context, to, itemTitle string, amount float64) error {
	html := fmt.Sprintf(`
		<h2>Congratulations!</h2>
		<p>We are pleased to inform you that you have won the auction for <strong>%s</strong>.</p>
		<p>Winning bid: <strong>%s</strong>.</p>
		<p>To arrange payment and collection of your item, please reach out to the auction house directly.</p>`,
		itemTitle, FormatAmount(amount))
	return r.send(ctx, to, fmt.Sprintf("You won the auction: %s", itemTitle), html)
}

// FormatAmount renders a bid amount for email bodies.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.0f kr", amount)
}
