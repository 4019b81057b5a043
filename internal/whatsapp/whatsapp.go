// Package whatsapp is the outbound messaging boundary. It formats WhatsApp deep
// links of the form https://wa.me/<phone>?text=<message>. Opening the link is a
// manual act of the operator - the gateway has no knowledge of delivery and gives
// no guarantees
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yjcc/events/internal/log"
	"golang.org/x/net/context"
)

const countryCode = "+972"

// Messenger sends a text message to a phone number. Sending is fire-and-forget:
// implementations return no delivery information. Link exposes the deep link so
// the dashboard can hand it to the operator's browser
type Messenger interface {
	Send(ctx context.Context, phone string, text string) error
	Link(phone string, text string) string
}

// Gateway builds wa.me deep links and records them. It implements Messenger
type Gateway struct {
	baseURL string
	logger  *logrus.Entry
}

// New creates a gateway producing links against the given base URL (normally
// "https://wa.me")
func New(baseURL string, logger *logrus.Entry) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// NormalizePhone converts a phone number to international form. Numbers that do not
// already carry the international prefix get their leading zero stripped and the
// country code prepended
func NormalizePhone(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return countryCode + strings.TrimPrefix(phone, "0")
}

// Link builds the chat deep link for the given phone number and message text
func (g *Gateway) Link(phone string, text string) string {
	return fmt.Sprintf("%s/%s?text=%s", g.baseURL, NormalizePhone(phone), url.QueryEscape(text))
}

// Send produces the deep link for the message and logs it for the operator to open.
// There is no retry and no way to observe delivery
func (g *Gateway) Send(ctx context.Context, phone string, text string) error {
	link := g.Link(phone, text)
	g.logger.WithFields(logrus.Fields{
		log.FldPhone: phone,
		"link":       link,
	}).Info("WhatsApp message ready for dispatch")
	return nil
}
