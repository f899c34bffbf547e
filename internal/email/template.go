package email

import (
	"fmt"
	"sync"

	"github.com/osteele/liquid"
)

// confirmationHTML is the body of the confirmation email. Liquid keeps the
// markup editable without touching Go code.
const confirmationHTML = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta http-equiv="content-type" content="text/html; charset=utf-8">
    <title>Confirm your subscription</title>
  </head>
  <body>
    <p>Welcome to our newsletter, {{ name | escape }}!</p>
    <p>
      Visit <a href="{{ link }}">{{ link }}</a>
      to confirm your subscription.
    </p>
    <p>If you didn't request this, please ignore this email.</p>
  </body>
</html>`

var (
	engineOnce   sync.Once
	confirmation *liquid.Template
	templateErr  error
)

// RenderConfirmationHTML renders the confirmation email body for a
// subscriber name and confirmation link.
func RenderConfirmationHTML(name, link string) (string, error) {
	engineOnce.Do(func() {
		confirmation, templateErr = liquid.NewEngine().ParseTemplate([]byte(confirmationHTML))
	})
	if templateErr != nil {
		return "", fmt.Errorf("parse confirmation template: %w", templateErr)
	}
	out, err := confirmation.Render(liquid.Bindings{"name": name, "link": link})
	if err != nil {
		return "", fmt.Errorf("render confirmation template: %w", err)
	}
	return string(out), nil
}

// RenderConfirmationText renders the plain-text alternative.
func RenderConfirmationText(link string) string {
	return fmt.Sprintf("Welcome to our newsletter!\nVisit %s to confirm your subscription.", link)
}
