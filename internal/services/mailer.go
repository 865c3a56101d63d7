package services

import "log"

// InviteMailer delivers invitation emails. Delivery is fire-and-forget:
// failures are logged and never block the HTTP response.
type InviteMailer interface {
	SendInvite(email, teamspaceName, token string) error
}

// LogMailer is the default mailer for deployments without an email
// provider. It records that an invitation was issued without logging the
// recipient address or the token.
type LogMailer struct{}

// SendInvite implements InviteMailer.
func (LogMailer) SendInvite(_ string, teamspaceName, _ string) error {
	log.Printf("invitation issued for teamspace %q", teamspaceName)
	return nil
}
