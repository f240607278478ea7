package ports

// Mailer delivers transactional notifications. Delivery is best-effort and
// fire-and-forget: implementations queue the message and log failures rather
// than surface them to the caller.
type Mailer interface {
	SendWelcomeEmail(name, to string)
	SendResetPasswordEmail(name, to, token string)
}
