package service

import "fmt"

// Mail copy for the auth flows. Links point at the web client, which calls
// back into the API with the embedded token.

const verificationSubject = "Alumni Network - Verify Your Email"

func verificationBody(url string) string {
	return fmt.Sprintf(`<h2>Alumni Network - Email Verification</h2>
<p>Please click the link below to verify your email address:</p>
<a href=%q target="_blank">Verify Email</a>
<p>This link will expire in 24 hours.</p>`, url)
}

const resetSubject = "Alumni Network - Password Reset"

func resetBody(url string) string {
	return fmt.Sprintf(`<h2>Alumni Network - Password Reset</h2>
<p>You have requested a password reset. Please click the link below:</p>
<a href=%q target="_blank">Reset Password</a>
<p>This link will expire in 30 minutes.</p>
<p>If you did not request this, please ignore this email.</p>`, url)
}

const approvalSubject = "Alumni Network - Account Approved"

const approvalBody = `<h2>Alumni Network - Account Approved</h2>
<p>Your account has been approved. You can now log in and use the platform.</p>`
