package utils

import (
	"fmt"
	"medlearn/config"
	"net/smtp"
	"strings"
	"time"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Medlearn Academy <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all outgoing mails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #0B3954; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #0B3954; line-height: 1.6; }
			.content h2 { color: #0B3954; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2E86AB; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>MEDLEARN ACADEMY</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Medlearn Academy. All rights reserved.<br>
				This content is for exam preparation and does not replace medical advice.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome to Medlearn Academy! Your account is ready.</p>
		<p>Browse the course catalog and start your certification prep today.</p>
	`, name)
	SendEmail([]string{email}, "Welcome to Medlearn Academy", getEmailTemplate("Welcome!", body))
}

// 2. Certificate issued
func SendCertificateIssuedEmail(email, name, courseTitle, certificateNumber string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations! Your certificate for <b>%s</b> has been issued.</p>
		<div class="info-box">Certificate number: <b>%s</b></div>
		<p>You can download it from your dashboard.</p>
	`, name, courseTitle, certificateNumber)
	SendEmail([]string{email}, "Your certificate is ready", getEmailTemplate("Certificate Issued", body))
}

// 3. Subscription expiry reminder
func SendSubscriptionExpiryReminder(email, name string, expiresAt *time.Time) {
	expiry := "soon"
	if expiresAt != nil {
		expiry = expiresAt.Format("02 Jan 2006")
	}
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your premium subscription expires on <b>%s</b>.</p>
		<p>Renew now to keep access to premium courses and quizzes.</p>
	`, name, expiry)
	SendEmail([]string{email}, "Your subscription expires soon", getEmailTemplate("Subscription Reminder", body))
}

// 4. Subscription expired
func SendSubscriptionExpiredEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your premium subscription has expired. Premium courses are now locked.</p>
		<p>Resubscribe anytime to pick up right where you left off.</p>
	`, name)
	SendEmail([]string{email}, "Your subscription has expired", getEmailTemplate("Subscription Expired", body))
}

// 5. Trigger-configured email action
func SendTriggerEmail(email, name, subject, bodyText string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>%s</p>
	`, name, bodyText)
	SendEmail([]string{email}, subject, getEmailTemplate(subject, body))
}
