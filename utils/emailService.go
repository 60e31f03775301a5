package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"finboard/config"
	"finboard/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email through SendGrid when an API key is
// configured, otherwise through plain SMTP.
func SendEmail(to []string, subject string, htmlBody string) error {
	cfg := config.AppConfig
	if cfg.SendGridApiKey != "" {
		return sendViaSendGrid(to, subject, htmlBody)
	}
	return sendViaSMTP(to, subject, htmlBody)
}

func sendViaSendGrid(to []string, subject string, htmlBody string) error {
	cfg := config.AppConfig
	client := sendgrid.NewSendClient(cfg.SendGridApiKey)
	from := mail.NewEmail("Finboard", cfg.EmailSender)

	for _, addr := range to {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", addr), "", htmlBody)
		resp, err := client.Send(message)
		if err != nil {
			logger.Log.Error().Err(err).Str("to", addr).Msg("sendgrid delivery failed")
			return err
		}
		if resp.StatusCode >= 400 {
			logger.Log.Error().Int("status", resp.StatusCode).Str("to", addr).Msg("sendgrid rejected message")
			return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
		}
	}
	logger.Log.Info().Strs("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

func sendViaSMTP(to []string, subject string, htmlBody string) error {
	cfg := config.AppConfig
	if cfg.EmailSender == "" || cfg.EmailPassword == "" {
		logger.Log.Warn().Str("subject", subject).Msg("email transport not configured, dropping message")
		return nil
	}

	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Finboard <%s>\r\n", cfg.EmailSender)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", cfg.EmailSender, cfg.EmailPassword, smtpHost)
	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, cfg.EmailSender, to, []byte(msg)); err != nil {
		logger.Log.Error().Err(err).Strs("to", to).Msg("smtp delivery failed")
		return err
	}
	logger.Log.Info().Strs("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F4F6F8; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #0B1F3A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B45; line-height: 1.6; }
			.content h2 { color: #0B1F3A; margin-top: 0; }
			.footer { background-color: #F4F6F8; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2E86DE; margin: 20px 0; }
			.price-up { color: #28A745; font-weight: bold; }
			.price-down { color: #DC3545; font-weight: bold; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>FINBOARD</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Finboard. All rights reserved.<br>
				Market data may be delayed. Nothing here is investment advice.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail greets a new signup with their starting credit grant.
func SendWelcomeEmail(email, name string, signupCredits int) {
	subject := "Welcome to Finboard"
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome to <strong>Finboard</strong>! Your account is ready.</p>
		<p>We have added <strong>%d credits</strong> to get you started with AI market analysis.</p>
		<div class="info-box">
			<strong>Next steps:</strong> build a portfolio, set price alerts, and run your first symbol analysis.
		</div>
	`, name, signupCredits)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Aboard!", body))
}

// SendAlertTriggeredEmail notifies a user their price alert fired.
func SendAlertTriggeredEmail(email, name, symbol, condition string, threshold, price float64) {
	direction := "risen above"
	cssClass := "price-up"
	if condition == "BELOW" {
		direction = "fallen below"
		cssClass = "price-down"
	}

	subject := fmt.Sprintf("Price Alert: %s %s %.2f", symbol, direction, threshold)
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your price alert for <strong>%s</strong> just fired.</p>
		<div class="info-box">
			The price has %s your threshold of %.2f and is now at <span class="%s">%.2f</span>.
		</div>
		<p>This alert has been disabled; create a new one to keep watching this level.</p>
	`, name, symbol, direction, threshold, cssClass, price)

	go SendEmail([]string{email}, subject, getEmailTemplate("Price Alert Triggered", body))
}

// SendMonthlyCreditsEmail announces a plan's monthly credit grant.
func SendMonthlyCreditsEmail(email, name string, creditsGranted int64, plan string) {
	subject := "Your monthly Finboard credits have arrived"
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your <strong>%s</strong> plan allowance of <strong>%d credits</strong> has been added to your account.</p>
	`, name, plan, creditsGranted)

	go SendEmail([]string{email}, subject, getEmailTemplate("Monthly Credits", body))
}

// SendContactReplyEmail delivers an admin reply to a contact message.
func SendContactReplyEmail(email, name, originalSubject, replyNote string) {
	subject := "Re: " + originalSubject
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thanks for reaching out. Here is our reply to your message:</p>
		<div class="info-box">%s</div>
		<p>Just reply to this email if you have further questions.</p>
	`, name, replyNote)

	go SendEmail([]string{email}, subject, getEmailTemplate("We Got Your Message", body))
}

// SendContactNotificationEmail tells the admin inbox a new message arrived.
func SendContactNotificationEmail(name, email, subject, message string) {
	cfg := config.AppConfig
	if cfg.AdminEmail == "" {
		return
	}
	body := fmt.Sprintf(`
		<p>New contact message received.</p>
		<div class="info-box">
			<strong>From:</strong> %s &lt;%s&gt;<br>
			<strong>Subject:</strong> %s
		</div>
		<p>%s</p>
	`, name, email, subject, message)

	go SendEmail([]string{cfg.AdminEmail}, "New contact message: "+subject, getEmailTemplate("Contact Inbox", body))
}
