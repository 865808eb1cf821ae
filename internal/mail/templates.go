package mail

import (
	"html/template"
	"strings"
	"time"
)

type otpMailData struct {
	Heading string
	Intro   string
	Code    string
	Warning string
	Footer  string
	Accent  string
	Year    int
}

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background-color: {{.Accent}}; color: white; padding: 20px; text-align: center; }
  .content { background-color: #f9f9f9; padding: 30px; border-radius: 5px; margin: 20px 0; }
  .otp-code { font-size: 32px; font-weight: bold; color: {{.Accent}}; text-align: center; letter-spacing: 5px; padding: 20px; background-color: white; border-radius: 5px; margin: 20px 0; }
  .footer { text-align: center; color: #666; font-size: 12px; margin-top: 20px; }
  .warning { color: #d32f2f; font-weight: bold; margin-top: 15px; }
</style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>{{.Heading}}</h1></div>
    <div class="content">
      <p>Hello,</p>
      <p>{{.Intro}}</p>
      <div class="otp-code">{{.Code}}</div>
      <p>This code will expire in <strong>10 minutes</strong>.</p>
      <p class="warning">{{.Warning}}</p>
    </div>
    <div class="footer">
      <p>{{.Footer}}</p>
      <p>&copy; {{.Year}} WyZar. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`))

func renderOTPMail(code string) (string, error) {
	return renderOTP(otpMailData{
		Heading: "WyZar Verification Code",
		Intro:   "Your verification code is:",
		Warning: "Do not share this code with anyone. WyZar staff will never ask for your verification code.",
		Footer:  "If you didn't request this code, please ignore this email.",
		Accent:  "#4CAF50",
		Code:    code,
		Year:    time.Now().Year(),
	})
}

func renderPasswordResetMail(code string) (string, error) {
	return renderOTP(otpMailData{
		Heading: "Password Reset Request",
		Intro:   "You requested to reset your WyZar account password. Your verification code is:",
		Warning: "If you didn't request a password reset, please ignore this email and your password will remain unchanged.",
		Footer:  "For security reasons, never share this code with anyone.",
		Accent:  "#FF9800",
		Code:    code,
		Year:    time.Now().Year(),
	})
}

func renderOTP(data otpMailData) (string, error) {
	var sb strings.Builder
	if err := otpTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
