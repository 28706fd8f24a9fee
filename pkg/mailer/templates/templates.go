package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
)

// The storefront sends three mails: a welcome note on registration and the
// two OTP mails (email verification, password reset). Bodies are small
// enough to live inline.

const (
	TemplateWelcome   = "welcome"
	TemplateVerifyOTP = "verify_otp"
	TemplateResetOTP  = "reset_otp"
)

var (
	welcomeTmpl = htmpl.Must(htmpl.New(TemplateWelcome).Parse(`
<p>Hello {{.Name}},</p>
<p>Welcome to {{.AppName}}! Your account has been created with the email {{.Email}}.</p>
<p>Best regards,<br>{{.AppName}}</p>`))

	verifyOTPTmpl = htmpl.Must(htmpl.New(TemplateVerifyOTP).Parse(`
<p>Hello {{.Name}},</p>
<p>Your verification code is <strong>{{.Code}}</strong>. It is valid for {{.ExpiresIn}}.</p>
<p>If you did not request this, you can ignore this email.</p>`))

	resetOTPTmpl = htmpl.Must(htmpl.New(TemplateResetOTP).Parse(`
<p>Hello {{.Name}},</p>
<p>Your password reset code is <strong>{{.Code}}</strong>. It is valid for {{.ExpiresIn}}.</p>
<p>If you did not request a reset, your account is still safe and no action is needed.</p>`))
)

// Render returns subject, plain-text, and HTML body for a known template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	var (
		tmpl *htmpl.Template
		buf  bytes.Buffer
	)
	switch name {
	case TemplateWelcome:
		tmpl = welcomeTmpl
		subject = fmt.Sprintf("Welcome to %v", data["AppName"])
		text = fmt.Sprintf("Hello %v, welcome to %v!", data["Name"], data["AppName"])
	case TemplateVerifyOTP:
		tmpl = verifyOTPTmpl
		subject = "Verification OTP"
		text = fmt.Sprintf("Your verification OTP is %v. It is valid for %v.", data["Code"], data["ExpiresIn"])
	case TemplateResetOTP:
		tmpl = resetOTPTmpl
		subject = "Password Reset OTP"
		text = fmt.Sprintf("Your password reset OTP is %v. It is valid for %v.", data["Code"], data["ExpiresIn"])
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render %s failed: %w", name, err)
	}
	return subject, text, buf.String(), nil
}
