package mail

import "html/template"

const layoutStyle = `font-family: system-ui, -apple-system, sans-serif; max-width: 600px; margin: 0 auto;`

var verificationTmpl = template.Must(template.New("verification").Parse(`
<div style="` + layoutStyle + `">
  <h1 style="color: #18181b; font-size: 24px; margin-bottom: 16px;">Welcome to DevDrawer!</h1>
  <p style="color: #71717a; margin-bottom: 24px;">Please verify your email address by clicking the button below:</p>
  <a href="{{.Link}}" style="display: inline-block; padding: 12px 24px; background-color: #18181b; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 500;">Verify Email</a>
  <p style="color: #71717a; margin-top: 24px; font-size: 14px;">Or copy and paste this link into your browser:<br/><a href="{{.Link}}" style="color: #3b82f6;">{{.Link}}</a></p>
  <p style="color: #71717a; margin-top: 24px; font-size: 12px;">This link will expire in 24 hours.</p>
</div>
`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<div style="` + layoutStyle + `">
  <h1 style="color: #18181b; font-size: 24px; margin-bottom: 16px;">Reset your password</h1>
  <p style="color: #71717a; margin-bottom: 24px;">Click the button below to reset your password:</p>
  <a href="{{.Link}}" style="display: inline-block; padding: 12px 24px; background-color: #18181b; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 500;">Reset Password</a>
  <p style="color: #71717a; margin-top: 24px; font-size: 14px;">Or copy and paste this link into your browser:<br/><a href="{{.Link}}" style="color: #3b82f6;">{{.Link}}</a></p>
  <p style="color: #71717a; margin-top: 24px; font-size: 12px;">This link will expire in 1 hour. If you didn't request this, please ignore this email.</p>
</div>
`))
