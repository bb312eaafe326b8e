package notifications

import (
	"fmt"
	"time"
)

// Email is a rendered subject and plain-text body
type Email struct {
	Subject string
	Body    string
}

// WelcomeEmail is sent once after registration
func WelcomeEmail() Email {
	return Email{
		Subject: "Welcome to Our App",
		Body:    "Hello, welcome to our app!",
	}
}

// VerifyOTPEmail carries the account verification code
func VerifyOTPEmail(code string, ttl time.Duration) Email {
	return Email{
		Subject: "Account Verification OTP",
		Body:    fmt.Sprintf("Your OTP for account verification is %s. It is valid for %s.", code, minutes(ttl)),
	}
}

// ResetOTPEmail carries the password reset code
func ResetOTPEmail(code string, ttl time.Duration) Email {
	return Email{
		Subject: "Password Reset OTP",
		Body:    fmt.Sprintf("Your OTP for resetting your password is %s. It is valid for %s.", code, minutes(ttl)),
	}
}

func minutes(d time.Duration) string {
	m := int(d.Round(time.Minute) / time.Minute)
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
