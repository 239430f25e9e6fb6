package common

import (
	"net/mail"
	"net/url"
	"strings"
)

func IsValidURL(rawurl string) bool {
	_, err := url.ParseRequestURI(rawurl)
	return err == nil
}

func IsValidEmail(email string) bool {
	if strings.TrimSpace(email) != email {
		return false
	}
	addr, err := mail.ParseAddress(email)
	// ParseAddress also accepts "Name <a@b.c>", which is not an email
	return err == nil && addr.Address == email
}
