// Package whatsapp builds wa.me contact links and the Indonesian message
// templates seekers send to donors.
package whatsapp

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	baseURL     = "https://wa.me/"
	countryCode = "62"
)

var nonDigit = regexp.MustCompile(`\D`)

// FormatPhone converts a local number into the international form wa.me expects
func FormatPhone(phone string) string {
	cleaned := nonDigit.ReplaceAllString(phone, "")

	if strings.HasPrefix(cleaned, "0") {
		cleaned = countryCode + cleaned[1:]
	}
	if !strings.HasPrefix(cleaned, countryCode) {
		cleaned = countryCode + cleaned
	}
	return cleaned
}

// URL returns a wa.me link, with a prefilled message when message is non-empty
func URL(phone, message string) string {
	link := baseURL + FormatPhone(phone)
	if message == "" {
		return link
	}
	return link + "?text=" + url.QueryEscape(message)
}

// DonorRequest is the default first-contact message
func DonorRequest(donorName, bloodType, location string) string {
	return fmt.Sprintf("Halo %s, saya membutuhkan donor darah %s di area %s. Apakah Anda bersedia membantu? Terima kasih.",
		donorName, bloodType, location)
}

// UrgentRequest names the hospital and asks for immediate help
func UrgentRequest(donorName, bloodType, location, hospital string) string {
	return fmt.Sprintf("URGENT: Halo %s, saya membutuhkan donor darah %s SEGERA di %s, %s. Mohon bantuannya. Terima kasih.",
		donorName, bloodType, hospital, location)
}
