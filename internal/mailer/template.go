// Package mailer renders and delivers volunteer notification emails.
// Rendering is pure string building: no I/O happens until a Mailer sends
// the result.
package mailer

import (
	"fmt"
	"html"
	"strings"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/repository"
	"github.com/iliyamo/theatre-volunteer-shifts/internal/timeutil"
)

// Contact identifies who volunteers should reach when plans change. It
// feeds the tel: link and the downloadable contact card.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// RenderSchedule builds the HTML body of a schedule email. Every
// user-provided string (names, show titles, roles) is HTML-escaped; the
// login URL is produced by us and embedded as-is. The shift list may be
// empty, in which case the email only carries the login link and contact
// block.
func RenderSchedule(v repository.Volunteer, contact Contact, loginURL string, shifts []repository.VolunteerShift) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(v.Name))

	if len(shifts) > 0 {
		b.WriteString("<p>Here are your upcoming shifts:</p>")
		b.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">")
		b.WriteString("<tr><th>Show</th><th>Date</th><th>Role</th><th>Time</th></tr>")
		for _, s := range shifts {
			b.WriteString("<tr>")
			fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(s.ShowName))
			if t, err := timeutil.ParseDB(s.DateStartsAt); err == nil {
				fmt.Fprintf(&b, "<td>%s</td>", timeutil.FormatDate(t))
			} else {
				fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(s.DateStartsAt))
			}
			fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(s.Role))
			arrive, errA := timeutil.ParseDB(s.ArriveAt)
			depart, errD := timeutil.ParseDB(s.DepartAt)
			if errA == nil && errD == nil {
				fmt.Fprintf(&b, "<td>%s</td>", timeutil.FormatTimeRange(arrive, depart))
			} else {
				fmt.Fprintf(&b, "<td>%s - %s</td>",
					html.EscapeString(s.ArriveAt), html.EscapeString(s.DepartAt))
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</table>")
	}

	fmt.Fprintf(&b, "<p><a href=\"%s\">View and manage your shifts</a></p>", loginURL)

	if contact.Name != "" {
		fmt.Fprintf(&b, "<p>Questions? Contact %s", html.EscapeString(contact.Name))
		if contact.Phone != "" {
			tel := NormalizePhone(contact.Phone)
			fmt.Fprintf(&b, " on <a href=\"tel:%s\">%s</a>", tel, html.EscapeString(contact.Phone))
		}
		if contact.Email != "" {
			fmt.Fprintf(&b, " or <a href=\"mailto:%s\">%s</a>",
				contact.Email, html.EscapeString(contact.Email))
		}
		b.WriteString(".</p>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

// NormalizePhone converts a phone number to international dialling format
// for tel: links. Formatting characters are stripped; an Australian local
// number ("04..." or "08...") gains the +61 country code with the leading
// zero dropped. Numbers already in international form pass through.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' || r == '+' {
			digits.WriteRune(r)
		}
	}
	n := digits.String()
	switch {
	case n == "":
		return ""
	case strings.HasPrefix(n, "+"):
		return n
	case strings.HasPrefix(n, "0"):
		return "+61" + n[1:]
	default:
		return "+" + n
	}
}

// VCard builds a downloadable vCard payload for the theatre contact.
// Lines use CRLF terminators per RFC 6350.
func VCard(contact Contact) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\n")
	b.WriteString("VERSION:3.0\r\n")
	fmt.Fprintf(&b, "FN:%s\r\n", vcardEscape(contact.Name))
	if contact.Phone != "" {
		fmt.Fprintf(&b, "TEL;TYPE=CELL:%s\r\n", NormalizePhone(contact.Phone))
	}
	if contact.Email != "" {
		fmt.Fprintf(&b, "EMAIL:%s\r\n", vcardEscape(contact.Email))
	}
	b.WriteString("END:VCARD\r\n")
	return b.String()
}

// vcardEscape escapes the characters RFC 6350 treats specially in text
// values.
func vcardEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
