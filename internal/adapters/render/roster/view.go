package roster

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/okc-cli/internal/application"
	"github.com/bnema/okc-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const iconBarWidth = 16

type RenderOptions struct {
	// MaxContacts caps the contacts listed per account. Zero lists all.
	MaxContacts int
}

func renderView(statuses []application.Status, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("OkCupid Accounts"),
		s.header.Render(fmt.Sprintf("accounts: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No accounts configured. Add one with `okc account add`."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderAccount(status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAccount(status application.Status, opts RenderOptions, s styles) string {
	parts := []string{
		s.account.Render(accountTitle(status.Account)),
		s.detail.Render(settingsLine(status)),
	}
	if !status.HasSession {
		parts = append(parts, s.warning.Render("no session cookie; run `okc auth set`"))
	}

	parts = append(parts, contactLines(status.Contacts, opts, s)...)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func accountTitle(account domain.Account) string {
	name := strings.TrimSpace(account.Name)
	if name == "" {
		name = string(account.ID)
	}
	if account.Username != "" {
		return fmt.Sprintf("%s (%s) as %s", name, account.ID, account.Username)
	}
	return fmt.Sprintf("%s (%s)", name, account.ID)
}

func settingsLine(status application.Status) string {
	sent := "hidden"
	if status.Account.Settings.ShowSentMessages {
		sent = "shown"
	}
	return fmt.Sprintf("auth: %s  sent echoes: %s", authLabel(status.Account.Auth.Method), sent)
}

func authLabel(method domain.AuthMethod) string {
	if method == "" {
		return "none"
	}

	return string(method)
}

func contactLines(contacts []domain.Contact, opts RenderOptions, s styles) []string {
	if len(contacts) == 0 {
		return []string{s.empty.Render("no saved contacts")}
	}

	withIcon := 0
	for _, contact := range contacts {
		if contact.AvatarFingerprint != "" {
			withIcon++
		}
	}

	lines := []string{
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.contactKey.Render(fmt.Sprintf("contacts: %d  icons:", len(contacts))),
			" ",
			renderProgressBar(withIcon, len(contacts), iconBarWidth, s),
			" ",
			s.contactKey.Render(fmt.Sprintf("%d/%d", withIcon, len(contacts))),
		),
	}

	shown := contacts
	if opts.MaxContacts > 0 && len(shown) > opts.MaxContacts {
		shown = shown[:opts.MaxContacts]
	}
	for _, contact := range shown {
		lines = append(lines, s.contact.Render(contactLine(contact)))
	}
	if hidden := len(contacts) - len(shown); hidden > 0 {
		lines = append(lines, s.empty.Render(fmt.Sprintf("  ... and %d more", hidden)))
	}

	return lines
}

func contactLine(contact domain.Contact) string {
	if contact.AvatarFingerprint == "" {
		return contact.Name
	}
	return fmt.Sprintf("%s  [icon %s]", contact.Name, iconName(contact.AvatarFingerprint))
}

// iconName shortens a thumbnail reference to its last path element.
func iconName(fingerprint string) string {
	trimmed := strings.TrimRight(fingerprint, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func renderProgressBar(done, total, width int, s styles) string {
	if width <= 0 || total <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * float64(done) / float64(total)))
	filled = max(0, min(filled, width))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}
