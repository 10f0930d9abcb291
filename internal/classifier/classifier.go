// Package classifier decides whether an email belongs to a job application
// and which lifecycle status it implies. Matching is literal substring
// containment on lower-cased text; false positives are expected.
package classifier

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Lllllllleong/applicationtracker/internal/models"
)

const (
	UnknownCompany  = "Unknown Company"
	UnknownPosition = "Unknown Position"
)

// Result is the outcome of classifying one email.
type Result struct {
	IsApplication bool
	Status        models.Status
	Company       string
	Position      string
}

var (
	senderAddressRegex = regexp.MustCompile(`<(.+)>`)
	positionRegex      = regexp.MustCompile(`(?i)for\s+(.+?)\s+(position|role)`)
)

// Classify evaluates an email's subject, body text and From header.
// Status, Company and Position are only populated for applications.
func Classify(subject, body, from string) Result {
	text := strings.ToLower(subject + " " + body)
	if !containsAny(text, applicationPhrases) {
		return Result{}
	}
	return Result{
		IsApplication: true,
		Status:        InferStatus(text),
		Company:       InferCompany(from),
		Position:      InferPosition(subject),
	}
}

// InferStatus picks the status implied by lower-cased text. Rejection wins over interview.
func InferStatus(text string) models.Status {
	switch {
	case containsAny(text, rejectionPhrases):
		return models.StatusRejected
	case containsAny(text, interviewPhrases):
		return models.StatusInterview
	default:
		return models.StatusApplied
	}
}

// InferCompany derives a company name from the first domain label of the
// angle-bracketed sender address, e.g. "Jane <jane@Acme.io>" gives "Acme".
func InferCompany(from string) string {
	m := senderAddressRegex.FindStringSubmatch(from)
	if m == nil {
		return UnknownCompany
	}
	_, domain, ok := strings.Cut(m[1], "@")
	if !ok {
		return UnknownCompany
	}
	label, _, _ := strings.Cut(domain, ".")
	if label == "" {
		return UnknownCompany
	}
	return capitalize(label)
}

// InferPosition extracts the phrase between "for" and "position"/"role" in subject.
func InferPosition(subject string) string {
	m := positionRegex.FindStringSubmatch(subject)
	if m == nil {
		return UnknownPosition
	}
	return m[1]
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
