// Package ledger parses the plain-text initial-balance ledger: repeating
// three-line blocks of bank name, "cte cte:<number>" and "$<amount>",
// optionally followed by a caption line.
package ledger

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/cartola-dev/cartola/internal/model"
	"github.com/cartola-dev/cartola/internal/normalize"
)

var accountLinePattern = regexp.MustCompile(`(?i)^cte\s*cte\s*:\s*(\S+)`)

// Parse reads initial-balance blocks from a plain-text ledger. Caption and
// blank lines between blocks are tolerated; the line immediately before a
// "cte cte:" line is taken as the bank name.
func Parse(r io.Reader) ([]model.InitialBalanceEntry, error) {
	var entries []model.InitialBalanceEntry
	var bankName string
	var pending *model.InitialBalanceEntry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := accountLinePattern.FindStringSubmatch(line); m != nil {
			pending = &model.InitialBalanceEntry{
				BankName:      bankName,
				AccountNumber: m[1],
			}
			bankName = ""
			continue
		}

		if pending != nil && strings.HasPrefix(line, "$") {
			pending.InitialBalance = normalize.Amount(line)
			entries = append(entries, *pending)
			pending = nil
			continue
		}

		// Any other line is a caption or the next block's bank name;
		// whichever line directly precedes the account line wins.
		bankName = line
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	return entries, nil
}

// Service provides account-number lookup over parsed ledger entries.
type Service struct {
	entries []model.InitialBalanceEntry
}

// NewService creates a Service from parsed entries.
func NewService(entries []model.InitialBalanceEntry) *Service {
	return &Service{entries: entries}
}

// Load parses a ledger reader and returns a Service.
func Load(r io.Reader) (*Service, error) {
	entries, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return NewService(entries), nil
}

// All returns all ledger entries in file order.
func (s *Service) All() []model.InitialBalanceEntry {
	return s.entries
}

// Find matches an account number exactly or by substring containment in
// either direction, tolerating dashes and leading zeros.
func (s *Service) Find(accountNumber string) (model.InitialBalanceEntry, bool) {
	if normalizeAccount(accountNumber) == "" {
		return model.InitialBalanceEntry{}, false
	}

	for _, e := range s.entries {
		if normalizeAccount(e.AccountNumber) == normalizeAccount(accountNumber) {
			return e, true
		}
	}
	for _, e := range s.entries {
		if Match(e.AccountNumber, accountNumber) {
			return e, true
		}
	}
	return model.InitialBalanceEntry{}, false
}

// Match reports whether two account numbers identify the same account:
// equal after stripping separators, or contained in one another.
func Match(a, b string) bool {
	na, nb := normalizeAccount(a), normalizeAccount(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

// normalizeAccount strips everything but digits and letters.
func normalizeAccount(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
