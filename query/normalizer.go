// Package query rewrites and classifies raw user messages before they
// reach retrieval. Normalization maps free-text product mentions onto
// canonical names; classification picks the weighted keyword category
// steering scoring and filtering downstream.
package query

import (
	"regexp"
	"strings"

	"github.com/mdbplc/advisor/common/textutil"
	"github.com/mdbplc/advisor/config"
)

// Normalizer rewrites queries using the product alias table. It is
// deterministic and idempotent on canonical-only input: the table invariant
// guarantees canonical names are never aliases of other entries.
type Normalizer struct {
	aliases     []config.AliasPair
	roleAliases map[string]string
}

// NewNormalizer builds a normalizer over the given tables. The alias list
// is materialized once in descending-length order.
func NewNormalizer(tables *config.Tables) *Normalizer {
	return &Normalizer{
		aliases:     tables.OrderedAliases(),
		roleAliases: tables.RoleAliases,
	}
}

var chargesRe = regexp.MustCompile(`(?i)what are the charges (?:of|for)\s+(\w+(?:\s+\w+)+)`)

// Normalize applies the charges rewrite, role aliases and product alias
// substitution, in that order.
func (n *Normalizer) Normalize(q string) string {
	q = n.rewriteCharges(q)
	q = n.applyRoleAliases(q)
	return n.applyProductAliases(q)
}

// rewriteCharges turns "what are the charges of <subject>" into
// "<subject> fees and charges" so the query lines up with fee-schedule
// document titles.
func (n *Normalizer) rewriteCharges(q string) string {
	if !strings.Contains(strings.ToLower(q), "charges") {
		return q
	}
	return chargesRe.ReplaceAllStringFunc(q, func(m string) string {
		sub := chargesRe.FindStringSubmatch(m)
		return strings.TrimSpace(strings.TrimSuffix(sub[1], "?")) + " fees and charges"
	})
}

func (n *Normalizer) applyRoleAliases(q string) string {
	for phrase, short := range n.roleAliases {
		q = strings.ReplaceAll(q, phrase, short)
	}
	return q
}

// applyProductAliases replaces the first whole-word occurrence of each
// alias with its canonical name, longest alias first. Replaced spans are
// tracked so a later, shorter alias never rewrites text inside an earlier
// replacement.
func (n *Normalizer) applyProductAliases(q string) string {
	type span struct{ start, end int }
	var replaced []span

	overlaps := func(start, end int) bool {
		for _, s := range replaced {
			if start < s.end && end > s.start {
				return true
			}
		}
		return false
	}

	for _, pair := range n.aliases {
		loc := firstNonOverlapping(q, pair.Alias, overlaps)
		if loc == nil {
			continue
		}
		canonical := pair.Canonical
		q = q[:loc[0]] + canonical + q[loc[1]:]
		delta := len(canonical) - (loc[1] - loc[0])
		for i := range replaced {
			if replaced[i].start >= loc[1] {
				replaced[i].start += delta
				replaced[i].end += delta
			}
		}
		replaced = append(replaced, span{start: loc[0], end: loc[0] + len(canonical)})
	}
	return q
}

func firstNonOverlapping(q, alias string, overlaps func(int, int) bool) []int {
	for _, loc := range textutil.FindAllWord(q, alias) {
		if !overlaps(loc[0], loc[1]) {
			return loc
		}
	}
	return nil
}
