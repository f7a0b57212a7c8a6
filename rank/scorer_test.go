package rank

import (
	"testing"

	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/schema"
)

func defaultScorer() *Scorer {
	tables := config.DefaultTables()
	return NewScorer(&tables)
}

func doc(content, title, section string, distance float64) schema.Document {
	return schema.Document{
		Content:  content,
		Metadata: schema.Metadata{Title: title, Section: section},
		Distance: distance,
	}
}

func TestScorePhraseMatchMonotonic(t *testing.T) {
	s := defaultScorer()
	q := "digital savings scheme"

	without := doc("Open an account today with attractive rates.", "", "", 0.5)
	with := doc("Open an account today with attractive rates. The digital savings scheme suits everyone.", "", "", 0.5)

	scoreWithout := s.Score(without, q, "", nil)
	scoreWith := s.Score(with, q, "", nil)
	if scoreWith <= scoreWithout {
		t.Fatalf("literal phrase match must strictly increase score: %f vs %f", scoreWith, scoreWithout)
	}
	if scoreWith-scoreWithout < 100 {
		t.Fatalf("phrase boost too small: delta %f", scoreWith-scoreWithout)
	}
}

func TestScoreExactAliasBoost(t *testing.T) {
	s := defaultScorer()
	q := "MDB Kotipoti"

	matching := doc("MDB Kotipoti is a monthly deposit scheme for future millionaires.", "", "", 0.4)
	other := doc("A monthly deposit scheme for future millionaires.", "", "", 0.4)

	withAlias := s.Score(matching, q, "savings", []string{"savings"})
	withoutAlias := s.Score(other, q, "savings", []string{"savings"})
	if withAlias-withoutAlias < 200 {
		t.Fatalf("exact alias query should add the full alias boost: delta %f", withAlias-withoutAlias)
	}
}

func TestScoreCategoryAlignment(t *testing.T) {
	s := defaultScorer()
	q := "zzqx"

	aligned := s.Score(doc("placeholder", "", "", 1.5), q, "savings", []string{"savings"})
	unaligned := s.Score(doc("placeholder", "", "", 1.5), q, "savings", nil)
	// Aligned exclusive category gets +15 and +5.
	if aligned-unaligned != 20 {
		t.Fatalf("expected +20 alignment boost, got delta %f", aligned-unaligned)
	}
}

func TestScoreBoardSectionBoost(t *testing.T) {
	s := defaultScorer()
	q := "zzqx"

	board := s.Score(doc("placeholder", "", "Board of Directors", 1.5), q, "", nil)
	plain := s.Score(doc("placeholder", "", "general", 1.5), q, "", nil)
	if board-plain != 200 {
		t.Fatalf("board section should add 200, got delta %f", board-plain)
	}
}

func TestScoreViceChairmanShortCircuit(t *testing.T) {
	s := defaultScorer()
	q := "who is the vice chairman"

	chairmanOnly := doc("Message from Chairman. The chairman leads the board of directors of the bank.", "", "Board of Directors", 0.3)
	got := s.Score(chairmanOnly, q, "management", []string{"management", "board"})

	// Without the vice-chairman phrase the doc stops before the section
	// and sponsor boosts; a doc that carries it keeps accruing.
	viceDoc := doc("The vice chairman oversees governance.", "", "Board of Directors", 0.3)
	gotVice := s.Score(viceDoc, q, "management", []string{"management", "board"})
	if gotVice <= got {
		t.Fatalf("vice-chairman doc should outrank chairman-only doc: %f vs %f", gotVice, got)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	s := defaultScorer()
	got := s.Score(doc("unrelated text", "", "", 99), "completely different query", "", nil)
	if got < 0 {
		t.Fatalf("score must clamp at zero, got %f", got)
	}
}

func TestScorePlusVariantDemotion(t *testing.T) {
	s := defaultScorer()
	q := "corporate account"

	base := doc("The corporate account offers standard banking.", "", "", 0.5)
	plus := doc("The corporate account plus offers standard banking.", "", "", 0.5)

	baseScore := s.Score(base, q, "", nil)
	plusScore := s.Score(plus, q, "", nil)
	if plusScore >= baseScore {
		t.Fatalf("plus-variant doc should be demoted for a base query: %f vs %f", plusScore, baseScore)
	}
}
