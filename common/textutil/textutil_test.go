package textutil

import (
	"strings"
	"testing"
)

func TestContainsWordBoundaries(t *testing.T) {
	if !ContainsWord("credit card fees and charges", "card") {
		t.Fatalf("whole word should match")
	}
	if ContainsWord("please discard this", "card") {
		t.Fatalf("substring inside a larger word must not match")
	}
	if !ContainsWord("Credit CARD issued", "card") {
		t.Fatalf("matching is case insensitive")
	}
	if ContainsWord("anything", "") {
		t.Fatalf("empty word never matches")
	}
	if !ContainsWord("the head office address is listed", "head office") {
		t.Fatalf("multi-word phrases match on boundaries")
	}
}

func TestNormalizeMessage(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello!!!", "hello"},
		{"can u tell me ur rates pls", "can you tell me your rates please"},
		{"  what   is\tkotipoti  ", "what is kotipoti"},
		{"thx", "thanks"},
	}
	for _, tc := range cases {
		if got := NormalizeMessage(tc.in); got != tc.want {
			t.Fatalf("NormalizeMessage(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRatio(t *testing.T) {
	if Ratio("hello", "hello") != 100 {
		t.Fatalf("identical strings score 100")
	}
	if got := Ratio("helo", "hello"); got != 80 {
		t.Fatalf("one edit over five chars scores 80, got %d", got)
	}
	if Ratio("", "hello") != 0 {
		t.Fatalf("empty string scores 0")
	}
}

func TestPartialRatio(t *testing.T) {
	if PartialRatio("savings", "how do I open a savings account") != 100 {
		t.Fatalf("contained substring scores 100")
	}
	if got := PartialRatio("xkcd qwholly zzyzx", "savings"); got > 60 {
		t.Fatalf("unrelated strings should score low, got %d", got)
	}
}

func TestCloseMatch(t *testing.T) {
	candidates := []string{"hello", "good morning", "how are you"}
	if got := CloseMatch("helo", candidates, 60); got != "hello" {
		t.Fatalf("got %q, want hello", got)
	}
	if got := CloseMatch("open an account", candidates, 60); got != "" {
		t.Fatalf("below-cutoff input must not match, got %q", got)
	}
}

func TestDedupLines(t *testing.T) {
	in := "Chairman: A. Rahman\n\nChairman: A. Rahman\nDirector: B. Khan"
	want := "Chairman: A. Rahman\nDirector: B. Khan"
	if got := DedupLines(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWordPositions(t *testing.T) {
	tokens := Default.Tokenize("interest rate of savings, savings account")
	pos := WordPositions(tokens, []string{"savings", "rate"})
	if len(pos["savings"]) != 2 {
		t.Fatalf("savings occurs twice (incl. punctuation-attached), got %v", pos["savings"])
	}
	if len(pos["rate"]) != 1 || pos["rate"][0] != 1 {
		t.Fatalf("rate at index 1, got %v", pos["rate"])
	}
}

func TestExtractManagementSentences(t *testing.T) {
	context := "The Managing Director oversees operations. The bank has 40 branches. The CEO joined in 2020."
	got := ExtractManagementSentences(context, []string{"managing director", "ceo"})
	if !strings.Contains(got, "Managing Director oversees") {
		t.Fatalf("managing director sentence missing: %q", got)
	}
	if !strings.Contains(got, "CEO joined") {
		t.Fatalf("ceo sentence missing: %q", got)
	}
	if strings.Contains(got, "40 branches") {
		t.Fatalf("unrelated sentence kept: %q", got)
	}
}

func TestExtractBoardSentencesDedup(t *testing.T) {
	context := "Chairman: A. Rahman\nChairman: A. Rahman\nVice Chairman: C. Das\nHead office is in Gulshan"
	got := ExtractBoardSentences(context, nil)
	if strings.Count(got, "A. Rahman") != 1 {
		t.Fatalf("duplicate board line kept: %q", got)
	}
	if !strings.Contains(got, "Vice Chairman: C. Das") {
		t.Fatalf("vice chairman line missing: %q", got)
	}
	if strings.Contains(got, "Gulshan") {
		t.Fatalf("non-board line kept: %q", got)
	}
}

func TestExtractSponsorSentencesFallback(t *testing.T) {
	blocks := "The sponsors of the bank include X Group.\nBranch timings are 10 to 4."
	got := ExtractSponsorSentences(blocks, nil)
	if !strings.Contains(got, "X Group") || strings.Contains(got, "timings") {
		t.Fatalf("block filtering wrong: %q", got)
	}

	// A single matching block comes back whole.
	whole := "Founded by a group of sponsor shareholders in 2013"
	if got := ExtractSponsorSentences(whole, nil); got != whole {
		t.Fatalf("whole-context fallback missing: %q", got)
	}

	if got := ExtractSponsorSentences("Nothing relevant here.", nil); got != "" {
		t.Fatalf("non-matching context must yield empty, got %q", got)
	}
}

func TestSplitSentencesPunct(t *testing.T) {
	got := Default.SplitSentencesPunct("First one. Second one? Third")
	if len(got) != 3 || got[2] != "Third" {
		t.Fatalf("got %v", got)
	}
	if got[0] != "First one." {
		t.Fatalf("terminal punctuation must stay with the sentence: %q", got[0])
	}
}

func TestSplitSentencesPunctKeepsInitials(t *testing.T) {
	got := Default.SplitSentencesPunct("Chairman: A. Rahman leads the board. Mr. Karim joined in 2020.")
	if len(got) != 2 {
		t.Fatalf("initials and honorifics must not end sentences: %v", got)
	}
	if got[0] != "Chairman: A. Rahman leads the board." {
		t.Fatalf("name split apart: %q", got[0])
	}
	if got[1] != "Mr. Karim joined in 2020." {
		t.Fatalf("honorific split apart: %q", got[1])
	}
}

func TestExtractBoardSentencesRunOnNames(t *testing.T) {
	context := "Chairman Mr. Rahim UddinMd. Karim is the vice chairman"
	got := ExtractBoardSentences(context, nil)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("run-on names must separate into lines: %q", got)
	}
	if lines[0] != "Chairman Mr. Rahim Uddin" {
		t.Fatalf("got %q", lines[0])
	}
	if lines[1] != "Md. Karim is the vice chairman" {
		t.Fatalf("got %q", lines[1])
	}
}
