package ai

import (
	"strings"
	"testing"
)

func TestSanitizeAIText_RemovesInlineParenthesizedDisclaimer(t *testing.T) {
	in := "Marrákesben tüntetések zajlanak\n(Note: This translation is a machine translation and may contain errors. Always double-check with a reliable source.) A rendőrség lezárta a főteret."
	out := SanitizeAIText(in)
	if out == "" {
		t.Fatalf("got empty output")
	}
	if strings.Contains(strings.ToLower(out), "note:") {
		t.Errorf("output still contains 'Note:' disclaimer: %q", out)
	}
	if !strings.Contains(out, "A rendőrség lezárta") {
		t.Errorf("expected content preserved after disclaimer removal, got: %q", out)
	}
}

func TestSanitizeAIText_RemovesFullLineNote(t *testing.T) {
	in := "Note: This translation is a machine translation and may contain errors.\nMarrákesben tüntetések zajlanak."
	out := SanitizeAIText(in)
	if strings.Contains(strings.ToLower(out), "note:") {
		t.Errorf("disclaimer line was not removed: %q", out)
	}
	if out != "Marrákesben tüntetések zajlanak." {
		t.Errorf("expected content line to remain: %q", out)
	}
}

func TestSanitizeAIText_RemovesBracketedDisclaimer(t *testing.T) {
	in := "[Note: Machine translation] Ez egy teszt sor."
	out := SanitizeAIText(in)
	if strings.Contains(strings.ToLower(out), "note") {
		t.Errorf("bracketed disclaimer was not removed: %q", out)
	}
	if out != "Ez egy teszt sor." {
		t.Errorf("expected text preserved, got %q", out)
	}
}

func TestSanitizeAIText_KeepsParagraphs(t *testing.T) {
	in := "\r\n  Első   bekezdés.\n\n\n\nMásodik bekezdés.  \n"
	out := SanitizeAIText(in)
	if out != "Első bekezdés.\n\nMásodik bekezdés." {
		t.Errorf("unexpected paragraph handling: %q", out)
	}
}
