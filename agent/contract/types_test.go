package contract

import "testing"

func TestTranscriptAnswerSkipsToolRequests(t *testing.T) {
	t.Parallel()

	tr := Transcript{
		SystemMessage("sys"),
		UserMessage("status of POL-1?"),
		AssistantMessage("", ToolCallRef{ID: "c1", Name: "get_policy"}),
		ToolMessage("get_policy", "c1", `{"found":false}`),
		AssistantMessage("  Policy POL-1 was not found.  "),
	}

	if got := tr.Answer(); got != "Policy POL-1 was not found." {
		t.Fatalf("Answer() = %q", got)
	}
	if got := len(tr.ToolEntries("get_policy")); got != 1 {
		t.Fatalf("ToolEntries(get_policy) = %d, want 1", got)
	}
	if got := len(tr.ToolEntries("get_claim")); got != 0 {
		t.Fatalf("ToolEntries(get_claim) = %d, want 0", got)
	}
}

func TestTranscriptAnswerEmpty(t *testing.T) {
	t.Parallel()

	tr := Transcript{SystemMessage("sys"), UserMessage("hi")}
	if got := tr.Answer(); got != "" {
		t.Fatalf("Answer() = %q, want empty", got)
	}
}
