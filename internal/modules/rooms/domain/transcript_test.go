package domain

import "testing"

func strPtr(s string) *string { return &s }

func TestBuildTranscript_PendingAnswerRendersSingleBubble(t *testing.T) {
	questions := []Question{{ID: "q1", Content: "what is the answer?", Answer: nil}}

	entries := BuildTranscript(questions)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := len(entries[0].Bubbles); got != 1 {
		t.Fatalf("expected 1 bubble, got %d", got)
	}
	if entries[0].Bubbles[0].Side != BubbleRight {
		t.Fatalf("expected question bubble on the right, got %s", entries[0].Bubbles[0].Side)
	}
}

func TestBuildTranscript_AnswerAddsAIBubble(t *testing.T) {
	ts, err := ParseTimestamp("2024-05-01T10:20:30")
	if err != nil {
		t.Fatalf("parse timestamp: %v", err)
	}
	questions := []Question{{ID: "q1", Content: "meaning of life?", Answer: strPtr("42"), CreatedAt: ts}}

	bubbles := BuildTranscript(questions)[0].Bubbles
	if len(bubbles) != 2 {
		t.Fatalf("expected 2 bubbles, got %d", len(bubbles))
	}
	answer := bubbles[1]
	if !answer.FromAI || answer.Side != BubbleLeft {
		t.Fatalf("expected left AI bubble, got %+v", answer)
	}
	if answer.Text != "42" {
		t.Fatalf("expected answer text 42, got %q", answer.Text)
	}
	if answer.Caption != "AI • 2024-05-01 10:20:30" {
		t.Fatalf("unexpected caption %q", answer.Caption)
	}
}

func TestBuildTranscript_EmptyAnswerIsPending(t *testing.T) {
	bubbles := BuildTranscript([]Question{{ID: "q1", Content: "hi", Answer: strPtr("")}})[0].Bubbles
	if len(bubbles) != 1 {
		t.Fatalf("expected empty answer to render as pending, got %d bubbles", len(bubbles))
	}
}

func TestBuildTranscript_KeepsBackendOrder(t *testing.T) {
	questions := []Question{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	entries := BuildTranscript(questions)
	for i, want := range []string{"c", "a", "b"} {
		if entries[i].QuestionID != want {
			t.Fatalf("entry %d expected %s got %s", i, want, entries[i].QuestionID)
		}
	}
}
