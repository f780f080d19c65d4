package domain

// BubbleSide positions a transcript bubble.
type BubbleSide string

const (
	BubbleRight BubbleSide = "right"
	BubbleLeft  BubbleSide = "left"
)

// AILabel prefixes the caption of answer bubbles.
const AILabel = "AI"

// Bubble is one chat-style entry of a room transcript.
type Bubble struct {
	QuestionID string     `json:"questionId"`
	Side       BubbleSide `json:"side"`
	Text       string     `json:"text"`
	Caption    string     `json:"caption"`
	FromAI     bool       `json:"fromAI"`
}

// TranscriptEntry groups the question bubble with its optional answer bubble.
type TranscriptEntry struct {
	QuestionID string   `json:"questionId"`
	Bubbles    []Bubble `json:"bubbles"`
}

// BuildTranscript keeps the backend order: a right bubble per question, followed by a
// left bubble when an answer is present.
func BuildTranscript(questions []Question) []TranscriptEntry {
	entries := make([]TranscriptEntry, 0, len(questions))
	for _, q := range questions {
		stamp := q.CreatedAt.DateTimeLabel()
		bubbles := []Bubble{{
			QuestionID: q.ID,
			Side:       BubbleRight,
			Text:       q.Content,
			Caption:    stamp,
		}}
		if q.HasAnswer() {
			caption := AILabel
			if stamp != "" {
				caption += " • " + stamp
			}
			bubbles = append(bubbles, Bubble{
				QuestionID: q.ID,
				Side:       BubbleLeft,
				Text:       q.AnswerText(),
				Caption:    caption,
				FromAI:     true,
			})
		}
		entries = append(entries, TranscriptEntry{QuestionID: q.ID, Bubbles: bubbles})
	}
	return entries
}
