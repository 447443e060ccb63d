package memories

type PersonDialogue struct {
	DialogueText string
	Emotion      string
	// AudioURL points at a pre-rendered clip of this line, if the backend
	// produced one.
	AudioURL string
}

// Narration is the story generated for one photo. It is replaced wholesale on
// every narration run and never merged with a previous one.
type Narration struct {
	MainNarration       string
	PersonDialogues     []PersonDialogue
	AmbientDescriptions []string
	AudioURL            string
}

type SegmentKind string

const (
	SegmentDialogue  SegmentKind = "dialogue"
	SegmentNarration SegmentKind = "narration"
)

type AudioSegment struct {
	Kind SegmentKind
	URL  string
	Text string
}

// Segments builds the ordered playback queue for n: every dialogue line that
// has audio in source order, followed by the main narration when it has audio.
//
// The returned order is final; playback never reorders it.
func (n Narration) Segments() []AudioSegment {
	segments := []AudioSegment{}
	for _, dialogue := range n.PersonDialogues {
		if dialogue.AudioURL == "" {
			continue
		}
		segments = append(segments, AudioSegment{
			Kind: SegmentDialogue,
			URL:  dialogue.AudioURL,
			Text: dialogue.DialogueText,
		})
	}

	if n.AudioURL != "" {
		segments = append(segments, AudioSegment{
			Kind: SegmentNarration,
			URL:  n.AudioURL,
			Text: n.MainNarration,
		})
	}

	return segments
}

// HasDialogueAudio reports whether any dialogue line carries its own clip,
// which is what selects queued playback over the single replayable player.
func (n Narration) HasDialogueAudio() bool {
	for _, dialogue := range n.PersonDialogues {
		if dialogue.AudioURL != "" {
			return true
		}
	}
	return false
}
