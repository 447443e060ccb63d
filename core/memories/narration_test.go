package memories

import "testing"

func TestSegmentsPutsDialoguesBeforeNarration(t *testing.T) {
	narration := Narration{
		MainNarration: "It was a sunny afternoon.",
		AudioURL:      "/api/audio/main.mp3",
		PersonDialogues: []PersonDialogue{
			{DialogueText: "Look at him go!", AudioURL: "/api/audio/d1.mp3"},
			{DialogueText: "No audio for me"},
			{DialogueText: "Good boy!", Emotion: "joy", AudioURL: "/api/audio/d2.mp3"},
		},
	}

	segments := narration.Segments()

	expected := []AudioSegment{
		{Kind: SegmentDialogue, URL: "/api/audio/d1.mp3", Text: "Look at him go!"},
		{Kind: SegmentDialogue, URL: "/api/audio/d2.mp3", Text: "Good boy!"},
		{Kind: SegmentNarration, URL: "/api/audio/main.mp3", Text: "It was a sunny afternoon."},
	}
	if len(segments) != len(expected) {
		t.Fatalf("expected %d segments, got %d: %+v", len(expected), len(segments), segments)
	}
	for i := range expected {
		if segments[i] != expected[i] {
			t.Fatalf("expected segment %d to be %+v, got %+v", i, expected[i], segments[i])
		}
	}
}

func TestSegmentsWithoutAudioIsEmpty(t *testing.T) {
	narration := Narration{
		MainNarration:   "Quiet.",
		PersonDialogues: []PersonDialogue{{DialogueText: "hi"}},
	}

	if segments := narration.Segments(); len(segments) != 0 {
		t.Fatalf("expected no segments, got %+v", segments)
	}
	if narration.HasDialogueAudio() {
		t.Fatalf("expected no dialogue audio")
	}
}

func TestHasDialogueAudio(t *testing.T) {
	narration := Narration{PersonDialogues: []PersonDialogue{{DialogueText: "a"}, {DialogueText: "b", AudioURL: "b.mp3"}}}
	if !narration.HasDialogueAudio() {
		t.Fatalf("expected dialogue audio to be detected")
	}
}
