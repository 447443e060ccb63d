package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/koscakluka/memorylane/core/memories"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// photoID accepts both numeric and string identifiers.
type photoID string

func (id *photoID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = photoID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = photoID(n.String())
	return nil
}

func (id photoID) JSONSchemaAlias() any { return "" }

type VoiceProcessRequest struct {
	Text string `json:"text" jsonschema:"required,minLength=1"`
}

type VoiceProcessResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Data    *voiceIntentData `json:"data,omitempty"`
}

type voiceIntentData struct {
	Intent      string   `json:"intent"`
	SearchQuery string   `json:"search_query"`
	Entities    []string `json:"entities"`
}

type SearchRequest struct {
	Query              string `json:"query" jsonschema:"required,minLength=1"`
	UseVoiceProcessing bool   `json:"use_voice_processing"`
}

type SearchResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Photos  []photoPayload `json:"photos"`
}

type photoPayload struct {
	ID              photoID  `json:"id"`
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	SimilarityScore *float64 `json:"similarity_score,omitempty" jsonschema:"minimum=0,maximum=1"`
	RelevanceScore  *float64 `json:"relevance_score,omitempty"`
}

type StoryRequest struct {
	PhotoURL  string `json:"photo_url" jsonschema:"required"`
	PhotoPath string `json:"photo_path,omitempty"`
}

type StoryResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Narration *narrationPayload `json:"narration,omitempty"`
}

type narrationPayload struct {
	MainNarration       string            `json:"main_narration"`
	PersonDialogues     []dialoguePayload `json:"person_dialogues"`
	AmbientDescriptions []string          `json:"ambient_descriptions"`
	AudioURL            string            `json:"audio_url,omitempty"`
}

type dialoguePayload struct {
	Dialogue     string `json:"dialogue,omitempty"`
	DialogueText string `json:"dialogue_text,omitempty"`
	Emotion      string `json:"emotion,omitempty"`
	AudioURL     string `json:"audio_url,omitempty"`
}

type TTSRequest struct {
	Text string `json:"text" jsonschema:"required,minLength=1"`
}

type TTSResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`
}

type UploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
	Filepath string `json:"filepath,omitempty"`
}

// copyPayload copies a wire payload into its domain type.
func copyPayload(to, from any, option copier.Option) error {
	if err := copier.CopyWithOption(to, from, option); err != nil {
		return fmt.Errorf("failed to decode %T: %w", from, err)
	}
	return nil
}

func (d voiceIntentData) toIntent() (memories.VoiceIntent, error) {
	intent := memories.VoiceIntent{}
	if err := copyPayload(&intent, &d, copier.Option{}); err != nil {
		return memories.VoiceIntent{}, err
	}
	return intent, nil
}

func toPhotos(payloads []photoPayload) ([]memories.Photo, error) {
	photos := make([]memories.Photo, 0, len(payloads))
	for _, payload := range payloads {
		photo := memories.Photo{}
		if err := copyPayload(&photo, &payload, copier.Option{DeepCopy: true}); err != nil {
			return nil, err
		}
		photo.ID = string(payload.ID)
		photos = append(photos, photo)
	}
	return photos, nil
}

func (n narrationPayload) toNarration() (memories.Narration, error) {
	narration := memories.Narration{}
	if err := copyPayload(&narration, &n, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
		return memories.Narration{}, err
	}

	narration.PersonDialogues = make([]memories.PersonDialogue, 0, len(n.PersonDialogues))
	for _, dialogue := range n.PersonDialogues {
		text := dialogue.DialogueText
		if strings.TrimSpace(text) == "" {
			text = dialogue.Dialogue
		}
		narration.PersonDialogues = append(narration.PersonDialogues, memories.PersonDialogue{
			DialogueText: text,
			Emotion:      dialogue.Emotion,
			AudioURL:     dialogue.AudioURL,
		})
	}
	return narration, nil
}
