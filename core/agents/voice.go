package agents

import (
	"context"
	"strings"

	"github.com/koscakluka/memorylane/core/memories"
)

// ProcessVoice asks the voice agent to extract intent and a refined search
// query from text.
func (c *Client) ProcessVoice(ctx context.Context, text string) (memories.VoiceIntent, error) {
	if strings.TrimSpace(text) == "" {
		return memories.VoiceIntent{}, errEmptyText
	}

	var response VoiceProcessResponse
	if err := c.postJSON(ctx, EndpointVoiceProcess, VoiceProcessRequest{Text: text}, &response); err != nil {
		return memories.VoiceIntent{}, err
	}

	if response.Data == nil {
		return memories.VoiceIntent{}, nil
	}
	return response.Data.toIntent()
}
