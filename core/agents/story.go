package agents

import (
	"context"
	"errors"

	"github.com/koscakluka/memorylane/core/memories"
)

// GenerateStory asks the story agents to narrate the photo at photoURL.
func (c *Client) GenerateStory(ctx context.Context, photoURL string) (memories.Narration, error) {
	return c.GenerateStoryWithPath(ctx, photoURL, "")
}

// GenerateStoryWithPath is GenerateStory for a photo uploaded with
// UploadPhoto. photoPath is the server side file path and lets the backend
// read the image without fetching photoURL.
func (c *Client) GenerateStoryWithPath(ctx context.Context, photoURL, photoPath string) (memories.Narration, error) {
	if photoURL == "" {
		return memories.Narration{}, errors.New("photo url is required")
	}

	var response StoryResponse
	if err := c.postJSON(ctx, EndpointStoryGenerate, StoryRequest{PhotoURL: photoURL, PhotoPath: photoPath}, &response); err != nil {
		return memories.Narration{}, err
	}

	if response.Narration == nil {
		return memories.Narration{}, &BackendError{Endpoint: EndpointStoryGenerate, Message: "story generation returned no narration"}
	}
	return response.Narration.toNarration()
}
