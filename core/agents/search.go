package agents

import (
	"context"
	"strings"

	"github.com/koscakluka/memorylane/core/memories"
)

// Search runs the embedding search. Photos are returned in backend order.
func (c *Client) Search(ctx context.Context, query string, useVoiceProcessing bool) ([]memories.Photo, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errEmptyText
	}

	var response SearchResponse
	if err := c.postJSON(ctx, EndpointSearch, SearchRequest{Query: query, UseVoiceProcessing: useVoiceProcessing}, &response); err != nil {
		return nil, err
	}

	return toPhotos(response.Photos)
}
