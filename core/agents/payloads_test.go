package agents

import (
	"errors"
	"strings"
	"testing"

	"github.com/jinzhu/copier"

	"github.com/koscakluka/memorylane/core/memories"
)

func TestCopyPayloadReportsDecodeFailure(t *testing.T) {
	err := copyPayload(memories.Photo{}, &photoPayload{ID: "1"}, copier.Option{})
	if !errors.Is(err, copier.ErrInvalidCopyDestination) {
		t.Fatalf("expected invalid destination error, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to decode") {
		t.Fatalf("expected decode context in error, got %q", err.Error())
	}

	var from *narrationPayload
	narration := memories.Narration{}
	if err := copyPayload(&narration, from, copier.Option{}); !errors.Is(err, copier.ErrInvalidCopyFrom) {
		t.Fatalf("expected invalid source error, got %v", err)
	}
}

func TestToPhotosKeepsBackendOrder(t *testing.T) {
	photos, err := toPhotos([]photoPayload{{ID: "2"}, {ID: "1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(photos) != 2 || photos[0].ID != "2" || photos[1].ID != "1" {
		t.Fatalf("expected photos 2 then 1, got %+v", photos)
	}
}
