package agents

import (
	"github.com/invopop/jsonschema"
)

// Contract pairs an endpoint with the JSON Schemas of its request and success
// response bodies.
type Contract struct {
	Endpoint string             `json:"endpoint"`
	Request  *jsonschema.Schema `json:"request,omitempty"`
	Response *jsonschema.Schema `json:"response"`
}

// Contracts describes every JSON endpoint the client talks to. The upload
// endpoint takes a multipart body, so it only has a response schema.
func Contracts() []Contract {
	reflector := &jsonschema.Reflector{DoNotReference: true, AllowAdditionalProperties: true}

	return []Contract{
		{Endpoint: EndpointVoiceProcess, Request: reflector.Reflect(&VoiceProcessRequest{}), Response: reflector.Reflect(&VoiceProcessResponse{})},
		{Endpoint: EndpointSearch, Request: reflector.Reflect(&SearchRequest{}), Response: reflector.Reflect(&SearchResponse{})},
		{Endpoint: EndpointStoryGenerate, Request: reflector.Reflect(&StoryRequest{}), Response: reflector.Reflect(&StoryResponse{})},
		{Endpoint: EndpointTTS, Request: reflector.Reflect(&TTSRequest{}), Response: reflector.Reflect(&TTSResponse{})},
		{Endpoint: EndpointPhotoUpload, Response: reflector.Reflect(&UploadResponse{})},
	}
}
