package memories

// VoiceIntent is what the voice processing agent extracted from a query.
type VoiceIntent struct {
	Intent      string
	SearchQuery string
	Entities    []string
}
