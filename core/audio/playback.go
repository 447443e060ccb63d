package audio

// Playback is a clip that is being played on an output device.
type Playback interface {
	Pause() error
	Resume() error
	// Stop ends playback early. Done is closed afterwards.
	Stop() error
	// Done is closed once playback has finished for any reason.
	Done() <-chan struct{}
	// Err reports why playback failed. It is nil while playing, after a clip
	// played to the end and after Stop.
	Err() error
}
