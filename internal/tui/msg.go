package tui

// MsgStateChanged is sent when the data file changes on disk. The model
// reloads the tracker in response.
type MsgStateChanged struct {
	Removed bool
}
