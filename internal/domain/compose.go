package domain

// ComposeResult is the terminal outcome of a compose call. Unlike background
// removal, compose returns its result in the submit response itself.
type ComposeResult struct {
	ResultFileURL string
	ResultFileID  int64
}
