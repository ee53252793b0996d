package podcasttts

// ProgressKind classifies a ProgressEvent.
type ProgressKind int

const (
	// ProgressRoundStarted marks the start of a dialogue round.
	ProgressRoundStarted ProgressKind = iota + 1

	// ProgressAudio reports an audio chunk received for the current round.
	ProgressAudio

	// ProgressRoundFinished marks a round committed to the output.
	ProgressRoundFinished

	// ProgressRoundFailed marks a round the server reported as failed;
	// the run will resume from the last committed round.
	ProgressRoundFailed

	// ProgressResuming marks the start of a resumed attempt.
	ProgressResuming

	// ProgressUsage reports token usage from the server.
	ProgressUsage

	// ProgressFinished marks the end of the stream.
	ProgressFinished
)

// ProgressEvent reports synthesis progress to the callback installed with
// WithProgress. The callback runs on the session goroutine; it must not
// block.
type ProgressEvent struct {
	Kind ProgressKind

	// RoundID of the round this event concerns. Lead-in music plays as
	// round -1 and lead-out music as round 9999.
	RoundID int

	// Speaker voice and text of the round (ProgressRoundStarted only).
	Speaker string
	Text    string

	// ChunkBytes is the size of the audio chunk (ProgressAudio only).
	ChunkBytes int

	// TotalBytes is the audio received so far, including the
	// not-yet-committed current round.
	TotalBytes int

	// Attempt is the connection attempt number, starting at 1.
	Attempt int

	// Message carries detail for ProgressRoundFailed and ProgressResuming.
	Message string

	// Usage is set for ProgressUsage events.
	Usage *Usage
}

// ProgressFunc receives ProgressEvents during Generate.
type ProgressFunc func(ProgressEvent)

// Music round ids used by the service for lead-in and lead-out music.
const (
	MusicRoundHead = -1
	MusicRoundTail = 9999
)
