package agent

import "adcraft/tools"

const (
	loopWindow    = 6
	loopThreshold = 3
)

// forcingMessage is injected once per run when the model keeps searching
// after the voice draft exists.
const forcingMessage = "Stop searching and stop reading the ad state. The voice draft already exists. " +
	"Call create_music_draft now, then create_sfx_draft."

// stalled reports whether search_voices or the state readers account for
// at least loopThreshold of the last loopWindow executed calls.
func stalled(executed []string) bool {
	if len(executed) > loopWindow {
		executed = executed[len(executed)-loopWindow:]
	}
	var searches, reads int
	for _, name := range executed {
		switch {
		case name == tools.SearchVoices:
			searches++
		case tools.IsStateRead(name):
			reads++
		}
	}
	return searches >= loopThreshold || reads >= loopThreshold
}
