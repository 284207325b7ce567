package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// openPortAudio and closePortAudio bracket the one process-wide
// portaudio.Initialize/Terminate pair; stream.PortAudioSink itself
// only owns its one stream, not the library's global state.
func openPortAudio() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("jmpxgen: initialize portaudio: %w", err)
	}
	return nil
}

func closePortAudio() {
	_ = portaudio.Terminate()
}
