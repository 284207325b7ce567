// Command jmpxgen synthesizes an FM composite (MPX) baseband signal
// carrying stereo program audio plus RDS/RDS2, either to a real-time
// audio device or to a PCM WAV file. See the teacher's cmd/direwolf
// for the CLI idiom this follows.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/kb1rd/jmpx/internal/jlog"
	"github.com/kb1rd/jmpx/internal/ptt"
	"github.com/kb1rd/jmpx/internal/rds"
	"github.com/kb1rd/jmpx/internal/station"
	"github.com/kb1rd/jmpx/internal/stream"
)

func main() {
	var profilePath = pflag.StringP("profile", "c", "", "Station profile YAML file (required).")
	var inputWav = pflag.StringP("input", "i", "", "WAV file of stereo program audio. If omitted, a synthesized test tone is used.")
	var outputFile = pflag.StringP("output", "o", "", "Write MPX to a timestamped WAV file in this directory instead of a live audio device.")
	var outputPattern = pflag.StringP("output-pattern", "O", "jmpx-%Y%m%d-%H%M%S.wav", "strftime pattern for --output's file name.")
	var gpioChip = pflag.StringP("ptt-chip", "g", "", "gpiochip device for PTT/exciter-enable (e.g. gpiochip0). Omit to leave PTT unmanaged.")
	var gpioLine = pflag.IntP("ptt-line", "L", 0, "GPIO line offset for PTT/exciter-enable.")
	var gpioInvert = pflag.BoolP("ptt-invert", "n", false, "PTT line is active-low.")
	var verbose = pflag.CountP("verbose", "v", "Increase log verbosity. Repeat for more (-vv).")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - FM composite (MPX) + RDS/RDS2 synthesizer.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: jmpxgen -c profile.yaml [options]\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	log := jlog.Default(*verbose)

	if *profilePath == "" {
		log.ConfigError(fmt.Errorf("jmpxgen: -c/--profile is required"))
		pflag.Usage()
		os.Exit(2)
	}

	profile, err := station.Load(*profilePath)
	if err != nil {
		log.ConfigError(err)
		os.Exit(2)
	}
	if err := profile.Validate(); err != nil {
		log.ConfigError(err)
		os.Exit(2)
	}

	src, err := openSource(*inputWav, profile.SampleRate)
	if err != nil {
		log.ConfigError(err)
		os.Exit(2)
	}

	sink, closeSink, err := openSink(*outputFile, *outputPattern, profile)
	if err != nil {
		log.ConfigError(err)
		os.Exit(2)
	}
	defer closeSink()

	pttCtl, err := openPTT(*gpioChip, *gpioLine, *gpioInvert)
	if err != nil {
		log.ConfigError(err)
		os.Exit(2)
	}
	defer func() { _ = pttCtl.Close() }()

	gen := rds.NewBitstreamGenerator(profile.Rds)
	driver := stream.New(profile, gen, src, sink, pttCtl, log)

	if err := driver.Run(); err != nil {
		log.Error("stream ended with error", "err", err)
		os.Exit(1)
	}
	log.Info("stream finished", "underruns", driver.Underruns())
}

func openSource(path string, fs float64) (stream.AudioSource, error) {
	if path == "" {
		return stream.DefaultToneSource(fs), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("jmpxgen: open input %s: %w", path, err)
	}
	wavSrc, err := stream.NewWavSource(f)
	if err != nil {
		return nil, fmt.Errorf("jmpxgen: decode input %s: %w", path, err)
	}
	if wavSrc.SampleRate() != fs {
		return nil, fmt.Errorf("jmpxgen: input %s is at %.0f Hz, profile wants %.0f Hz (resampling is not supported; pick matching rates)", path, wavSrc.SampleRate(), fs)
	}
	return wavSrc, nil
}

func openSink(dir, pattern string, profile *station.Profile) (stream.AudioSink, func(), error) {
	if dir == "" {
		if err := openPortAudio(); err != nil {
			return nil, nil, err
		}
		sink, err := stream.OpenPortAudioSink(profile.SampleRate, profile.BlockFrames)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() { _ = sink.Close(); closePortAudio() }, nil
	}
	sink, err := stream.OpenFileSink(dir, pattern, time.Now(), profile.SampleRate)
	if err != nil {
		return nil, nil, err
	}
	return sink, func() { _ = sink.Close() }, nil
}

func openPTT(chip string, line int, invert bool) (ptt.Controller, error) {
	if chip == "" {
		return ptt.Noop{}, nil
	}
	return ptt.Open(ptt.Config{Chip: chip, Offset: line, Invert: invert})
}
