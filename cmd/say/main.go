// Command say speaks text through the configured speech model and the
// default PulseAudio sink. The text comes from -text or, when absent, from
// stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/shadowinterview/internal/audio"
	"github.com/dmitrijs2005/shadowinterview/internal/flagx"
	"github.com/dmitrijs2005/shadowinterview/internal/prompt"
	"github.com/dmitrijs2005/shadowinterview/internal/server/config"
	"github.com/dmitrijs2005/shadowinterview/internal/speech"
)

func main() {

	fs := flag.NewFlagSet("say", flag.ContinueOnError)
	text := fs.String("text", "", "text to speak")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-text"}))

	cfg := config.LoadConfig()

	if *text == "" {
		var err error
		*text, err = prompt.GetMultiline(bufio.NewReader(os.Stdin), "Text to speak", os.Stderr)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := speech.NewSynthesizer(speech.Config{
		Endpoint: cfg.SpeechEndpoint,
		APIKey:   cfg.SpeechAPIKey,
		Model:    cfg.SpeechModel,
		Voice:    cfg.SpeechVoice,
		Timeout:  time.Minute,
	}, audio.PulsePlayer{})

	if err := s.Speak(ctx, *text); err != nil {
		log.Fatalf("%v", err)
	}

}
