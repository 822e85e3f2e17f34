// Command convogen generates a demo doctor-patient consultation recording.
// Each scripted line is synthesized with a distinct regional voice and the
// clips are concatenated into a single MP3, ready to upload to the
// processing API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"medical-conversation-processor/internal/service/tts"
	"medical-conversation-processor/internal/service/tts/gtranslate"
)

type turn struct {
	speaker string
	text    string
}

// script is the demo consultation. It matches the canned transcript of the
// mock STT adapter, so a generated recording round-trips through the
// pipeline into the same record.
var script = []turn{
	{"doctor", "Good morning. Please come in and have a seat."},
	{"patient", "Good morning, Doctor."},
	{"doctor", "Can I have your full name and age, please?"},
	{"patient", "Yes, I'm Rahul Mehta, 32 years old."},
	{"doctor", "What brings you in today?"},
	{"patient", "I've been having fever, sore throat, and fatigue for the last three days."},
	{"doctor", "Based on your symptoms, this looks like a mild viral fever with throat infection."},
	{"doctor", "I'm prescribing Paracetamol six hundred and fifty milligrams, one tablet every six hours after food."},
	{"doctor", "I'll note your diagnosis as Acute Viral Pharyngitis."},
	{"patient", "Thank you, Doctor."},
}

var voices = map[string]tts.VoiceProfile{
	"doctor":  {Language: "en", Accent: "co.uk"},
	"patient": {Language: "en", Accent: "com"},
}

func main() {
	out := flag.String("out", "consultation.mp3", "output MP3 path")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall synthesis timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	synth := gtranslate.New()

	var audio []byte
	for i, t := range script {
		clip, err := synth.Synthesize(ctx, t.text, voices[t.speaker])
		if err != nil {
			fmt.Fprintf(os.Stderr, "synthesize line %d (%s): %v\n", i+1, t.speaker, err)
			os.Exit(1)
		}
		audio = append(audio, clip...)
		fmt.Printf("line %2d %-7s %4d bytes  %q\n", i+1, t.speaker, len(clip), t.text)
	}

	if err := os.WriteFile(*out, audio, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d bytes, %d lines)\n", *out, len(audio), len(script))
}
