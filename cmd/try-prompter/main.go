package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/emiliopalmerini/orpheus/internal/adapters/audio"
	"github.com/emiliopalmerini/orpheus/internal/adapters/prompter"
	"github.com/emiliopalmerini/orpheus/internal/domain"
	"github.com/emiliopalmerini/orpheus/internal/playback"
	"github.com/emiliopalmerini/orpheus/internal/ports"
	"github.com/emiliopalmerini/orpheus/internal/util"
)

func main() {
	tui := flag.Bool("tui", false, "Use the bubbletea prompter")
	melody := flag.String("melody", "A-4 cont C#-4 E-4 rest E-4 C#-4 A-4", "Space-separated tokens to play")
	bpm := flag.Float64("bpm", 145, "Tempo")
	flag.Parse()

	logger := util.NewLogger("debug", false)

	tokens := strings.Fields(*melody)
	seq, err := domain.ParseSequence(tokens, *bpm, len(tokens))
	if err != nil {
		log.Fatal(err)
	}

	var p ports.Prompter
	if *tui {
		p = prompter.NewBubbleTeaPrompter(logger)
	} else {
		tty := prompter.NewTTYPrompter(logger)
		defer tty.Close()
		p = tty
	}

	fmt.Println()
	fmt.Println(strings.Repeat("─", 50))
	fmt.Println("  orpheus - Prompter Test")
	fmt.Println(strings.Repeat("─", 50))
	fmt.Println()
	fmt.Printf("  Melody: %s\n", *melody)
	fmt.Printf("  Slot:   %.0f ms\n", seq.SlotDurationMs())
	fmt.Println()
	if *tui {
		fmt.Println("  Controls:")
		fmt.Println("    h/l, Tab      Toggle yes/no")
		fmt.Println("    y / n         Answer directly")
		fmt.Println("    Enter         Confirm")
		fmt.Println("    q, Esc        Cancel")
		fmt.Println()
	}
	fmt.Println(strings.Repeat("─", 50))
	fmt.Println()

	if err := playback.Play(context.Background(), seq, audio.NewTerminalPlayer(os.Stdout)); err != nil {
		log.Fatal(err)
	}

	yes, err := p.AskYesNo("Did you like it?")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("  Answer: %s (label %s)\n", domain.LabelFromAnswer(yes), domain.LabelFromAnswer(yes).Field())
	fmt.Println(strings.Repeat("─", 50))
}
