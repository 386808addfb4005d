package main

import (
	"errors"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/areeb-coder/whatsapp-summarizer/internal/config"
	"github.com/areeb-coder/whatsapp-summarizer/internal/game"
	"github.com/areeb-coder/whatsapp-summarizer/internal/summarize"
)

func main() {
	baseURL := os.Getenv("SUMMARIZER_URL")
	if baseURL == "" {
		baseURL = config.DefaultServerURL
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("WhatsApp Chat Summarizer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := game.New(summarize.NewClient(baseURL))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
