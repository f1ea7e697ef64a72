package commands

import (
	"context"

	"github.com/fangbw17/sidebar/internal/app"
	"github.com/fangbw17/sidebar/internal/config"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct{}

func (s *ServeCmd) Run(_ *CLI) error {
	a, err := app.New(context.Background(), config.Load())
	if err != nil {
		return err
	}
	return a.Run()
}
