package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"code.bbsnetwork.io/lm/config"
	"code.bbsnetwork.io/lm/scenario"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	HomeFlag

	Force bool `short:"f" long:"force" description:"Erase the existing configuration"`
	Help  bool `short:"h" long:"help" description:"Show this help message"`
}

var initCmd InitCmd

func Init(ctx context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{
		HomeFlag: NewHomeFlag(),
	}

	_, err := parser.AddCommand("init", "Initialise an lm home", "Write the default configuration and the bundled scenarios to the home directory", &initCmd)
	return err
}

func (opts *InitCmd) Execute(_ []string) error {
	if opts.Help {
		return &flags.Error{
			Type:    flags.ErrHelp,
			Message: "lm init subcommand help",
		}
	}

	err := config.Write(opts.Home, config.NewDefaultConfig(), opts.Force)
	if errors.Is(err, config.ErrConfigExists) {
		return fmt.Errorf("%s already exists, use --force to overwrite it", config.Path(opts.Home))
	}
	if err != nil {
		return err
	}

	dir := filepath.Join(opts.Home, scenariosDir)
	if err := scenario.WriteExamples(dir); err != nil {
		return fmt.Errorf("could not write scenarios: %w", err)
	}

	fmt.Printf("configuration written to %s\n", config.Path(opts.Home))
	fmt.Printf("scenarios written to %s\n", dir)
	return nil
}
