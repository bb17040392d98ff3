package main

import (
	"context"
	"fmt"

	"code.bbsnetwork.io/lm/scenario"

	"github.com/jessevdk/go-flags"
)

type ExamplesCmd struct{}

var examplesCmd ExamplesCmd

func Examples(ctx context.Context, parser *flags.Parser) error {
	_, err := parser.AddCommand("examples", "List the bundled scenarios", "List the bundled scenarios with their description", &examplesCmd)
	return err
}

func (opts *ExamplesCmd) Execute(_ []string) error {
	all, err := scenario.Examples()
	if err != nil {
		return err
	}
	for _, name := range scenario.ExampleNames() {
		fmt.Printf("%s\t%s\n", bold(name), all[name].Description)
	}
	return nil
}
