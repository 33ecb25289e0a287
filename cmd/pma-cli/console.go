package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"pma"
)

type Console struct {
	resolver *pma.Resolver
	queries  int
	quit     chan os.Signal
}

func (console *Console) Run() {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} ",
		Valid:   "{{ . | green }} ",
		Invalid: "{{ . | red }} ",
		Success: "{{ . }} ",
	}

	validate := func(input string) error {
		if _, err := parseAddress(input); err != nil {
			return &inputError{}
		}
		return nil
	}

	for {
		prompt := promptui.Prompt{
			Label:     console.label(),
			Templates: templates,
			Validate:  validate,
		}

		input, err := prompt.Run()
		if err != nil {
			console.checkError(err)
			break
		}

		addr, _ := parseAddress(input)
		displayLookup(console.resolver, addr)
		console.queries++
	}
	close(console.quit)
}

func (console *Console) label() string {
	label := colorLabel.Sprintf("<ADDRESS>")
	if console.queries == 0 {
		return fmt.Sprintf("%s [Enter a hex address, Ctrl-C to exit]", label)
	}
	return fmt.Sprintf("%s [#%d]", label, console.queries)
}

func (console *Console) checkError(err error) {
	if err != nil && err != promptui.ErrInterrupt && err != promptui.ErrEOF {
		color.Red("ERROR: %v", err)
		os.Exit(1)
	}
}

func runConsole(resolver *pma.Resolver) {
	console := &Console{
		resolver: resolver,
		quit:     make(chan os.Signal, 1),
	}

	signal.Notify(console.quit, os.Interrupt)
	go console.Run()
	<-console.quit
}

func parseAddress(s string) (uint64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if s == "" {
		return 0, fmt.Errorf("empty address")
	}
	return strconv.ParseUint(s, 16, 64)
}

type inputError struct{}

func (e *inputError) Error() string {
	return `invalid input. Address: hex, e.g. "0x80001000" or "80001000"`
}
