package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/vending/internal/presentation/graph"
	"github.com/aretw0/vending/internal/presentation/tui"
	"github.com/aretw0/vending/pkg/automaton"
	"github.com/aretw0/vending/pkg/config"
	"golang.org/x/term"
)

func loadMachine(configPath string) (*automaton.Machine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return automaton.New(cfg)
}

// Graph writes the Mermaid diagram of the configured machine.
func Graph(configPath string, out io.Writer) error {
	m, err := loadMachine(configPath)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, graph.GenerateMermaid(m, nil))
	return err
}

// Describe writes the formal definition of the configured machine.
// On a terminal the markdown is rendered with the given glamour style.
func Describe(configPath, style string, out io.Writer) error {
	m, err := loadMachine(configPath)
	if err != nil {
		return err
	}

	doc := m.Definition()
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		render, err := tui.NewRenderer(style)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		rendered, err := render(doc)
		if err != nil {
			return fmt.Errorf("failed to render definition: %w", err)
		}
		doc = rendered
	}

	_, err = io.WriteString(out, doc)
	return err
}

// Validate loads the configuration and reports the resulting machine.
func Validate(configPath string, out io.Writer) error {
	m, err := loadMachine(configPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Machine is valid! %d states, coins %v, price %d¢\n", len(m.States()), m.Alphabet(), m.Price())
	return nil
}
