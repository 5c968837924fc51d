package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/vending/pkg/domain"
)

// CommandKind identifies an operation requested by the user.
type CommandKind string

const (
	CommandInsert   CommandKind = "insert_coin"
	CommandDispense CommandKind = "dispense"
	CommandReset    CommandKind = "reset"
	CommandState    CommandKind = "state"
	CommandHelp     CommandKind = "help"
	CommandExit     CommandKind = "exit"
)

// Command is a parsed line of user input.
type Command struct {
	Kind CommandKind
	Coin domain.Coin
}

// ErrUnknownCommand is returned for input that names no command.
var ErrUnknownCommand = errors.New("unknown command")

// HelpText lists the commands understood by ParseCommand.
const HelpText = `Commands:
  <n> | coin <n>   insert a coin worth n cents (e.g. 5, 10, 25)
  dispense         deliver the product once the price is met
  reset            start over
  state            show the current run
  help             show this message
  exit             leave`

// ParseCommand interprets one line of text input.
// A bare number is shorthand for inserting that coin.
func ParseCommand(input string) (Command, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return Command{Kind: CommandState}, nil
	}

	switch fields[0] {
	case "coin", "insert", "insert_coin", "c":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%s needs a coin value", fields[0])
		}
		return parseCoin(fields[1])
	case "dispense", "d":
		return Command{Kind: CommandDispense}, nil
	case "reset", "r":
		return Command{Kind: CommandReset}, nil
	case "state", "s", "status":
		return Command{Kind: CommandState}, nil
	case "help", "h", "?":
		return Command{Kind: CommandHelp}, nil
	case "exit", "quit", "q":
		return Command{Kind: CommandExit}, nil
	}

	if len(fields) == 1 {
		if cmd, err := parseCoin(fields[0]); err == nil {
			return cmd, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, input)
}

func parseCoin(s string) (Command, error) {
	s = strings.TrimSuffix(s, "¢")
	n, err := strconv.Atoi(s)
	if err != nil {
		return Command{}, fmt.Errorf("invalid coin value %q", s)
	}
	return Command{Kind: CommandInsert, Coin: domain.Coin(n)}, nil
}
