/*
Package runner implements the interactive loop and I/O orchestration for a vending engine.

It acts as the bridge between the automaton (Engine) and the outside world: it reads
commands through a pluggable IOHandler, applies them, waits for the transition delay
to settle and presents the resulting run.

# Key Components

  - Runner: The loop that reads, parses and applies commands.
  - IOHandler: Decouples how commands arrive and how runs are shown.
  - TextHandler: Interactive terminal usage with a pluggable ContentRenderer.
  - JSONHandler: Newline-delimited JSON for scripts and other programs.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
