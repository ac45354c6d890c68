/*
Package runner presents a hearing to a participant and relays their responses.

It acts as the bridge between a session (the turn reveal engine) and the outside
world. The runner turns snapshot changes into handler calls, reads the
participant's response whenever the session suspends on a human turn, and tears
the session down when the participant leaves.

# Key Components

  - Runner: The loop that watches a ports.Session until it settles.
  - IOHandler: Decouples how turns are shown and responses are read.
  - TextHandler: Interactive terminal usage, with optional markdown rendering.
  - JSONHandler: Newline-delimited JSON for scripted or headless hosts.
  - SanitizeInput: The shared input policy (size, UTF-8, control characters).

# Usage

	s, _ := mootcourt.New(script)
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithReport(report.Markdown()),
	)

	if err := r.Run(ctx, s); err != nil {
		log.Fatal(err)
	}
*/
package runner
