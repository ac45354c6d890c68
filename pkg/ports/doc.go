/*
Package ports defines the driven ports (interfaces) of the mootcourt engine.

These interfaces decouple the turn-taking core from the hosts that drive it,
so the same session can be played from a terminal, over HTTP or through MCP,
and tests can replace wall-clock time with a manual clock.

# Key Interfaces

  - Session: A live hearing as seen by a host (snapshot, submit, subscribe, close).
  - Clock: The source of time and cancellable delayed callbacks used for thinking delays.
*/
package ports
