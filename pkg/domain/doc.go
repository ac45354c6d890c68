/*
Package domain contains the core models of the courtroom dialogue engine.

It defines the scripted turns, the cast of speakers, the session snapshot and
the events a session emits. This package is kept pure and free of I/O so that
every adapter (terminal, HTTP, MCP) can share the same vocabulary.

# Key Entities

  - Turn: One scripted utterance, or an input slot for the human participant.
  - Script: The immutable ordered sequence of turns for one session.
  - RoleSet: The speakers of a script and how each one is treated.
  - Snapshot: A copy of a session's transcript, cursor and mode.
  - Event: An observable change (transcript update, thinking, awaiting input, finished).
*/
package domain
