/*
Package mootcourt is a scripted, turn-based courtroom hearing engine for moot court practice.

It plays back a pre-authored sequence of courtroom utterances (the bench, the
prosecution, the appellant, the court clerk) and pauses at designated points to
collect free-text submissions from a single participant acting as Defense
Counsel, then resumes playback until the script is exhausted.

# Concept

A Session owns one Script. The engine reveals the first turn as soon as the
session starts, simulates deliberation with a thinking delay before every other
automated turn, and suspends whenever the next turn belongs to the participant.
Hosts (a terminal, an HTTP server, an MCP client) observe the transcript through
snapshots or a stream of events and forward the participant's submissions.

# Key Features

  - Deterministic Playback: The transcript is always the revealed prefix of the script, with human turns filled in.
  - Single Pending Reveal: At most one thinking timer exists per session, and teardown cancels it.
  - Exactly-once Completion: Done is closed and the finished hook fires the first time the script is exhausted.
  - Pluggable Time: Thinking policies and the clock are injectable, so tests never sleep.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/mootcourt"
		"github.com/aretw0/mootcourt/pkg/domain"
	)

	func main() {
		script := domain.Script{ID: "demo", Turns: []domain.Turn{
			{ID: "1", Speaker: domain.SpeakerJudge, Content: "Court is now in session."},
			{ID: "2", Speaker: domain.SpeakerHuman, Prompt: "Enter your opening argument."},
			{ID: "3", Speaker: domain.SpeakerProsecution, Content: "My Lords, the evidence is clear."},
		}}

		session, err := mootcourt.New(script)
		if err != nil {
			log.Fatal(err)
		}
		defer session.Close()

		session.Submit("The act was not premeditated.")
		<-session.Done()

		for _, turn := range session.Snapshot().Transcript {
			fmt.Println(turn.Speaker, turn.Content)
		}
	}
*/
package mootcourt
