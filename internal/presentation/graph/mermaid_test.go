package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/mootcourt/internal/presentation/graph"
	"github.com/aretw0/mootcourt/pkg/domain"
)

func script() domain.Script {
	return domain.Script{Turns: []domain.Turn{
		{ID: "1", Speaker: domain.SpeakerClerk, Content: "All rise."},
		{ID: "2", Speaker: domain.SpeakerJudge, Content: `Is "doubt" reasonable?`},
		{ID: "3", Speaker: domain.SpeakerHuman, Prompt: "Answer the bench"},
		{ID: "4", Speaker: domain.SpeakerClerk, Content: "The court will recess."},
		{ID: "a.b", Speaker: domain.SpeakerProsecution, Content: strings.Repeat("long ", 20)},
	}}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes",
			contains: []string{
				`t0_1(("Court Clerk: All rise."))`,
				`t2_3[/"Defense Counsel: Answer the bench"/]`,
				`t3_4(["Court Clerk: The court will recess."])`,
			},
		},
		{
			name: "Label Escaping",
			contains: []string{
				`t1_2["Judge 1: Is 'doubt' reasonable?"]`,
			},
		},
		{
			name: "Preview And ID Sanitization",
			contains: []string{
				`t4_a_b["Attorney General: long long long long long long long lo..."]`,
			},
		},
		{
			name: "Edges",
			contains: []string{
				"t0_1 -.-> t1_2",
				"t1_2 --> t2_3",
				"t2_3 --> t3_4",
				"t3_4 -.-> t4_a_b",
			},
		},
		{
			name:     "Overlay",
			overlay:  &graph.Overlay{Revealed: 2, Current: 2},
			contains: []string{"class t0_1 revealed;", "class t1_2 revealed;", "class t2_3 current;"},
			excludes: []string{"class t3_4"},
		},
		{
			name:     "No Overlay",
			excludes: []string{"classDef"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(script(), tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("expected output to not contain %q\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestOverlayFromSnapshot(t *testing.T) {
	awaiting := &domain.Snapshot{Cursor: 2, AwaitingHuman: true, Transcript: make([]domain.Turn, 2)}
	if o := graph.OverlayFromSnapshot(awaiting); o.Revealed != 2 || o.Current != 2 {
		t.Errorf("awaiting overlay = %+v", o)
	}

	finished := &domain.Snapshot{Cursor: 5, Finished: true, Transcript: make([]domain.Turn, 5)}
	if o := graph.OverlayFromSnapshot(finished); o.Current != -1 {
		t.Errorf("finished overlay should have no current turn, got %+v", o)
	}

	if graph.OverlayFromSnapshot(nil) != nil {
		t.Error("nil snapshot should give nil overlay")
	}
}
