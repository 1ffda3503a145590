package msgcat

import (
	"os"
	"path/filepath"
	"testing"
)

type moveData struct {
	Input, From, To, GameID string
}

func TestLookupRendersTemplates(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	data := moveData{Input: "e9", From: "e2", To: "e5", GameID: "abc"}
	tests := []struct {
		code string
		want string
	}{
		{"self_check", "Moving from e2 to e5 would leave your king in check."},
		{"malformed_coordinate", "e9 is not a square. Use a file a-h and a rank 1-8, for example e2."},
		{"game_not_found", "Game abc does not exist."},
		{"game_exists", "Game abc already exists."},
		{"internal", "Something went wrong. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := c.Lookup(tt.code, data)
			if err != nil || got != tt.want {
				t.Errorf("Lookup = %q, %v; want %q", got, err, tt.want)
			}
		})
	}

	if _, err := c.Lookup("no_such_code", data); err == nil {
		t.Error("unknown code resolved")
	}
	if _, err := c.Render("move.self_check", struct{ From string }{"e2"}); err == nil {
		t.Error("missing template field rendered")
	}
}

func TestOverrides(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"10-moves.yaml": "move:\n  self_check: \"Nope: {{.From}}\"\n",
		"20-extra.yml":  "game:\n  game_full: \"Full.\"\n",
		"notes.txt":     "ignored",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := c.Render("move.self_check", moveData{From: "e2"}); got != "Nope: e2" {
		t.Errorf("override = %q", got)
	}
	if got, _ := c.Lookup("game_full", moveData{}); got != "Full." {
		t.Errorf("override = %q", got)
	}
	if got, _ := c.Lookup("not_your_turn", moveData{}); got != "It is not your turn." {
		t.Errorf("default kept = %q", got)
	}
}

func TestOverrideErrors(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing dir accepted")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("move:\n  - a\n  - b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir); err == nil {
		t.Error("list value accepted")
	}
}
