package game

import (
	"os"
	"path/filepath"
	"testing"
)

const ringScript = `
function cellValue(x, y)
  if x * x + y * y == 4 then
    return 2
  end
  return 0
end
`

func TestScriptGeneratorPlacesTokens(t *testing.T) {
	g, err := NewScriptGenerator(ringScript, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	if g.Generate(Coord{X: 2, Y: 0}) != 2 || g.Generate(Coord{X: 0, Y: -2}) != 2 {
		t.Fatal("expected tokens on the ring")
	}
	if g.Generate(Coord{X: 1, Y: 1}) != 0 {
		t.Fatal("expected no token off the ring")
	}
}

func TestScriptGeneratorMemoizes(t *testing.T) {
	script := `
calls = 0
function cellValue(x, y)
  calls = calls + 1
  return calls
end
`
	g, err := NewScriptGenerator(script, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	first := g.Generate(Coord{X: 5, Y: 5})
	if again := g.Generate(Coord{X: 5, Y: 5}); again != first {
		t.Fatalf("revisited cell changed from %d to %d", first, again)
	}
	if other := g.Generate(Coord{X: 6, Y: 5}); other == first {
		t.Fatal("expected the script to run for a new cell")
	}
}

func TestScriptGeneratorLuckMatchesGo(t *testing.T) {
	script := `
function cellValue(x, y)
  if luck(x .. "," .. y) < 0.3 then
    return 1
  end
  return 0
end
`
	g, err := NewScriptGenerator(script, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	reference := LuckGenerator{Chance: 0.3}
	for x := -5; x <= 5; x++ {
		c := Coord{X: x, Y: 3}
		if g.Generate(c) != reference.Generate(c) {
			t.Fatalf("script and Go disagree at %s", c.Key())
		}
	}
}

func TestScriptGeneratorFallsBack(t *testing.T) {
	script := `
function cellValue(x, y)
  if x == 0 then error("boom") end
  if x == 1 then return "three" end
  if x == 2 then return -1 end
  if x == 3 then return 0/0 end
  if x == 4 then return 1/0 end
  if x == 5 then return -1/0 end
  if x == 6 then return 2.7 end
  return 4
end
`
	fallback := fixedGenerator{}
	for x := 0; x <= 6; x++ {
		fallback[Coord{X: x}] = 7
	}
	g, err := NewScriptGenerator(script, fallback)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	for x := 0; x <= 6; x++ {
		if got := g.Generate(Coord{X: x}); got != 7 {
			t.Errorf("x=%d: expected fallback value 7, got %d", x, got)
		}
	}
	if g.Generate(Coord{X: 7}) != 4 {
		t.Fatal("script should keep working after a failure")
	}

	noFallback, err := NewScriptGenerator(script, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer noFallback.Close()
	if noFallback.Generate(Coord{}) != 0 {
		t.Fatal("without a fallback a failing cell is empty")
	}
}

func TestScriptGeneratorRejectsBadScripts(t *testing.T) {
	if _, err := NewScriptGenerator("function cellValue(x, y", nil); err == nil {
		t.Fatal("expected a syntax error")
	}
	if _, err := NewScriptGenerator("cellValue = 3", nil); err == nil {
		t.Fatal("expected an error when cellValue is not a function")
	}
	if _, err := LoadScriptGenerator(filepath.Join(t.TempDir(), "missing.lua"), nil); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadScriptGenerator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring.lua")
	if err := os.WriteFile(path, []byte(ringScript), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadScriptGenerator(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	if g.Generate(Coord{X: -2}) != 2 {
		t.Fatal("loaded script did not run")
	}
}
