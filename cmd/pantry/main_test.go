package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantry"
)

const testPantry = `items:
  - name: Flour
    quantity: 500
    unit: g
  - name: flour
    quantity: 1
    unit: kg
  - name: Milk
    quantity: 1
    unit: cup
    expiration: 2026-10-21
  - name: Eggs
    quantity: 12
    unit: pcs
    restock_trigger: custom
    custom_threshold: 12
  - name: Butter
    quantity: 1
    unit: stick
  - name: Rice
    quantity: 0
    unit: kg
  - name: Oil
    quantity: 2
    unit: l
    restock_threshold: 3
`

const testRecipe = `title: Pancakes
ingredients:
  - name: flour
    quantity: 1.4
    unit: kg
  - name: milk
    quantity: 500
    unit: ml
  - name: eggs
    quantity: 1
    unit: dozen
  - name: butter
    quantity: 50
    unit: g
  - name: sugar
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the CLI with an explicit config so no config file on the
// host leaks into the test.
func run(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfg := writeFile(t, dir, "pantry.yaml", config)

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"500", "g", "kg"}, "0.5 kg\n"},
		{[]string{"16", "oz", "lb"}, "1 lb\n"},
		{[]string{"3", "tsp", "tbsp"}, "1 tbsp\n"},
		{[]string{"2", "pcs", "kg"}, "2 kg\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, "", append([]string{"convert"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConvertStrict(t *testing.T) {
	_, err := run(t, "", "--strict", "convert", "2", "pcs", "kg")
	require.ErrorIs(t, err, pantry.ErrIncompatibleUnits)

	_, err = run(t, "policy: strict\n", "convert", "1", "l", "g")
	require.ErrorIs(t, err, pantry.ErrIncompatibleUnits)
}

func TestConvertBadInput(t *testing.T) {
	_, err := run(t, "", "convert", "lots", "g", "kg")
	assert.ErrorContains(t, err, `invalid quantity "lots"`)

	_, err = run(t, "", "convert", "1", "g")
	assert.Error(t, err)
}

func TestConfigErrors(t *testing.T) {
	_, err := run(t, "policy: fussy\n", "convert", "1", "g", "kg")
	assert.ErrorContains(t, err, "config policy")

	_, err = run(t, "units:\n  - name: pinch\n    category: spice\n    factor: 1\n", "convert", "1", "g", "kg")
	assert.ErrorContains(t, err, `unknown category "spice"`)

	_, err = run(t, "units:\n  - name: pinch\n    category: mass\n    factor: 0\n", "convert", "1", "g", "kg")
	assert.ErrorContains(t, err, "positive factor")
}

const dozenConfig = `units:
  - name: dozen
    category: count
    factor: 12
`

func TestConvertCustomUnit(t *testing.T) {
	out, err := run(t, dozenConfig, "convert", "2", "dozen", "pcs")
	require.NoError(t, err)
	assert.Equal(t, "24 pcs\n", out)
}

func TestUnits(t *testing.T) {
	out, err := run(t, dozenConfig, "units")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(pantry.Units())+1)
	assert.Regexp(t, `^kg\s+mass$`, lines[0])
	assert.Regexp(t, `^dozen\s+count$`, lines[len(lines)-1])
}

func TestMatch(t *testing.T) {
	dir := t.TempDir()
	pantryPath := writeFile(t, dir, "pantry-items.yaml", testPantry)
	recipePath := writeFile(t, dir, "pancakes.yaml", testRecipe)

	out, err := run(t, dozenConfig, "match", "--pantry", pantryPath, "--recipe", recipePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "Pancakes", lines[0])
	assert.Regexp(t, `^flour\s+sufficient\s+1\.5 kg / 1\.4 kg$`, lines[1])
	assert.Regexp(t, `^milk\s+insufficient\s+236\.5882365 ml / 500 ml$`, lines[2])
	assert.Regexp(t, `^eggs\s+sufficient\s+1 dozen / 1 dozen$`, lines[3])
	assert.Regexp(t, `^butter\s+insufficient\s+1 g / 50 g \(approximate\)$`, lines[4])
	assert.Regexp(t, `^sugar\s+missing\s+-$`, lines[5])
	assert.Equal(t, []string{
		"can make: no",
		"shopping list:",
		"  500 ml milk",
		"  50 g butter",
		"  sugar",
	}, lines[6:])
}

func TestMatchStrict(t *testing.T) {
	dir := t.TempDir()
	pantryPath := writeFile(t, dir, "pantry-items.yaml", testPantry)
	recipePath := writeFile(t, dir, "pancakes.yaml", testRecipe)

	out, err := run(t, dozenConfig+"policy: strict\n", "match", "--pantry", pantryPath, "--recipe", recipePath)
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^butter\s+unknown\s+cannot compare "stick" with "g"$`, out)
	assert.Contains(t, out, "can make: no")
}

func TestMatchNeedsRecipe(t *testing.T) {
	_, err := run(t, "", "match")
	assert.ErrorContains(t, err, `"recipe" not set`)
}

func TestRecommend(t *testing.T) {
	dir := t.TempDir()
	pantryPath := writeFile(t, dir, "pantry-items.yaml", testPantry)

	out, err := run(t, "", "recommend", "--pantry", pantryPath, "--now", "2026-10-19", "--listed", "Rice")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Regexp(t, `^flour\s+1 kg\s+-$`, lines[0])
	assert.Regexp(t, `^Milk\s+1 cup\s+2026-10-21$`, lines[1])
	assert.Regexp(t, `^Butter\s+1 stick\s+-$`, lines[2])
	assert.Regexp(t, `^Oil\s+2 l\s+-$`, lines[3])

	out, err = run(t, "low_stock: 0\n", "recommend", "--pantry", pantryPath, "--now", "2026-10-01")
	require.NoError(t, err)
	assert.Regexp(t, `^Rice\s+0 kg\s+-$`, strings.TrimSpace(out))

	_, err = run(t, "", "recommend", "--pantry", pantryPath, "--now", "tomorrow")
	assert.ErrorContains(t, err, "invalid --now")
}

func TestRestock(t *testing.T) {
	dir := t.TempDir()
	pantryPath := writeFile(t, dir, "pantry-items.yaml", testPantry)

	out, err := run(t, "", "restock", "--pantry", pantryPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^Eggs\s+12 pcs\s+-$`, lines[0])
	assert.Regexp(t, `^Rice\s+0 kg\s+-$`, lines[1])
	assert.Regexp(t, `^Oil\s+2 l\s+-$`, lines[2])

	out, err = run(t, "", "restock", "--pantry", pantryPath, "--auto", "--listed", "rice")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Regexp(t, `^Oil\s+3 l$`, lines[0])
}

func TestMissingPantryFile(t *testing.T) {
	_, err := run(t, "", "restock", "--pantry", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read ")
}
