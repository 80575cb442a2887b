package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neckminer/internal/neckerr"
)

const sampleProgram = `
start: main
participation:
  - f0
functions:
  main:
    entry: b0
    bbs:
      b0:
        inst: ["x = 1"]
        succ: ["b1"]
        chokep: true
      b1:
        inst: ["call f0"]
        succ: ["b2"]
      b2:
        inst: []
  f0:
    entry: c0
    bbs:
      c0:
        inst: []
scenario:
  main@b0:
    - summary: {}
`

func TestLoadProgramParsesFullDocument(t *testing.T) {
	loaded, err := LoadProgram("sample.yaml", []byte(sampleProgram))
	require.NoError(t, err)

	assert.Equal(t, "main", loaded.StartFunc)
	assert.True(t, loaded.Participation["f0"])
	assert.False(t, loaded.Participation["main"])

	fn, ok := loaded.Program.Function("main")
	require.True(t, ok)
	assert.Equal(t, "b0", fn.Entry)

	b0, ok := fn.Block("b0")
	require.True(t, ok)
	assert.True(t, b0.Chokep)
	assert.Equal(t, []string{"b1"}, b0.Succ)

	exps, ok := loaded.Scenario.Expectations["main@b0"]
	require.True(t, ok)
	require.Len(t, exps, 1)
}

func TestLoadProgramMissingStartFails(t *testing.T) {
	_, err := LoadProgram("sample.yaml", []byte(`
functions:
  main:
    entry: b0
    bbs:
      b0: {inst: []}
`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "start")
}

func TestLoadProgramInvalidStructureFails(t *testing.T) {
	_, err := LoadProgram("sample.yaml", []byte(`
start: main
functions:
  main:
    entry: ghost
    bbs:
      b0: {inst: []}
`))
	assert.Error(t, err, "an entry block that does not exist must fail validation")

	// LoadProgram must not re-wrap ir.Program.Validate's error: doing so
	// would hide the *neckerr.EngineError dynamic type from
	// cmd/neck-miner's coded-error reporter (which type-asserts on it).
	ee, ok := err.(*neckerr.EngineError)
	require.True(t, ok, "LoadProgram must surface Validate's *neckerr.EngineError unwrapped")
	assert.Equal(t, neckerr.ErrorMalformedProgram, ee.Code)
}

func TestLoadProgramMalformedYAMLFails(t *testing.T) {
	_, err := LoadProgram("sample.yaml", []byte("not: [valid: yaml"))
	assert.Error(t, err)
}

func TestLoadProgramFileMissingFails(t *testing.T) {
	_, err := LoadProgramFile("/nonexistent/path/to/program.yaml")
	assert.Error(t, err)
}
