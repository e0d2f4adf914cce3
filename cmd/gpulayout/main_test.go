package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneYAML = `structs:
  - name: Light
    fields:
      - {name: position, type: vec3}
      - {name: intensity, type: float}
  - name: Scene
    fields:
      - {name: lights, type: "Light[4]"}
      - {name: view, type: "dynamic<mat4>"}
      - {name: count, type: uint}
`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sceneYAML), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out, io.Discard)
	return out.String(), err
}

// rows returns the whitespace-separated cells of every output line.
func rows(out string) [][]string {
	var r [][]string
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) > 0 {
			r = append(r, f)
		}
	}
	return r
}

func TestTable(t *testing.T) {
	out, err := runCLI(t, "-rules", "both", writeSchema(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Light (std140): size 16, align 16\n")
	assert.Contains(t, out, "Scene (std140): size 512, align 256\n")
	assert.Contains(t, out, "Scene (std430): size 324, align 256\n")

	r := rows(out)
	assert.Contains(t, r, []string{"view", "dynamic<mat4>", "256", "64", "256", "0"})
	assert.Contains(t, r, []string{"count", "uint", "320", "4", "4", "188"})
	assert.Contains(t, r, []string{"count", "uint", "320", "4", "4", "0"})
}

func TestWGSLSingleStruct(t *testing.T) {
	out, err := runCLI(t, "-rules", "std140", "-format", "wgsl", "-struct", "Light", writeSchema(t))
	require.NoError(t, err)

	want := "// Light std140\n" +
		"struct Light {\n" +
		"    position: vec3<f32>,\n" +
		"    intensity: f32,\n" +
		"}\n\n"
	assert.Equal(t, want, out)
}

func TestGLSLRootsOnly(t *testing.T) {
	out, err := runCLI(t, "-format", "glsl", writeSchema(t))
	require.NoError(t, err)

	assert.Contains(t, out, "// Scene std140\n")
	assert.Contains(t, out, "layout(std140) uniform Scene {\n")
	assert.Contains(t, out, "layout(std430) buffer Scene {\n")
	assert.Contains(t, out, "struct Light {\n")
	assert.NotContains(t, out, "// Light ")
}

func TestVerifyFlag(t *testing.T) {
	out, err := runCLI(t, "-verify", writeSchema(t))
	require.NoError(t, err)

	r := rows(out)
	for _, want := range [][]string{
		{"ok", "Light", "std140"},
		{"ok", "Light", "std430"},
		{"ok", "Scene", "std140"},
		{"ok", "Scene", "std430"},
	} {
		assert.Contains(t, r, want)
	}
}

func TestVerifySkipsInexpressible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "double.yaml")
	doc := "structs:\n  - name: D\n    fields: [{name: x, type: double}]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := runCLI(t, "-verify", "-rules", "std430", path)
	require.NoError(t, err)
	assert.Contains(t, out, "skip\tD\tstd430\t")

	_, err = runCLI(t, "-format", "wgsl", path)
	assert.Error(t, err)
}

func TestVerbose(t *testing.T) {
	var out, logs bytes.Buffer
	require.NoError(t, run([]string{"-v", "-rules", "std430", writeSchema(t)}, &out, &logs))
	assert.Contains(t, logs.String(), "schema: parsed")
}

func TestErrors(t *testing.T) {
	path := writeSchema(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no schema", nil},
		{"two schemas", []string{path, path}},
		{"bad rules", []string{"-rules", "std999", path}},
		{"bad format", []string{"-format", "hlsl", path}},
		{"unknown struct", []string{"-struct", "Missing", path}},
		{"missing file", []string{filepath.Join(t.TempDir(), "none.yaml")}},
		{"unknown flag", []string{"-nope", path}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestSpelling(t *testing.T) {
	out, err := runCLI(t, "-rules", "std430", "-struct", "Scene", writeSchema(t))
	require.NoError(t, err)
	assert.Contains(t, rows(out), []string{"lights", "Light[4]", "0", "64", "16", "192"})
}
