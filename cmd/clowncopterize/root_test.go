package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chriso345/gore/assert"
	"github.com/chriso345/gore/vital"

	"github.com/chriso345/clowncopterize/internal/logger"
)

const markedSrc = "package cli\n\n" +
	"//clowncopterize:aggregate\n" +
	"type Cli struct {\n" +
	"\tName          *string\n" +
	"\tClowntownThis bool `arg:\"long\"`\n" +
	"\tClowntownThat bool `arg:\"long\"`\n" +
	"}\n"

const unmarkedSrc = "package cli\n\n" +
	"type Cli struct {\n" +
	"\tClowntownThis bool `arg:\"long\"`\n" +
	"}\n"

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	vital.Nil(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	vital.Nil(t, err)
	return string(b)
}

func execute(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { logger.SetLevel(logger.LevelWarning) })

	var out bytes.Buffer
	cmd := newRootCmd(&app{stdin: strings.NewReader(stdin), stdout: &out, configDir: dir})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_PrintsRewrittenSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cli.go", markedSrc)

	out, err := execute(t, dir, "", path)
	vital.Nil(t, err)

	assert.StringContains(t, out, `default_value_if=Clowncopterize:true:true`)
	assert.StringContains(t, out, `Clowncopterize bool`)
	assert.Equal(t, readFile(t, path), markedSrc)
}

func TestRoot_WriteThenList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cli.go", markedSrc)

	out, err := execute(t, dir, "", "-w", path)
	vital.Nil(t, err)
	assert.Equal(t, out, "")

	rewritten := readFile(t, path)
	assert.StringContains(t, rewritten, `Clowncopterize bool`)
	assert.StringContains(t, rewritten, "//clowncopterize:aggregate\ntype Cli struct")

	// a second run has nothing left to do
	out, err = execute(t, dir, "", "-l", path)
	vital.Nil(t, err)
	assert.Equal(t, out, "")
	assert.Equal(t, readFile(t, path), rewritten)
}

func TestRoot_RewriteAfterNewField(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cli.go", markedSrc)

	_, err := execute(t, dir, "", "-w", path)
	vital.Nil(t, err)

	edited := strings.Replace(readFile(t, path), "\tName ", "\tClowntownOther bool `arg:\"long\"`\n\tName ", 1)
	writeFile(t, dir, "cli.go", edited)

	out, err := execute(t, dir, "", "-l", "-w", path)
	vital.Nil(t, err)
	assert.Equal(t, out, path+"\n")

	rewritten := readFile(t, path)
	assert.StringContains(t, rewritten, "ClowntownOther bool `arg:\"long,default_value_if=Clowncopterize:true:true\"`")
	assert.Equal(t, strings.Count(rewritten, "Clowncopterize bool"), 1)
}

func TestRoot_ListChangedFiles(t *testing.T) {
	dir := t.TempDir()
	marked := writeFile(t, dir, "marked.go", markedSrc)
	plain := writeFile(t, dir, "plain.go", unmarkedSrc)

	out, err := execute(t, dir, "", "--list", marked, plain)
	vital.Nil(t, err)
	assert.Equal(t, out, marked+"\n")
}

func TestRoot_TypeFlag(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, unmarkedSrc, "-t", "Cli")
	vital.Nil(t, err)
	assert.StringContains(t, out, `Clowncopterize bool`)

	out, err = execute(t, dir, unmarkedSrc)
	vital.Nil(t, err)
	assert.Equal(t, out, unmarkedSrc)
}

func TestRoot_WriteRejectsStdin(t *testing.T) {
	_, err := execute(t, t.TempDir(), markedSrc, "-w")
	vital.NotNil(t, err)
	assert.StringContains(t, err.Error(), "standard input")
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".clowncopterize.yaml", "list: true\ntypes:\n  - Cli\n")
	path := writeFile(t, dir, "plain.go", unmarkedSrc)

	out, err := execute(t, dir, "", path)
	vital.Nil(t, err)
	assert.Equal(t, out, path+"\n")
}

func TestRoot_EnvOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".clowncopterize.yaml", "list: true\n")
	t.Setenv("CLOWNCOPTERIZE_LIST", "false")
	path := writeFile(t, dir, "cli.go", markedSrc)

	out, err := execute(t, dir, "", path)
	vital.Nil(t, err)
	assert.StringContains(t, out, "package cli")
}

func TestRoot_LogLevel(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cli.go", markedSrc)

	_, err := execute(t, dir, "", "--log-level", "debug", "-l", path)
	vital.Nil(t, err)

	_, err = execute(t, dir, "", "--log-level", "loud", path)
	vital.NotNil(t, err)
	assert.StringContains(t, err.Error(), "invalid log level")
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "--version")
	vital.Nil(t, err)
	assert.StringContains(t, out, "clowncopterize version ")
}

func TestBuildVersion_LinkTime(t *testing.T) {
	old := version
	defer func() { version = old }()

	version = "1.2.3"
	assert.Equal(t, buildVersion(), "1.2.3")

	version = ""
	assert.NotEqual(t, buildVersion(), "")
}

func TestRoot_ReportsEveryFailure(t *testing.T) {
	var logs bytes.Buffer
	logger.Setup(&logs)
	defer logger.Setup(os.Stderr)

	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.go", "package cli\n\ntype Cli struct {\n")
	good := writeFile(t, dir, "cli.go", markedSrc)
	missing := filepath.Join(dir, "missing.go")

	_, err := execute(t, dir, "", "-w", broken, good, missing)
	vital.NotNil(t, err)
	assert.StringContains(t, err.Error(), "broken.go")
	assert.StringContains(t, err.Error(), "missing.go")

	// the valid file is still rewritten
	assert.StringContains(t, readFile(t, good), `Clowncopterize bool`)
	assert.Equal(t, strings.Count(logs.String(), "skipping file"), 2)
}
