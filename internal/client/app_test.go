package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-vault/internal/app"
	"github.com/MKhiriev/go-note-vault/internal/container"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/models"
)

// fakePrompter answers prompts from a fixed script and records them.
type fakePrompter struct {
	answers []string
	prompts []string
}

func (p *fakePrompter) ReadPassword(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.answers) == 0 {
		return "", errors.New("no more answers")
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

type runResult struct {
	out    string
	errOut string
	err    error
}

func runApp(t *testing.T, dir string, stdin string, prompter *fakePrompter, args ...string) runResult {
	t.Helper()
	return runAppWith(t, dir, stdin, []Option{WithPrompter(prompter)}, args...)
}

func runAppWith(t *testing.T, dir string, stdin string, opts []Option, args ...string) runResult {
	t.Helper()
	t.Setenv("STORAGE_DB_DSN", "")
	t.Setenv("CONFIG", "")

	var out, errOut bytes.Buffer
	opts = append(opts, WithIO(strings.NewReader(stdin), &out, &errOut))
	a := NewApp(models.NewAppBuildInfo("1.0.0", "2026-10-19", "abc123"), opts...)

	full := append([]string{"-f", dir, "--iterations", "1000", "--log-level", "error"}, args...)
	err := a.Run(context.Background(), full)
	return runResult{out: out.String(), errOut: errOut.String(), err: err}
}

func saveDoc(t *testing.T, dir, path, text, password string, extra ...string) {
	t.Helper()
	args := append([]string{"save", path}, extra...)
	res := runApp(t, dir, text, &fakePrompter{answers: []string{password, password}}, args...)
	require.NoError(t, res.err)
}

func TestApp_SaveThenOpen(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "hello", "pw", "--hint", "pet name")

	raw, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.True(t, container.IsContainer(string(raw)))
	assert.NotContains(t, string(raw), "hello")

	prompter := &fakePrompter{answers: []string{"pw"}}
	res := runApp(t, dir, "", prompter, "open", "a.txt")
	require.NoError(t, res.err)
	assert.Equal(t, "hello", res.out)
	require.Len(t, prompter.prompts, 1)
	assert.Contains(t, prompter.prompts[0], "pet name")
}

func TestApp_SaveFromFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(src, []byte("from file"), 0o600))

	saveDoc(t, dir, "a.txt", "", "pw", "--from", src)

	res := runApp(t, dir, "", &fakePrompter{answers: []string{"pw"}}, "open", "a.txt")
	require.NoError(t, res.err)
	assert.Equal(t, "from file", res.out)
}

func TestApp_SavePasswordMismatch(t *testing.T) {
	dir := t.TempDir()

	res := runApp(t, dir, "hello", &fakePrompter{answers: []string{"one", "two"}}, "save", "a.txt")
	require.Error(t, res.err)
	assert.Equal(t, app.MsgPasswordMismatch, res.err.Error())

	_, err := os.Stat(filepath.Join(dir, "a.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestApp_SaveExistingNeedsCurrentPassword(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "v1", "pw")

	prompter := &fakePrompter{answers: []string{"other", "pw"}}
	res := runApp(t, dir, "v2", prompter, "save", "a.txt")
	require.NoError(t, res.err)
	assert.Contains(t, res.errOut, app.MsgWrongPassword)

	res = runApp(t, dir, "", &fakePrompter{answers: []string{"pw"}}, "open", "a.txt")
	require.NoError(t, res.err)
	assert.Equal(t, "v2", res.out)
}

func TestApp_OpenRetriesWrongPassword(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "hello", "pw")

	res := runApp(t, dir, "", &fakePrompter{answers: []string{"bad", "pw"}}, "open", "a.txt")
	require.NoError(t, res.err)
	assert.Equal(t, "hello", res.out)
	assert.Contains(t, res.errOut, app.MsgWrongPassword)
}

func TestApp_OpenTooManyAttempts(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "hello", "pw")

	prompter := &fakePrompter{answers: []string{"x", "y", "z", "pw"}}
	res := runApp(t, dir, "", prompter, "open", "a.txt")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), app.MsgTooManyAttempts)
	assert.ErrorIs(t, res.err, container.ErrAuthFailed)
	assert.Len(t, prompter.prompts, maxPasswordAttempts)
	assert.Empty(t, res.out)
}

func TestApp_OpenSharesPasswordAcrossDocuments(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "first", "pw")
	saveDoc(t, dir, "b.txt", "second", "pw")

	prompter := &fakePrompter{answers: []string{"pw"}}
	res := runApp(t, dir, "", prompter, "open", "a.txt", "b.txt")
	require.NoError(t, res.err)
	assert.Len(t, prompter.prompts, 1)
	assert.Contains(t, res.out, "==> a.txt <==\nfirst")
	assert.Contains(t, res.out, "==> b.txt <==\nsecond")
}

func TestApp_OpenSharedPasswordMismatchPrompts(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "first", "pw")
	saveDoc(t, dir, "b.txt", "second", "other")

	prompter := &fakePrompter{answers: []string{"pw", "other"}}
	res := runApp(t, dir, "", prompter, "open", "a.txt", "b.txt")
	require.NoError(t, res.err)
	assert.Len(t, prompter.prompts, 2)
	assert.Contains(t, res.out, "second")
}

func TestApp_OpenNoStorageAlwaysPrompts(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "first", "pw")
	saveDoc(t, dir, "b.txt", "second", "pw")

	prompter := &fakePrompter{answers: []string{"pw", "pw"}}
	res := runApp(t, dir, "", prompter, "--session-mode", "no-storage", "open", "a.txt", "b.txt")
	require.NoError(t, res.err)
	assert.Len(t, prompter.prompts, 2)
}

func TestApp_NewAndOpenPending(t *testing.T) {
	dir := t.TempDir()

	res := runApp(t, dir, "", &fakePrompter{}, "new", "draft.txt")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "created draft.txt")

	res = runApp(t, dir, "", &fakePrompter{}, "open", "draft.txt")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), app.MsgPendingDocument)

	res = runApp(t, dir, "", &fakePrompter{}, "new", "draft.txt")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), app.MsgDocumentExists)

	// A placeholder takes its password on the first save.
	saveDoc(t, dir, "draft.txt", "now encrypted", "pw")
	res = runApp(t, dir, "", &fakePrompter{answers: []string{"pw"}}, "open", "draft.txt")
	require.NoError(t, res.err)
	assert.Equal(t, "now encrypted", res.out)
}

func TestApp_OpenMissingDocument(t *testing.T) {
	res := runApp(t, t.TempDir(), "", &fakePrompter{}, "open", "nope.txt")
	require.Error(t, res.err)
	assert.Equal(t, "nope.txt: "+app.MsgDocumentNotFound, res.err.Error())
}

func TestApp_OpenPlainTextFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.txt"), []byte("just text"), 0o600))

	res := runApp(t, dir, "", &fakePrompter{}, "open", "plain.txt")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), app.MsgNotAContainer)
}

func TestApp_Inspect(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "hello", "pw", "--hint", "h")

	res := runApp(t, dir, "", &fakePrompter{}, "inspect", "a.txt")
	require.NoError(t, res.err)

	var info models.DocumentInfo
	require.NoError(t, json.Unmarshal([]byte(res.out), &info))
	assert.Equal(t, models.FormatTag, info.Format)
	assert.Equal(t, models.CurrentVersion, info.Version)
	assert.Equal(t, "h", info.Hint)
	require.NotNil(t, info.Encryption)
	assert.Equal(t, 1000, info.Encryption.KeyDerivation.Iterations)
}

func TestApp_List(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "hello", "pw", "--hint", "h")
	require.NoError(t, runApp(t, dir, "", &fakePrompter{}, "new", "b.txt").err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.txt"), []byte("x"), 0o600))

	res := runApp(t, dir, "", &fakePrompter{}, "ls")
	require.NoError(t, res.err)
	assert.Equal(t, "a.txt\tv2\thint: h\nb.txt\tpending\n", res.out)
}

func TestApp_RenameAndRemove(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "hello", "pw")

	require.NoError(t, runApp(t, dir, "", &fakePrompter{}, "rename", "a.txt", "b.txt").err)

	res := runApp(t, dir, "", &fakePrompter{answers: []string{"pw"}}, "open", "b.txt")
	require.NoError(t, res.err)
	assert.Equal(t, "hello", res.out)

	require.NoError(t, runApp(t, dir, "", &fakePrompter{}, "rm", "b.txt").err)
	_, err := os.Stat(filepath.Join(dir, "b.txt"))
	assert.True(t, os.IsNotExist(err))

	res = runApp(t, dir, "", &fakePrompter{}, "rename", "b.txt", "b.txt")
	require.Error(t, res.err)
}

func TestApp_MigrateLegacy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt"), []byte(legacyContainer(t, "legacy text", "pw")), 0o600))

	prompter := &fakePrompter{answers: []string{"bad", "pw"}}
	res := runApp(t, dir, "", prompter, "migrate", "old.txt")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "migrated old.txt")

	raw, err := os.ReadFile(filepath.Join(dir, "old.txt"))
	require.NoError(t, err)
	c, err := container.Parse(string(raw))
	require.NoError(t, err)
	assert.Equal(t, models.FormatTag, c.Format)
	assert.False(t, container.NeedsMigration(c))

	res = runApp(t, dir, "", &fakePrompter{}, "migrate", "old.txt")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "old.txt is up to date")
}

func TestApp_OpenMigratesLegacy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt"), []byte(legacyContainer(t, "legacy text", "pw")), 0o600))

	res := runApp(t, dir, "", &fakePrompter{answers: []string{"pw"}}, "open", "old.txt")
	require.NoError(t, res.err)
	assert.Equal(t, "legacy text", res.out)
	assert.Contains(t, res.errOut, "upgraded")
}

func TestApp_Version(t *testing.T) {
	res := runApp(t, t.TempDir(), "", &fakePrompter{}, "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Build version: 1.0.0")
	assert.Contains(t, res.out, "Build commit: abc123")
}

func TestApp_InvalidConfig(t *testing.T) {
	res := runApp(t, t.TempDir(), "", &fakePrompter{}, "--session-mode", "forever", "ls")
	require.Error(t, res.err)
}

func TestApp_Shell(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "first", "pw")
	saveDoc(t, dir, "b.txt", "second", "pw")

	script := strings.Join([]string{
		"open a.txt",
		"open b.txt",
		"status",
		"lock-all",
		"status",
		"open a.txt",
		"mode keys-only",
		"mode",
		"bogus",
		"exit",
	}, "\n")

	prompter := &fakePrompter{answers: []string{"pw", "pw"}}
	res := runApp(t, dir, script, prompter, "shell")
	require.NoError(t, res.err)

	// One prompt before lock-all, one after.
	assert.Len(t, prompter.prompts, 2)
	assert.Contains(t, res.out, "first\n")
	assert.Contains(t, res.out, "second\n")
	assert.Contains(t, res.out, "mode: session-password\ncached: 2\n")
	assert.Contains(t, res.out, "mode: session-password\ncached: 0\n")
	assert.Contains(t, res.out, "keys-only\n")
	assert.Contains(t, res.errOut, `unknown command "bogus"`)
}

func TestApp_ShellSaveAndLock(t *testing.T) {
	dir := t.TempDir()

	script := strings.Join([]string{
		"save note.txt hello shell",
		"open note.txt",
		"lock note.txt",
		"open note.txt",
	}, "\n")

	prompter := &fakePrompter{answers: []string{"pw", "pw", "pw"}}
	res := runApp(t, dir, script, prompter, "shell")
	require.NoError(t, res.err)

	// New password twice, then one prompt after the lock.
	assert.Len(t, prompter.prompts, 3)
	assert.Equal(t, 2, strings.Count(res.out, "hello shell\n"))
}

func legacyContainer(t *testing.T, plaintext, password string) string {
	t.Helper()
	params := models.LegacyEncryptionParameters()
	params.KeyDerivation.Iterations = 500

	codec, err := container.NewCodec(logger.Nop(), container.WithDefaultParameters(params))
	require.NoError(t, err)

	raw, err := codec.Encode(plaintext, password, "")
	require.NoError(t, err)

	var c models.Container
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	c.Format = models.LegacyFormatTag
	c.Version = models.LegacyVersion
	c.KeyType = ""

	out, err := json.Marshal(c)
	require.NoError(t, err)
	return string(out)
}

// noTTY counts attempts to reach a terminal and never finds one.
type noTTY struct {
	opened int
}

func (n *noTTY) open() (*os.File, error) {
	n.opened++
	return nil, errors.New("no controlling terminal")
}

func TestApp_ShellReadsPasswordsFromPipedStdin(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "first", "pw")

	tty := &noTTY{}
	script := "open a.txt\npw\nstatus\nexit\n"
	res := runAppWith(t, dir, script, []Option{withTTY(tty.open)}, "shell")
	require.NoError(t, res.err)

	assert.Contains(t, res.out, "first\n")
	assert.Contains(t, res.out, "cached: 1\n")
	assert.Contains(t, res.errOut, "Password for a.txt")
	assert.NotContains(t, res.errOut, "unknown command")
	assert.NotContains(t, res.errOut, "EOF")
	assert.Equal(t, 1, tty.opened)
}

func TestApp_OpenReadsPasswordFromPipedStdin(t *testing.T) {
	dir := t.TempDir()
	saveDoc(t, dir, "a.txt", "first", "pw")

	res := runAppWith(t, dir, "bad\npw\n", []Option{withTTY((&noTTY{}).open)}, "open", "a.txt")
	require.NoError(t, res.err)
	assert.Equal(t, "first", res.out)
	assert.Contains(t, res.errOut, app.MsgWrongPassword)
}

func TestApp_TerminalOnlyOpenedWhenPrompting(t *testing.T) {
	tty := &noTTY{}
	res := runAppWith(t, t.TempDir(), "", []Option{withTTY(tty.open)}, "version")
	require.NoError(t, res.err)
	assert.Equal(t, 0, tty.opened)
}
