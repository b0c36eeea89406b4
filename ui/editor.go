package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// fallbackEditor is used when neither $VISUAL nor $EDITOR is set.
const fallbackEditor = "vi"

// EnvEditor opens the user's editor on a temp file to revise text. It
// implements workflow.Editor.
type EnvEditor struct {
	// Stdin/Stdout/Stderr are attached to the editor process. Nil
	// fields default to the os streams.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Edit writes initial to a temp file, opens the editor on it, and
// returns the file's content once the editor exits. Quitting without
// saving returns the initial text unchanged.
func (e *EnvEditor) Edit(initial string) (string, error) {
	f, err := os.CreateTemp("", "commitflow-*.txt")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	name, args := editorCommand()
	cmd := exec.Command(name, append(args, path)...)
	cmd.Stdin = e.orDefault(e.Stdin, os.Stdin)
	cmd.Stdout = e.orDefault(e.Stdout, os.Stdout)
	cmd.Stderr = e.orDefault(e.Stderr, os.Stderr)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running editor %s: %w", name, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading edited file: %w", err)
	}
	return string(edited), nil
}

func (e *EnvEditor) orDefault(f, def *os.File) *os.File {
	if f != nil {
		return f
	}
	return def
}

// editorCommand resolves the editor from $VISUAL, then $EDITOR, then
// the fallback. The value may carry arguments ("code --wait").
func editorCommand() (string, []string) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			parts := strings.Fields(v)
			return parts[0], parts[1:]
		}
	}
	return fallbackEditor, nil
}
