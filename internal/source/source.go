package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/brn.go/internal/fs"
	"github.com/sokinpui/brn.go/internal/ui"
)

// SourceProvider supplies a file list from outside the filesystem scan.
type SourceProvider struct {
	stdin     io.Reader
	isPiped   func() bool
	readClip  func() (string, error)
	writeClip func(string) error
}

// New creates a SourceProvider reading os.Stdin and the system clipboard.
func New() *SourceProvider {
	return &SourceProvider{
		stdin:     os.Stdin,
		isPiped:   stdinIsPiped,
		readClip:  clipboard.ReadAll,
		writeClip: clipboard.WriteAll,
	}
}

func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// GetPaths reads one path per line from stdin (if piped) or the clipboard.
// Blank lines are ignored; entries that are not regular files are skipped with
// a warning. Relative paths are resolved against the working directory.
func (sp *SourceProvider) GetPaths() ([]string, error) {
	content, err := sp.getContent()
	if err != nil {
		return nil, err
	}

	var paths []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		abs, err := filepath.Abs(line)
		if err != nil {
			ui.Warning("Invalid path '%s', ignoring: %v", line, err)
			continue
		}
		if !fs.IsRegularFile(abs) {
			ui.Warning("Not a regular file, ignoring: %s", line)
			continue
		}
		paths = append(paths, abs)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file list: %w", err)
	}
	return paths, nil
}

func (sp *SourceProvider) getContent() (string, error) {
	if sp.isPiped() {
		ui.Header("--- Reading file list from stdin ---")
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}

	ui.Header("--- Reading file list from clipboard ---")
	content, err := sp.readClip()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		ui.Warning("Clipboard is empty. Nothing to process.")
		return "", nil
	}
	return content, nil
}

// Copy puts text on the clipboard.
func (sp *SourceProvider) Copy(text string) error {
	if err := sp.writeClip(text); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}
