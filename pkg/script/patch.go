package script

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// PatchError reports a template edit that could not be applied safely.
// A patch is only safe when its literal block matches exactly once; zero
// or multiple matches abort without touching the file.
type PatchError struct {
	Path    string
	Block   string
	Matches int
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("template patch of %s: block %q matched %d times, want exactly 1",
		e.Path, summarize(e.Block), e.Matches)
}

// summarize trims a literal block to a single short line for error messages.
func summarize(block string) string {
	s := strings.TrimSpace(block)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "…"
	}
	if len(s) > 60 {
		s = s[:60] + "…"
	}
	return s
}

// Patch rewrites one condition token inside a known literal block of a
// vendor-supplied script, leaving every surrounding byte intact.
//
// The block is matched verbatim (whitespace and comments included) with
// the condition token isolated as a capture group, so the replacement
// cannot disturb unrelated regions. The file is rewritten in place only
// when the block matches exactly once.
func Patch(path string, literalBlock string, conditionToken string, replacement string) error {
	if !strings.Contains(literalBlock, conditionToken) {
		return fmt.Errorf("template patch of %s: condition %q not present in literal block", path, conditionToken)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	text := string(data)

	// (prefix)(condition)(suffix) so the condition can be swapped while the
	// captured surroundings are emitted verbatim.
	blockRe := regexp.QuoteMeta(literalBlock)
	condRe := regexp.QuoteMeta(conditionToken)
	pattern := "(" + strings.Replace(blockRe, condRe, ")("+condRe+")(", 1) + ")"
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("compile template pattern: %w", err)
	}

	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) != 1 {
		return &PatchError{Path: path, Block: literalBlock, Matches: len(matches)}
	}

	// Splice the replacement between the captured surroundings so the
	// replacement text is never subject to regexp expansion.
	m := matches[0]
	condStart, condEnd := m[4], m[5]
	patched := text[:condStart] + replacement + text[condEnd:]
	if err := os.WriteFile(path, []byte(patched), 0644); err != nil {
		return fmt.Errorf("write patched template: %w", err)
	}
	return nil
}
