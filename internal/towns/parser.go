// Package towns parses the university town list: free text where state
// header lines carry an editor marker and every other line is a town of
// the most recent state.
package towns

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"unihousing/internal/config"
	apperrors "unihousing/internal/errors"
	"unihousing/pkg/contracts/domain"
)

// Parser turns the raw town list into (State, RegionName) entries.
type Parser struct {
	schema   config.TownsSchema
	validate *validator.Validate
	logger   *slog.Logger
}

// NewParser creates a parser for the given schema.
func NewParser(schema config.TownsSchema, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{schema: schema, validate: validator.New(), logger: logger}
}

// scanState is the accumulator threaded through the line scan.
type scanState struct {
	state     string
	orphans   int
	lineCount int
}

// LoadFile parses the town list at path.
func (p *Parser) LoadFile(path string) ([]domain.TownEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("open town list", err).WithContext("path", path)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse reads the town list from r. Header lines are recognised by the
// schema marker; town lines inherit the last header's state. Lines before
// the first header keep domain.NoState. Entries whose cleaned name equals
// their state, which includes every header line, are dropped.
func (p *Parser) Parse(r io.Reader) ([]domain.TownEntry, error) {
	marker := p.schema.HeaderMarker
	if marker == "" {
		return nil, apperrors.NewSchemaError("towns", "header marker is empty")
	}

	var (
		entries []domain.TownEntry
		acc     = scanState{state: domain.NoState}
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		acc.lineCount++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		var entry domain.TownEntry
		entry, acc = step(acc, line, marker)
		if entry.RegionName == entry.State {
			continue
		}
		if err := p.validate.Struct(entry); err != nil {
			p.logger.Debug("Skipping town line", slog.Int("line", acc.lineCount), slog.String("reason", err.Error()))
			continue
		}
		if entry.State == domain.NoState {
			acc.orphans++
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewStorageError("read town list", err).WithContext("line", acc.lineCount+1)
	}

	if acc.orphans > 0 {
		p.logger.Warn("Town lines found before any state header",
			slog.Int("count", acc.orphans))
	}
	p.logger.Info("Parsed university town list",
		slog.Int("lines", acc.lineCount),
		slog.Int("towns", len(entries)))

	return entries, nil
}

// step classifies one line and returns the entry it yields together with
// the updated accumulator.
func step(acc scanState, line, marker string) (domain.TownEntry, scanState) {
	name := CleanName(line)
	if strings.Contains(line, marker) {
		acc.state = name
	}
	return domain.TownEntry{State: acc.state, RegionName: name}, acc
}

// CleanName truncates s at the first "(" and at the first "[" and trims
// surrounding whitespace. Header and town lines are cleaned the same way.
func CleanName(s string) string {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '['); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Summary describes a parsed town list.
func Summary(entries []domain.TownEntry) string {
	states := make(map[string]struct{})
	for _, e := range entries {
		states[e.State] = struct{}{}
	}
	return fmt.Sprintf("%d towns in %d states", len(entries), len(states))
}
