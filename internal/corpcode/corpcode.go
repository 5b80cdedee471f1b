/*
Package corpcode loads the DART company-code table and keeps a CSV copy of it
so later runs can skip the bulk XML parse.
*/
package corpcode

import (
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shanehull/corpbrief/internal/types"
	"github.com/ternarybob/arbor"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	identifierWidth    = 8
	defaultSearchLimit = 20
)

var (
	ErrSourceNotFound = errors.New("corp code source file not found")
	ErrCacheNotFound  = errors.New("corp code cache file not found")
)

var cacheHeader = []string{"corp_name", "corp_code"}

// Normalize left-pads an identifier with zeros to the fixed DART width.
func Normalize(id string) string {
	id = strings.TrimSpace(id)
	if len(id) >= identifierWidth {
		return id
	}
	return strings.Repeat("0", identifierWidth-len(id)) + id
}

type Loader struct {
	logger arbor.ILogger
}

func NewLoader(logger arbor.ILogger) *Loader {
	return &Loader{logger: logger}
}

type listEntry struct {
	CorpName string `xml:"corp_name"`
	CorpCode string `xml:"corp_code"`
}

// Load parses the bulk CORPCODE.xml file.
func (l *Loader) Load(sourcePath string) (*Table, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, sourcePath)
		}
		return nil, fmt.Errorf("failed to open corp code source %s: %w", sourcePath, err)
	}
	defer f.Close()

	var records []types.CompanyRecord
	skipped := 0

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse corp code source %s: %w", sourcePath, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "list" {
			continue
		}

		var entry listEntry
		if err := dec.DecodeElement(&entry, &start); err != nil {
			return nil, fmt.Errorf("failed to decode list entry in %s: %w", sourcePath, err)
		}

		name := strings.TrimSpace(entry.CorpName)
		code := strings.TrimSpace(entry.CorpCode)
		if name == "" || code == "" {
			skipped++
			continue
		}
		records = append(records, types.CompanyRecord{Name: name, Identifier: code})
	}

	if skipped > 0 {
		l.logger.Warn().Int("skipped", skipped).Str("path", sourcePath).Msg("Skipped list entries without name or code")
	}
	l.logger.Info().Int("companies", len(records)).Str("path", sourcePath).Msg("Parsed corp code source")

	return NewTable(records), nil
}

// LoadOptimized prefers the CSV cache and falls back to the XML source when
// the cache is missing, unreadable or forceRefresh is set. A fresh parse
// rewrites the cache; failing to write it is only logged.
func (l *Loader) LoadOptimized(sourcePath, cachePath string, forceRefresh bool) (*Table, error) {
	if !forceRefresh {
		table, err := l.ReadCache(cachePath)
		if err == nil {
			l.logger.Info().Int("companies", table.Len()).Str("path", cachePath).Msg("Loaded corp codes from cache")
			return table, nil
		}
		if errors.Is(err, ErrCacheNotFound) {
			l.logger.Info().Str("path", cachePath).Msg("No corp code cache yet, parsing source")
		} else {
			l.logger.Warn().Err(err).Str("path", cachePath).Msg("Corp code cache unreadable, parsing source")
		}
	}

	table, err := l.Load(sourcePath)
	if err != nil {
		return nil, err
	}

	if err := l.WriteCache(cachePath, table); err != nil {
		l.logger.Warn().Err(err).Str("path", cachePath).Msg("Failed to write corp code cache")
	}

	return table, nil
}

// LookupFromCache answers a single exact lookup from the cache file alone.
func (l *Loader) LookupFromCache(name, cachePath string) (types.CompanyRecord, bool) {
	table, err := l.ReadCache(cachePath)
	if err != nil {
		l.logger.Warn().Err(err).Str("path", cachePath).Msg("Corp code cache unavailable")
		return types.CompanyRecord{}, false
	}
	return table.LookupExact(name)
}

// ReadCache reads the CSV cache. Rows with the wrong number of fields are skipped.
func (l *Loader) ReadCache(cachePath string) (*Table, error) {
	f, err := os.Open(cachePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCacheNotFound, cachePath)
		}
		return nil, fmt.Errorf("failed to open corp code cache %s: %w", cachePath, err)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	r.FieldsPerRecord = -1

	var records []types.CompanyRecord
	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			if line == 1 {
				return nil, fmt.Errorf("unreadable corp code cache header in %s: %w", cachePath, err)
			}
			l.logger.Warn().Err(err).Str("path", cachePath).Msg("Skipping malformed cache row")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corp code cache %s: %w", cachePath, err)
		}

		if line == 1 {
			if len(row) != len(cacheHeader) || row[0] != cacheHeader[0] || row[1] != cacheHeader[1] {
				return nil, fmt.Errorf("unexpected corp code cache header in %s: %v", cachePath, row)
			}
			continue
		}

		if len(row) != len(cacheHeader) || strings.TrimSpace(row[0]) == "" || strings.TrimSpace(row[1]) == "" {
			l.logger.Warn().Int("line", line).Str("path", cachePath).Msg("Skipping malformed cache row")
			continue
		}
		records = append(records, types.CompanyRecord{Name: row[0], Identifier: row[1]})
	}

	if line == 0 {
		return nil, fmt.Errorf("corp code cache %s is empty", cachePath)
	}

	return NewTable(records), nil
}

// WriteCache writes the table as UTF-8 CSV with a byte-order mark.
func (l *Loader) WriteCache(cachePath string, table *Table) error {
	if dir := filepath.Dir(cachePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(cachePath)
	if err != nil {
		return fmt.Errorf("failed to create corp code cache %s: %w", cachePath, err)
	}

	bw := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(bw)

	if err := w.Write(cacheHeader); err != nil {
		f.Close()
		return fmt.Errorf("failed to write cache header: %w", err)
	}
	for _, rec := range table.Records() {
		if err := w.Write([]string{rec.Name, rec.Identifier}); err != nil {
			f.Close()
			return fmt.Errorf("failed to write cache row for %s: %w", rec.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush corp code cache: %w", err)
	}
	if err := bw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush corp code cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close corp code cache: %w", err)
	}

	l.logger.Info().Int("companies", table.Len()).Str("path", cachePath).Msg("Wrote corp code cache")
	return nil
}
