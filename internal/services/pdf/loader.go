// -----------------------------------------------------------------------
// PDF Loader Service - Extract text content from financial PDF documents
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/interfaces"
)

// DocumentReadError indicates the document at Path could not be read: the file
// is missing, not a valid PDF, or unreadable.
type DocumentReadError struct {
	Path string
	Err  error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("failed to read document %s: %v", e.Path, e.Err)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Err
}

var blankLines = regexp.MustCompile(`\n{2,}`)

// Loader implements the DocumentReader interface using pdfcpu
type Loader struct {
	logger  arbor.ILogger
	tempDir string
}

// Compile-time interface assertion
var _ interfaces.DocumentReader = (*Loader)(nil)

// NewLoader creates a new PDF loader service
func NewLoader(logger arbor.ILogger) *Loader {
	tempDir := filepath.Join(os.TempDir(), "argentum-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Loader{
		logger:  logger,
		tempDir: tempDir,
	}
}

// LoadText extracts all text content from the PDF at the given path.
// Pages are concatenated in order; within each page, runs of two or more
// newlines collapse to one, and each page's text ends with a single newline.
func (l *Loader) LoadText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", &DocumentReadError{Path: path, Err: err}
	}

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return "", &DocumentReadError{Path: path, Err: err}
	}
	pageCount := pdfCtx.PageCount

	// Per-request extraction directory; concurrent loads must not share one.
	outDir, err := os.MkdirTemp(l.tempDir, "pages_")
	if err != nil {
		return "", &DocumentReadError{Path: path, Err: err}
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		return "", &DocumentReadError{Path: path, Err: err}
	}

	pageTexts := readPageContents(outDir)

	var report strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		// Exactly one newline separates pages
		page := strings.TrimRight(collapseBlankLines(pageTexts[pageNum]), "\n")
		report.WriteString(page)
		report.WriteString("\n")
	}

	l.logger.Debug().
		Str("path", path).
		Int("page_count", pageCount).
		Int("text_length", report.Len()).
		Msg("Extracted document text")

	return report.String(), nil
}

// readPageContents reads per-page content files produced by pdfcpu.
// File names follow the <basename>_Content_page_%d.txt convention.
func readPageContents(outDir string) map[int]string {
	pageTexts := make(map[int]string)

	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		pageNum, ok := pageNumberFromName(file.Name())
		if !ok {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		pageTexts[pageNum] = string(content)
	}

	return pageTexts
}

// pageNumberFromName parses the page number out of an extracted content
// file name. The Content_page_ token carries the source file's basename
// as a prefix, so it is matched anywhere in the name.
func pageNumberFromName(name string) (int, bool) {
	const token = "Content_page_"
	idx := strings.Index(name, token)
	if idx < 0 {
		return 0, false
	}
	digits := strings.TrimSuffix(name[idx+len(token):], filepath.Ext(name))
	pageNum, err := strconv.Atoi(digits)
	if err != nil || pageNum < 1 {
		return 0, false
	}
	return pageNum, true
}

// collapseBlankLines reduces every run of two or more newlines to a single
// newline. Matching downstream is substring based, so this is cosmetic but
// keeps prompts compact.
func collapseBlankLines(text string) string {
	return blankLines.ReplaceAllString(text, "\n")
}
