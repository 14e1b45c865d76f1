package doctext

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/lease-analyzer/constants"
	"github.com/joseph-ayodele/lease-analyzer/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	MaxPages  int    // 0 = no limit
}

// Document is the plain text read from one file, before normalization.
type Document struct {
	Path        string
	Filename    string
	Format      string // constants.PDF | DOCX | HTML | TXT
	Pages       int
	Text        string
	ContentHash string // sha256 hex of the file bytes
	Duration    time.Duration
}

// Table is one table detected in a document; Header is the first detected row.
type Table struct {
	Page   int
	Header []string
	Rows   [][]string
}

type Reader struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

type Option func(*Reader)

// WithRunner replaces the external command runner (pdftotext).
func WithRunner(r Runner) Option {
	return func(rd *Reader) {
		if r != nil {
			rd.runner = r
		}
	}
}

func NewReader(cfg Config, logger *slog.Logger, opts ...Option) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	r := &Reader{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ReadText picks a strategy based on file extension. Empty text is not an error;
// unsupported extensions fail with common.ErrUnsupportedFormat before anything is read.
func (r *Reader) ReadText(ctx context.Context, path string) (Document, error) {
	start := time.Now()
	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		r.logger.Warn("doctext.read.unsupported", "path", path, "ext", filepath.Ext(path))
		return Document{}, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, filepath.Ext(path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", common.ErrUnreadableDocument, err)
	}
	sum := sha256.Sum256(raw)
	doc := Document{
		Path:        path,
		Filename:    filepath.Base(path),
		Format:      format,
		Pages:       1,
		ContentHash: hex.EncodeToString(sum[:]),
	}

	r.logger.Debug("doctext.read.start", "path", path, "format", format, "bytes", len(raw))
	switch format {
	case constants.PDF:
		pages, count, err := r.pdfPages(ctx, path, raw)
		if err != nil {
			return doc, err
		}
		doc.Pages = count
		doc.Text = JoinPages(pages)
	case constants.DOCX:
		paragraphs, err := docxParagraphs(raw)
		if err != nil {
			return doc, fmt.Errorf("%w: %v", common.ErrUnreadableDocument, err)
		}
		doc.Text = JoinPages(paragraphs)
	case constants.HTML:
		text, err := htmlText(raw)
		if err != nil {
			return doc, fmt.Errorf("%w: %v", common.ErrUnreadableDocument, err)
		}
		doc.Text = text
	default:
		doc.Text = plainText(raw)
	}
	doc.Duration = time.Since(start)

	r.logger.Info("doctext.read.ok",
		"file", doc.Filename,
		"format", doc.Format,
		"pages", doc.Pages,
		"chars", len(doc.Text),
		"elapsed_ms", doc.Duration.Milliseconds(),
	)
	return doc, nil
}

// ReadTables detects tables in PDF documents. Other formats yield no tables.
func (r *Reader) ReadTables(ctx context.Context, path string) ([]Table, error) {
	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if format != constants.PDF {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnreadableDocument, err)
	}
	pages, _, err := r.pdfPages(ctx, path, raw)
	if err != nil {
		return nil, err
	}
	var tables []Table
	for i, p := range pages {
		tables = append(tables, DetectTables(p, i+1)...)
	}
	r.logger.Info("doctext.tables.ok", "path", path, "tables", len(tables))
	return tables, nil
}
