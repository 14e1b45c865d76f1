package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

// Payload is a finished export ready to be written or sent.
type Payload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Writer encodes a Summary into one file format.
type Writer interface {
	Write(s Summary) ([]byte, error)
	Ext() string
	ContentType() string
}

type Assembler struct {
	writer Writer
	logger *slog.Logger
}

// NewAssembler picks the writer for format ("pdf" or "xlsx").
func NewAssembler(format string, logger *slog.Logger) (*Assembler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var w Writer
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "pdf":
		w = PDFWriter{}
	case "xlsx":
		w = XLSXWriter{}
	default:
		return nil, fmt.Errorf("%w: export format %q", common.ErrUnsupportedFormat, format)
	}
	return &Assembler{writer: w, logger: logger}, nil
}

// NewAssemblerWithWriter uses a caller-supplied writer.
func NewAssemblerWithWriter(w Writer, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{writer: w, logger: logger}
}

// Assemble renders rec and the optional valuation narrative into a payload named after the
// document type: lease_summary.pdf, purchase_agreement_summary.pdf or document_summary.pdf.
func (a *Assembler) Assemble(rec record.Record, valuation string, opts ...Option) (Payload, error) {
	start := time.Now()
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	summary := buildSummary(rec, valuation, o)
	data, err := a.writer.Write(summary)
	if err != nil {
		a.logger.Error("export.write.failed", "ext", a.writer.Ext(), "error", err)
		return Payload{}, fmt.Errorf("export %s: %w", a.writer.Ext(), err)
	}
	if len(data) == 0 {
		return Payload{}, fmt.Errorf("export %s: %w: empty output", a.writer.Ext(), common.ErrInternal)
	}

	p := Payload{
		Filename:    documentType(rec).SummaryBaseName() + "." + a.writer.Ext(),
		ContentType: a.writer.ContentType(),
		Data:        data,
	}
	a.logger.Info("export.ok",
		"file", p.Filename,
		"bytes", len(p.Data),
		"exchanges", len(summary.Exchanges),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return p, nil
}
