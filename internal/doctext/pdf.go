package doctext

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
)

// pdfPages validates the PDF with pdfcpu, then extracts per-page layout text with pdftotext.
// Pages come back unjoined and unnormalized; empty pages are kept so indexes match page numbers.
func (r *Reader) pdfPages(ctx context.Context, path string, raw []byte) ([]string, int, error) {
	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(raw), conf)
	if err != nil {
		r.logger.Error("doctext.pdf.invalid", "path", path, "error", err)
		return nil, 0, fmt.Errorf("%w: invalid pdf: %v", common.ErrUnreadableDocument, err)
	}
	pageCount := pdfCtx.PageCount
	if pageCount == 0 {
		return nil, 0, nil
	}

	// pdftotext -layout -enc UTF-8 -eol unix [-l N] <path> -
	args := []string{"-layout", "-enc", "UTF-8", "-eol", "unix"}
	if r.cfg.MaxPages > 0 && r.cfg.MaxPages < pageCount {
		args = append(args, "-l", strconv.Itoa(r.cfg.MaxPages))
	}
	args = append(args, path, "-")
	out, errb, err := r.runner.Run(ctx, r.cfg.Pdftotext, args...)
	if err != nil {
		return nil, pageCount, fmt.Errorf("%w: pdftotext: %v: %s", common.ErrUnreadableDocument, err, strings.TrimSpace(string(errb)))
	}

	// A form-feed \f is used as page separator; the output ends with one.
	pages := strings.Split(strings.TrimSuffix(string(out), "\f"), "\f")
	return pages, pageCount, nil
}
