package server

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/pipeline"
	"github.com/joseph-ayodele/lease-analyzer/internal/reasoning"
	"github.com/joseph-ayodele/lease-analyzer/internal/record"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
	maxQuestionLength   = 2000
)

// AnalyzerService serves one Processor, and so one session, per daemon.
type AnalyzerService struct {
	processor *pipeline.Processor
	logger    *slog.Logger
}

func NewAnalyzerService(processor *pipeline.Processor, logger *slog.Logger) *AnalyzerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzerService{processor: processor, logger: logger}
}

var _ AnalyzerServer = (*AnalyzerService)(nil)

func (s *AnalyzerService) start(ctx context.Context, method string) (context.Context, *slog.Logger) {
	ctx, _ = common.EnsureRequestID(ctx)
	log := common.LoggerFrom(ctx, s.logger).With("method", method)
	log.Debug("grpc.request")
	return ctx, log
}

// fail logs err and maps it onto a gRPC status.
func (s *AnalyzerService) fail(log *slog.Logger, err error) error {
	st := common.ToStatus(err)
	log.Error("grpc.failed", "code", status.Code(st), "err", err)
	return st
}

func (s *AnalyzerService) Analyze(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, log := s.start(ctx, MethodAnalyze)
	path := strings.TrimSpace(stringField(req, "path"))
	if err := common.ValidateAndReturnError(common.NewValidator().Field("path", path, common.Required)); err != nil {
		log.Error("analyze request missing path")
		return nil, err
	}

	a, err := s.processor.Analyze(ctx, path)
	if err != nil {
		return nil, s.fail(log, err)
	}
	rec, err := recordStruct(a.Result.Record)
	if err != nil {
		return nil, s.fail(log, err)
	}
	return newStruct(map[string]any{
		"document_id":     a.DocumentID.String(),
		"filename":        a.Filename,
		"format":          a.Format,
		"pages":           a.Pages,
		"content_hash":    a.ContentHash,
		"status":          string(a.Result.Status),
		"reused":          a.Reused,
		"model":           a.Result.Model,
		"elapsed_ms":      a.Result.Elapsed.Milliseconds(),
		"dropped_keys":    anyList(a.Result.Dropped),
		"schema_warnings": anyList(a.Result.SchemaWarnings),
		"record":          rec.AsMap(),
	})
}

func (s *AnalyzerService) Estimate(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, log := s.start(ctx, MethodEstimate)
	narrative, err := s.processor.Estimate(ctx)
	if err != nil {
		return nil, s.fail(log, err)
	}
	return newStruct(map[string]any{"valuation": narrative})
}

func (s *AnalyzerService) EstimateRange(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, log := s.start(ctx, MethodEstimateRange)
	rng, err := s.processor.EstimateRange(ctx)
	if err != nil {
		return nil, s.fail(log, err)
	}
	return newStruct(map[string]any{
		"low":       rng.Low,
		"mid":       rng.Mid,
		"high":      rng.High,
		"available": rng.Available(),
		"display":   rng.String(),
	})
}

func (s *AnalyzerService) Ask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, log := s.start(ctx, MethodAsk)
	question := strings.TrimSpace(stringField(req, "question"))
	v := common.NewValidator().Field("question", question, common.Required, common.MaxLength(maxQuestionLength))
	if err := common.ValidateAndReturnError(v); err != nil {
		log.Error("invalid ask request", "errors", len(v.Errors()))
		return nil, err
	}
	persona, err := reasoning.ParsePersona(stringField(req, "persona"))
	if err != nil {
		return nil, s.fail(log, err)
	}

	ex, err := s.processor.Ask(ctx, question, persona)
	if err != nil {
		return nil, s.fail(log, err)
	}
	return newStruct(map[string]any{
		"question": ex.Question,
		"persona":  ex.Persona.DisplayName(),
		"answer":   ex.Answer,
	})
}

func (s *AnalyzerService) Export(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, log := s.start(ctx, MethodExport)
	payload, err := s.processor.Export(ctx, strings.ToLower(strings.TrimSpace(stringField(req, "format"))))
	if err != nil {
		return nil, s.fail(log, err)
	}
	log.Info("export.sent", "file", payload.Filename, "bytes", len(payload.Data))
	return newStruct(map[string]any{
		"filename":     payload.Filename,
		"content_type": payload.ContentType,
		"data_base64":  base64.StdEncoding.EncodeToString(payload.Data),
	})
}

func (s *AnalyzerService) Reset(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	_, log := s.start(ctx, MethodReset)
	s.processor.Reset()
	log.Info("session.reset")
	return &structpb.Struct{}, nil
}

func (s *AnalyzerService) History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, log := s.start(ctx, MethodHistory)
	limit := int(numberField(req, "limit"))
	if limit < 0 || limit > maxHistoryLimit {
		return nil, s.fail(log, common.InvalidArgumentErrorf("limit must be between 0 and %d, got %d", maxHistoryLimit, limit))
	}
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	items, err := s.processor.History(ctx, limit)
	if err != nil {
		return nil, s.fail(log, err)
	}
	out := make([]any, 0, len(items))
	for _, a := range items {
		out = append(out, map[string]any{
			"id":           a.ID.String(),
			"filename":     a.Filename,
			"content_hash": a.ContentHash,
			"status":       a.Status,
			"model":        a.Model,
			"elapsed_ms":   a.ElapsedMS,
			"created_at":   a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return newStruct(map[string]any{"analyses": out})
}

func stringField(s *structpb.Struct, key string) string {
	if v, ok := s.GetFields()[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func numberField(s *structpb.Struct, key string) float64 {
	if v, ok := s.GetFields()[key]; ok {
		return v.GetNumberValue()
	}
	return 0
}

func anyList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func recordStruct(rec record.Record) (*structpb.Struct, error) {
	data, err := rec.MarshalJSON()
	if err != nil {
		return nil, common.WrapError(err, "encode record")
	}
	out := new(structpb.Struct)
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return out, nil
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}
