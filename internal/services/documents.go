package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/atmohq/atmo-backend/internal/data/repos"
	"github.com/atmohq/atmo-backend/internal/domain"
	"github.com/atmohq/atmo-backend/internal/domain/outputs"
	chatmod "github.com/atmohq/atmo-backend/internal/modules/chat"
	"github.com/atmohq/atmo-backend/internal/modules/docgen"
	"github.com/atmohq/atmo-backend/internal/modules/docgen/pdf"
	"github.com/atmohq/atmo-backend/internal/observability"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/gcp"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type DocumentRequest struct {
	UserID            uuid.UUID
	Message           string
	AssistantResponse string
	Snapshot          chatmod.Context
}

type DocumentService interface {
	// Generate produces, validates and persists a document. Generation failures
	// are returned; a rendering failure degrades to a markdown output instead.
	Generate(ctx context.Context, req DocumentRequest) (*domain.Output, error)
}

type renderFunc func(*docgen.StrategicDocument, string, docgen.DocumentType, string, pdf.Metadata) (string, error)

type documentService struct {
	log       *logger.Logger
	generator *docgen.Generator
	outputs   repos.OutputRepo
	store     gcp.OutputStore
	render    renderFunc
	now       func() time.Time
}

func NewDocumentService(log *logger.Logger, generator *docgen.Generator, outputRepo repos.OutputRepo, store gcp.OutputStore) DocumentService {
	return &documentService{
		log:       log.With("service", "DocumentService"),
		generator: generator,
		outputs:   outputRepo,
		store:     store,
		render:    pdf.RenderPDF,
		now:       time.Now,
	}
}

func (s *documentService) Generate(ctx context.Context, req DocumentRequest) (*domain.Output, error) {
	docType := chatmod.DetectDocumentType(req.Message)
	ctx, span := observability.StartSpan(ctx, "documents.generate", attribute.String("document.type", string(docType)))
	defer span.End()

	doc, err := s.generator.Generate(ctx, docgen.Request{
		DocumentType:      docType,
		UserMessage:       req.Message,
		AssistantResponse: req.AssistantResponse,
		ContextSummary:    chatmod.BuildContextSummary(req.Snapshot),
		Validation:        validationContext(req.Snapshot),
	})
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", docType, err)
	}

	now := s.now().UTC()
	structured, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	markdown := doc.Markdown()
	out := &domain.Output{
		ID:           uuid.New(),
		UserID:       req.UserID,
		DocumentType: string(docType),
		Title:        doc.Title,
		CreatedAt:    now,
	}
	content := outputs.Content{DocumentContent: markdown, StructuredDocument: structured}

	meta := pdf.Metadata{PreparedFor: profileName(req.Snapshot), Projects: projectNames(req.Snapshot), GeneratedAt: now}
	encoded, renderErr := s.render(doc, doc.Title, docType, firstSentence(doc.ExecutiveSummary), meta)
	if renderErr != nil {
		s.log.Warn("pdf render failed, saving markdown", "user_id", req.UserID, "type", docType, "error", renderErr)
		out.FileType = outputs.FileTypeMarkdown
		out.Filename = Filename(doc.Title, now, "md")
		out.FileSize = int64(len(markdown))
	} else {
		raw, _ := base64.StdEncoding.DecodeString(encoded)
		out.FileType = outputs.FileTypePDF
		out.Filename = Filename(doc.Title, now, "pdf")
		out.FileSize = int64(len(raw))
		content.PDFBase64 = encoded
		content.StorageURL = s.upload(ctx, out, raw)
	}
	if err := out.SetContent(content); err != nil {
		return nil, fmt.Errorf("encode output content: %w", err)
	}
	if err := s.outputs.Create(dbctx.From(ctx), out); err != nil {
		return nil, fmt.Errorf("save output: %w", err)
	}
	span.SetAttributes(attribute.String("output.file_type", out.FileType), attribute.Int64("output.size", out.FileSize))
	return out, nil
}

// upload copies the PDF to object storage when configured. Failures only cost the URL.
func (s *documentService) upload(ctx context.Context, out *domain.Output, raw []byte) string {
	if s.store == nil {
		return ""
	}
	key := fmt.Sprintf("outputs/%s/%s", out.UserID, out.Filename)
	url, err := s.store.Upload(ctx, key, "application/pdf", raw)
	if err != nil {
		s.log.Warn("output upload failed", "output_id", out.ID, "error", err)
		return ""
	}
	return url
}

func validationContext(c chatmod.Context) docgen.ValidationContext {
	vc := docgen.ValidationContext{UserName: profileName(c), ProjectNames: projectNames(c)}
	for _, k := range c.Knowledge {
		vc.Knowledge = append(vc.Knowledge, docgen.KnowledgeRef{Name: k.Name, Content: k.Content})
	}
	for _, m := range c.Milestones {
		vc.MilestoneNames = append(vc.MilestoneNames, m.Name)
	}
	return vc
}

func profileName(c chatmod.Context) string {
	if c.Profile == nil {
		return ""
	}
	return strings.TrimSpace(c.Profile.FullName)
}

func projectNames(c chatmod.Context) []string {
	out := make([]string, 0, len(c.Projects))
	for _, p := range c.Projects {
		out = append(out, p.Name)
	}
	return out
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".!?"); i > 0 {
		return s[:i+1]
	}
	return s
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Filename builds "<slug>-<yyyymmdd-hhmmss>.<ext>".
func Filename(title string, at time.Time, ext string) string {
	slug := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	if slug == "" {
		slug = "document"
	}
	return fmt.Sprintf("%s-%s.%s", slug, at.UTC().Format("20060102-150405"), ext)
}
