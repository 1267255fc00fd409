package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"docqa/chunker"
	"docqa/extract"
	"docqa/model"
	"docqa/store"
	"docqa/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	answerNoDocuments = "No documents have been uploaded yet."
	answerNoRelevant  = "No relevant information found for this question."

	summarizeInstruction = "Summarize the following content:"
)

// summarykeywords routes questions like "give me a summary" to the
// summarization instruction instead of verbatim question passing.
var summaryKeywords = []string{"summary", "summarize", "overview", "main idea", "main points", "gist"}

type Options struct {
	TopK               int     // matches fetched per namespace
	ScoreThreshold     float64 // minimum cosine similarity kept
	FallbackTopN       int     // kept when the threshold filters out everything
	EmbedWorkers       int     // bound on concurrent embedding calls per upload
	ContextTokenBudget int     // cap on assembled context, 0 disables
}

type RequestHandler struct {
	contextStore store.VectorStorer
	embedder     model.EmbedderInterface
	generator    model.GeneratorInterface
	chunker      *chunker.Chunker
	opts         Options
	logger       *slog.Logger
}

func NewRequestHandler(contextStore store.VectorStorer, embedder model.EmbedderInterface, generator model.GeneratorInterface, chunks *chunker.Chunker, opts Options) *RequestHandler {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.ScoreThreshold == 0 {
		opts.ScoreThreshold = 0.3
	}
	if opts.FallbackTopN <= 0 {
		opts.FallbackTopN = 5
	}
	if opts.EmbedWorkers <= 0 {
		opts.EmbedWorkers = 8
	}
	return &RequestHandler{
		contextStore: contextStore,
		embedder:     embedder,
		generator:    generator,
		chunker:      chunks,
		opts:         opts,
		logger:       slog.Default(),
	}
}

// HandleUpload ingests one file: extract, chunk, embed, upsert under a
// fresh namespace. Any embedding failure aborts the whole upload, nothing
// is upserted partially.
func (h *RequestHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrNoFile()
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	text, err := extractText(data, mediaTypeOf(fileHeader.Filename, fileHeader.Header.Get("Content-Type")))
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrCorruptDocument):
			return ErrCorruptDocument()
		case errors.Is(err, extract.ErrDecode):
			return ErrDecode()
		}
		return err
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyDocument()
	}

	chunks := h.chunker.Split(text)
	namespace := uuid.NewString()

	ctx := c.UserContext()
	records := make([]types.Record, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.opts.EmbedWorkers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			vec, err := h.embedder.Embed(gctx, chunk)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", i, err)
			}
			records[i] = types.Record{
				ID:        fmt.Sprintf("%s-chunk-%d", fileHeader.Filename, i),
				Text:      chunk,
				Embedding: vec,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := h.contextStore.Upsert(ctx, namespace, records); err != nil {
		return err
	}
	if err := h.contextStore.RegisterDocument(ctx, types.Document{
		Namespace: namespace,
		FileName:  fileHeader.Filename,
		Chunks:    len(records),
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	h.logger.Info("document indexed", "file", fileHeader.Filename, "namespace", namespace, "chunks", len(records))
	return c.JSON(types.UploadResponse{
		Message:   "file processed",
		Namespace: namespace,
	})
}

// HandleQuery answers a question from the most relevant chunks across all
// known namespaces.
func (h *RequestHandler) HandleQuery(c *fiber.Ctx) error {
	var params types.QueryParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errs := types.Validate(&params); len(errs) > 0 {
		return ErrMissingQuestion()
	}
	question := strings.TrimSpace(params.Question)
	if question == "" {
		return ErrMissingQuestion()
	}

	ctx := c.UserContext()

	queryVec, err := h.embedder.Embed(ctx, question)
	if err != nil {
		return err
	}

	namespaces, err := h.contextStore.ListNamespaces(ctx)
	if err != nil {
		return err
	}
	if len(namespaces) == 0 {
		return c.JSON(types.QueryResponse{Answer: answerNoDocuments, Sources: []types.Source{}})
	}

	var matches []types.Match
	for _, ns := range namespaces {
		res, err := h.contextStore.Query(ctx, ns, queryVec, h.opts.TopK)
		if err != nil {
			return err
		}
		matches = append(matches, res...)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) == 0 {
		return c.JSON(types.QueryResponse{Answer: answerNoRelevant, Sources: []types.Source{}})
	}

	relevant := h.filterMatches(matches)
	contextText := h.buildContext(relevant)

	genQuestion := question
	if isSummarizationIntent(question) {
		genQuestion = summarizeInstruction
	}

	answer, err := h.generator.Generate(ctx, genQuestion, contextText)
	if err != nil {
		return err
	}

	sources := make([]types.Source, len(relevant))
	for i, m := range relevant {
		sources[i] = types.Source{
			FileName: types.FileNameFromID(m.ID),
			Text:     m.Text,
			Score:    m.Score,
		}
	}

	return c.JSON(types.QueryResponse{Answer: answer, Sources: sources})
}

// HandleDocuments lists the namespace registry.
func (h *RequestHandler) HandleDocuments(c *fiber.Ctx) error {
	docs, err := h.contextStore.ListDocuments(c.UserContext())
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []types.Document{}
	}
	return c.JSON(fiber.Map{"documents": docs})
}

// filterMatches keeps matches at or above the score threshold. When the
// threshold would remove everything, the top FallbackTopN by score are
// kept instead: if any match exists the caller always gets something.
func (h *RequestHandler) filterMatches(matches []types.Match) []types.Match {
	result := make([]types.Match, 0, len(matches))
	for _, m := range matches {
		if m.Score >= h.opts.ScoreThreshold {
			result = append(result, m)
		}
	}
	if len(result) == 0 {
		n := h.opts.FallbackTopN
		if n > len(matches) {
			n = len(matches)
		}
		h.logger.Debug("score threshold removed all matches, falling back", "kept", n)
		return matches[:n]
	}
	return result
}

// buildContext joins chunk texts with blank lines, in descending score
// order, stopping once the token budget is exhausted.
func (h *RequestHandler) buildContext(matches []types.Match) string {
	var sb strings.Builder
	tokens := 0
	for i, m := range matches {
		piece := m.Text
		if i > 0 {
			piece = "\n\n" + piece
		}
		if h.opts.ContextTokenBudget > 0 {
			count, err := model.CountTokens(piece)
			if err == nil {
				if tokens+count > h.opts.ContextTokenBudget && i > 0 {
					h.logger.Debug("context token budget reached", "chunks_used", i)
					break
				}
				tokens += count
			}
		}
		sb.WriteString(piece)
	}
	return sb.String()
}

func isSummarizationIntent(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range summaryKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func mediaTypeOf(filename, contentType string) types.MediaType {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") || strings.HasPrefix(contentType, "application/pdf") {
		return types.MediaPDF
	}
	return types.MediaText
}

func extractText(data []byte, media types.MediaType) (string, error) {
	if media == types.MediaPDF {
		return extract.PDF(data)
	}
	return extract.Text(data)
}
