package content

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// minChardetConfidence is the confidence chardet must reach before its guess
// replaces the Windows-1252 fallback.
const minChardetConfidence = 50

// UTF8Transformer converts a document to UTF-8 and strips any BOM. The
// encoding comes from charset.DetermineEncoding (BOM, content type, meta
// tags); for plain text and Markdown, an uncertain result falls back to
// statistical detection.
func UTF8Transformer(contentType string, logger *slog.Logger) TransformerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	textual := strings.HasPrefix(contentType, TypePlain) || strings.HasPrefix(contentType, TypeMarkdown)

	return func(input []byte) ([]byte, error) {
		enc, name, certain := charset.DetermineEncoding(input, contentType)
		if !certain && textual {
			if detected, detectedName := detectWithChardet(input, logger); detected != nil {
				enc, name = detected, detectedName
			}
		}
		if !certain {
			logger.Debug("encoding detection uncertain",
				slog.String("encoding", name),
				slog.String("content_type", contentType))
		}

		output, err := decodeToUTF8(input, enc)
		if err != nil {
			return nil, err
		}
		return bytes.TrimPrefix(output, utf8BOM), nil
	}
}

func detectWithChardet(input []byte, logger *slog.Logger) (encoding.Encoding, string) {
	result, err := chardet.NewTextDetector().DetectBest(input)
	if err != nil || result.Confidence < minChardetConfidence {
		return nil, ""
	}
	// chardet knows names the HTML index does not
	enc, err := htmlindex.Get(result.Charset)
	if err != nil {
		return nil, ""
	}
	logger.Debug("chardet detection",
		slog.String("charset", result.Charset),
		slog.Int("confidence", result.Confidence))
	return enc, result.Charset
}

func decodeToUTF8(input []byte, enc encoding.Encoding) ([]byte, error) {
	if enc == encoding.Nop || enc == unicode.UTF8 {
		return input, nil
	}
	output, err := io.ReadAll(enc.NewDecoder().Reader(bytes.NewReader(input)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode to UTF-8: %w", err)
	}
	return output, nil
}
