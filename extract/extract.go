package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var (
	// ErrCorruptDocument means the buffer is not a parseable PDF.
	ErrCorruptDocument = errors.New("corrupt document")
	// ErrDecode means a text buffer holds invalid UTF-8. We fail instead
	// of substituting replacement runes so garbage never reaches the index.
	ErrDecode = errors.New("invalid utf-8 text")
)

// Text decodes a plain-text buffer as UTF-8.
func Text(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrDecode
	}
	return string(data), nil
}

// PDF validates the buffer as a PDF and extracts its plain text.
// The pdf parser is known to panic on some malformed inputs, so extraction
// runs behind a recover and reports those as corrupt documents too.
func PDF(data []byte) (text string, err error) {
	rs := bytes.NewReader(data)
	ctx, rerr := api.ReadContext(rs, api.LoadConfiguration())
	if rerr != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, rerr)
	}
	if verr := api.ValidateContext(ctx); verr != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, verr)
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: parser panic: %v", ErrCorruptDocument, r)
		}
	}()

	reader, rerr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if rerr != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, rerr)
	}

	plain, perr := reader.GetPlainText()
	if perr != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, perr)
	}

	var sb strings.Builder
	if _, cerr := io.Copy(&sb, plain); cerr != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, cerr)
	}
	return sb.String(), nil
}
