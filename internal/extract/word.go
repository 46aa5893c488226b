package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

var zipMagic = []byte("PK\x03\x04")

// extractWord handles both OOXML (.docx) and legacy binary (.doc) documents
func (e *Extractor) extractWord(ctx context.Context, f model.File) (string, error) {
	if bytes.HasPrefix(f.Data, zipMagic) {
		e.report(Progress{Name: f.Name, Stage: StageBackend, Backend: "docx"})
		return ParseDOCX(f.Data)
	}

	if err := e.requireTool(e.docTool); err != nil {
		return "", err
	}

	e.report(Progress{Name: f.Name, Stage: StageBackend, Backend: e.docTool})

	// antiword only reads from a path
	tmp, err := os.CreateTemp("", "claimcheck-*.doc")
	if err != nil {
		return "", fmt.Errorf("doc extraction: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("doc extraction: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("doc extraction: %w", err)
	}

	out, err := e.runner.Run(ctx, nil, e.docTool, "-w", "0", tmp.Name())
	if err != nil {
		return "", fmt.Errorf("doc extraction: %w", err)
	}
	return strings.TrimSpace(DecodeText(out)), nil
}

// ParseDOCX returns the paragraph text of a .docx archive, one paragraph per line.
// Table cells and text boxes are included in document order.
func ParseDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var doc *zip.File
	for _, zf := range zr.File {
		if zf.Name == "word/document.xml" {
			doc = zf
			break
		}
	}
	if doc == nil {
		return "", errors.New("open docx: word/document.xml not found")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer rc.Close()

	return documentText(rc)
}

// documentText walks WordprocessingML tokens
func documentText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out    strings.Builder
		para   strings.Builder
		inText bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if line := strings.TrimSpace(para.String()); line != "" {
					out.WriteString(line)
					out.WriteByte('\n')
				}
				para.Reset()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}

	return strings.TrimSpace(out.String()), nil
}
