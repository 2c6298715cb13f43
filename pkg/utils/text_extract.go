package utils

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	ExtPDF  = "pdf"
	ExtDOCX = "docx"
	ExtTXT  = "txt"
)

var contentTypes = map[string]string{
	ExtPDF:  "application/pdf",
	ExtDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	ExtTXT:  "text/plain",
}

// DocumentExtension returns the lower-cased extension of filename when it is
// one of the accepted upload types.
func DocumentExtension(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	_, ok := contentTypes[ext]
	return ext, ok
}

func ContentTypeFor(ext string) string {
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ExtractText reads the plain text of a stored document.
func ExtractText(path, ext string) (string, error) {
	var (
		text string
		err  error
	)
	switch ext {
	case ExtPDF:
		text, err = extractPDF(path)
	case ExtDOCX:
		text, err = extractDOCX(path)
	case ExtTXT:
		var raw []byte
		raw, err = os.ReadFile(path)
		text = string(bytes.ToValidUTF8(raw, []byte("�")))
	default:
		return "", ErrUnsupportedFileType
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", ext, err)
	}
	return strings.TrimSpace(text), nil
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractDOCX walks word/document.xml, emitting w:t runs and a newline per
// paragraph.
func extractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		return readWordXML(rc)
	}
	return "", errors.New("word/document.xml not found")
}

func readWordXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		sb     strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
