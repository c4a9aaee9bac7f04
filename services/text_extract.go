package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

// ErrUnsupportedFile is returned for uploads we cannot read.
var ErrUnsupportedFile = errors.New("unsupported file type")

// File kinds stored on UploadedFile.FileType
const (
	FileTypePDF   = "pdf"
	FileTypeDOCX  = "docx"
	FileTypeXLSX  = "xlsx"
	FileTypeText  = "text"
	FileTypeImage = "image"
)

var textExtensions = map[string]bool{".txt": true, ".md": true, ".markdown": true, ".csv": true, ".json": true}

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".bmp": true}

// DetectFileType sniffs magic bytes first and falls back to the extension.
func DetectFileType(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case isPDF(data):
		return FileTypePDF, nil
	case isZip(data):
		return detectOpenXMLKind(data)
	case isImage(data) || imageExtensions[ext]:
		return FileTypeImage, nil
	case textExtensions[ext] || (utf8.Valid(data) && isProbablyText(data)):
		return FileTypeText, nil
	}
	return "", fmt.Errorf("%w: name=%s ext=%s", ErrUnsupportedFile, name, ext)
}

// ExtractText returns the readable text of an upload and its detected kind.
// Images carry no text; they get a marker the LLM can refer to.
func ExtractText(name string, data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("empty file: name=%s", name)
	}

	kind, err := DetectFileType(name, data)
	if err != nil {
		return "", "", err
	}

	var text string
	switch kind {
	case FileTypePDF:
		text, err = extractPDF(data)
	case FileTypeDOCX:
		text, err = extractDOCX(data)
	case FileTypeXLSX:
		text, err = extractXLSX(data)
	case FileTypeImage:
		text = fmt.Sprintf("[Görsel dosya: %s]", name)
	default:
		text = strings.TrimSpace(strings.ToValidUTF8(string(data), ""))
	}
	if err != nil {
		return "", kind, err
	}
	return text, kind, nil
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func isImage(b []byte) bool {
	switch {
	case bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")):
		return true
	case bytes.HasPrefix(b, []byte{0xFF, 0xD8, 0xFF}):
		return true
	case bytes.HasPrefix(b, []byte("GIF87a")), bytes.HasPrefix(b, []byte("GIF89a")):
		return true
	case len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP":
		return true
	}
	return false
}

func isProbablyText(b []byte) bool {
	sample := b[:min(len(b), 4096)]
	if len(sample) == 0 {
		return false
	}
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || c >= 0x20 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return collapseWhitespace(string(b)), nil
}

func detectOpenXMLKind(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("zip: %w", err)
	}
	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return FileTypeDOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return FileTypeXLSX, nil
		}
	}
	return "", fmt.Errorf("%w: zip is not a docx or xlsx", ErrUnsupportedFile)
}

// extractDOCX gathers the <w:t> runs of word/document.xml, one line per paragraph.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	b, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return "", err
	}

	dec := xml.NewDecoder(bytes.NewReader(b))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "t" {
				var v string
				_ = dec.DecodeElement(&v, &se)
				out.WriteString(v)
			}
		case xml.EndElement:
			if se.Name.Local == "p" {
				out.WriteString("\n")
			}
		}
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("no text extracted from docx")
	}
	return text, nil
}

// extractXLSX renders every worksheet as tab separated rows. Cell strings are
// resolved through xl/sharedStrings.xml.
func extractXLSX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var shared []string
	if b, err := readZipFile(zr, "xl/sharedStrings.xml"); err == nil {
		shared = parseSharedStrings(b)
	}

	var out strings.Builder
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "xl/worksheets/") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		b, err := readZipFile(zr, f.Name)
		if err != nil {
			return "", err
		}
		writeSheet(&out, b, shared)
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("no text extracted from xlsx")
	}
	return text, nil
}

type xlsxCell struct {
	Type   string `xml:"t,attr"`
	Value  string `xml:"v"`
	Inline string `xml:"is>t"`
}

type xlsxRow struct {
	Cells []xlsxCell `xml:"c"`
}

func writeSheet(out *strings.Builder, b []byte, shared []string) {
	dec := xml.NewDecoder(bytes.NewReader(b))
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "row" {
			continue
		}
		var row xlsxRow
		if err := dec.DecodeElement(&row, &se); err != nil {
			continue
		}
		values := make([]string, 0, len(row.Cells))
		for _, c := range row.Cells {
			values = append(values, cellText(c, shared))
		}
		line := strings.TrimRight(strings.Join(values, "\t"), "\t")
		if line != "" {
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
}

func cellText(c xlsxCell, shared []string) string {
	switch c.Type {
	case "s":
		var idx int
		if _, err := fmt.Sscan(c.Value, &idx); err == nil && idx >= 0 && idx < len(shared) {
			return shared[idx]
		}
		return ""
	case "inlineStr":
		return c.Inline
	default:
		return c.Value
	}
}

func parseSharedStrings(b []byte) []string {
	var sst struct {
		Items []struct {
			Text string `xml:"t"`
			Runs []struct {
				Text string `xml:"t"`
			} `xml:"r"`
		} `xml:"si"`
	}
	if err := xml.Unmarshal(b, &sst); err != nil {
		return nil
	}
	out := make([]string, 0, len(sst.Items))
	for _, si := range sst.Items {
		if si.Text != "" || len(si.Runs) == 0 {
			out = append(out, si.Text)
			continue
		}
		var sb strings.Builder
		for _, r := range si.Runs {
			sb.WriteString(r.Text)
		}
		out = append(out, sb.String())
	}
	return out
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
