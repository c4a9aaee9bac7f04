package services

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Yıllık satışlar </w:t></w:r><w:r><w:t>yüzde 12 arttı.</w:t></w:r></w:p>
    <w:p><w:r><w:t>İkinci paragraf.</w:t></w:r></w:p>
  </w:body>
</w:document>`

const sharedStrings = `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="3" uniqueCount="3">
  <si><t>Ürün</t></si>
  <si><t>Adet</t></si>
  <si><r><t>Kalem</t></r><r><t> seti</t></r></si>
</sst>`

const sheet1 = `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
    <row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>42</v></c></row>
    <row r="3"><c r="A3" t="inlineStr"><is><t>Toplam</t></is></c></row>
  </sheetData>
</worksheet>`

func TestExtractText_DOCX(t *testing.T) {
	data := buildZip(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   docxBody,
	})

	text, kind, err := ExtractText("rapor.docx", data)

	require.NoError(t, err)
	assert.Equal(t, FileTypeDOCX, kind)
	assert.Equal(t, "Yıllık satışlar yüzde 12 arttı.\nİkinci paragraf.", text)
}

func TestExtractText_XLSX(t *testing.T) {
	data := buildZip(t, map[string]string{
		"xl/workbook.xml":          `<workbook/>`,
		"xl/sharedStrings.xml":     sharedStrings,
		"xl/worksheets/sheet1.xml": sheet1,
	})

	text, kind, err := ExtractText("stok.xlsx", data)

	require.NoError(t, err)
	assert.Equal(t, FileTypeXLSX, kind)
	assert.Equal(t, "Ürün\tAdet\nKalem seti\t42\nToplam", text)
}

func TestExtractText_PlainText(t *testing.T) {
	text, kind, err := ExtractText("notlar.txt", []byte("  Toplantı saat 14:00'te.\n"))

	require.NoError(t, err)
	assert.Equal(t, FileTypeText, kind)
	assert.Equal(t, "Toplantı saat 14:00'te.", text)
}

func TestExtractText_TextWithoutExtension(t *testing.T) {
	_, kind, err := ExtractText("README", []byte("düz metin içerik"))

	require.NoError(t, err)
	assert.Equal(t, FileTypeText, kind)
}

func TestExtractText_Image(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)

	text, kind, err := ExtractText("grafik.png", png)

	require.NoError(t, err)
	assert.Equal(t, FileTypeImage, kind)
	assert.Equal(t, "[Görsel dosya: grafik.png]", text)
}

func TestExtractText_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, _, err := ExtractText("bos.txt", nil)
		assert.ErrorContains(t, err, "empty file")
	})

	t.Run("binary", func(t *testing.T) {
		_, _, err := ExtractText("veri.bin", []byte{0x00, 0x01, 0x02, 0x03})
		assert.ErrorIs(t, err, ErrUnsupportedFile)
	})

	t.Run("plain zip", func(t *testing.T) {
		data := buildZip(t, map[string]string{"foo.txt": "bar"})
		_, _, err := ExtractText("arsiv.zip", data)
		assert.ErrorIs(t, err, ErrUnsupportedFile)
	})

	t.Run("docx without text", func(t *testing.T) {
		data := buildZip(t, map[string]string{"word/document.xml": `<w:document xmlns:w="x"><w:body/></w:document>`})
		_, kind, err := ExtractText("bos.docx", data)
		assert.Equal(t, FileTypeDOCX, kind)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnsupportedFile)
	})

	t.Run("broken pdf", func(t *testing.T) {
		_, kind, err := ExtractText("bozuk.pdf", []byte("%PDF-1.4 not really a pdf"))
		assert.Equal(t, FileTypePDF, kind)
		assert.Error(t, err)
	})
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", collapseWhitespace(" a  b\n\tc "))
}
