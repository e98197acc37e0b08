package transport

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"socialweb/models"
)

type filePart struct {
	field string
	file  models.FileInput
}

// Multipart - тело multipart/form-data. Content-Type с boundary выставляет клиент
type Multipart struct {
	fields [][2]string
	files  []filePart
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, [2]string{name, value})
	return m
}

// File добавляет файл, отсутствующий файл пропускается
func (m *Multipart) File(field string, file models.FileInput) *Multipart {
	if file.Present() {
		m.files = append(m.files, filePart{field: field, file: file})
	}
	return m
}

// encode возвращает тело и Content-Type вместе с boundary
func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, f := range m.fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f[0], err)
		}
	}
	for _, p := range m.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.file.Name))
		mimeType := p.file.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		h.Set("Content-Type", mimeType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", p.field, err)
		}
		if _, err = part.Write(p.file.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file %s: %w", p.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
