package models

// FileInput - файл для multipart-загрузки. Нулевое значение означает отсутствие файла
type FileInput struct {
	present  bool
	Name     string
	MimeType string
	Data     []byte
}

// NewFile - присутствующий файл
func NewFile(data []byte, name, mimeType string) FileInput {
	return FileInput{present: true, Name: name, MimeType: mimeType, Data: data}
}

// NoFile - явное отсутствие файла
func NoFile() FileInput {
	return FileInput{}
}

// Present - файл есть и у него есть имя и содержимое
func (f FileInput) Present() bool {
	return f.present && f.Name != "" && len(f.Data) > 0
}
