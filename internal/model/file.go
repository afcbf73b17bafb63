package model

// FileCategory is the coarse content class of an upload.
type FileCategory string

const (
	CategoryImage    FileCategory = "image"
	CategoryDocument FileCategory = "document"
	CategoryVideo    FileCategory = "video"
	CategoryAudio    FileCategory = "audio"
	CategoryArchive  FileCategory = "archive"
	CategoryText     FileCategory = "text"
)

// FileInfo describes an upload as declared by the client.
type FileInfo struct {
	Name     string
	Size     int64
	MIMEType string
}

// FileValidationResult is the accept decision of the file validator.
type FileValidationResult struct {
	Accepted          bool
	Category          FileCategory
	SignatureChecked  bool
	SignatureDegraded bool
}
