package port

// TextExtractor recovers the plain text layer from PDF bytes.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}
