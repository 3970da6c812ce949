package ports

// Compressor transforms built content for a content coding.
//
//go:generate mockgen -source=compressor.go -destination=mocks/mock_compressor.go -package=mocks
type Compressor interface {
	// Compress returns the encoded form of data.
	Compress(data []byte) ([]byte, error)

	// Encoding returns the Content-Encoding token of the output.
	Encoding() string
}
