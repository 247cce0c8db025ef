// Package vision submits garment images to an externally hosted multimodal
// model and returns its raw text verdict. The model is treated as an opaque
// capability: no retries, no response interpretation beyond returning the
// text.
package vision

import "context"

// Analyzer is the interface handlers and services depend on.
// Use the mock implementation for tests.
type Analyzer interface {
	// AnalyzeGarment sends the image (a data-URL-encoded bitmap or bare
	// base64 payload) together with the fixed inspection instruction and
	// returns the model's full text reply. The call runs under the
	// configured timeout.
	AnalyzeGarment(ctx context.Context, imageDataURL string) (string, error)

	// Model returns the configured model identifier.
	Model() string
}
