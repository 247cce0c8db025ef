package vision

import "context"

// MockAnalyzer is a configurable mock for testing the analysis pipeline.
// Set the function field to control behavior in tests.
type MockAnalyzer struct {
	// AnalyzeGarmentFunc is called when AnalyzeGarment is invoked.
	// If nil, returns empty string and nil error.
	AnalyzeGarmentFunc func(ctx context.Context, imageDataURL string) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// Call tracking for verification
	AnalyzeGarmentCalls int
}

// NewMockAnalyzer creates a new mock with sensible defaults.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{ModelName: "mock-model"}
}

// AnalyzeGarment implements Analyzer.
func (m *MockAnalyzer) AnalyzeGarment(ctx context.Context, imageDataURL string) (string, error) {
	m.AnalyzeGarmentCalls++
	if m.AnalyzeGarmentFunc != nil {
		return m.AnalyzeGarmentFunc(ctx, imageDataURL)
	}
	return "", nil
}

// Model implements Analyzer.
func (m *MockAnalyzer) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Ensure MockAnalyzer implements Analyzer at compile time.
var _ Analyzer = (*MockAnalyzer)(nil)
