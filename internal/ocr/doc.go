// Package ocr reads the English text inside detected UI elements.
//
// Recognition uses the Tesseract engine through gosseract and is only built
// with the tesseract build tag, since it needs the native library:
//
//	go build -tags tesseract ./...
//
// Without the tag New returns ErrUnavailable and callers leave element text
// empty. Tesseract must be installed with English language data:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Element text
//
// ElementText crops the element with a small margin, upscales small crops so
// glyphs reach a size Tesseract handles well, and collapses whitespace in the
// result. Recognition failures are treated as "no text".
package ocr
