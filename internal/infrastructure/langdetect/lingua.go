package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// MinLetters is the shortest input (in letters) worth running detection on.
const MinLetters = 6

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Result is a detected language with the detector's confidence in [0, 1].
type Result struct {
	Code       string
	Name       string
	Confidence float64
}

// Detect returns the most likely ISO 639-1 language of text.
// ok is false when the text is too short or no language could be determined.
func Detect(text string) (Result, bool) {
	sample := strings.TrimSpace(text)
	if countLetters(sample) < MinLetters {
		return Result{}, false
	}

	d := getDetector()
	language, exists := d.DetectLanguageOf(sample)
	if !exists {
		return Result{}, false
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return Result{}, false
	}
	return Result{
		Code:       code,
		Name:       language.String(),
		Confidence: d.ComputeLanguageConfidence(sample, language),
	}, true
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		// models load lazily on first use of each language
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build()
	})
	return detector
}
