// SPDX-License-Identifier: EPL-2.0

package speechprep

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Recognizer turns a normalized WAV file into text. Implementations should
// wrap ErrModelNotFound or ErrRecognitionFailed so failures classify.
type Recognizer interface {
	Recognize(ctx context.Context, wavPath, modelPath string) (string, error)
}

// Transcribe normalizes data and passes the result to rec. The normalized
// file is released on every return path.
func (p *Pipeline) Transcribe(ctx context.Context, data []byte, rec Recognizer, modelPath string) (string, error) {
	res, err := p.Process(ctx, data)
	if err != nil {
		return "", err
	}
	defer res.Release()

	text, err := rec.Recognize(ctx, res.Path, modelPath)
	if err != nil {
		return "", stageError("recognize", KindRecognitionFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &Error{Kind: KindEmptyTranscript, Op: "recognize", Err: ErrEmptyTranscript}
	}
	return text, nil
}

// TranscribeFile reads path and runs Transcribe on its contents.
func (p *Pipeline) TranscribeFile(ctx context.Context, path string, rec Recognizer, modelPath string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Kind: KindIO, Op: "read", Err: fmt.Errorf("read input: %w", err)}
	}
	return p.Transcribe(ctx, data, rec, modelPath)
}
