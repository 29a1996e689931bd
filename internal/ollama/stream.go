// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxLineBytes caps a single NDJSON line. Longer lines are treated as
// malformed and skipped.
const maxLineBytes = 1 << 20

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader handles line-by-line JSON parsing of streaming responses.
//
// Lines that cannot be decoded are skipped and counted; a line carrying an
// "error" field aborts the stream with that message.
type StreamReader struct {
	reader *bufio.Reader
	logger *zap.Logger

	// throttle limits how often malformed-line warnings are logged.
	throttle *rate.Sometimes

	fragments int
	malformed int
	model     string
}

// NewStreamReader creates a new stream reader from an io.Reader.
// A nil logger disables logging.
func NewStreamReader(r io.Reader, logger *zap.Logger) *StreamReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamReader{
		reader:   bufio.NewReader(r),
		logger:   logger,
		throttle: &rate.Sometimes{First: 3, Interval: 10 * time.Second},
	}
}

// Process reads the stream and calls the callback for each chunk.
// Blocks until the final chunk is delivered, the stream fails, or the
// context is cancelled.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		if err := ctx.Err(); err != nil {
			return transportError(err)
		}

		chunk, err := s.readChunk()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return transportError(ctxErr)
			}
			return err
		}
		if chunk == nil {
			continue
		}

		callback(*chunk)
		if chunk.Done {
			return nil
		}
	}
}

// readChunk reads and parses a single line from the stream. It returns a
// nil chunk and nil error for lines that carry nothing (blank or malformed).
func (s *StreamReader) readChunk() (*StreamChunk, error) {
	line, err := s.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			if len(line) == 0 {
				return nil, ErrStreamIncomplete
			}
			// Process a final unterminated line before reporting EOF.
		} else if !errors.Is(err, errLineTooLong) {
			return nil, &ClientError{Type: ErrTypeConnection, Message: "stream interrupted", Cause: err}
		}
	}

	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, nil
	}

	var response chatStreamLine
	if err := json.Unmarshal(line, &response); err != nil {
		s.skipMalformed(line, err)
		return nil, nil
	}

	if response.Error != "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: response.Error}
	}

	if response.Model != "" {
		s.model = response.Model
	}

	content := response.Message.Content
	if content != "" {
		s.fragments++
	}

	chunk := &StreamChunk{
		Content:    content,
		Done:       response.Done,
		DoneReason: response.DoneReason,
		Model:      s.model,
	}

	if response.Done {
		chunk.TotalDuration = time.Duration(response.TotalDuration)
		chunk.PromptEvalDuration = time.Duration(response.PromptEvalDuration)
		chunk.EvalDuration = time.Duration(response.EvalDuration)
		chunk.PromptTokens = response.PromptEvalCount
		chunk.CompletionTokens = response.EvalCount
	}

	return chunk, nil
}

var errLineTooLong = errors.New("line too long")

// readLine reads up to the next newline. Lines over maxLineBytes are
// consumed and reported as errLineTooLong with an empty payload.
func (s *StreamReader) readLine() ([]byte, error) {
	var buf []byte
	for {
		part, isPrefix, err := s.reader.ReadLine()
		if err != nil {
			return buf, err
		}
		if len(buf)+len(part) > maxLineBytes {
			s.skipMalformed(nil, errLineTooLong)
			for isPrefix {
				_, isPrefix, err = s.reader.ReadLine()
				if err != nil {
					return nil, err
				}
			}
			return nil, errLineTooLong
		}
		buf = append(buf, part...)
		if !isPrefix {
			return buf, nil
		}
	}
}

func (s *StreamReader) skipMalformed(line []byte, cause error) {
	s.malformed++
	n := s.malformed
	s.throttle.Do(func() {
		s.logger.Warn("skipping malformed stream line",
			zap.Int("skipped", n),
			zap.Int("bytes", len(line)),
			zap.Error(cause))
	})
}

// FragmentCount returns the number of non-empty content chunks received.
func (s *StreamReader) FragmentCount() int {
	return s.fragments
}

// MalformedCount returns the number of lines skipped as undecodable.
func (s *StreamReader) MalformedCount() int {
	return s.malformed
}

// Model returns the model name reported by the stream.
func (s *StreamReader) Model() string {
	return s.model
}
