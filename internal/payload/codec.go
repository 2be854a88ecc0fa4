// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
)

// DefaultMaxDecodedBytes is the decoded-size ceiling used when none is configured.
const DefaultMaxDecodedBytes int64 = 1 << 20

// Failure reasons reported in EncodingError.Reason.
const (
	ReasonBase64      = "invalid base64"
	ReasonCompression = "invalid compressed stream"
	ReasonTooLarge    = "decoded payload too large"
	ReasonText        = "invalid text encoding"
)

// ErrEncoding is the sentinel error wrapped by EncodingError.
var ErrEncoding = errors.New("payload encoding error")

type (
	// Codec decodes payloads. The zero value imposes no size limit.
	Codec struct {
		// MaxDecodedBytes caps the decompressed size. Zero or negative disables the cap.
		MaxDecodedBytes int64
	}

	// EncodingError is returned when a payload cannot be turned back into text.
	EncodingError struct {
		Reason string
		Err    error
	}
)

// Error implements the error interface.
func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

// Unwrap returns ErrEncoding for errors.Is() compatibility.
func (e *EncodingError) Unwrap() error { return ErrEncoding }

// NewCodec returns a Codec with the given decoded-size ceiling.
func NewCodec(maxDecodedBytes int64) Codec {
	return Codec{MaxDecodedBytes: maxDecodedBytes}
}

// Decode turns an encoded payload back into the argument string.
func (c Codec) Decode(encoded string) (string, error) {
	// Some browsers percent-escape '+', '/' and '='. The base64 alphabet has no
	// '%', so unescaping can only repair such input.
	if strings.Contains(encoded, "%") {
		if unescaped, err := url.PathUnescape(encoded); err == nil {
			encoded = unescaped
		}
	}

	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &EncodingError{Reason: ReasonBase64, Err: err}
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", &EncodingError{Reason: ReasonCompression, Err: err}
	}
	defer func() { _ = zr.Close() }()

	var src io.Reader = zr
	if c.MaxDecodedBytes > 0 {
		src = io.LimitReader(zr, c.MaxDecodedBytes+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", &EncodingError{Reason: ReasonCompression, Err: err}
	}
	if c.MaxDecodedBytes > 0 && int64(len(data)) > c.MaxDecodedBytes {
		return "", &EncodingError{
			Reason: ReasonTooLarge,
			Err:    fmt.Errorf("limit is %d bytes", c.MaxDecodedBytes),
		}
	}
	if !utf8.Valid(data) {
		return "", &EncodingError{Reason: ReasonText}
	}

	return string(data), nil
}

// Encode compresses args and base64-encodes the result.
func Encode(args string) (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := io.WriteString(zw, args); err != nil {
		return "", fmt.Errorf("compress payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
