package mdpipe

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
)

// Read parses the file at path, decoded from the named charset (an IANA
// encoding name such as "utf-8" or "latin1"). The source path is recorded
// in st.Env under EnvSourceFile before decoding starts, so hooks can see it
// even when decoding fails later.
//
// An unreadable path surfaces the wrapped os error; bytes invalid under the
// requested charset surface ErrDecode. Neither is retried.
func (p *Pipeline) Read(path, charset string, st *ParseState) (any, *ParseState, error) {
	if st == nil {
		st = p.block.NewState()
	}
	if st.Env == nil {
		st.Env = Env{}
	}
	st.Env[EnvSourceFile] = path

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, st, fmt.Errorf("reading %s: %w", path, err)
	}

	source, err := decodeBytes(data, charset)
	if err != nil {
		return nil, st, err
	}

	return p.Parse(source, st)
}

// decodeBytes converts raw file bytes to a string under the named charset.
// UTF-8 takes a validating fast path; everything else goes through the IANA
// registry in x/text.
func decodeBytes(data []byte, charset string) (string, error) {
	if isUTF8Name(charset) {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: input is not valid UTF-8", ErrDecode)
		}
		return string(data), nil
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, charset)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return string(decoded), nil
}

// isUTF8Name reports whether charset names UTF-8 (or is empty, the default).
func isUTF8Name(charset string) bool {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
